package merge

import (
	"path"
	"regexp"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
)

// Format is the structural grammar used to merge a destination
type Format int

const (
	// FormatUnknown is returned alongside detection errors
	FormatUnknown Format = iota
	// FormatLine is a list of records keyed by their first token
	FormatLine
	// FormatEnv is a list of KEY=value records
	FormatEnv
	// FormatJSON is a JSON document
	FormatJSON
	// FormatYAML is a YAML document
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatLine:
		return "line-record"
	case FormatEnv:
		return "key-value-env"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// lineRecordName matches ignore and attribute files by bare name,
// optionally carrying the template suffix.
var lineRecordName = regexp.MustCompile(`^\.[a-z]*(ignore|attributes)(\.tmpl)?$`)

// DetectFormat picks the merge format from a destination path. Rules are
// checked in order and are case-sensitive:
//
//  1. the path contains ".env"
//  2. the base name is an ignore/attribute file
//  3. the path contains ".json"
//  4. the path contains ".yaml" or ".yml"
func DetectFormat(p string) (Format, error) {
	p = strings.ReplaceAll(p, "\\", "/")

	switch {
	case strings.Contains(p, ".env"):
		return FormatEnv, nil
	case lineRecordName.MatchString(path.Base(p)):
		return FormatLine, nil
	case strings.Contains(p, ".json"):
		return FormatJSON, nil
	case strings.Contains(p, ".yaml"), strings.Contains(p, ".yml"):
		return FormatYAML, nil
	}

	return FormatUnknown, errors.Newf(errors.ErrMergeFormat, "cannot detect merge format for %s", p).
		WithDetail("path", p)
}
