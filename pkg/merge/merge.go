package merge

import (
	"bytes"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
)

// Merge reconciles the current content of a destination (original) with
// newly generated content (incoming) using the given format. The name is
// only used to label errors and log lines.
//
// Empty incoming content leaves the original untouched, and a blank
// original is simply replaced by the incoming content.
func Merge(original, incoming []byte, format Format, name string) ([]byte, error) {
	logger := logging.GetLogger("merge").With().
		Str("file", name).
		Str("format", format.String()).
		Logger()

	if len(incoming) == 0 {
		logger.Trace().Msg("Nothing incoming, keeping original")
		return original, nil
	}
	if len(bytes.TrimSpace(original)) == 0 {
		logger.Trace().Msg("Original is blank, taking incoming")
		return incoming, nil
	}

	var (
		merged []byte
		err    error
	)
	switch format {
	case FormatLine:
		merged = mergeLines(original, incoming, recordKey)
	case FormatEnv:
		merged = mergeLines(original, incoming, envKey)
	case FormatJSON:
		merged, err = mergeJSON(original, incoming, name)
	case FormatYAML:
		merged, err = mergeYAML(original, incoming, name)
	default:
		return nil, errors.Newf(errors.ErrMergeFormat, "cannot merge %s: unsupported format %s", name, format).
			WithDetail("file", name)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("originalBytes", len(original)).
		Int("mergedBytes", len(merged)).
		Bool("changed", !bytes.Equal(original, merged)).
		Msg("Merged content")
	return merged, nil
}

// MergeFile merges using the format detected from the destination path
func MergeFile(original, incoming []byte, destination string) ([]byte, error) {
	format, err := DetectFormat(destination)
	if err != nil {
		return nil, err
	}
	return Merge(original, incoming, format, destination)
}
