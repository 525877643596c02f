package ui

import (
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results are written
type Format int

const (
	// FormatAuto picks term or text from the output's capabilities
	FormatAuto Format = iota
	// FormatTerminal writes styled, colored lines
	FormatTerminal
	// FormatText writes plain lines
	FormatText
	// FormatJSON writes one JSON object per line
	FormatJSON
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
	FormatJSON:     "json",
}

// formatAliases maps every accepted spelling to its format
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat parses a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
		WithDetail("known", []string{"auto", "term", "text", "json"})
}

// fdWriter is a writer backed by a file descriptor, like *os.File
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// DetectFormat picks term for color-capable terminals and text for
// everything else, including NO_COLOR and writers that are not terminals
func DetectFormat(output io.Writer) Format {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return FormatText
	}

	f, ok := output.(fdWriter)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return FormatText
	}

	if termenv.NewOutput(output).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
