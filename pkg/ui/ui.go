// Package ui renders scaffold's user-facing output: one status line per
// processed operation, the plan listing, the run summary and errors.
// It supports terminal (styled), text (plain) and JSON output formats.
package ui

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/operations"
)

// Renderer is the common interface for all output renderers.
// It doubles as the operations.Reporter the engine reports through.
type Renderer interface {
	operations.Reporter

	// RenderPlan lists the planned operations without executing them
	RenderPlan(lines []PlanLine) error

	// RenderSummary renders the totals of a finished run
	RenderSummary(summary Summary) error

	// RenderError renders an error with its details
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// PlanLine is one planned operation as listed by the plan command
type PlanLine struct {
	Package     string `json:"package"`
	Operation   string `json:"operation"`
	Destination string `json:"destination"`
	Reason      string `json:"reason,omitempty"`
	Digest      string `json:"digest,omitempty"`
}

// Summary totals the results of a run
type Summary struct {
	Counts   map[operations.Action]int
	Total    int
	DryRun   bool
	Duration time.Duration
}

// summaryOrder is the order actions appear in a summary
var summaryOrder = []operations.Action{
	operations.ActionConfigured,
	operations.ActionCreated,
	operations.ActionOverwritten,
	operations.ActionMerged,
	operations.ActionDeleted,
	operations.ActionSkipped,
}

// NewSummary counts results per action
func NewSummary(results []operations.Result, dryRun bool, duration time.Duration) Summary {
	counts := make(map[operations.Action]int)
	for _, r := range results {
		counts[r.Action]++
	}
	return Summary{Counts: counts, Total: len(results), DryRun: dryRun, Duration: duration}
}

// Parts returns the non-zero counts as "N action" strings in display order
func (s Summary) Parts() []string {
	var parts []string
	for _, action := range summaryOrder {
		if n := s.Counts[action]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, action))
		}
	}
	return parts
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		return NewRenderer(DetectFormat(output), output)
	case FormatTerminal:
		return newTerminalRenderer(output, DefaultTheme()), nil
	case FormatText:
		return newTextRenderer(output), nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// ErrorDetail is one key/value pair gathered from an error chain
type ErrorDetail struct {
	Key   string
	Value interface{}
}

// CollectDetails gathers the details of every coded error in the chain.
// Outer errors win when a key repeats; keys come back sorted.
func CollectDetails(err error) []ErrorDetail {
	seen := make(map[string]interface{})
	for err != nil {
		var scaffoldErr *errors.ScaffoldError
		if !stderrors.As(err, &scaffoldErr) {
			break
		}
		for k, v := range scaffoldErr.Details {
			if _, ok := seen[k]; !ok {
				seen[k] = v
			}
		}
		err = scaffoldErr.Wrapped
	}

	details := make([]ErrorDetail, 0, len(seen))
	for k, v := range seen {
		details = append(details, ErrorDetail{Key: k, Value: v})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Key < details[j].Key })
	return details
}

func destinationOrDash(dest string) string {
	if dest == "" {
		return "-"
	}
	return dest
}
