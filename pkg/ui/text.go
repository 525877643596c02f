package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/operations"
)

// textRenderer writes plain, unstyled lines
type textRenderer struct {
	output io.Writer
}

func newTextRenderer(w io.Writer) *textRenderer {
	return &textRenderer{output: w}
}

func (r *textRenderer) Report(result operations.Result) {
	var b strings.Builder
	if result.DryRun {
		b.WriteString("[dry-run] ")
	}
	fmt.Fprintf(&b, "%-12s%s (%s)", result.Action, destinationOrDash(result.Destination), result.Package)
	if result.Message != "" {
		b.WriteString(" ")
		b.WriteString(result.Message)
	}
	_, _ = fmt.Fprintln(r.output, b.String())
}

func (r *textRenderer) RenderPlan(lines []PlanLine) error {
	for _, line := range lines {
		text := fmt.Sprintf("%-12s%-12s%s", line.Package, line.Operation, destinationOrDash(line.Destination))
		if line.Reason != "" {
			text += " (" + line.Reason + ")"
		}
		if line.Digest != "" {
			text += " " + line.Digest
		}
		if _, err := fmt.Fprintln(r.output, text); err != nil {
			return err
		}
	}
	return nil
}

func (r *textRenderer) RenderSummary(summary Summary) error {
	prefix := ""
	if summary.DryRun {
		prefix = "[dry-run] "
	}
	parts := summary.Parts()
	if len(parts) == 0 {
		_, err := fmt.Fprintf(r.output, "%snothing to do\n", prefix)
		return err
	}
	_, err := fmt.Fprintf(r.output, "%s%d operations: %s\n", prefix, summary.Total, strings.Join(parts, ", "))
	return err
}

func (r *textRenderer) RenderError(err error) error {
	if _, werr := fmt.Fprintf(r.output, "Error: %s\n", errorMessage(err)); werr != nil {
		return werr
	}
	for _, d := range CollectDetails(err) {
		if _, werr := fmt.Fprintf(r.output, "  %s: %v\n", d.Key, d.Value); werr != nil {
			return werr
		}
	}
	return nil
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// errorMessage drops the [CODE] prefix of coded errors
func errorMessage(err error) string {
	msg := err.Error()
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg = strings.TrimPrefix(msg, "["+string(code)+"] ")
	}
	return msg
}
