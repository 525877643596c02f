package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/operations"
)

// terminalRenderer writes lines styled with the theme
type terminalRenderer struct {
	output io.Writer
	theme  *Theme
}

func newTerminalRenderer(w io.Writer, theme *Theme) *terminalRenderer {
	return &terminalRenderer{output: w, theme: theme}
}

func (r *terminalRenderer) Report(result operations.Result) {
	var b strings.Builder
	if result.DryRun {
		b.WriteString(r.theme.Get("DryRun").Render("[dry-run]"))
		b.WriteString(" ")
	}
	b.WriteString(r.theme.Get(string(result.Action)).Render(string(result.Action)))
	b.WriteString(r.theme.Get("Path").Render(destinationOrDash(result.Destination)))
	b.WriteString(" ")
	b.WriteString(r.theme.Get("Package").Render("(" + result.Package + ")"))
	if result.Message != "" {
		b.WriteString(" ")
		b.WriteString(r.theme.Get("Message").Render(result.Message))
	}
	_, _ = fmt.Fprintln(r.output, b.String())
}

func (r *terminalRenderer) RenderPlan(lines []PlanLine) error {
	current := ""
	for _, line := range lines {
		if line.Package != current {
			current = line.Package
			if _, err := fmt.Fprintln(r.output, r.theme.Get("Summary").UnsetMarginTop().Render(current)); err != nil {
				return err
			}
		}
		text := "  " + r.theme.Get(planStyle(line.Operation)).Render(line.Operation) +
			r.theme.Get("Path").Render(destinationOrDash(line.Destination))
		if line.Reason != "" {
			text += " " + r.theme.Get("Message").Render(line.Reason)
		}
		if line.Digest != "" {
			text += " " + r.theme.Get("Package").Render(line.Digest)
		}
		if _, err := fmt.Fprintln(r.output, text); err != nil {
			return err
		}
	}
	return nil
}

// planStyle maps an operation name onto the style of the action it produces
func planStyle(operation string) string {
	switch operation {
	case "create":
		return string(operations.ActionCreated)
	case "overwrite":
		return string(operations.ActionOverwritten)
	case "merge":
		return string(operations.ActionMerged)
	case "read-config":
		return string(operations.ActionConfigured)
	default:
		return string(operations.ActionSkipped)
	}
}

func (r *terminalRenderer) RenderSummary(summary Summary) error {
	prefix := ""
	if summary.DryRun {
		prefix = r.theme.Get("DryRun").Render("[dry-run]") + " "
	}
	parts := summary.Parts()
	text := "nothing to do"
	if len(parts) > 0 {
		text = fmt.Sprintf("%d operations: %s", summary.Total, strings.Join(parts, ", "))
	}
	_, err := fmt.Fprintln(r.output, r.theme.Get("Summary").Render(prefix+text))
	return err
}

func (r *terminalRenderer) RenderError(err error) error {
	if _, werr := fmt.Fprintln(r.output, r.theme.Get("Error").Render("Error: ")+errorMessage(err)); werr != nil {
		return werr
	}
	for _, d := range CollectDetails(err) {
		line := r.theme.Get("Detail").Render(fmt.Sprintf("%s: %v", d.Key, d.Value))
		if _, werr := fmt.Fprintln(r.output, line); werr != nil {
			return werr
		}
	}
	return nil
}

func (r *terminalRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
