package ui

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/operations"
)

// jsonRenderer writes one JSON object per line for machine consumption
type jsonRenderer struct {
	encoder *json.Encoder
}

type jsonResult struct {
	Package     string `json:"package"`
	Action      string `json:"action"`
	Destination string `json:"destination,omitempty"`
	Message     string `json:"message,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

type jsonSummary struct {
	Total      int            `json:"total"`
	Counts     map[string]int `json:"counts"`
	DryRun     bool           `json:"dry_run,omitempty"`
	DurationMS int64          `json:"duration_ms"`
}

type jsonError struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func newJSONRenderer(w io.Writer) *jsonRenderer {
	return &jsonRenderer{encoder: json.NewEncoder(w)}
}

func (r *jsonRenderer) Report(result operations.Result) {
	_ = r.encoder.Encode(jsonResult{
		Package:     result.Package,
		Action:      string(result.Action),
		Destination: result.Destination,
		Message:     result.Message,
		DryRun:      result.DryRun,
	})
}

func (r *jsonRenderer) RenderPlan(lines []PlanLine) error {
	for _, line := range lines {
		if err := r.encoder.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

func (r *jsonRenderer) RenderSummary(summary Summary) error {
	counts := make(map[string]int, len(summary.Counts))
	for action, n := range summary.Counts {
		counts[string(action)] = n
	}
	return r.encoder.Encode(jsonSummary{
		Total:      summary.Total,
		Counts:     counts,
		DryRun:     summary.DryRun,
		DurationMS: summary.Duration.Milliseconds(),
	})
}

func (r *jsonRenderer) RenderError(err error) error {
	out := jsonError{Error: errorMessage(err), Code: string(errors.GetErrorCode(err))}
	if details := CollectDetails(err); len(details) > 0 {
		out.Details = make(map[string]interface{}, len(details))
		for _, d := range details {
			out.Details[d.Key] = d.Value
		}
	}
	return r.encoder.Encode(out)
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.encoder.Encode(map[string]string{"message": msg})
}
