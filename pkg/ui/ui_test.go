package ui_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, format ui.Format) (ui.Renderer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := ui.NewRenderer(format, &buf)
	require.NoError(t, err)
	return r, &buf
}

func TestNewRenderer(t *testing.T) {
	for _, format := range []ui.Format{ui.FormatAuto, ui.FormatTerminal, ui.FormatText, ui.FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			r, _ := newRenderer(t, format)
			assert.NotNil(t, r)
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := ui.NewRenderer(ui.Format(42), &bytes.Buffer{})
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestTextReport(t *testing.T) {
	tests := []struct {
		name     string
		result   operations.Result
		expected string
	}{
		{
			name:     "created",
			result:   operations.Result{Package: "base", Action: operations.ActionCreated, Destination: "[project-root]/.env"},
			expected: "created     [project-root]/.env (base)\n",
		},
		{
			name:     "skipped_with_reason",
			result:   operations.Result{Package: "web", Action: operations.ActionSkipped, Destination: "[web-root]/robots.txt", Message: "overridden by site"},
			expected: "skipped     [web-root]/robots.txt (web) overridden by site\n",
		},
		{
			name:     "configured_without_destination",
			result:   operations.Result{Package: "base", Action: operations.ActionConfigured, Message: "2 variables"},
			expected: "configured  - (base) 2 variables\n",
		},
		{
			name:     "dry_run",
			result:   operations.Result{Package: "base", Action: operations.ActionMerged, Destination: "[project-root]/.gitignore", DryRun: true},
			expected: "[dry-run] merged      [project-root]/.gitignore (base)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, buf := newRenderer(t, ui.FormatText)
			r.Report(tt.result)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestTerminalReport(t *testing.T) {
	r, buf := newRenderer(t, ui.FormatTerminal)
	r.Report(operations.Result{
		Package:     "base",
		Action:      operations.ActionOverwritten,
		Destination: "[project-root]/Makefile",
		Message:     "from base:Makefile",
		DryRun:      true,
	})

	out := buf.String()
	assert.Contains(t, out, "[dry-run]")
	assert.Contains(t, out, "overwritten")
	assert.Contains(t, out, "[project-root]/Makefile")
	assert.Contains(t, out, "(base)")
	assert.Contains(t, out, "from base:Makefile")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestJSONReport(t *testing.T) {
	r, buf := newRenderer(t, ui.FormatJSON)
	r.Report(operations.Result{Package: "base", Action: operations.ActionCreated, Destination: "[project-root]/a"})
	r.Report(operations.Result{Package: "base", Action: operations.ActionSkipped, Message: "declared skip", DryRun: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "created", first["action"])
	assert.Equal(t, "[project-root]/a", first["destination"])
	assert.NotContains(t, first, "dry_run")
	assert.Equal(t, "declared skip", second["message"])
	assert.Equal(t, true, second["dry_run"])
	assert.NotContains(t, second, "destination")
}

func TestSummary(t *testing.T) {
	results := []operations.Result{
		{Action: operations.ActionCreated},
		{Action: operations.ActionSkipped},
		{Action: operations.ActionCreated},
		{Action: operations.ActionConfigured},
	}
	summary := ui.NewSummary(results, false, time.Second)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, []string{"1 configured", "2 created", "1 skipped"}, summary.Parts())

	t.Run("text", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatText)
		require.NoError(t, r.RenderSummary(summary))
		assert.Equal(t, "4 operations: 1 configured, 2 created, 1 skipped\n", buf.String())
	})

	t.Run("text_empty_dry_run", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatText)
		require.NoError(t, r.RenderSummary(ui.NewSummary(nil, true, 0)))
		assert.Equal(t, "[dry-run] nothing to do\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatJSON)
		require.NoError(t, r.RenderSummary(summary))

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, float64(4), out["total"])
		assert.Equal(t, float64(1000), out["duration_ms"])
		assert.Equal(t, map[string]interface{}{"configured": float64(1), "created": float64(2), "skipped": float64(1)}, out["counts"])
	})
}

func TestRenderPlan(t *testing.T) {
	lines := []ui.PlanLine{
		{Package: "base", Operation: "create", Destination: "[project-root]/a"},
		{Package: "base", Operation: "skip", Destination: "[project-root]/b", Reason: "overridden by site"},
		{Package: "site", Operation: "read-config", Digest: "abc123"},
	}

	t.Run("text", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatText)
		require.NoError(t, r.RenderPlan(lines))
		assert.Equal(t,
			"base        create      [project-root]/a\n"+
				"base        skip        [project-root]/b (overridden by site)\n"+
				"site        read-config - abc123\n",
			buf.String())
	})

	t.Run("terminal_groups_by_package", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatTerminal)
		require.NoError(t, r.RenderPlan(lines))
		out := buf.String()
		assert.Equal(t, 1, strings.Count(out, "base\n"))
		assert.Contains(t, out, "overridden by site")
	})

	t.Run("json", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatJSON)
		require.NoError(t, r.RenderPlan(lines))
		assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
		assert.Contains(t, buf.String(), `"reason":"overridden by site"`)
	})
}

func TestRenderError(t *testing.T) {
	inner := errors.New(errors.ErrSourceNotFound, "source not found").WithDetail("source", "assets/x")
	err := errors.Wrap(inner, errors.ErrInternal, "package failed").WithDetail("package", "base")

	t.Run("text", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatText)
		require.NoError(t, r.RenderError(err))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "Error: package failed"))
		assert.Contains(t, out, "  package: base\n")
		assert.Contains(t, out, "  source: assets/x\n")
		assert.Less(t, strings.Index(out, "package: base"), strings.Index(out, "source: assets/x"))
	})

	t.Run("json", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatJSON)
		require.NoError(t, r.RenderError(err))

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "INTERNAL", out["code"])
		assert.Equal(t, map[string]interface{}{"package": "base", "source": "assets/x"}, out["details"])
	})

	t.Run("plain_error", func(t *testing.T) {
		r, buf := newRenderer(t, ui.FormatText)
		require.NoError(t, r.RenderError(fmt.Errorf("boom")))
		assert.Equal(t, "Error: boom\n", buf.String())
	})
}

func TestCollectDetailsOuterWins(t *testing.T) {
	inner := errors.New(errors.ErrFileWrite, "write").WithDetail("path", "inner")
	outer := errors.Wrap(inner, errors.ErrInternal, "outer").WithDetail("path", "outer")

	details := ui.CollectDetails(outer)
	require.Len(t, details, 1)
	assert.Equal(t, "outer", details[0].Value)
}

func TestTheme(t *testing.T) {
	theme := ui.DefaultTheme()
	for _, action := range []operations.Action{
		operations.ActionCreated, operations.ActionOverwritten, operations.ActionMerged,
		operations.ActionConfigured, operations.ActionDeleted, operations.ActionSkipped,
	} {
		assert.True(t, theme.Has(string(action)), "missing style for %s", action)
	}
	assert.False(t, theme.Has("Nope"))

	_, err := ui.LoadTheme([]byte("colors: [oops"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}
