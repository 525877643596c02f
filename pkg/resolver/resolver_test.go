package resolver

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/filesystem"
	"github.com/arthur-debert/scaffold/pkg/operations"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPackage(t *testing.T, fsys types.FS, files ...string) *types.Package {
	t.Helper()
	pkg := &types.Package{Name: "base", Path: "/packages/base", AssetsDir: "assets"}
	for _, file := range files {
		abs := filepath.Join(pkg.AssetsPath(), filepath.FromSlash(file))
		require.NoError(t, fsys.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, fsys.WriteFile(abs, []byte(file), 0644))
	}
	return pkg
}

type summary struct {
	Destination string
	Source      string
	Operation   string
}

func summarize(entries []Entry) []summary {
	out := make([]summary, len(entries))
	for i, e := range entries {
		out[i] = summary{
			Destination: e.Destination,
			Source:      e.Operation.Source().Relative(),
			Operation:   operations.Name(e.Operation),
		}
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		files    []string
		assets   map[string]interface{}
		expected []summary
	}{
		{
			name:   "bare_string",
			files:  []string{".gitignore"},
			assets: map[string]interface{}{"merge": ".gitignore"},
			expected: []summary{
				{Destination: "[project-root]/.gitignore", Source: ".gitignore", Operation: "merge"},
			},
		},
		{
			name:   "aliases",
			files:  []string{"a.txt", "b.txt", "q.yaml"},
			assets: map[string]interface{}{"add": "a.txt", "replace": "b.txt", "read": "q.yaml"},
			expected: []summary{
				{Destination: "", Source: "q.yaml", Operation: "read-config"},
				{Destination: "[project-root]/a.txt", Source: "a.txt", Operation: "create"},
				{Destination: "[project-root]/b.txt", Source: "b.txt", Operation: "overwrite"},
			},
		},
		{
			name:   "symbolic_root_prefix",
			files:  []string{"@web-root/robots.txt.tmpl"},
			assets: map[string]interface{}{"create": []interface{}{"@web-root/robots.txt.tmpl"}},
			expected: []summary{
				{Destination: "[web-root]/robots.txt.tmpl", Source: "@web-root/robots.txt.tmpl", Operation: "create"},
			},
		},
		{
			name:  "table_with_destination",
			files: []string{"env/app.env"},
			assets: map[string]interface{}{
				"merge": map[string]interface{}{"path": "env/app.env", "to": "@app-root/.env"},
			},
			expected: []summary{
				{Destination: "[app-root]/.env", Source: "env/app.env", Operation: "merge"},
			},
		},
		{
			name:  "table_overwrite_flag",
			files: []string{"Makefile", "README.md"},
			assets: map[string]interface{}{
				"create":    map[string]interface{}{"path": "Makefile", "overwrite": true},
				"overwrite": map[string]interface{}{"path": "README.md", "overwrite": false},
			},
			expected: []summary{
				{Destination: "[project-root]/Makefile", Source: "Makefile", Operation: "overwrite"},
				{Destination: "[project-root]/README.md", Source: "README.md", Operation: "create"},
			},
		},
		{
			name:     "mode_disabled",
			files:    []string{"a.txt"},
			assets:   map[string]interface{}{"create": false},
			expected: []summary{},
		},
		{
			name:  "to_false_declares_skip",
			files: []string{"a.txt"},
			assets: map[string]interface{}{
				"create": map[string]interface{}{"path": "a.txt", "to": false},
			},
			expected: []summary{
				{Destination: "[project-root]/a.txt", Source: "a.txt", Operation: "skip"},
			},
		},
		{
			name:   "skip_without_source",
			assets: map[string]interface{}{"skip": "@web-root/.htaccess"},
			expected: []summary{
				{Destination: "[web-root]/.htaccess", Source: "@web-root/.htaccess", Operation: "skip"},
			},
		},
		{
			name:   "directory_expansion_order",
			files:  []string{"config/b.yaml", "config/a/z.txt", "config/a/y/x.txt", "config/c.txt", "config/a.txt"},
			assets: map[string]interface{}{"create": "config"},
			expected: []summary{
				{Destination: "[project-root]/config/a/y/x.txt", Source: "config/a/y/x.txt", Operation: "create"},
				{Destination: "[project-root]/config/a/z.txt", Source: "config/a/z.txt", Operation: "create"},
				{Destination: "[project-root]/config/a.txt", Source: "config/a.txt", Operation: "create"},
				{Destination: "[project-root]/config/b.yaml", Source: "config/b.yaml", Operation: "create"},
				{Destination: "[project-root]/config/c.txt", Source: "config/c.txt", Operation: "create"},
			},
		},
		{
			name:  "directory_with_destination",
			files: []string{"public/index.php", "public/css/site.css"},
			assets: map[string]interface{}{
				"overwrite": map[string]interface{}{"path": "public", "to": "@web-root"},
			},
			expected: []summary{
				{Destination: "[web-root]/css/site.css", Source: "public/css/site.css", Operation: "overwrite"},
				{Destination: "[web-root]/index.php", Source: "public/index.php", Operation: "overwrite"},
			},
		},
		{
			name:  "skip_after_directory",
			files: []string{"config/a.txt", "config/b.txt"},
			assets: map[string]interface{}{
				"skip":   "config/b.txt",
				"create": "config",
			},
			expected: []summary{
				{Destination: "[project-root]/config/a.txt", Source: "config/a.txt", Operation: "create"},
				{Destination: "[project-root]/config/b.txt", Source: "config/b.txt", Operation: "create"},
				{Destination: "[project-root]/config/b.txt", Source: "config/b.txt", Operation: "skip"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			pkg := newPackage(t, fsys, tt.files...)
			pkg.Assets = tt.assets

			entries, err := New(fsys).Resolve(pkg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, summarize(entries))
		})
	}
}

func TestResolve_SourcePaths(t *testing.T) {
	fsys := filesystem.NewMemory()
	pkg := newPackage(t, fsys, "robots.txt.tmpl")
	pkg.Assets = map[string]interface{}{"create": "robots.txt.tmpl"}

	entries, err := New(fsys).Resolve(pkg)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	src := entries[0].Operation.Source()
	assert.Equal(t, "base", src.Package())
	assert.Equal(t, "/packages/base/assets/robots.txt.tmpl", src.Absolute())
	assert.True(t, operations.IsTemplated(entries[0].Operation))
}

func TestResolve_DeclaredSkipReason(t *testing.T) {
	fsys := filesystem.NewMemory()
	pkg := newPackage(t, fsys)
	pkg.Assets = map[string]interface{}{"skip": ".htaccess"}

	entries, err := New(fsys).Resolve(pkg)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	skip, ok := entries[0].Operation.(*operations.Skip)
	require.True(t, ok)
	assert.Equal(t, DeclaredSkipReason, skip.Reason)
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name         string
		files        []string
		assets       map[string]interface{}
		expectedCode errors.ErrorCode
	}{
		{
			name:         "unknown_mode",
			assets:       map[string]interface{}{"symlink": "a"},
			expectedCode: errors.ErrUnknownMode,
		},
		{
			name:         "empty_path",
			assets:       map[string]interface{}{"create": ""},
			expectedCode: errors.ErrConfigInvalid,
		},
		{
			name:         "empty_table_path",
			assets:       map[string]interface{}{"merge": map[string]interface{}{"to": "x"}},
			expectedCode: errors.ErrConfigInvalid,
		},
		{
			name:         "unknown_table_key",
			files:        []string{"a"},
			assets:       map[string]interface{}{"merge": map[string]interface{}{"path": "a", "strategy": "deep"}},
			expectedCode: errors.ErrConfigInvalid,
		},
		{
			name:         "mode_true",
			assets:       map[string]interface{}{"create": true},
			expectedCode: errors.ErrConfigInvalid,
		},
		{
			name:         "unsupported_value",
			assets:       map[string]interface{}{"create": int64(3)},
			expectedCode: errors.ErrConfigInvalid,
		},
		{
			name:         "escapes_package",
			assets:       map[string]interface{}{"create": "../secrets"},
			expectedCode: errors.ErrConfigInvalid,
		},
		{
			name:         "missing_source",
			assets:       map[string]interface{}{"create": "nope.txt"},
			expectedCode: errors.ErrSourceNotFound,
		},
		{
			name:         "read_config_directory",
			files:        []string{"questions/a.yaml"},
			assets:       map[string]interface{}{"read-config": "questions"},
			expectedCode: errors.ErrSourceNotFound,
		},
		{
			name:         "read_config_with_destination",
			files:        []string{"q.yaml"},
			assets:       map[string]interface{}{"read-config": map[string]interface{}{"path": "q.yaml", "to": "x"}},
			expectedCode: errors.ErrConfigInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			pkg := newPackage(t, fsys, tt.files...)
			pkg.Assets = tt.assets

			_, err := New(fsys).Resolve(pkg)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.expectedCode), "got %v", err)
			assert.Equal(t, "base", errors.GetErrorDetails(err)["package"])
		})
	}
}

func TestCanonicalMode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create", ModeCreate},
		{"add", ModeCreate},
		{"Replace", ModeOverwrite},
		{"merge", ModeMerge},
		{"skip", ModeSkip},
		{"read", ModeReadConfig},
		{"read-config", ModeReadConfig},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := CanonicalMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
		})
	}
}
