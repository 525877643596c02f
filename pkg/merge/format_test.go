package merge

import (
	"testing"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{name: "env_file", path: ".env", expected: FormatEnv},
		{name: "env_variant", path: "[app-root]/.env.local", expected: FormatEnv},
		{name: "env_wins_over_json", path: "config/.env.json", expected: FormatEnv},
		{name: "gitignore", path: ".gitignore", expected: FormatLine},
		{name: "nested_dockerignore", path: "web/.dockerignore", expected: FormatLine},
		{name: "templated_ignore", path: ".gitignore.tmpl", expected: FormatLine},
		{name: "gitattributes", path: ".gitattributes", expected: FormatLine},
		{name: "json", path: "package.json", expected: FormatJSON},
		{name: "templated_json", path: "tsconfig.json.tmpl", expected: FormatJSON},
		{name: "yaml", path: "config/services.yaml", expected: FormatYAML},
		{name: "yml", path: ".github/workflows/ci.yml", expected: FormatYAML},
		{name: "windows_separators", path: `web\.gitignore`, expected: FormatLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	paths := []string{
		"Makefile",
		"README.md",
		".GITIGNORE",
		"config.toml",
		"notes.gitignore.txt",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			format, err := DetectFormat(p)
			require.Error(t, err)
			assert.Equal(t, FormatUnknown, format)
			assert.True(t, errors.IsErrorCode(err, errors.ErrMergeFormat))
			assert.Contains(t, err.Error(), "cannot detect merge format")
		})
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "line-record", FormatLine.String())
	assert.Equal(t, "key-value-env", FormatEnv.String())
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
