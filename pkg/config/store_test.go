package config

import (
	"testing"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/filesystem"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveVariables(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/project", 0755))
	require.NoError(t, fsys.WriteFile("/project/scaffold.toml", []byte(`
[scaffold]
packages = ["base"]

[variables]
kept = "yes"
`), 0644))

	store := NewStore(fsys, "/project")
	require.NoError(t, store.SaveVariables(map[string]interface{}{
		"project.name": "Acme",
		"a.b.c":        "deep",
		"flat":         "x",
	}))

	data, err := fsys.ReadFile(store.Path())
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, toml.Unmarshal(data, &doc))

	assert.Equal(t, []interface{}{"base"}, doc["scaffold"].(map[string]interface{})["packages"])
	vars := doc["variables"].(map[string]interface{})
	assert.Equal(t, "yes", vars["kept"])
	assert.Equal(t, "x", vars["flat"])
	assert.Equal(t, "Acme", vars["project"].(map[string]interface{})["name"])
	assert.Equal(t, "deep", vars["a"].(map[string]interface{})["b.c"])
}

func TestStore_CreatesFile(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll("/project", 0755))

	store := NewStore(fsys, "/project")
	require.NoError(t, store.SaveVariables(map[string]interface{}{"site": "acme"}))

	data, err := fsys.ReadFile("/project/scaffold.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "[variables]")
	var doc map[string]interface{}
	require.NoError(t, toml.Unmarshal(data, &doc))
	assert.Equal(t, map[string]interface{}{"site": "acme"}, doc["variables"])
}

func TestStore_NothingToSave(t *testing.T) {
	fsys := filesystem.NewMemory()
	store := NewStore(fsys, "/project")
	require.NoError(t, store.SaveVariables(nil))

	_, err := fsys.Stat(store.Path())
	assert.Error(t, err)
}

func TestStore_RejectsValueUsedAsGroup(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		values   map[string]interface{}
	}{
		{
			name:     "nested_key_under_saved_value",
			existing: "[variables]\ndb = \"mysql\"\n",
			values:   map[string]interface{}{"db.driver": "pgsql"},
		},
		{
			name:     "value_over_saved_group",
			existing: "[variables.db]\ndriver = \"mysql\"\n",
			values:   map[string]interface{}{"db": "pgsql"},
		},
		{
			name:   "clash_within_values",
			values: map[string]interface{}{"db": "pgsql", "db.driver": "mysql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			require.NoError(t, fsys.MkdirAll("/project", 0755))
			if tt.existing != "" {
				require.NoError(t, fsys.WriteFile("/project/scaffold.toml", []byte(tt.existing), 0644))
			}

			store := NewStore(fsys, "/project")
			err := store.SaveVariables(tt.values)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))

			if tt.existing != "" {
				data, readErr := fsys.ReadFile(store.Path())
				require.NoError(t, readErr)
				assert.Equal(t, tt.existing, string(data))
			}
		})
	}
}
