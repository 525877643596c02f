package types_test

import (
	"testing"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVariables_Flattens(t *testing.T) {
	vars := types.NewVariables(map[string]interface{}{
		"name": "acme",
		"project": map[string]interface{}{
			"php": "8.3",
			"db":  map[string]interface{}{"driver": "mysql"},
		},
	})

	assert.Equal(t, []string{"name", "project.db.driver", "project.php"}, vars.Keys())
	assert.Equal(t, "mysql", vars.GetString("project.db.driver"))
	assert.Equal(t, 0, vars.Version())
}

func TestVariables_WithIsCopyOnWrite(t *testing.T) {
	base := types.NewVariables(map[string]interface{}{"a": 1})
	next := base.With("b", "two")

	_, ok := base.Get("b")
	assert.False(t, ok, "original snapshot must not change")
	assert.Equal(t, "two", next.GetString("b"))
	assert.Equal(t, 1, next.Version())
	assert.Equal(t, 0, base.Version())
}

func TestVariables_WithDefaults(t *testing.T) {
	base := types.NewVariables(map[string]interface{}{"site": map[string]interface{}{"name": "mine"}})

	next := base.WithDefaults(map[string]interface{}{
		"site": map[string]interface{}{"name": "theirs", "mail": "a@b.c"},
	})

	assert.Equal(t, "mine", next.GetString("site.name"))
	assert.Equal(t, "a@b.c", next.GetString("site.mail"))
	assert.Equal(t, 1, next.Version())

	same := next.WithDefaults(map[string]interface{}{"site.name": "x"})
	assert.Equal(t, next.Version(), same.Version())
}

func TestVariables_IsSet(t *testing.T) {
	vars := types.NewVariables(map[string]interface{}{
		"empty": "",
		"nil":   nil,
		"zero":  0,
		"text":  "x",
	})

	assert.False(t, vars.IsSet("empty"))
	assert.False(t, vars.IsSet("nil"))
	assert.False(t, vars.IsSet("missing"))
	assert.True(t, vars.IsSet("zero"))
	assert.True(t, vars.IsSet("text"))
	assert.Equal(t, "0", vars.GetString("zero"))
}

func TestVariables_MapNestsTwoLevels(t *testing.T) {
	vars := types.NewVariables(map[string]interface{}{
		"name": "acme",
		"a":    map[string]interface{}{"b": map[string]interface{}{"c": true}},
	})

	data, err := vars.Map()
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"name": "acme",
		"a":    map[string]interface{}{"b.c": true},
	}, data)
}

func TestVariables_MapRejectsValueUsedAsGroup(t *testing.T) {
	tests := []struct {
		name string
		vars types.Variables
	}{
		{
			name: "value_then_group",
			vars: types.NewVariables(map[string]interface{}{"a": "x"}).With("a.b", "y"),
		},
		{
			name: "group_then_value",
			vars: types.NewVariables(map[string]interface{}{"a": map[string]interface{}{"b": "y"}}).With("a", "x"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.vars.Map()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
		})
	}
}
