package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
)

// Variables is an immutable snapshot of the configuration values visible to
// rendering. Keys are flat dot-notation ("project.name"). With returns a new
// snapshot and bumps the version, so a value handed to one operation never
// changes underneath it.
type Variables struct {
	values  map[string]interface{}
	version int
}

// NewVariables flattens a nested map into a snapshot
func NewVariables(values map[string]interface{}) Variables {
	flat := make(map[string]interface{})
	flatten("", values, flat)
	return Variables{values: flat}
}

func flatten(prefix string, in map[string]interface{}, out map[string]interface{}) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// Version counts the writes that produced this snapshot
func (v Variables) Version() int { return v.version }

// Len returns the number of keys
func (v Variables) Len() int { return len(v.values) }

// Get returns the value stored under a dot-notation key
func (v Variables) Get(key string) (interface{}, bool) {
	val, ok := v.values[key]
	return val, ok
}

// GetString returns the value under key formatted as a string
func (v Variables) GetString(key string) string {
	val, ok := v.values[key]
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}

// IsSet reports whether key holds a non-nil, non-empty value
func (v Variables) IsSet(key string) bool {
	val, ok := v.values[key]
	if !ok || val == nil {
		return false
	}
	if s, ok := val.(string); ok {
		return s != ""
	}
	return true
}

// With returns a copy holding key=value
func (v Variables) With(key string, value interface{}) Variables {
	next := v.copy()
	next.values[key] = value
	next.version = v.version + 1
	return next
}

// WithDefaults returns a copy where keys missing from v are filled from defaults
func (v Variables) WithDefaults(defaults map[string]interface{}) Variables {
	flat := make(map[string]interface{})
	flatten("", defaults, flat)

	next := v.copy()
	changed := false
	for k, val := range flat {
		if _, ok := next.values[k]; !ok {
			next.values[k] = val
			changed = true
		}
	}
	if changed {
		next.version = v.version + 1
	}
	return next
}

// Keys returns all keys in sorted order
func (v Variables) Keys() []string {
	keys := make([]string, 0, len(v.values))
	for k := range v.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Flat returns a copy of the flat key/value map
func (v Variables) Flat() map[string]interface{} {
	out := make(map[string]interface{}, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

// Map returns the values nested at most two levels deep: "a.b.c" becomes
// {"a": {"b.c": value}}. This is the shape templates and the project
// configuration store see. A key that holds a value and also prefixes
// another key ("a" and "a.b") cannot be nested and is rejected.
func (v Variables) Map() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(v.values))
	for _, k := range v.Keys() {
		if err := NestVariable(out, k, v.values[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NestVariable stores a dot-notation key in out using the two-level shape
// of Map. It fails when key and an existing entry disagree on whether a
// section is a value or a group.
func NestVariable(out map[string]interface{}, key string, value interface{}) error {
	section, rest, nested := strings.Cut(key, ".")
	existing, exists := out[section]
	if !nested {
		if _, isGroup := existing.(map[string]interface{}); isGroup {
			return errors.Newf(errors.ErrConfigInvalid, "variable %q is also used as a group", key).
				WithDetail("key", key)
		}
		out[key] = value
		return nil
	}
	group, ok := existing.(map[string]interface{})
	if exists && !ok {
		return errors.Newf(errors.ErrConfigInvalid, "variable %q is set, so %q cannot be nested under it", section, key).
			WithDetail("key", key)
	}
	if !ok {
		group = make(map[string]interface{})
		out[section] = group
	}
	group[rest] = value
	return nil
}

func (v Variables) copy() Variables {
	values := make(map[string]interface{}, len(v.values)+1)
	for k, val := range v.values {
		values[k] = val
	}
	return Variables{values: values, version: v.version}
}
