package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/tidwall/jsonc"
)

const defaultJSONIndent = 4

// mergeJSON deep-merges two JSON documents and re-serializes the result
// with the original's indentation. Comments and trailing commas are
// tolerated on input.
func mergeJSON(original, incoming []byte, name string) ([]byte, error) {
	base, err := decodeJSON(original, name)
	if err != nil {
		return nil, err
	}
	merged, err := decodeJSON(original, name)
	if err != nil {
		return nil, err
	}
	update, err := decodeJSON(incoming, name)
	if err != nil {
		return nil, err
	}

	merged = mergeRoots(merged, update)
	if deepEqual(base, merged) {
		return original, nil
	}

	var buf bytes.Buffer
	enc := &jsonEncoder{buf: &buf, indent: detectJSONIndent(original)}
	if err := enc.value(merged, 0); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMergeFormat, "cannot encode merged JSON for %s", name)
	}
	if bytes.HasSuffix(original, []byte("\n")) {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// decodeJSON parses a document into an ordered tree. Objects keep their key
// order, numbers keep their literal text.
func decodeJSON(content []byte, name string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(content)))
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMergeFormat, "malformed JSON in %s", name).
			WithDetail("file", name)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.Newf(errors.ErrMergeFormat, "malformed JSON in %s: trailing data", name).
			WithDetail("file", name)
	}
	return value, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := newObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not a string", keyTok)
			}
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		list := []any{}
		for dec.More() {
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// detectJSONIndent samples the indentation of the first indented line
func detectJSONIndent(content []byte) string {
	lines, _ := splitLines(content)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == '\t' {
			return "\t"
		}
		if n := len(line) - len(strings.TrimLeft(line, " ")); n > 0 {
			return strings.Repeat(" ", n)
		}
	}
	return strings.Repeat(" ", defaultJSONIndent)
}

// jsonEncoder writes an ordered tree as indented JSON without HTML escaping
type jsonEncoder struct {
	buf    *bytes.Buffer
	indent string
}

func (e *jsonEncoder) newline(depth int) {
	e.buf.WriteByte('\n')
	for i := 0; i < depth; i++ {
		e.buf.WriteString(e.indent)
	}
}

func (e *jsonEncoder) value(v any, depth int) error {
	switch val := v.(type) {
	case object:
		if val.Len() == 0 {
			e.buf.WriteString("{}")
			return nil
		}
		e.buf.WriteByte('{')
		first := true
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				e.buf.WriteByte(',')
			}
			first = false
			e.newline(depth + 1)
			if err := e.scalar(pair.Key); err != nil {
				return err
			}
			e.buf.WriteString(": ")
			if err := e.value(pair.Value, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.buf.WriteByte('}')
	case []any:
		if len(val) == 0 {
			e.buf.WriteString("[]")
			return nil
		}
		e.buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			e.newline(depth + 1)
			if err := e.value(item, depth+1); err != nil {
				return err
			}
		}
		e.newline(depth)
		e.buf.WriteByte(']')
	default:
		return e.scalar(val)
	}
	return nil
}

func (e *jsonEncoder) scalar(v any) error {
	if n, ok := v.(json.Number); ok {
		e.buf.WriteString(n.String())
		return nil
	}
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	e.buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
