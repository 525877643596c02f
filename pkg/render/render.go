// Package render produces the content of templated assets with
// text/template.
//
// Templates see the run's variables nested two levels deep, so
// "project.name" is written {{ .project.name }}; deeper keys can be
// reached with {{ var "a.b.c" }}. Missing keys render as zero values;
// use default for optional values:
//
//	{{ default "acme" .project.name }}
//
// exists reports whether a project path is present on disk. It accepts
// the same forms as asset destinations:
//
//	{{ if exists "@web-root/robots.txt" }}...{{ end }}
package render

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/arthur-debert/scaffold/pkg/logging"
	"github.com/arthur-debert/scaffold/pkg/paths"
	"github.com/arthur-debert/scaffold/pkg/types"
)

// Renderer renders template files read through an FS
type Renderer struct {
	fs      types.FS
	locator types.Locator
}

// New creates a Renderer. locator resolves paths given to exists.
func New(fsys types.FS, locator types.Locator) *Renderer {
	return &Renderer{fs: fsys, locator: locator}
}

// Render executes the template at path with vars
func (r *Renderer) Render(path string, vars types.Variables) ([]byte, error) {
	logger := logging.GetLogger("render")

	source, err := r.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrSourceNotFound, "template %s does not exist", path).
				WithDetail("source", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read template %s", path).
			WithDetail("source", path)
	}

	tmpl, err := template.New(filepath.Base(path)).
		Option("missingkey=zero").
		Funcs(r.funcs(vars)).
		Parse(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot parse template %s", path).
			WithDetail("source", path)
	}

	data, err := vars.Map()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "cannot render template %s", path).
			WithDetail("source", path)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRender, "cannot render template %s", path).
			WithDetail("source", path)
	}

	logger.Trace().
		Str("template", path).
		Int("variables", vars.Len()).
		Int("bytes", buf.Len()).
		Msg("Template rendered")
	return buf.Bytes(), nil
}

func (r *Renderer) funcs(vars types.Variables) template.FuncMap {
	return template.FuncMap{
		"exists": r.exists,
		"var": func(key string) interface{} {
			value, _ := vars.Get(key)
			return value
		},
		"default": func(fallback interface{}, value ...interface{}) interface{} {
			if len(value) == 0 || empty(value[0]) {
				return fallback
			}
			return value[0]
		},
		"lower": func(v interface{}) string { return strings.ToLower(fmt.Sprint(v)) },
		"upper": func(v interface{}) string { return strings.ToUpper(fmt.Sprint(v)) },
	}
}

func (r *Renderer) exists(p string) (bool, error) {
	abs, err := r.locator.Substitute(paths.NormalizeDestination(p))
	if err != nil {
		return false, err
	}
	_, err = r.fs.Stat(abs)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func empty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	default:
		return false
	}
}
