package operations

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/scaffold/pkg/filesystem"
	"github.com/arthur-debert/scaffold/pkg/paths"
	"github.com/arthur-debert/scaffold/pkg/types"
	"github.com/stretchr/testify/require"
)

const testProject = "/project"

// stubRenderer replaces {{key}} markers with variable values and counts calls
type stubRenderer struct {
	fs    types.FS
	calls int
}

func (r *stubRenderer) Render(path string, vars types.Variables) ([]byte, error) {
	r.calls++
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := string(data)
	for _, key := range vars.Keys() {
		text = strings.ReplaceAll(text, "{{"+key+"}}", vars.GetString(key))
	}
	return []byte(text), nil
}

type stubPrompter struct {
	interactive bool
	answers     map[string]string
	asked       []PromptRequest
}

func (p *stubPrompter) Interactive() bool { return p.interactive }

func (p *stubPrompter) Ask(req PromptRequest) (string, error) {
	p.asked = append(p.asked, req)
	if answer, ok := p.answers[req.Key]; ok {
		return answer, nil
	}
	return req.Default, nil
}

type recordingSink struct {
	saved map[string]interface{}
}

func (s *recordingSink) SaveVariables(values map[string]interface{}) error {
	if s.saved == nil {
		s.saved = make(map[string]interface{})
	}
	for k, v := range values {
		s.saved[k] = v
	}
	return nil
}

type recordingReporter struct {
	results []Result
}

func (r *recordingReporter) Report(result Result) {
	r.results = append(r.results, result)
}

type fixture struct {
	fs       types.FS
	resolver *paths.Resolver
	renderer *stubRenderer
	reporter *recordingReporter
	sink     *recordingSink
	prompter *stubPrompter
	env      *Environment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.MkdirAll(testProject, 0755))

	resolver, err := paths.New(testProject, nil)
	require.NoError(t, err)

	f := &fixture{
		fs:       fsys,
		resolver: resolver,
		renderer: &stubRenderer{fs: fsys},
		reporter: &recordingReporter{},
		sink:     &recordingSink{},
		prompter: &stubPrompter{},
	}
	f.env = &Environment{
		FS:       fsys,
		Renderer: f.renderer,
		Prompter: f.prompter,
		Sink:     f.sink,
		Reporter: f.reporter,
	}
	return f
}

func (f *fixture) source(t *testing.T, rel, content string) types.ScaffoldPath {
	t.Helper()
	return f.sourceIn(t, "base", rel, content)
}

// sourceIn creates a source file in the named package. Empty content
// leaves the file absent.
func (f *fixture) sourceIn(t *testing.T, pkg, rel, content string) types.ScaffoldPath {
	t.Helper()
	src := types.NewSourcePath(pkg, filepath.Join("/packages", pkg), rel)
	if content != "" {
		require.NoError(t, f.fs.MkdirAll(filepath.Dir(src.Absolute()), 0755))
		require.NoError(t, f.fs.WriteFile(src.Absolute(), []byte(content), 0644))
	}
	return src
}

func (f *fixture) dest(t *testing.T, rel string) types.ScaffoldPath {
	t.Helper()
	dest, err := types.NewDestinationPath("base", rel, f.resolver)
	require.NoError(t, err)
	return dest
}

func (f *fixture) write(t *testing.T, dest types.ScaffoldPath, content string) {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(filepath.Dir(dest.Absolute()), 0755))
	require.NoError(t, f.fs.WriteFile(dest.Absolute(), []byte(content), 0644))
}

func (f *fixture) read(t *testing.T, dest types.ScaffoldPath) string {
	t.Helper()
	data, err := f.fs.ReadFile(dest.Absolute())
	require.NoError(t, err)
	return string(data)
}

func mustResolver(t *testing.T, root string) *paths.Resolver {
	t.Helper()
	resolver, err := paths.New(root, nil)
	require.NoError(t, err)
	return resolver
}
