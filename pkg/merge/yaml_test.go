package merge

import (
	"testing"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeYAML(t *testing.T) {
	tests := []struct {
		name     string
		original string
		incoming string
		expected string
	}{
		{
			name:     "comments_and_blank_lines_survive",
			original: "# Service config\nname: app\n\n# Ports\nports:\n  http: 80\n",
			incoming: "ports:\n  https: 443\n",
			expected: "# Service config\nname: app\n\n# Ports\nports:\n  http: 80\n  https: 443\n",
		},
		{
			name:     "comment_inside_sequence",
			original: "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      # Check out\n      - uses: actions/checkout@v4\n      - run: make\n",
			incoming: "jobs:\n  build:\n    timeout-minutes: 10\n",
			expected: "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      # Check out\n      - uses: actions/checkout@v4\n      - run: make\n    timeout-minutes: 10\n",
		},
		{
			name:     "inline_comment_on_untouched_value",
			original: "a: 1 # keep\nb: 2\n",
			incoming: "b: 3\n",
			expected: "a: 1 # keep\nb: 3\n",
		},
		{
			name:     "sampled_indent_for_new_mapping",
			original: "a:\n    b: 1\n",
			incoming: "c:\n  d: 2\n",
			expected: "a:\n    b: 1\nc:\n    d: 2\n",
		},
		{
			name:     "flow_depth_sampled",
			original: "name: app\nservers:\n  - name: a\n    ports: [80, 443]\n",
			incoming: "servers:\n  - name: b\n    ports: [8080]\n",
			expected: "name: app\nservers:\n  - name: b\n    ports: [8080]\n",
		},
		{
			name:     "unindented_sequences_kept",
			original: "items:\n- a\n- b\nname: x\n",
			incoming: "name: y\n",
			expected: "items:\n- a\n- b\nname: y\n",
		},
		{
			name:     "literal_block_kept",
			original: "script: |\n  echo hi\n  # not a comment\n\n  echo bye\nname: a\n",
			incoming: "name: b\n",
			expected: "script: |\n  echo hi\n  # not a comment\n\n  echo bye\nname: b\n",
		},
		{
			name:     "quoted_strings_kept",
			original: "name: \"app\"\nmode: 'fast'\nv: 1\n",
			incoming: "v: 2\n",
			expected: "name: \"app\"\nmode: 'fast'\nv: 2\n",
		},
		{
			name:     "empty_value_kept",
			original: "a:\nb: 1\n",
			incoming: "b: 2\n",
			expected: "a:\nb: 2\n",
		},
		{
			name:     "multiline_flow_passthrough",
			original: "list: [\n  a, # first\n  b\n]\nkeep: true\n",
			incoming: "keep: false\n",
			expected: "list: [a, b]\nkeep: false\n",
		},
		{
			name:     "non_mapping_root_replaced",
			original: "- a\n- b\n",
			incoming: "- c\n",
			expected: "- c\n",
		},
		{
			name:     "missing_trailing_newline_kept",
			original: "a: 1",
			incoming: "b: 2",
			expected: "a: 1\nb: 2",
		},
		{
			name:     "comment_in_block_mapping_at_flow_depth",
			original: "a:\n  x: {p: 1}\nb:\n  y:\n    # keep me\n    q: 1\nz: 1\n",
			incoming: "z: 2\n",
			expected: "a:\n  x: {p: 1}\nb:\n  y:\n    # keep me\n    q: 1\nz: 2\n",
		},
		{
			name:     "folded_block_kept",
			original: "desc: >\n  folded text\n  more words\na: 1\n",
			incoming: "a: 2\n",
			expected: "desc: >\n  folded text\n  more words\na: 2\n",
		},
		{
			name:     "block_scalar_header_comment_kept",
			original: "run: |- # shell\n  make\n  make test\nok: false\n",
			incoming: "ok: true\n",
			expected: "run: |- # shell\n  make\n  make test\nok: true\n",
		},
		{
			name:     "anchors_and_aliases_kept",
			original: "base: &b {k: v}\nref: *b\na: 1\n",
			incoming: "a: 2\n",
			expected: "base: &b {k: v}\nref: *b\na: 2\n",
		},
		{
			name:     "replaced_anchor_expands_alias",
			original: "base: &b v1\nref: *b\n",
			incoming: "base: v2\n",
			expected: "base: v2\nref: v1\n",
		},
		{
			name:     "flow_mapping_spacing_kept",
			original: "a: {x: 1, y: 2}\nb: 1\n",
			incoming: "b: 2\n",
			expected: "a: {x: 1, y: 2}\nb: 2\n",
		},
		{
			name:     "unindented_sequence_under_nested_key",
			original: "root:\n    items:\n    - a\n    name: x\n",
			incoming: "root:\n    name: y\n",
			expected: "root:\n    items:\n    - a\n    name: y\n",
		},
		{
			name:     "document_marker_kept",
			original: "---\na: 1\n",
			incoming: "b: 2\n",
			expected: "---\na: 1\nb: 2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := mergeYAML([]byte(tt.original), []byte(tt.incoming), "test.yaml")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMergeYAML_UnchangedReturnsOriginal(t *testing.T) {
	original := []byte("# settings\ndebug: true   # verbose\nlevels:   [1, 2]\n")
	incoming := []byte("levels: [1, 2]\ndebug: true\n")

	result, err := mergeYAML(original, incoming, "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestMergeYAML_Idempotent(t *testing.T) {
	original := []byte("# top\nname: app\n\nenv:\n  # keys\n  - KEY\nnested:\n  a: 1\n")
	incoming := []byte("nested:\n  b: [x, y]\nextra: \"quoted: value\"\n")

	once, err := mergeYAML(original, incoming, "test.yaml")
	require.NoError(t, err)
	twice, err := mergeYAML(once, incoming, "test.yaml")
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
	assert.Contains(t, string(once), "# top\n")
	assert.Contains(t, string(once), "  # keys\n")
}

func TestMergeYAML_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		original string
		incoming string
	}{
		{name: "bad_original", original: "a: [1, 2\n", incoming: "b: 1\n"},
		{name: "bad_incoming", original: "a: 1\n", incoming: "b: c: d\n"},
		{name: "multiple_documents", original: "a: 1\n---\nb: 2\n", incoming: "c: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mergeYAML([]byte(tt.original), []byte(tt.incoming), "ci.yml")
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrMergeFormat))
			assert.Contains(t, err.Error(), "ci.yml")
		})
	}
}

func TestMergeYAML_CommentOnlyIncoming(t *testing.T) {
	original := []byte("a: 1\n")

	result, err := mergeYAML(original, []byte("# nothing here\n"), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestProtectComments_RoundTrip(t *testing.T) {
	docs := []string{
		"# a\nkey: value\n",
		"a:\n  # nested \"quoted\" comment\n  b: 1\n\n",
		"- x\n# between\n- y\n# trailing\n",
		"run: |\n  # inside block\n\n  done\n",
		"---\n# doc\na: 1",
	}

	for _, doc := range docs {
		protected, saved := protectComments([]byte(doc))
		assert.Equal(t, doc, restoreComments(protected, saved))
	}
}

func TestProtectComments_Placement(t *testing.T) {
	protected, saved := protectComments([]byte("steps:\n  # first\n  - run: a\n"))
	assert.Equal(t, "steps:\n  - __scaffold_comment_0__: \"  # first\"\n  - run: a\n", protected)
	assert.Equal(t, []string{"  # first"}, saved)

	protected, _ = protectComments([]byte("a:\n  b: 1\n  # tail\n"))
	assert.Equal(t, "a:\n  b: 1\n__scaffold_comment_0__: \"  # tail\"\n", protected)
}

func TestMergeYAML_BlockScalarsStableAcrossMerges(t *testing.T) {
	original := []byte("items:\n  - name: a\n    note: >\n      wrapped\n      prose\n\n  - |\n    raw\nversion: 1\n")

	once, err := mergeYAML(original, []byte("version: 2\n"), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, "items:\n  - name: a\n    note: >\n      wrapped\n      prose\n\n  - |\n    raw\nversion: 2\n", string(once))

	twice, err := mergeYAML(once, []byte("version: 3\n"), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, "items:\n  - name: a\n    note: >\n      wrapped\n      prose\n\n  - |\n    raw\nversion: 3\n", string(twice))
}

func TestMergeYAML_ReplacedValueKeepsLineComment(t *testing.T) {
	result, err := mergeYAML([]byte("port: 80 # public\n"), []byte("port: 8080\n"), "test.yaml")
	require.NoError(t, err)
	assert.Equal(t, "port: 8080 # public\n", string(result))
}

func TestOutdentSequences(t *testing.T) {
	in := "a:\n  - x\n  - y:\n      - z\nb: |\n  k:\n    - not a list\nc: 1\n"
	expected := "a:\n- x\n- y:\n  - z\nb: |\n  k:\n    - not a list\nc: 1\n"
	assert.Equal(t, expected, outdentSequences(in))
}
