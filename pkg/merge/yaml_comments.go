package merge

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const placeholderPrefix = "__scaffold_comment_"

var (
	// placeholderLine matches a re-serialized placeholder entry, including
	// any indentation and sequence markers it was emitted with.
	placeholderLine = regexp.MustCompile(`(?m)^[ \t]*(?:- )*` + placeholderPrefix + `(\d+)__:.*$`)

	// blockScalarIndicator matches a line whose value opens a literal or
	// folded block scalar.
	blockScalarIndicator = regexp.MustCompile(`(?:^|[:\s])[|>][-+1-9]*\s*(?:#.*)?$`)

	// sequenceMarker matches the leading "- " markers of a line
	sequenceMarker = regexp.MustCompile(`^(?:-(?: +|$))+`)
)

func isPlaceholderKey(key string) bool {
	return strings.HasPrefix(key, placeholderPrefix) && strings.HasSuffix(key, "__")
}

// protectComments turns every comment line, blank line and leading document
// marker of a YAML document into a placeholder mapping entry. The verbatim
// lines are returned indexed by placeholder number. Each placeholder takes
// the indentation and sequence markers of the next real line, so it lands
// in the same collection as that line. Lines that belong to block scalars
// or multi-line flow collections are passed through, the latter without
// their comments.
func protectComments(content []byte) (string, []string) {
	lines, trailing := splitLines(content)

	var (
		out      []string
		pending  []string
		saved    []string
		inBlock  bool
		blockCol int
		blanks   []string
		depth    int
		leading  string
		haveLead bool
		flowRoot bool
	)

	placeholder := func(prefix, line string) string {
		entry := fmt.Sprintf("%s%s%d__: %s", prefix, placeholderPrefix, len(saved), strconv.Quote(line))
		saved = append(saved, line)
		return entry
	}

	flush := func(prefix string) {
		for _, line := range pending {
			out = append(out, placeholder(prefix, line))
		}
		pending = pending[:0]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inBlock {
			if trimmed == "" {
				blanks = append(blanks, line)
				continue
			}
			if indentOf(line) > blockCol {
				out = append(out, blanks...)
				blanks = blanks[:0]
				out = append(out, line)
				continue
			}
			inBlock = false
			pending = append(pending, blanks...)
			blanks = blanks[:0]
		}

		if depth > 0 {
			// comments inside a multi-line flow collection do not survive
			// the single-line rewrite
			out = append(out, stripComment(line))
			depth += flowDelta(line)
			continue
		}

		if trimmed == "" || strings.HasPrefix(trimmed, "#") || (trimmed == "---" && !haveLead) {
			pending = append(pending, line)
			continue
		}
		if trimmed == "---" || trimmed == "..." {
			out = append(out, line)
			continue
		}

		prefix := linePrefix(line)
		if !haveLead {
			leading, haveLead = prefix, true
			flowRoot = prefix == "" && strings.ContainsAny(line[:1], "[{")
		}
		if flowRoot {
			// a flow collection at the root has nowhere to hold entries
			out = append(out, pending...)
			pending = pending[:0]
		}
		flush(prefix)
		out = append(out, line)

		depth = flowDelta(line)
		if depth < 0 {
			depth = 0
		}
		if depth == 0 && blockScalarIndicator.MatchString(stripComment(line)) {
			inBlock = true
			blockCol = blockOwnerColumn(line)
		}
	}

	pending = append(pending, blanks...)
	if flowRoot {
		out = append(out, pending...)
	} else {
		flush(leading)
	}

	result := strings.Join(out, "\n")
	if trailing {
		result += "\n"
	}
	return result, saved
}

// restoreComments replaces re-serialized placeholder entries with the
// verbatim lines they stand for.
func restoreComments(content string, saved []string) string {
	return placeholderLine.ReplaceAllStringFunc(content, func(match string) string {
		sub := placeholderLine.FindStringSubmatch(match)
		n, err := strconv.Atoi(sub[1])
		if err != nil || n >= len(saved) {
			return match
		}
		return saved[n]
	})
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// linePrefix returns the indentation plus sequence markers of a line
func linePrefix(line string) string {
	indent := indentOf(line)
	rest := line[indent:]
	markers := sequenceMarker.FindString(rest)
	// normalize marker spacing so placeholders always read "- "
	return strings.Repeat(" ", indent) + strings.Repeat("- ", strings.Count(markers, "-"))
}

// blockOwnerColumn is the column that block scalar content must be indented
// beyond. A bare "- |" item is owned by its dash; a "key: |" entry by its key.
func blockOwnerColumn(line string) int {
	rest := strings.TrimLeft(line, " -")
	if strings.HasPrefix(rest, "|") || strings.HasPrefix(rest, ">") {
		return indentOf(line)
	}
	return len(line) - len(strings.TrimLeft(line, " -"))
}

// stripComment drops a trailing "# comment" that is outside quotes
func stripComment(line string) string {
	var quote rune
	prev := ' '
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case (r == '\'' || r == '"') && isTokenStart(prev):
			quote = r
		case r == '#' && (prev == ' ' || prev == '\t'):
			return strings.TrimRight(line[:i], " \t")
		}
		prev = r
	}
	return line
}

// flowDelta counts the unbalanced flow brackets on a line, ignoring quoted
// text and trailing comments.
func flowDelta(line string) int {
	var (
		quote rune
		delta int
	)
	prev := ' '
	for _, r := range stripComment(line) {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case (r == '\'' || r == '"') && isTokenStart(prev):
			quote = r
		case r == '[' || r == '{':
			delta++
		case r == ']' || r == '}':
			delta--
		}
		prev = r
	}
	return delta
}

func isTokenStart(prev rune) bool {
	switch prev {
	case ' ', '\t', '[', '{', ',', ':', '-':
		return true
	}
	return false
}

const blockMarkerPrefix = "# __scaffold_block_"

// blockMarker matches the marker comment the encoder writes after a block
// scalar header
var blockMarker = regexp.MustCompile(` # __scaffold_block_(\d+)__$`)

// blockScalar is the verbatim source of a literal or folded scalar
type blockScalar struct {
	header  string
	content []string
	comment string
}

// markBlockScalars tags every literal and folded scalar of the original with
// a marker comment and records its source lines. Node lines match the
// original because protectComments keeps one line per line.
func markBlockScalars(root *yaml.Node, original []byte) []blockScalar {
	lines, _ := splitLines(original)

	var blocks []blockScalar
	var walk func(node *yaml.Node)
	walk = func(node *yaml.Node) {
		if node.Kind == yaml.AliasNode {
			return
		}
		if node.Kind == yaml.ScalarNode {
			if node.Style&(yaml.LiteralStyle|yaml.FoldedStyle) == 0 || node.Line < 1 || node.Line > len(lines) {
				return
			}
			header := lines[node.Line-1]
			if !blockScalarIndicator.MatchString(stripComment(header)) {
				return
			}

			owner := blockOwnerColumn(header)
			var content []string
			last := 0
			for _, line := range lines[node.Line:] {
				if strings.TrimSpace(line) != "" {
					if indentOf(line) <= owner {
						break
					}
					last = len(content) + 1
				}
				content = append(content, line)
			}

			blocks = append(blocks, blockScalar{header: header, content: content[:last], comment: node.LineComment})
			node.LineComment = fmt.Sprintf("%s%d__", blockMarkerPrefix, len(blocks)-1)
			return
		}
		for _, child := range node.Content {
			walk(child)
		}
	}
	if root != nil {
		walk(root)
	}
	return blocks
}

// blockIndex returns the block number of a marker comment
func blockIndex(comment string) (int, bool) {
	if !strings.HasPrefix(comment, blockMarkerPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(comment, blockMarkerPrefix), "__"))
	return n, err == nil
}

// restoreBlocks replaces the encoder's rendering of each marked block scalar
// with its original lines, shifted to the header's new column. Blank lines
// around a block are dropped; the ones the original had come back as
// comment placeholders.
func restoreBlocks(content string, blocks []blockScalar) string {
	lines := strings.Split(content, "\n")
	end := len(lines)
	if lines[end-1] == "" {
		end--
	}

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		loc := blockMarker.FindStringSubmatchIndex(line)
		if loc == nil {
			out = append(out, line)
			continue
		}
		n, err := strconv.Atoi(line[loc[2]:loc[3]])
		if err != nil || n >= len(blocks) {
			out = append(out, line)
			continue
		}
		b := blocks[n]

		head := line[:loc[0]]
		indicator := strings.TrimRight(head, "-+0123456789")
		if !strings.HasSuffix(indicator, "|") && !strings.HasSuffix(indicator, ">") {
			// written as a quoted scalar
			if b.comment != "" {
				head += " " + b.comment
			}
			out = append(out, head)
			continue
		}

		owner := blockOwnerColumn(head)
		for i+1 < end && (strings.TrimSpace(lines[i+1]) == "" || indentOf(lines[i+1]) > owner) {
			i++
		}

		body := stripComment(b.header)
		match := blockScalarIndicator.FindStringIndex(body)
		start := match[0]
		if body[start] != '|' && body[start] != '>' {
			start++
		}
		out = append(out, indicator[:len(indicator)-1]+b.header[start:])

		shift := owner - blockOwnerColumn(b.header)
		for _, c := range b.content {
			out = append(out, reindent(c, shift))
		}
	}
	return strings.Join(out, "\n")
}

// reindent moves a non-blank line right (positive shift) or left
func reindent(line string, shift int) string {
	switch {
	case strings.TrimSpace(line) == "" || shift == 0:
		return line
	case shift > 0:
		return strings.Repeat(" ", shift) + line
	default:
		return line[min(-shift, indentOf(line)):]
	}
}
