package merge

import (
	"math"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultYAMLIndent = 2

// collectionOpener matches a key whose value starts on the next line,
// optionally carrying an anchor or tag.
var collectionOpener = regexp.MustCompile(`:(?:[ \t]+[&!]\S+)*$`)

// yamlLayout captures the formatting choices sampled from an original
// document.
type yamlLayout struct {
	indent      int
	inlineDepth int
	indentSeq   bool
}

// sampleLayout reads indentation width, the depth at which collections
// switch to flow style and the sequence indentation from the original.
func sampleLayout(original []byte, root *yaml.Node) yamlLayout {
	layout := yamlLayout{
		indent:      defaultYAMLIndent,
		inlineDepth: math.MaxInt,
		indentSeq:   true,
	}

	lines, _ := splitLines(original)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if n := indentOf(line); n > 0 {
			layout.indent = n
			break
		}
	}
	// the encoder only supports 2 to 9 spaces
	if layout.indent < 2 || layout.indent > 9 {
		layout.indent = defaultYAMLIndent
	}

	seqSampled := false
	var walk func(node *yaml.Node, depth int)
	walk = func(node *yaml.Node, depth int) {
		switch node.Kind {
		case yaml.MappingNode, yaml.SequenceNode:
			if node.Style&yaml.FlowStyle != 0 && len(node.Content) > 0 && depth < layout.inlineDepth {
				layout.inlineDepth = depth
			}
		default:
			return
		}
		for i, child := range node.Content {
			if node.Kind == yaml.MappingNode {
				if i%2 == 0 {
					continue
				}
				key := node.Content[i-1]
				if !seqSampled && child.Kind == yaml.SequenceNode && child.Style&yaml.FlowStyle == 0 && len(child.Content) > 0 {
					layout.indentSeq = child.Column > key.Column
					seqSampled = true
				}
			}
			walk(child, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return layout
}

// outdentSequences moves block sequences that are mapping values back to
// their key's column, the "key:\n- item" layout. The encoder always
// indents them.
func outdentSequences(content string) string {
	lines := strings.Split(content, "\n")

	type block struct {
		keyCol int
		shift  int
	}
	var (
		stack    []block
		inScalar bool
		scalarAt int
	)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := indentOf(line)
		for len(stack) > 0 && indent <= stack[len(stack)-1].keyCol {
			stack = stack[:len(stack)-1]
		}

		shift := 0
		for _, b := range stack {
			shift += b.shift
		}
		lines[i] = line[min(shift, indent):]

		if inScalar {
			if indent > scalarAt {
				continue
			}
			inScalar = false
		}

		body := stripComment(line)
		if blockScalarIndicator.MatchString(body) {
			inScalar, scalarAt = true, blockOwnerColumn(line)
			continue
		}
		if !collectionOpener.MatchString(body) {
			continue
		}

		keyCol := len(line) - len(strings.TrimLeft(line, " -"))
		if next, ok := nextContentLine(lines, i+1); ok {
			nextIndent := indentOf(next)
			rest := next[nextIndent:]
			if nextIndent > keyCol && (rest == "-" || strings.HasPrefix(rest, "- ")) {
				stack = append(stack, block{keyCol: keyCol, shift: nextIndent - keyCol})
			}
		}
	}
	return strings.Join(lines, "\n")
}

func nextContentLine(lines []string, from int) (string, bool) {
	for _, line := range lines[from:] {
		if strings.TrimSpace(line) != "" {
			return line, true
		}
	}
	return "", false
}
