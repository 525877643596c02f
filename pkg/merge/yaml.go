package merge

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/scaffold/pkg/errors"
	"gopkg.in/yaml.v3"
)

// mergeYAML deep-merges two YAML documents. The original document's nodes
// are merged in place so untouched values keep their style, anchors and
// aliases. Comments and blank lines survive as placeholder entries.
func mergeYAML(original, incoming []byte, name string) ([]byte, error) {
	protected, comments := protectComments(original)

	base, err := parseYAML([]byte(protected), name)
	if err != nil {
		return nil, err
	}
	update, err := parseYAML(incoming, name)
	if err != nil {
		return nil, err
	}
	if update == nil {
		return original, nil
	}
	for _, node := range []*yaml.Node{base, update} {
		if err := checkKeys(node); err != nil {
			return nil, errors.Wrapf(err, errors.ErrMergeFormat, "unsupported YAML in %s", name).
				WithDetail("file", name)
		}
	}

	layout := sampleLayout(original, base)
	m := &yamlMerger{layout: layout, blocks: markBlockScalars(base, original)}

	root := base
	switch {
	case base == nil:
		root = m.adopt(update, 0)
	case base.Kind == yaml.MappingNode && update.Kind == yaml.MappingNode:
		if !m.mapping(base, update, 0) {
			return original, nil
		}
	case nodeEqual(base, update):
		return original, nil
	default:
		root = m.adopt(update, 0)
	}
	expandDetachedAliases(root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(layout.indent)
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMergeFormat, "cannot write merged YAML for %s", name).
			WithDetail("file", name)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMergeFormat, "cannot write merged YAML for %s", name).
			WithDetail("file", name)
	}

	out := buf.String()
	if !bytes.HasSuffix(bytes.TrimRight(original, "\n"), []byte("...")) {
		out = strings.TrimSuffix(out, "...\n")
	}
	if !layout.indentSeq {
		out = outdentSequences(out)
	}
	out = restoreBlocks(out, m.blocks)
	out = restoreComments(out, comments)
	if !bytes.HasSuffix(original, []byte("\n")) {
		out = strings.TrimSuffix(out, "\n")
	}
	return []byte(out), nil
}

// parseYAML decodes a single document. A document without content yields
// a nil node.
func parseYAML(content []byte, name string) (*yaml.Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrMergeFormat, "malformed YAML in %s", name).
			WithDetail("file", name)
	}

	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.Newf(errors.ErrMergeFormat, "cannot merge %s: multiple YAML documents", name).
			WithDetail("file", name)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	dropFlowComments(root, false)
	return root, nil
}

// checkKeys rejects mapping keys that are not scalars
func checkKeys(node *yaml.Node) error {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if key := node.Content[i]; key.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: complex mapping keys are not supported", key.Line)
			}
		}
	}
	if node.Kind == yaml.AliasNode && node.Alias == nil {
		return fmt.Errorf("line %d: dangling alias", node.Line)
	}
	if node.Kind == yaml.AliasNode {
		return nil
	}
	for _, child := range node.Content {
		if err := checkKeys(child); err != nil {
			return err
		}
	}
	return nil
}

// dropFlowComments clears comments inside flow collections, which are
// written back on a single line.
func dropFlowComments(node *yaml.Node, inFlow bool) {
	if inFlow {
		node.HeadComment, node.LineComment, node.FootComment = "", "", ""
	}
	if node.Kind == yaml.AliasNode {
		return
	}
	flow := inFlow || node.Style&yaml.FlowStyle != 0
	for _, child := range node.Content {
		dropFlowComments(child, flow)
	}
}

// yamlMerger merges incoming nodes into the original tree
type yamlMerger struct {
	layout yamlLayout
	blocks []blockScalar
}

// lineComment returns a node's comment as the original wrote it
func (m *yamlMerger) lineComment(node *yaml.Node) string {
	if n, ok := blockIndex(node.LineComment); ok && n < len(m.blocks) {
		return m.blocks[n].comment
	}
	return node.LineComment
}

// mapping writes src's entries into dst at the given depth and reports
// whether dst changed. Existing keys keep their position, new keys are
// appended.
func (m *yamlMerger) mapping(dst, src *yaml.Node, depth int) bool {
	changed := false
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], resolveAlias(src.Content[i+1])

		j := findKey(dst, key.Value)
		if j < 0 {
			dst.Content = append(dst.Content, m.adopt(key, depth+1), m.adopt(value, depth+1))
			changed = true
			continue
		}

		current := dst.Content[j+1]
		if current.Kind == yaml.MappingNode && value.Kind == yaml.MappingNode {
			if m.mapping(current, value, depth+1) {
				changed = true
			}
			continue
		}
		// equal values keep the original's presentation
		if nodeEqual(current, value) {
			continue
		}

		replacement := m.adopt(value, depth+1)
		if replacement.Kind == yaml.ScalarNode && replacement.LineComment == "" {
			replacement.LineComment = m.lineComment(current)
		}
		dst.Content[j+1] = replacement
		changed = true
	}
	return changed
}

// adopt copies an incoming node into the original document. Aliases are
// expanded, anchors and comments dropped, and collections take the
// original's flow style for their depth.
func (m *yamlMerger) adopt(node *yaml.Node, depth int) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	out := *node
	out.Anchor = ""
	out.HeadComment, out.LineComment, out.FootComment = "", "", ""
	out.Content = nil

	switch node.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		if depth >= m.layout.inlineDepth {
			out.Style |= yaml.FlowStyle
		} else {
			out.Style &^= yaml.FlowStyle
		}
		out.Content = make([]*yaml.Node, 0, len(node.Content))
		for i, child := range node.Content {
			childDepth := depth + 1
			if node.Kind == yaml.MappingNode && i%2 == 0 {
				childDepth = depth
			}
			out.Content = append(out.Content, m.adopt(child, childDepth))
		}
	}
	return &out
}

// findKey returns the index of key in a mapping's content, or -1
func findKey(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// nodeEqual compares two nodes by content. Aliases resolve to their
// anchors, mapping order is ignored, scalars compare by tag and value and
// comment placeholders are skipped.
func nodeEqual(a, b *yaml.Node) bool {
	a, b = resolveAlias(a), resolveAlias(b)
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case yaml.ScalarNode:
		return a.ShortTag() == b.ShortTag() && a.Value == b.Value
	case yaml.MappingNode:
		ac, bc := contentPairs(a), contentPairs(b)
		if len(ac) != len(bc) {
			return false
		}
		for i := 0; i+1 < len(ac); i += 2 {
			j := findKey(b, ac[i].Value)
			if j < 0 || !nodeEqual(ac[i+1], b.Content[j+1]) {
				return false
			}
		}
		return true
	case yaml.SequenceNode:
		ac, bc := sequenceItems(a), sequenceItems(b)
		if len(ac) != len(bc) {
			return false
		}
		for i := range ac {
			if !nodeEqual(ac[i], bc[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// contentPairs returns a mapping's key/value pairs without placeholders
func contentPairs(mapping *yaml.Node) []*yaml.Node {
	pairs := make([]*yaml.Node, 0, len(mapping.Content))
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if isPlaceholderKey(mapping.Content[i].Value) {
			continue
		}
		pairs = append(pairs, mapping.Content[i], mapping.Content[i+1])
	}
	return pairs
}

// sequenceItems returns a sequence's items without placeholder entries
func sequenceItems(seq *yaml.Node) []*yaml.Node {
	items := make([]*yaml.Node, 0, len(seq.Content))
	for _, item := range seq.Content {
		if item.Kind == yaml.MappingNode && len(item.Content) > 0 && len(contentPairs(item)) == 0 {
			continue
		}
		items = append(items, item)
	}
	return items
}

// expandDetachedAliases replaces aliases whose anchor no longer precedes
// them in the document, because the anchored value was replaced, with a
// copy of the value they pointed at.
func expandDetachedAliases(root *yaml.Node) {
	anchored := make(map[*yaml.Node]bool)

	var walk func(node *yaml.Node)
	walk = func(node *yaml.Node) {
		if node.Kind == yaml.AliasNode {
			if anchored[node.Alias] {
				return
			}
			*node = *copyNode(node.Alias)
		}
		if node.Anchor != "" {
			anchored[node] = true
		}
		for _, child := range node.Content {
			walk(child)
		}
	}
	walk(root)
}

// copyNode deep-copies a node without its anchors
func copyNode(node *yaml.Node) *yaml.Node {
	out := *node
	out.Anchor = ""
	if node.Kind == yaml.AliasNode {
		return &out
	}
	out.Content = make([]*yaml.Node, len(node.Content))
	for i, child := range node.Content {
		out.Content[i] = copyNode(child)
	}
	return &out
}
