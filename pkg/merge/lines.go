package merge

import (
	"bytes"
	"strings"
)

// record is one line of a line-oriented document. Records with an empty key
// (comments, blank lines) are never matched against incoming content.
type record struct {
	key  string
	text string
}

type keyFunc func(line string) string

// recordKey keys ignore-style lines by their first whitespace-delimited token
func recordKey(line string) string {
	if strings.HasPrefix(line, "#") {
		return ""
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// envKey keys KEY=value lines by the text before the first "="
func envKey(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}
	key, _, _ := strings.Cut(trimmed, "=")
	return strings.TrimSpace(key)
}

// splitLines splits content into lines and reports whether it ended with a
// newline. A lone trailing "\r" is kept on the line it belongs to.
func splitLines(content []byte) ([]string, bool) {
	if len(content) == 0 {
		return nil, false
	}
	text := string(content)
	trailing := strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n"), trailing
}

func parseRecords(lines []string, key keyFunc) []record {
	records := make([]record, len(lines))
	for i, line := range lines {
		records[i] = record{key: key(line), text: line}
	}
	return records
}

// mergeLines merges line-oriented documents.
//
// The original is scanned from the end; a keyed line whose key also appears
// in incoming is replaced in place by the incoming line and the key is
// consumed. Incoming keyed lines left over are appended in their incoming
// order. Incoming comment lines are appended only when the original does not
// already contain them verbatim; incoming blank lines are dropped.
func mergeLines(original, incoming []byte, key keyFunc) []byte {
	origLines, origTrailing := splitLines(original)
	inLines, inTrailing := splitLines(incoming)

	incomingRecords := parseRecords(inLines, key)

	pending := make(map[string]string)
	for _, r := range incomingRecords {
		if r.key != "" {
			pending[r.key] = r.text
		}
	}

	out := make([]string, len(origLines))
	copy(out, origLines)
	present := make(map[string]bool, len(origLines))
	for _, line := range origLines {
		present[line] = true
	}

	for i := len(out) - 1; i >= 0; i-- {
		k := key(out[i])
		if k == "" {
			continue
		}
		if text, ok := pending[k]; ok {
			out[i] = text
			delete(pending, k)
		}
	}

	appended := false
	for _, r := range incomingRecords {
		switch {
		case r.key != "":
			text, ok := pending[r.key]
			if !ok {
				continue
			}
			out = append(out, text)
			delete(pending, r.key)
			appended = true
		case strings.TrimSpace(r.text) == "":
			continue
		case !present[r.text]:
			out = append(out, r.text)
			present[r.text] = true
			appended = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Join(out, "\n"))
	if origTrailing || (appended && inTrailing) {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
