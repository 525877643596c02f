package config

import (
	"strings"
)

// GenerateConfigContent returns a starter scaffold.toml: the defaults with
// every assignment commented out, so the file documents the defaults
// without pinning them
func GenerateConfigContent() string {
	return commentOutAssignments(DefaultContent())
}

// commentOutAssignments prefixes "# " to every line that is not blank, a
// comment or a table header
func commentOutAssignments(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if isAssignment(strings.TrimSpace(line)) {
			lines[i] = "# " + line
		}
	}
	return strings.Join(lines, "\n")
}

func isAssignment(line string) bool {
	switch {
	case line == "", strings.HasPrefix(line, "#"):
		return false
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return false
	default:
		return true
	}
}
