// line.go — physical line model for indentation-structured source.
package bloa

import "strings"

// SplitLines normalizes line endings and splits source into physical lines.
// Windows (\r\n) and old-Mac (\r) endings are treated as \n.
func SplitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return strings.Split(src, "\n")
}

// indentWidth computes the indent of a line in columns. A space counts as one
// column and a tab as four; counting stops at the first other rune.
func indentWidth(line string) int {
	w := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

// isBlankOrComment reports whether a line holds no statement: empty, only
// whitespace, or a '#' comment at any indent.
func isBlankOrComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}
