// Package text normalizes free-form user input before it is stored or
// relayed to staff.
package text

import (
	"strings"
	"unicode"
)

// Normalize tidies multi-line user input: runs of spaces collapse to one,
// lines are trimmed, and runs of blank lines collapse to a single blank
// line. Ideographic spaces are kept as-is.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")

	out := make([]string, 0, len(lines))
	blank := false

	for _, l := range lines {
		l = normalizeLineWhitespace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}

			blank = true

			continue
		}

		out = append(out, l)
		blank = false
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

// SingleLine flattens input intended to be one line, such as a display
// name, collapsing all whitespace including newlines to single spaces.
func SingleLine(s string) string {
	return normalizeLineWhitespace(strings.ReplaceAll(s, "\n", " "))
}

func normalizeLineWhitespace(line string) string {
	var b strings.Builder

	var space bool

	for _, r := range line {
		switch {
		case r == '　':
			b.WriteRune(r)

			space = false
		case unicode.IsSpace(r) || r == ' ':
			if !space {
				b.WriteRune(' ')

				space = true
			}
		default:
			b.WriteRune(r)

			space = false
		}
	}

	return strings.TrimSpace(b.String())
}
