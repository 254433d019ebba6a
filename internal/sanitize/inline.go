package sanitize

import (
	"strings"
	"unicode/utf8"
)

const (
	maxInlinePathLen  = 240
	maxInlineMatchLen = 160
	maxInlineTextLen  = 1000
)

// PathInline makes a file path safe to embed in a single line of agent
// instructions or terminal output.
func PathInline(path string) string {
	return inline(path, maxInlinePathLen)
}

// MatchInline is PathInline for matched source text, with a tighter cap.
func MatchInline(text string) string {
	return inline(text, maxInlineMatchLen)
}

// TextInline flattens rule names and fix instructions onto one line.
func TextInline(text string) string {
	return inline(text, maxInlineTextLen)
}

func inline(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n', '\r', '\t':
			b.WriteRune(' ')
		default:
			if r < 0x20 || r == 0x7f || r == utf8.RuneError {
				continue
			}
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if len(out) <= max {
		return out
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(out[cut]) {
		cut--
	}
	return out[:cut] + "..."
}
