package statement

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// pageText indexes page text by rune so windows are measured in characters.
type pageText struct {
	s     string
	raw   []rune
	lower string
}

func newPageText(s string) *pageText {
	raw := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range raw {
		b.WriteRune(unicode.ToLower(r))
	}
	return &pageText{s: string(raw), raw: raw, lower: b.String()}
}

// index returns the rune offset of the first case-insensitive occurrence of label, or -1.
func (t *pageText) index(label string) int {
	i := strings.Index(t.lower, lowerRunes(label))
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(t.lower[:i])
}

// slice returns raw[from:to] clamped to the text bounds.
func (t *pageText) slice(from, to int) string {
	from = max(from, 0)
	to = min(to, len(t.raw))
	if from >= to {
		return ""
	}
	return string(t.raw[from:to])
}

// runeOffset converts a byte offset into t.s to a rune offset.
func (t *pageText) runeOffset(byteOffset int) int {
	return utf8.RuneCountInString(t.s[:byteOffset])
}

func lowerRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func hasNegativeContext(window string) bool {
	low := lowerRunes(window)
	for _, bad := range cardNegativeContext {
		if strings.Contains(low, bad) {
			return true
		}
	}
	return false
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
