package highlight

import "unicode/utf8"

const ellipsis = "..."

// DefaultSnippetLength is the snippet window in runes.
const DefaultSnippetLength = 150

// SnippetBounds returns the byte range of a window of text around the first
// match: maxRunes/2 runes before the match start and maxRunes/2 runes after the
// match end. Without a match the window is the first maxRunes runes.
// Text no longer than maxRunes (or maxRunes <= 0) yields the whole text.
func SnippetBounds(text string, m *Matcher, maxRunes int) (start, end int) {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return 0, len(text)
	}

	span, ok := m.Find(text)
	if !ok {
		return 0, advanceRunes(text, 0, maxRunes)
	}

	half := maxRunes / 2
	return retreatRunes(text, span.Start, half), advanceRunes(text, span.End, half)
}

// Snippet returns the plain-text window chosen by SnippetBounds with "..."
// added on each truncated side.
func Snippet(text string, m *Matcher, maxRunes int) string {
	start, end := SnippetBounds(text, m, maxRunes)
	prefix, suffix := snippetAffixes(text, start, end)
	return prefix + text[start:end] + suffix
}

func snippetAffixes(text string, start, end int) (prefix, suffix string) {
	if start > 0 {
		prefix = ellipsis
	}
	if end < len(text) {
		suffix = ellipsis
	}
	return prefix, suffix
}

// advanceRunes moves n runes forward from byte offset i.
func advanceRunes(text string, i, n int) int {
	for ; n > 0 && i < len(text); n-- {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}

// retreatRunes moves n runes backward from byte offset i.
func retreatRunes(text string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return i
}
