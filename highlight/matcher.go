package highlight

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrEmptyTerm is returned by NewMatcher when the term is empty after trimming.
// Callers treat it as "no matching performed", never as "match everywhere".
var ErrEmptyTerm = errors.New("highlight: empty search term")

// Span is a half-open byte range [Start, End) in the original text.
type Span struct {
	Start int
	End   int
}

// Matcher finds case-insensitive occurrences of a literal term.
// A nil *Matcher finds nothing.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher compiles raw into a case-insensitive literal matcher.
func NewMatcher(raw string) (*Matcher, error) {
	pattern := EscapeTerm(raw)
	if pattern == "" {
		return nil, ErrEmptyTerm
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("compile term: %w", err)
	}
	return &Matcher{re: re}, nil
}

// FindAll returns all non-overlapping matches in text, leftmost first.
// Scanning resumes after the end of each match.
func (m *Matcher) FindAll(text string) []Span {
	if m == nil || text == "" {
		return nil
	}

	locs := m.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		if loc[1] <= loc[0] {
			continue
		}
		spans = append(spans, Span{Start: loc[0], End: loc[1]})
	}
	return spans
}

// Find returns the first match in text.
func (m *Matcher) Find(text string) (Span, bool) {
	if m == nil || text == "" {
		return Span{}, false
	}

	loc := m.re.FindStringIndex(text)
	if loc == nil || loc[1] <= loc[0] {
		return Span{}, false
	}
	return Span{Start: loc[0], End: loc[1]}, true
}
