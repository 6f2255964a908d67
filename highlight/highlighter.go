package highlight

import (
	"html/template"
	"net/url"
	"strings"

	"search-highlighter/domain"
)

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithMarker sets the element wrapped around matches.
func WithMarker(m Marker) Option {
	return func(h *Highlighter) {
		h.marker = m.normalize()
	}
}

// WithSnippetLength sets the snippet window in runes. n <= 0 disables
// truncation so the snippet is the whole text.
func WithSnippetLength(n int) Option {
	return func(h *Highlighter) {
		h.snippetLength = n
	}
}

// Highlighter renders records for display. It holds no per-call state and is
// safe for concurrent use.
type Highlighter struct {
	marker        Marker
	snippetLength int
}

func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		marker:        DefaultMarker,
		snippetLength: DefaultSnippetLength,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Marker returns the marker this highlighter renders.
func (h *Highlighter) Marker() Marker {
	return h.marker
}

// Text highlights term in text. An empty term returns the escaped text.
func (h *Highlighter) Text(text, term string) template.HTML {
	m, err := NewMatcher(term)
	if err != nil {
		return Render(text, nil, h.marker)
	}
	return Render(text, m.FindAll(text), h.marker)
}

// Record highlights a single record.
func (h *Highlighter) Record(rec domain.SearchableRecord, term string) domain.HighlightedResult {
	m, _ := NewMatcher(term)
	return h.RecordWithMatcher(rec, m)
}

// Records highlights records in order. The term is compiled once.
func (h *Highlighter) Records(records []domain.SearchableRecord, term string) []domain.HighlightedResult {
	m, _ := NewMatcher(term)

	results := make([]domain.HighlightedResult, len(records))
	for i, rec := range records {
		results[i] = h.RecordWithMatcher(rec, m)
	}
	return results
}

// RecordWithMatcher highlights rec with a precompiled matcher. A nil matcher
// renders every field escaped and unhighlighted.
func (h *Highlighter) RecordWithMatcher(rec domain.SearchableRecord, m *Matcher) domain.HighlightedResult {
	title := rec.Title.Text()
	text := rec.Text.Text()
	metadata := rec.Metadata.Text()

	titleSpans := m.FindAll(title)
	textSpans := m.FindAll(text)
	metadataSpans := m.FindAll(metadata)

	return domain.HighlightedResult{
		ID:         rec.ID,
		Title:      Render(title, titleSpans, h.marker),
		Text:       Render(text, textSpans, h.marker),
		Snippet:    h.snippet(text, m),
		Metadata:   Render(metadata, metadataSpans, h.marker),
		URL:        SafeURL(rec.URL.Text()),
		MatchCount: len(titleSpans) + len(textSpans) + len(metadataSpans),
	}
}

func (h *Highlighter) snippet(text string, m *Matcher) template.HTML {
	start, end := SnippetBounds(text, m, h.snippetLength)
	window := text[start:end]
	prefix, suffix := snippetAffixes(text, start, end)
	return template.HTML(prefix) + Render(window, m.FindAll(window), h.marker) + template.HTML(suffix)
}

// SafeURL returns raw when it is an http(s) or relative URL and "" otherwise,
// so script-bearing schemes never reach a link sink.
func SafeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return u.String()
	default:
		return ""
	}
}
