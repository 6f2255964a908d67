package domain

import "html/template"

// HighlightedResult is the display-ready form of a SearchableRecord.
// Every template.HTML field contains escaped source text and highlight markers only.
type HighlightedResult struct {
	ID         string        `json:"id"`
	Title      template.HTML `json:"title"`
	Text       template.HTML `json:"text"`
	Snippet    template.HTML `json:"snippet"`
	Metadata   template.HTML `json:"metadata"`
	URL        string        `json:"url,omitempty"`
	MatchCount int           `json:"match_count"`
}
