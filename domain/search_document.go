package domain

// SearchDocument is the shape of a record inside the search index.
type SearchDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Metadata string `json:"metadata"`
}

func NewSearchDocument(record *Record) SearchDocument {
	return SearchDocument{
		ID:       record.ID(),
		Title:    record.Title(),
		Text:     record.Text(),
		URL:      record.URL(),
		Metadata: record.Metadata(),
	}
}
