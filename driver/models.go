package driver

import "time"

// RecordModel is a row of the records table.
type RecordModel struct {
	ID        string
	Title     string
	Body      string
	URL       string
	Metadata  string
	CreatedAt time.Time
}

// SearchDocumentDriver is a document as stored in the search engine.
type SearchDocumentDriver struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Metadata string `json:"metadata"`
}

// SearchHit is a raw hit returned by the search engine. Fields are kept
// untyped so callers can tell absent fields from empty ones.
type SearchHit map[string]any

// DriverError represents an error from the driver layer
type DriverError struct {
	Op  string
	Err string
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}
