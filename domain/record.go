package domain

import (
	"errors"
	"time"
)

// Record is a stored record as it lives in the records table.
type Record struct {
	id        string
	title     string
	text      string
	url       string
	metadata  string
	createdAt time.Time
}

func NewRecord(id, title, text, url, metadata string, createdAt time.Time) (*Record, error) {
	if id == "" {
		return nil, errors.New("record ID cannot be empty")
	}

	return &Record{
		id:        id,
		title:     title,
		text:      text,
		url:       url,
		metadata:  metadata,
		createdAt: createdAt,
	}, nil
}

func (r *Record) ID() string {
	return r.id
}

func (r *Record) Title() string {
	return r.title
}

func (r *Record) Text() string {
	return r.text
}

func (r *Record) URL() string {
	return r.url
}

func (r *Record) Metadata() string {
	return r.metadata
}

func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// Searchable converts a stored record into a SearchableRecord.
// Empty columns are treated as absent.
func (r *Record) Searchable() SearchableRecord {
	return SearchableRecord{
		ID:       r.id,
		Title:    OptionalField(r.title),
		Text:     OptionalField(r.text),
		URL:      OptionalField(r.url),
		Metadata: OptionalField(r.metadata),
	}
}
