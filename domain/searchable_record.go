package domain

// Field is an optional text attribute of a SearchableRecord.
// A field that was missing, null or not a string is absent and renders as empty.
type Field struct {
	Value   string
	Present bool
}

// Text returns the value of a present field and "" otherwise.
func (f Field) Text() string {
	if !f.Present {
		return ""
	}
	return f.Value
}

// PresentField returns a field that is present, even when value is empty.
func PresentField(value string) Field {
	return Field{Value: value, Present: true}
}

// OptionalField returns a field that is present only when value is non-empty.
func OptionalField(value string) Field {
	if value == "" {
		return Field{}
	}
	return PresentField(value)
}

// SearchableRecord is a record whose fields are scanned for a search term.
// All fields hold untrusted text.
type SearchableRecord struct {
	ID       string
	Text     Field
	Title    Field
	URL      Field
	Metadata Field
}

// RecordFromMap builds a SearchableRecord from loosely typed data (decoded JSON,
// search engine hits). Non-string values are treated as absent; this never fails.
func RecordFromMap(m map[string]any) SearchableRecord {
	if m == nil {
		return SearchableRecord{}
	}

	rec := SearchableRecord{
		Text:     fieldFromMap(m, "text"),
		Title:    fieldFromMap(m, "title"),
		URL:      fieldFromMap(m, "url"),
		Metadata: fieldFromMap(m, "metadata"),
	}
	if id := fieldFromMap(m, "id"); id.Present {
		rec.ID = id.Value
	}
	return rec
}

func fieldFromMap(m map[string]any, key string) Field {
	raw, ok := m[key]
	if !ok {
		return Field{}
	}
	s, ok := raw.(string)
	if !ok {
		return Field{}
	}
	return PresentField(s)
}

// RecordsFromAny converts a decoded JSON value into records.
// Anything that is not an array yields an InvalidInputError; array entries that
// are not objects become empty records so output stays aligned with input.
func RecordsFromAny(v any) ([]SearchableRecord, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, &InvalidInputError{Field: "records", Reason: "must be an array"}
	}

	records := make([]SearchableRecord, len(items))
	for i, item := range items {
		m, _ := item.(map[string]any)
		records[i] = RecordFromMap(m)
	}
	return records, nil
}

// TermFromAny converts a decoded JSON value into a search term.
// A missing (nil) term is the empty term; any other non-string is invalid.
func TermFromAny(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &InvalidInputError{Field: "term", Reason: "must be a string"}
	}
	return s, nil
}
