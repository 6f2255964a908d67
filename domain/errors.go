package domain

// RepositoryError represents an error from the repository layer.
type RepositoryError struct {
	Op  string
	Err string
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err
}

// SearchEngineError represents an error from the search engine layer.
type SearchEngineError struct {
	Op  string
	Err string
}

func (e *SearchEngineError) Error() string {
	return e.Op + ": " + e.Err
}

// InvalidInputError is returned when a caller passes a term or record set of the
// wrong shape. Callers recover by rendering nothing matched.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Field + " " + e.Reason
}
