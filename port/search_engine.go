package port

import (
	"context"
	"search-highlighter/domain"
)

type SearchEngine interface {
	IndexDocuments(ctx context.Context, docs []domain.SearchDocument) error
	DeleteDocuments(ctx context.Context, ids []string) error
	// Search returns the matching records and the engine's estimated total.
	Search(ctx context.Context, query string, offset, limit int64) ([]domain.SearchableRecord, int64, error)
	EnsureIndex(ctx context.Context) error
}
