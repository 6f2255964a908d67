package gateway

import (
	"context"
	"search-highlighter/domain"
	"search-highlighter/driver"
)

type SearchDriver interface {
	IndexDocuments(ctx context.Context, docs []driver.SearchDocumentDriver) error
	DeleteDocuments(ctx context.Context, ids []string) error
	Search(ctx context.Context, query string, offset, limit int64) ([]driver.SearchHit, int64, error)
	EnsureIndex(ctx context.Context) error
}

type SearchEngineGateway struct {
	driver SearchDriver
}

func NewSearchEngineGateway(driver SearchDriver) *SearchEngineGateway {
	return &SearchEngineGateway{
		driver: driver,
	}
}

func (g *SearchEngineGateway) IndexDocuments(ctx context.Context, docs []domain.SearchDocument) error {
	if len(docs) == 0 {
		return nil
	}

	driverDocs := make([]driver.SearchDocumentDriver, len(docs))
	for i, doc := range docs {
		driverDocs[i] = driver.SearchDocumentDriver{
			ID:       doc.ID,
			Title:    doc.Title,
			Text:     doc.Text,
			URL:      doc.URL,
			Metadata: doc.Metadata,
		}
	}

	if err := g.driver.IndexDocuments(ctx, driverDocs); err != nil {
		return &domain.SearchEngineError{
			Op:  "IndexDocuments",
			Err: err.Error(),
		}
	}

	return nil
}

func (g *SearchEngineGateway) DeleteDocuments(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	if err := g.driver.DeleteDocuments(ctx, ids); err != nil {
		return &domain.SearchEngineError{
			Op:  "DeleteDocuments",
			Err: err.Error(),
		}
	}

	return nil
}

// Search converts raw hits through the same boundary as caller-supplied
// records, so a hit missing a field yields an absent field.
func (g *SearchEngineGateway) Search(ctx context.Context, query string, offset, limit int64) ([]domain.SearchableRecord, int64, error) {
	hits, total, err := g.driver.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, &domain.SearchEngineError{
			Op:  "Search",
			Err: err.Error(),
		}
	}

	records := make([]domain.SearchableRecord, len(hits))
	for i, hit := range hits {
		records[i] = domain.RecordFromMap(hit)
	}

	return records, total, nil
}

func (g *SearchEngineGateway) EnsureIndex(ctx context.Context) error {
	if err := g.driver.EnsureIndex(ctx); err != nil {
		return &domain.SearchEngineError{
			Op:  "EnsureIndex",
			Err: err.Error(),
		}
	}

	return nil
}
