package usecase

import (
	"context"
	"sync"
	"time"

	"search-highlighter/domain"
)

type mockRecordRepo struct {
	records     []*domain.Record
	latest      *time.Time
	err         error
	gotFrom     time.Time
	gotLastID   string
	gotIDs      []string
	forwardCall int
}

func (m *mockRecordRepo) page() ([]*domain.Record, *time.Time, string, error) {
	if m.err != nil {
		return nil, nil, "", m.err
	}
	if len(m.records) == 0 {
		return []*domain.Record{}, nil, "", nil
	}
	last := m.records[len(m.records)-1]
	createdAt := last.CreatedAt()
	return m.records, &createdAt, last.ID(), nil
}

func (m *mockRecordRepo) GetRecords(ctx context.Context, lastCreatedAt *time.Time, lastID string, limit int) ([]*domain.Record, *time.Time, string, error) {
	m.gotLastID = lastID
	return m.page()
}

func (m *mockRecordRepo) GetRecordsForward(ctx context.Context, lastCreatedAt time.Time, lastID string, limit int) ([]*domain.Record, *time.Time, string, error) {
	m.forwardCall++
	m.gotFrom = lastCreatedAt
	m.gotLastID = lastID
	return m.page()
}

func (m *mockRecordRepo) GetLatestCreatedAt(ctx context.Context) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.latest, nil
}

func (m *mockRecordRepo) GetRecordsByIDs(ctx context.Context, ids []string) ([]*domain.Record, error) {
	m.gotIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Record
	for _, r := range m.records {
		for _, id := range ids {
			if r.ID() == id {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type mockSearchEngine struct {
	mu          sync.Mutex
	indexedDocs []domain.SearchDocument
	deletedIDs  []string
	hits        []domain.SearchableRecord
	total       int64
	gotQuery    string
	gotOffset   int64
	gotLimit    int64
	indexErr    error
	deleteErr   error
	searchErr   error
}

func (m *mockSearchEngine) IndexDocuments(ctx context.Context, docs []domain.SearchDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexedDocs = append(m.indexedDocs, docs...)
	return nil
}

func (m *mockSearchEngine) DeleteDocuments(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, ids...)
	return nil
}

func (m *mockSearchEngine) Search(ctx context.Context, query string, offset, limit int64) ([]domain.SearchableRecord, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gotQuery, m.gotOffset, m.gotLimit = query, offset, limit
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return m.hits, m.total, nil
}

func (m *mockSearchEngine) EnsureIndex(ctx context.Context) error {
	return nil
}
