package usecase

import (
	"context"
	"time"

	"search-highlighter/domain"
	"search-highlighter/port"
)

type IndexRecordsUsecase struct {
	recordRepo   port.RecordRepository
	searchEngine port.SearchEngine
}

type IndexResult struct {
	IndexedCount  int
	DeletedCount  int
	LastCreatedAt *time.Time
	LastID        string
}

func NewIndexRecordsUsecase(recordRepo port.RecordRepository, searchEngine port.SearchEngine) *IndexRecordsUsecase {
	return &IndexRecordsUsecase{
		recordRepo:   recordRepo,
		searchEngine: searchEngine,
	}
}

// GetIncrementalMark returns the newest created_at at startup. Backfill covers
// everything up to it and incremental polling everything after. nil means the
// table is empty.
func (u *IndexRecordsUsecase) GetIncrementalMark(ctx context.Context) (*time.Time, error) {
	return u.recordRepo.GetLatestCreatedAt(ctx)
}

// ExecuteBackfill indexes one page, newest first, older than the cursor.
func (u *IndexRecordsUsecase) ExecuteBackfill(ctx context.Context, lastCreatedAt *time.Time, lastID string, batchSize int) (*IndexResult, error) {
	records, newLastCreatedAt, newLastID, err := u.recordRepo.GetRecords(ctx, lastCreatedAt, lastID, batchSize)
	if err != nil {
		return nil, err
	}

	return u.index(ctx, records, lastCreatedAt, lastID, newLastCreatedAt, newLastID)
}

// ExecuteIncremental indexes one page, oldest first, newer than the cursor.
// With no cursor yet it starts at mark.
func (u *IndexRecordsUsecase) ExecuteIncremental(ctx context.Context, mark time.Time, lastCreatedAt *time.Time, lastID string, batchSize int) (*IndexResult, error) {
	from := mark
	if lastCreatedAt != nil {
		from = *lastCreatedAt
	}

	records, newLastCreatedAt, newLastID, err := u.recordRepo.GetRecordsForward(ctx, from, lastID, batchSize)
	if err != nil {
		return nil, err
	}

	return u.index(ctx, records, lastCreatedAt, lastID, newLastCreatedAt, newLastID)
}

// IndexByIDs re-reads the given records and indexes them. IDs no longer in the
// table are removed from the index.
func (u *IndexRecordsUsecase) IndexByIDs(ctx context.Context, ids []string) (*IndexResult, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return &IndexResult{}, nil
	}

	records, err := u.recordRepo.GetRecordsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result, err := u.index(ctx, records, nil, "", nil, "")
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{}, len(records))
	for _, r := range records {
		found[r.ID()] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		if err := u.searchEngine.DeleteDocuments(ctx, missing); err != nil {
			return nil, err
		}
		result.DeletedCount = len(missing)
	}

	return result, nil
}

func (u *IndexRecordsUsecase) DeleteByIDs(ctx context.Context, ids []string) (*IndexResult, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return &IndexResult{}, nil
	}

	if err := u.searchEngine.DeleteDocuments(ctx, ids); err != nil {
		return nil, err
	}
	return &IndexResult{DeletedCount: len(ids)}, nil
}

func (u *IndexRecordsUsecase) index(ctx context.Context, records []*domain.Record, lastCreatedAt *time.Time, lastID string, newLastCreatedAt *time.Time, newLastID string) (*IndexResult, error) {
	if len(records) == 0 {
		return &IndexResult{
			LastCreatedAt: lastCreatedAt,
			LastID:        lastID,
		}, nil
	}

	docs := make([]domain.SearchDocument, 0, len(records))
	for _, record := range records {
		docs = append(docs, domain.NewSearchDocument(record))
	}

	if err := u.searchEngine.IndexDocuments(ctx, docs); err != nil {
		return nil, err
	}

	return &IndexResult{
		IndexedCount:  len(docs),
		LastCreatedAt: newLastCreatedAt,
		LastID:        newLastID,
	}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
