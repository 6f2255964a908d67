package port

import (
	"context"
	"search-highlighter/domain"
	"time"
)

type RecordRepository interface {
	// GetRecords pages newest to oldest using the (created_at, id) cursor.
	GetRecords(ctx context.Context, lastCreatedAt *time.Time, lastID string, limit int) ([]*domain.Record, *time.Time, string, error)
	// GetRecordsForward pages oldest to newest strictly after the cursor.
	GetRecordsForward(ctx context.Context, lastCreatedAt time.Time, lastID string, limit int) ([]*domain.Record, *time.Time, string, error)
	GetLatestCreatedAt(ctx context.Context) (*time.Time, error)
	GetRecordsByIDs(ctx context.Context, ids []string) ([]*domain.Record, error)
}
