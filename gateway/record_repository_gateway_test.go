package gateway

import (
	"context"
	"errors"
	"search-highlighter/domain"
	"search-highlighter/driver"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRecordDriver struct {
	records       []*driver.RecordModel
	lastCreatedAt *time.Time
	lastID        string
	latest        *time.Time
	err           error
}

func (m *mockRecordDriver) GetRecords(ctx context.Context, lastCreatedAt *time.Time, lastID string, limit int) ([]*driver.RecordModel, *time.Time, string, error) {
	if m.err != nil {
		return nil, nil, "", m.err
	}
	return m.records, m.lastCreatedAt, m.lastID, nil
}

func (m *mockRecordDriver) GetRecordsForward(ctx context.Context, lastCreatedAt time.Time, lastID string, limit int) ([]*driver.RecordModel, *time.Time, string, error) {
	return m.GetRecords(ctx, &lastCreatedAt, lastID, limit)
}

func (m *mockRecordDriver) GetLatestCreatedAt(ctx context.Context) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.latest, nil
}

func (m *mockRecordDriver) GetRecordsByIDs(ctx context.Context, ids []string) ([]*driver.RecordModel, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func TestRecordRepositoryGateway_GetRecords(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		driver    *mockRecordDriver
		wantCount int
		wantErr   string
	}{
		{
			name: "converts rows to domain records",
			driver: &mockRecordDriver{
				records: []*driver.RecordModel{
					{ID: "1", Title: "One", Body: "first", CreatedAt: now},
					{ID: "2", Title: "Two", Body: "second", URL: "/two", CreatedAt: now},
				},
				lastCreatedAt: &now,
				lastID:        "2",
			},
			wantCount: 2,
		},
		{
			name:      "no rows",
			driver:    &mockRecordDriver{},
			wantCount: 0,
		},
		{
			name:    "driver error",
			driver:  &mockRecordDriver{err: errors.New("db down")},
			wantErr: "GetRecords: db down",
		},
		{
			name: "row without id fails conversion",
			driver: &mockRecordDriver{
				records: []*driver.RecordModel{{ID: "", Body: "orphan", CreatedAt: now}},
			},
			wantErr: "GetRecords: failed to convert record to domain: id=, record ID cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRecordRepositoryGateway(tt.driver)

			records, lastCreatedAt, lastID, err := g.GetRecords(context.Background(), nil, "", 10)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				var repoErr *domain.RepositoryError
				assert.True(t, errors.As(err, &repoErr))
				return
			}

			require.NoError(t, err)
			require.Len(t, records, tt.wantCount)
			assert.Equal(t, tt.driver.lastCreatedAt, lastCreatedAt)
			assert.Equal(t, tt.driver.lastID, lastID)
			if tt.wantCount == 2 {
				assert.Equal(t, "second", records[1].Text())
				assert.Equal(t, "/two", records[1].URL())
			}
		})
	}
}

func TestRecordRepositoryGateway_GetRecordsForward(t *testing.T) {
	now := time.Now()
	g := NewRecordRepositoryGateway(&mockRecordDriver{
		records: []*driver.RecordModel{{ID: "9", Body: "new", CreatedAt: now}},
		lastID:  "9",
	})

	records, _, lastID, err := g.GetRecordsForward(context.Background(), now, "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "9", lastID)
}

func TestRecordRepositoryGateway_GetLatestCreatedAt(t *testing.T) {
	latest := time.Now()
	got, err := NewRecordRepositoryGateway(&mockRecordDriver{latest: &latest}).GetLatestCreatedAt(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &latest, got)

	_, err = NewRecordRepositoryGateway(&mockRecordDriver{err: errors.New("x")}).GetLatestCreatedAt(context.Background())
	assert.EqualError(t, err, "GetLatestCreatedAt: x")
}

func TestRecordRepositoryGateway_GetRecordsByIDs(t *testing.T) {
	g := NewRecordRepositoryGateway(&mockRecordDriver{
		records: []*driver.RecordModel{{ID: "a", Body: "alpha", CreatedAt: time.Now()}},
	})

	records, err := g.GetRecordsByIDs(context.Background(), []string{"a"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alpha", records[0].Text())
}
