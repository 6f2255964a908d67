package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"search-highlighter/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, id, text string, createdAt time.Time) *domain.Record {
	t.Helper()
	r, err := domain.NewRecord(id, "Title "+id, text, "", "", createdAt)
	require.NoError(t, err)
	return r
}

func TestIndexRecordsUsecase_ExecuteBackfill(t *testing.T) {
	now := time.Now()
	r1 := mustRecord(t, "1", "first", now)
	r2 := mustRecord(t, "2", "second", now.Add(-time.Minute))

	tests := []struct {
		name        string
		records     []*domain.Record
		repoErr     error
		indexErr    error
		wantIndexed int
		wantLastID  string
		wantErr     bool
	}{
		{
			name:        "successful indexing",
			records:     []*domain.Record{r1, r2},
			wantIndexed: 2,
			wantLastID:  "2",
		},
		{
			name:        "no records keeps cursor",
			records:     nil,
			wantIndexed: 0,
			wantLastID:  "cursor",
		},
		{
			name:    "repository error",
			repoErr: errors.New("database error"),
			wantErr: true,
		},
		{
			name:     "search engine error",
			records:  []*domain.Record{r1},
			indexErr: errors.New("index error"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRecordRepo{records: tt.records, err: tt.repoErr}
			engine := &mockSearchEngine{indexErr: tt.indexErr}
			u := NewIndexRecordsUsecase(repo, engine)

			result, err := u.ExecuteBackfill(context.Background(), nil, "cursor", 10)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantIndexed, result.IndexedCount)
			assert.Equal(t, tt.wantLastID, result.LastID)
			assert.Len(t, engine.indexedDocs, tt.wantIndexed)
		})
	}
}

func TestIndexRecordsUsecase_ExecuteIncremental(t *testing.T) {
	mark := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := mark.Add(time.Hour)

	t.Run("starts at mark without cursor", func(t *testing.T) {
		repo := &mockRecordRepo{records: []*domain.Record{mustRecord(t, "n1", "new", newer)}}
		engine := &mockSearchEngine{}
		u := NewIndexRecordsUsecase(repo, engine)

		result, err := u.ExecuteIncremental(context.Background(), mark, nil, "", 10)
		require.NoError(t, err)
		assert.Equal(t, mark, repo.gotFrom)
		assert.Equal(t, 1, result.IndexedCount)
		assert.Equal(t, "n1", result.LastID)
		require.NotNil(t, result.LastCreatedAt)
		assert.Equal(t, newer, *result.LastCreatedAt)
	})

	t.Run("continues from cursor", func(t *testing.T) {
		repo := &mockRecordRepo{}
		u := NewIndexRecordsUsecase(repo, &mockSearchEngine{})

		result, err := u.ExecuteIncremental(context.Background(), mark, &newer, "n1", 10)
		require.NoError(t, err)
		assert.Equal(t, newer, repo.gotFrom)
		assert.Equal(t, "n1", repo.gotLastID)
		assert.Zero(t, result.IndexedCount)
		assert.Equal(t, &newer, result.LastCreatedAt)
		assert.Equal(t, "n1", result.LastID)
	})
}

func TestIndexRecordsUsecase_GetIncrementalMark(t *testing.T) {
	latest := time.Now()
	mark, err := NewIndexRecordsUsecase(&mockRecordRepo{latest: &latest}, &mockSearchEngine{}).GetIncrementalMark(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &latest, mark)

	mark, err = NewIndexRecordsUsecase(&mockRecordRepo{}, &mockSearchEngine{}).GetIncrementalMark(context.Background())
	require.NoError(t, err)
	assert.Nil(t, mark)
}

func TestIndexRecordsUsecase_IndexByIDs(t *testing.T) {
	now := time.Now()
	repo := &mockRecordRepo{records: []*domain.Record{
		mustRecord(t, "a", "alpha", now),
		mustRecord(t, "b", "beta", now),
	}}
	engine := &mockSearchEngine{}
	u := NewIndexRecordsUsecase(repo, engine)

	result, err := u.IndexByIDs(context.Background(), []string{"a", "a", "", "b", "gone"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "gone"}, repo.gotIDs)
	assert.Equal(t, 2, result.IndexedCount)
	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, []string{"gone"}, engine.deletedIDs)
	require.Len(t, engine.indexedDocs, 2)
	assert.Equal(t, "alpha", engine.indexedDocs[0].Text)
}

func TestIndexRecordsUsecase_IndexByIDs_Empty(t *testing.T) {
	repo := &mockRecordRepo{}
	result, err := NewIndexRecordsUsecase(repo, &mockSearchEngine{}).IndexByIDs(context.Background(), []string{"", ""})
	require.NoError(t, err)
	assert.Zero(t, result.IndexedCount)
	assert.Nil(t, repo.gotIDs, "repository must not be called")
}

func TestIndexRecordsUsecase_DeleteByIDs(t *testing.T) {
	engine := &mockSearchEngine{}
	u := NewIndexRecordsUsecase(&mockRecordRepo{}, engine)

	result, err := u.DeleteByIDs(context.Background(), []string{"x", "y", "x"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Equal(t, []string{"x", "y"}, engine.deletedIDs)

	engine.deleteErr = errors.New("engine down")
	_, err = u.DeleteByIDs(context.Background(), []string{"z"})
	assert.EqualError(t, err, "engine down")
}
