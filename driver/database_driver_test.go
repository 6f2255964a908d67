package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordRowColumns = []string{"id", "title", "body", "url", "metadata", "created_at"}

func newMockDriver(t *testing.T) (*DatabaseDriver, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewDatabaseDriver(mock), mock
}

func TestDatabaseDriver_GetRecords_FirstPage(t *testing.T) {
	d, mock := newMockDriver(t)
	newer := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC\s+LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(recordRowColumns).
			AddRow("b", "Second", "body b", "", "", newer).
			AddRow("a", "First", "body a", "https://a.example", "meta", older))

	records, lastCreatedAt, lastID, err := d.GetRecords(context.Background(), nil, "", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "https://a.example", records[1].URL)
	require.NotNil(t, lastCreatedAt)
	assert.Equal(t, older, *lastCreatedAt)
	assert.Equal(t, "a", lastID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseDriver_GetRecords_WithCursor(t *testing.T) {
	d, mock := newMockDriver(t)
	cursor := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`WHERE \(created_at, id\) < \(\$1, \$2\)`).
		WithArgs(cursor, "a", 10).
		WillReturnRows(pgxmock.NewRows(recordRowColumns))

	records, lastCreatedAt, lastID, err := d.GetRecords(context.Background(), &cursor, "a", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Nil(t, lastCreatedAt)
	assert.Equal(t, "", lastID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseDriver_GetRecordsForward(t *testing.T) {
	d, mock := newMockDriver(t)
	mark := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := mark.Add(time.Hour)

	mock.ExpectQuery(`WHERE \(created_at, id\) > \(\$1, \$2\)\s+ORDER BY created_at ASC, id ASC`).
		WithArgs(mark, "", 50).
		WillReturnRows(pgxmock.NewRows(recordRowColumns).
			AddRow("c", "Third", "body c", "", "", later))

	records, lastCreatedAt, lastID, err := d.GetRecordsForward(context.Background(), mark, "", 50)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, later, *lastCreatedAt)
	assert.Equal(t, "c", lastID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseDriver_GetRecords_QueryError(t *testing.T) {
	d, mock := newMockDriver(t)

	mock.ExpectQuery(`FROM records`).
		WithArgs(5).
		WillReturnError(errors.New("connection reset"))

	_, _, _, err := d.GetRecords(context.Background(), nil, "", 5)
	assert.EqualError(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseDriver_GetLatestCreatedAt(t *testing.T) {
	d, mock := newMockDriver(t)
	latest := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT MAX\(created_at\) FROM records`).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(&latest))

	got, err := d.GetLatestCreatedAt(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, latest, *got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseDriver_GetRecordsByIDs(t *testing.T) {
	t.Run("empty ids skip the query", func(t *testing.T) {
		d, mock := newMockDriver(t)

		records, err := d.GetRecordsByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns matching rows", func(t *testing.T) {
		d, mock := newMockDriver(t)
		now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		ids := []string{"x", "y"}

		mock.ExpectQuery(`WHERE id = ANY\(\$1\)`).
			WithArgs(ids).
			WillReturnRows(pgxmock.NewRows(recordRowColumns).
				AddRow("x", "X", "body", "", "", now))

		records, err := d.GetRecordsByIDs(context.Background(), ids)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "x", records[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
