package driver

import (
	"context"
	"time"

	"search-highlighter/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxIface is the subset of *pgxpool.Pool the driver needs.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const recordColumns = `id, COALESCE(title, ''), COALESCE(body, ''), COALESCE(url, ''), COALESCE(metadata, ''), created_at`

type DatabaseDriver struct {
	pool PgxIface
}

func NewDatabaseDriver(pool PgxIface) *DatabaseDriver {
	return &DatabaseDriver{
		pool: pool,
	}
}

// NewDatabaseDriverFromURL opens a pool for dbURL and verifies it with a ping.
func NewDatabaseDriverFromURL(ctx context.Context, dbURL string, maxConns int32) (*DatabaseDriver, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, &DriverError{
			Op:  "NewDatabaseDriverFromURL",
			Err: "failed to parse database URL: " + err.Error(),
		}
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, &DriverError{
			Op:  "NewDatabaseDriverFromURL",
			Err: "failed to create database pool: " + err.Error(),
		}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &DriverError{
			Op:  "NewDatabaseDriverFromURL",
			Err: "failed to ping database: " + err.Error(),
		}
	}

	logger.Logger.Info("Database connected successfully")
	return &DatabaseDriver{pool: pool}, nil
}

// Close closes the database connection pool
func (d *DatabaseDriver) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

func (d *DatabaseDriver) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// GetRecords returns records newest first, strictly older than the cursor when
// one is given.
func (d *DatabaseDriver) GetRecords(ctx context.Context, lastCreatedAt *time.Time, lastID string, limit int) ([]*RecordModel, *time.Time, string, error) {
	var query string
	var args []any

	if lastCreatedAt == nil || lastCreatedAt.IsZero() {
		query = `
			SELECT ` + recordColumns + `
			FROM records
			ORDER BY created_at DESC, id DESC
			LIMIT $1
		`
		args = []any{limit}
	} else {
		query = `
			SELECT ` + recordColumns + `
			FROM records
			WHERE (created_at, id) < ($1, $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		`
		args = []any{*lastCreatedAt, lastID, limit}
	}

	return d.queryPage(ctx, query, args...)
}

// GetRecordsForward returns records oldest first, strictly newer than the cursor.
func (d *DatabaseDriver) GetRecordsForward(ctx context.Context, lastCreatedAt time.Time, lastID string, limit int) ([]*RecordModel, *time.Time, string, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE (created_at, id) > ($1, $2)
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`
	return d.queryPage(ctx, query, lastCreatedAt, lastID, limit)
}

func (d *DatabaseDriver) GetLatestCreatedAt(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	if err := d.pool.QueryRow(ctx, `SELECT MAX(created_at) FROM records`).Scan(&latest); err != nil {
		return nil, err
	}
	return latest, nil
}

func (d *DatabaseDriver) GetRecordsByIDs(ctx context.Context, ids []string) ([]*RecordModel, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`
	records, _, _, err := d.queryPage(ctx, query, ids)
	return records, err
}

func (d *DatabaseDriver) queryPage(ctx context.Context, query string, args ...any) ([]*RecordModel, *time.Time, string, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, "", err
	}
	defer rows.Close()

	var records []*RecordModel
	var finalCreatedAt *time.Time
	var finalID string

	for rows.Next() {
		var record RecordModel
		err = rows.Scan(&record.ID, &record.Title, &record.Body, &record.URL, &record.Metadata, &record.CreatedAt)
		if err != nil {
			return nil, nil, "", err
		}

		records = append(records, &record)
		finalCreatedAt = &record.CreatedAt
		finalID = record.ID
	}

	if err = rows.Err(); err != nil {
		return nil, nil, "", err
	}

	return records, finalCreatedAt, finalID, nil
}
