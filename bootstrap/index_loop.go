package bootstrap

import (
	"context"
	"time"

	"search-highlighter/config"
	"search-highlighter/logger"
	"search-highlighter/usecase"
	appOtel "search-highlighter/utils/otel"

	"github.com/cenkalti/backoff/v5"
)

// indexRunner is the part of IndexRecordsUsecase the polling loop drives.
type indexRunner interface {
	GetIncrementalMark(ctx context.Context) (*time.Time, error)
	ExecuteBackfill(ctx context.Context, lastCreatedAt *time.Time, lastID string, batchSize int) (*usecase.IndexResult, error)
	ExecuteIncremental(ctx context.Context, mark time.Time, lastCreatedAt *time.Time, lastID string, batchSize int) (*usecase.IndexResult, error)
}

// newRetryBackoff creates an exponential backoff policy for index loop retries.
func newRetryBackoff(initial time.Duration) *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initial
	bo.MaxInterval = 5 * time.Minute
	bo.Multiplier = 2
	return bo
}

// runIndexLoop runs the dual-phase indexing loop.
// Phase 1 (Backfill): index all existing records from latest to oldest.
// Phase 2 (Incremental): poll for records created after the startup mark.
func runIndexLoop(ctx context.Context, indexer indexRunner, cfg config.IndexerConfig, metrics *appOtel.Metrics) {
	defer func() {
		if r := recover(); r != nil {
			logger.Logger.Error("index loop panic", "err", r)
		}
	}()

	bo := newRetryBackoff(cfg.RetryInterval)

	// wait sleeps for d and reports false once ctx is done.
	wait := func(d time.Duration) bool {
		select {
		case <-time.After(d):
			return true
		case <-ctx.Done():
			return false
		}
	}

	logger.Logger.Info("starting Phase 1: Backfill")

	var incrementalMark time.Time
	mark, err := indexer.GetIncrementalMark(ctx)
	switch {
	case err != nil:
		logger.Logger.Error("failed to get incremental mark", "err", err)
		incrementalMark = time.Now()
		logger.Logger.Info("using current time as incremental mark fallback", "mark", incrementalMark)
	case mark == nil:
		incrementalMark = time.Now()
		logger.Logger.Info("no records found, using current time as incremental mark", "mark", incrementalMark)
	default:
		incrementalMark = *mark
		logger.Logger.Info("incremental mark set", "mark", incrementalMark)
	}

	var lastCreatedAt *time.Time
	var lastID string

	for ctx.Err() == nil {
		start := time.Now()
		result, err := indexer.ExecuteBackfill(ctx, lastCreatedAt, lastID, cfg.BatchSize)
		if err != nil {
			metrics.RecordError(ctx, "backfill")
			delay := bo.NextBackOff()
			logger.Logger.Error("backfill error, retrying", "err", err, "retry_in", delay)
			if !wait(delay) {
				return
			}
			continue
		}
		bo.Reset()
		metrics.RecordBatch(ctx, "backfill", result.IndexedCount, result.DeletedCount, time.Since(start))

		if result.IndexedCount == 0 {
			logger.Logger.Info("Phase 1 complete: backfill done")
			break
		}

		logger.Logger.Info("backfill indexed", "count", result.IndexedCount)
		lastCreatedAt = result.LastCreatedAt
		lastID = result.LastID
	}

	logger.Logger.Info("starting Phase 2: Incremental")

	lastCreatedAt = nil
	lastID = ""
	bo.Reset()

	for ctx.Err() == nil {
		start := time.Now()
		result, err := indexer.ExecuteIncremental(ctx, incrementalMark, lastCreatedAt, lastID, cfg.BatchSize)
		if err != nil {
			metrics.RecordError(ctx, "incremental")
			delay := bo.NextBackOff()
			logger.Logger.Error("incremental indexing error, retrying", "err", err, "retry_in", delay)
			if !wait(delay) {
				return
			}
			continue
		}
		bo.Reset()
		metrics.RecordBatch(ctx, "incremental", result.IndexedCount, result.DeletedCount, time.Since(start))

		if result.IndexedCount > 0 {
			logger.Logger.Info("incremental indexed", "count", result.IndexedCount)
			lastCreatedAt = result.LastCreatedAt
			lastID = result.LastID
			// a full page means more rows are probably waiting
			if result.IndexedCount >= cfg.BatchSize {
				continue
			}
		} else {
			logger.Logger.Debug("no new records")
		}

		if !wait(cfg.Interval) {
			return
		}
	}
}
