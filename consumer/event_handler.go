package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"search-highlighter/usecase"
	appOtel "search-highlighter/utils/otel"
)

const (
	EventRecordUpserted = "RecordUpserted"
	EventRecordDeleted  = "RecordDeleted"
)

// RecordPayload is the payload of RecordUpserted and RecordDeleted events.
type RecordPayload struct {
	RecordID string `json:"record_id"`
}

// RecordIndexer is the part of the indexing usecase the handler drives.
type RecordIndexer interface {
	IndexByIDs(ctx context.Context, ids []string) (*usecase.IndexResult, error)
	DeleteByIDs(ctx context.Context, ids []string) (*usecase.IndexResult, error)
}

// IndexEventHandler applies a batch of record events to the index with one
// upsert call and one delete call. When the same record appears more than once
// only its last event counts.
type IndexEventHandler struct {
	indexer RecordIndexer
	logger  *slog.Logger
	metrics *appOtel.Metrics
}

func NewIndexEventHandler(indexer RecordIndexer, logger *slog.Logger, metrics *appOtel.Metrics) *IndexEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexEventHandler{
		indexer: indexer,
		logger:  logger,
		metrics: metrics,
	}
}

// HandleEvents returns one error slot per event. A nil slot means the event
// was applied or deliberately skipped and can be acknowledged.
func (h *IndexEventHandler) HandleEvents(ctx context.Context, events []Event) []error {
	errs := make([]error, len(events))

	lastAction := make(map[string]string)
	var order []string
	owners := make(map[string][]int)

	for i, event := range events {
		switch event.EventType {
		case EventRecordUpserted, EventRecordDeleted:
		default:
			h.logger.Warn("unknown event type, skipping",
				"event_type", event.EventType,
				"event_id", event.EventID,
			)
			continue
		}

		var payload RecordPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			// redelivery cannot fix a malformed payload, so it is acknowledged
			h.logger.Error("dropping event with malformed payload",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"error", err,
			)
			h.metrics.RecordError(ctx, "event_decode")
			continue
		}
		if payload.RecordID == "" {
			h.logger.Warn("record event without id, skipping", "event_id", event.EventID)
			continue
		}

		if _, ok := lastAction[payload.RecordID]; !ok {
			order = append(order, payload.RecordID)
		}
		lastAction[payload.RecordID] = event.EventType
		owners[payload.RecordID] = append(owners[payload.RecordID], i)
	}

	var upserts, deletes []string
	for _, id := range order {
		if lastAction[id] == EventRecordDeleted {
			deletes = append(deletes, id)
		} else {
			upserts = append(upserts, id)
		}
	}

	start := time.Now()
	indexed, deleted := 0, 0

	if len(upserts) > 0 {
		result, err := h.indexer.IndexByIDs(ctx, upserts)
		if err != nil {
			h.logger.Error("batch indexing failed", "count", len(upserts), "error", err)
			h.metrics.RecordError(ctx, "event_upsert")
			h.fail(errs, owners, upserts, err)
		} else {
			indexed, deleted = result.IndexedCount, result.DeletedCount
		}
	}

	if len(deletes) > 0 {
		result, err := h.indexer.DeleteByIDs(ctx, deletes)
		if err != nil {
			h.logger.Error("batch delete failed", "count", len(deletes), "error", err)
			h.metrics.RecordError(ctx, "event_delete")
			h.fail(errs, owners, deletes, err)
		} else {
			deleted += result.DeletedCount
		}
	}

	if indexed > 0 || deleted > 0 {
		h.logger.Info("events applied", "indexed", indexed, "deleted", deleted)
		h.metrics.RecordBatch(ctx, "event", indexed, deleted, time.Since(start))
	}

	return errs
}

func (h *IndexEventHandler) fail(errs []error, owners map[string][]int, ids []string, err error) {
	for _, id := range ids {
		for _, i := range owners[id] {
			errs[i] = err
		}
	}
}
