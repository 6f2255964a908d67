package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "search-highlighter"

	batchDurationName  = "search_highlighter_batch_duration_seconds"
	searchDurationName = "search_highlighter_search_duration_seconds"
)

// Metrics contains all metric instruments. A nil *Metrics records nothing.
type Metrics struct {
	HighlightedTotal  metric.Int64Counter
	MatchesTotal      metric.Int64Counter
	InvalidInputTotal metric.Int64Counter
	IndexedTotal      metric.Int64Counter
	DeletedTotal      metric.Int64Counter
	ErrorsTotal       metric.Int64Counter
	BatchDuration     metric.Float64Histogram
	SearchDuration    metric.Float64Histogram
}

// NewMetrics creates the instruments on the global meter provider. When OTel
// is disabled the global provider is a no-op and so are the instruments.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithMeter(otel.Meter(meterName))
}

func NewMetricsWithMeter(meter metric.Meter) (*Metrics, error) {
	highlightedTotal, err := meter.Int64Counter("search_highlighter_highlighted_records_total",
		metric.WithDescription("Total number of records highlighted"),
	)
	if err != nil {
		return nil, err
	}

	matchesTotal, err := meter.Int64Counter("search_highlighter_matches_total",
		metric.WithDescription("Total number of term occurrences marked"),
	)
	if err != nil {
		return nil, err
	}

	invalidInputTotal, err := meter.Int64Counter("search_highlighter_invalid_input_total",
		metric.WithDescription("Total number of highlight requests rejected as invalid input"),
	)
	if err != nil {
		return nil, err
	}

	indexedTotal, err := meter.Int64Counter("search_highlighter_indexed_total",
		metric.WithDescription("Total number of records indexed"),
	)
	if err != nil {
		return nil, err
	}

	deletedTotal, err := meter.Int64Counter("search_highlighter_deleted_total",
		metric.WithDescription("Total number of records deleted from index"),
	)
	if err != nil {
		return nil, err
	}

	errorsTotal, err := meter.Int64Counter("search_highlighter_errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	batchDuration, err := meter.Float64Histogram(batchDurationName,
		metric.WithDescription("Index batch processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	searchDuration, err := meter.Float64Histogram(searchDurationName,
		metric.WithDescription("Search request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		HighlightedTotal:  highlightedTotal,
		MatchesTotal:      matchesTotal,
		InvalidInputTotal: invalidInputTotal,
		IndexedTotal:      indexedTotal,
		DeletedTotal:      deletedTotal,
		ErrorsTotal:       errorsTotal,
		BatchDuration:     batchDuration,
		SearchDuration:    searchDuration,
	}, nil
}

func (m *Metrics) RecordHighlight(ctx context.Context, records, matches int) {
	if m == nil {
		return
	}
	m.HighlightedTotal.Add(ctx, int64(records))
	m.MatchesTotal.Add(ctx, int64(matches))
}

func (m *Metrics) RecordInvalidInput(ctx context.Context, field string) {
	if m == nil {
		return
	}
	m.InvalidInputTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
}

// RecordBatch records one indexing batch. phase is backfill, incremental or
// event.
func (m *Metrics) RecordBatch(ctx context.Context, phase string, indexed, deleted int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("phase", phase))
	if indexed > 0 {
		m.IndexedTotal.Add(ctx, int64(indexed), attrs)
	}
	if deleted > 0 {
		m.DeletedTotal.Add(ctx, int64(deleted), attrs)
	}
	m.BatchDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) RecordError(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
}

func (m *Metrics) RecordSearch(ctx context.Context, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SearchDuration.Record(ctx, elapsed.Seconds())
}
