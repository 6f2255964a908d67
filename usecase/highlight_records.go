package usecase

import (
	"context"
	"errors"

	"search-highlighter/domain"
	"search-highlighter/highlight"
	appOtel "search-highlighter/utils/otel"

	"golang.org/x/sync/errgroup"
)

// sequentialThreshold is the record count below which fan-out costs more than
// it saves.
const sequentialThreshold = 16

type HighlightRecordsUsecase struct {
	highlighter *highlight.Highlighter
	workers     int
	metrics     *appOtel.Metrics
}

type HighlightResult struct {
	Term    string
	Results []domain.HighlightedResult
}

func NewHighlightRecordsUsecase(highlighter *highlight.Highlighter, workers int, metrics *appOtel.Metrics) *HighlightRecordsUsecase {
	if workers < 1 {
		workers = 1
	}
	return &HighlightRecordsUsecase{
		highlighter: highlighter,
		workers:     workers,
		metrics:     metrics,
	}
}

// ExecuteRaw highlights loosely typed input as decoded from JSON. A term that
// is not a string or records that are not an array yield an
// *domain.InvalidInputError.
func (u *HighlightRecordsUsecase) ExecuteRaw(ctx context.Context, rawTerm any, rawRecords any) (*HighlightResult, error) {
	term, err := domain.TermFromAny(rawTerm)
	if err != nil {
		u.recordInvalid(ctx, err)
		return nil, err
	}

	records, err := domain.RecordsFromAny(rawRecords)
	if err != nil {
		u.recordInvalid(ctx, err)
		return nil, err
	}

	return u.Execute(ctx, term, records)
}

// Execute highlights every record with term. Results are in input order. The
// only error is ctx's when it is cancelled mid-way.
func (u *HighlightRecordsUsecase) Execute(ctx context.Context, term string, records []domain.SearchableRecord) (*HighlightResult, error) {
	// A term that cannot be compiled highlights nothing; fields are still escaped.
	m, err := highlight.NewMatcher(term)
	if err != nil {
		m = nil
		if !errors.Is(err, highlight.ErrEmptyTerm) {
			u.metrics.RecordError(ctx, "compile_term")
		}
	}

	results := make([]domain.HighlightedResult, len(records))

	if u.workers == 1 || len(records) < sequentialThreshold {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = u.highlighter.RecordWithMatcher(rec, m)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.workers)
		for i, rec := range records {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = u.highlighter.RecordWithMatcher(rec, m)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	matches := 0
	for _, r := range results {
		matches += r.MatchCount
	}
	u.metrics.RecordHighlight(ctx, len(results), matches)

	return &HighlightResult{
		Term:    term,
		Results: results,
	}, nil
}

func (u *HighlightRecordsUsecase) recordInvalid(ctx context.Context, err error) {
	var invalid *domain.InvalidInputError
	if errors.As(err, &invalid) {
		u.metrics.RecordInvalidInput(ctx, invalid.Field)
	}
}
