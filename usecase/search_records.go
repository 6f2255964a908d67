package usecase

import (
	"context"
	"errors"
	"time"

	"search-highlighter/domain"
	"search-highlighter/port"
	"search-highlighter/utils"
	appOtel "search-highlighter/utils/otel"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

var ErrEmptyQuery = errors.New("query cannot be empty")

type SearchRecordsUsecase struct {
	searchEngine port.SearchEngine
	highlighter  *HighlightRecordsUsecase
	sanitizer    *utils.QuerySanitizer
	metrics      *appOtel.Metrics
}

type SearchResult struct {
	Query   string
	Results []domain.HighlightedResult
	Total   int64
	Offset  int64
	Limit   int64
}

func NewSearchRecordsUsecase(searchEngine port.SearchEngine, highlighter *HighlightRecordsUsecase, sanitizer *utils.QuerySanitizer, metrics *appOtel.Metrics) *SearchRecordsUsecase {
	if sanitizer == nil {
		sanitizer = utils.NewQuerySanitizer(utils.DefaultSecurityConfig())
	}
	return &SearchRecordsUsecase{
		searchEngine: searchEngine,
		highlighter:  highlighter,
		sanitizer:    sanitizer,
		metrics:      metrics,
	}
}

// Execute runs query against the index and highlights every hit with the
// query exactly as the user typed it. limit <= 0 selects DefaultSearchLimit.
func (u *SearchRecordsUsecase) Execute(ctx context.Context, query string, offset, limit int64) (*SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if offset < 0 {
		return nil, &domain.InvalidInputError{Field: "offset", Reason: "must not be negative"}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return nil, &domain.InvalidInputError{Field: "limit", Reason: "must not exceed 100"}
	}

	if err := u.sanitizer.ValidateQuery(ctx, query); err != nil {
		return nil, err
	}

	engineQuery := u.sanitizer.NormalizeQuery(ctx, query)
	if engineQuery == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	records, total, err := u.searchEngine.Search(ctx, engineQuery, offset, limit)
	u.metrics.RecordSearch(ctx, time.Since(start))
	if err != nil {
		u.metrics.RecordError(ctx, "Search")
		return nil, err
	}

	highlighted, err := u.highlighter.Execute(ctx, query, records)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Query:   query,
		Results: highlighted.Results,
		Total:   total,
		Offset:  offset,
		Limit:   limit,
	}, nil
}
