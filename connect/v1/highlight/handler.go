// Package highlight provides the Connect-RPC HighlightService.
package highlight

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"search-highlighter/domain"
	"search-highlighter/logger"
	"search-highlighter/usecase"
	"search-highlighter/utils"
)

// Handler implements ServiceHandler on top of the highlight and search usecases.
type Handler struct {
	highlightUsecase *usecase.HighlightRecordsUsecase
	searchUsecase    *usecase.SearchRecordsUsecase
	guard            *utils.MarkupGuard
}

func NewHandler(highlightUsecase *usecase.HighlightRecordsUsecase, searchUsecase *usecase.SearchRecordsUsecase, guard *utils.MarkupGuard) *Handler {
	return &Handler{
		highlightUsecase: highlightUsecase,
		searchUsecase:    searchUsecase,
		guard:            guard,
	}
}

var _ ServiceHandler = (*Handler)(nil)

func (h *Handler) Highlight(
	ctx context.Context,
	req *connect.Request[HighlightRequest],
) (*connect.Response[HighlightResponse], error) {
	ctx = logger.WithOperation(ctx, "connect.highlight")

	result, err := h.highlightUsecase.ExecuteRaw(ctx, req.Msg.Term, req.Msg.Records)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	return connect.NewResponse(&HighlightResponse{
		Term:    result.Term,
		Results: h.guardAll(result.Results),
	}), nil
}

func (h *Handler) Search(
	ctx context.Context,
	req *connect.Request[SearchRequest],
) (*connect.Response[SearchResponse], error) {
	ctx = logger.WithOperation(ctx, "connect.search")

	result, err := h.searchUsecase.Execute(ctx, req.Msg.Query, req.Msg.Offset, req.Msg.Limit)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	logger.GlobalContext.WithContext(ctx).Info("search ok", "count", len(result.Results), "estimated_total", result.Total)

	return connect.NewResponse(&SearchResponse{
		Query:              result.Query,
		Results:            h.guardAll(result.Results),
		EstimatedTotalHits: result.Total,
		Offset:             result.Offset,
		Limit:              result.Limit,
	}), nil
}

func (h *Handler) guardAll(results []domain.HighlightedResult) []domain.HighlightedResult {
	if h.guard == nil {
		return results
	}
	for i := range results {
		results[i].Title = h.guard.Guard(results[i].Title)
		results[i].Text = h.guard.Guard(results[i].Text)
		results[i].Snippet = h.guard.Guard(results[i].Snippet)
		results[i].Metadata = h.guard.Guard(results[i].Metadata)
	}
	return results
}

func toConnectError(ctx context.Context, err error) error {
	var invalid *domain.InvalidInputError
	var security *utils.SecurityError

	switch {
	case errors.As(err, &invalid):
		return connect.NewError(connect.CodeInvalidArgument, invalid)
	case errors.Is(err, usecase.ErrEmptyQuery):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &security):
		return connect.NewError(connect.CodeInvalidArgument, errors.New(security.Message))
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	logger.GlobalContext.WithContext(ctx).Error("rpc failed", "error", err)
	return connect.NewError(connect.CodeInternal, fmt.Errorf("request failed"))
}
