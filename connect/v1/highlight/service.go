package highlight

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"search-highlighter/domain"
)

const (
	ServiceName = "highlight.v1.HighlightService"

	HighlightProcedure = "/" + ServiceName + "/Highlight"
	SearchProcedure    = "/" + ServiceName + "/Search"
)

type HighlightRequest struct {
	Term    any `json:"term"`
	Records any `json:"records"`
}

type HighlightResponse struct {
	Term    string                     `json:"term"`
	Results []domain.HighlightedResult `json:"results"`
}

type SearchRequest struct {
	Query  string `json:"query"`
	Offset int64  `json:"offset"`
	Limit  int64  `json:"limit"`
}

type SearchResponse struct {
	Query              string                     `json:"query"`
	Results            []domain.HighlightedResult `json:"results"`
	EstimatedTotalHits int64                      `json:"estimated_total_hits"`
	Offset             int64                      `json:"offset"`
	Limit              int64                      `json:"limit"`
}

// ServiceHandler is implemented by the server side of HighlightService.
type ServiceHandler interface {
	Highlight(context.Context, *connect.Request[HighlightRequest]) (*connect.Response[HighlightResponse], error)
	Search(context.Context, *connect.Request[SearchRequest]) (*connect.Response[SearchResponse], error)
}

// NewServiceHandler returns the mount path and handler for svc.
func NewServiceHandler(svc ServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	highlightHandler := connect.NewUnaryHandler(HighlightProcedure, svc.Highlight, opts...)
	searchHandler := connect.NewUnaryHandler(SearchProcedure, svc.Search, opts...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case HighlightProcedure:
			highlightHandler.ServeHTTP(w, r)
		case SearchProcedure:
			searchHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// Client calls HighlightService over the JSON codec.
type Client struct {
	highlight *connect.Client[HighlightRequest, HighlightResponse]
	search    *connect.Client[SearchRequest, SearchResponse]
}

func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &Client{
		highlight: connect.NewClient[HighlightRequest, HighlightResponse](httpClient, baseURL+HighlightProcedure, opts...),
		search:    connect.NewClient[SearchRequest, SearchResponse](httpClient, baseURL+SearchProcedure, opts...),
	}
}

func (c *Client) Highlight(ctx context.Context, req *HighlightRequest) (*HighlightResponse, error) {
	resp, err := c.highlight.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	resp, err := c.search.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
