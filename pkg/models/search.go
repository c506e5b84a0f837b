package models

import (
	"encoding/json"
	"time"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// SearchRequest is the body of POST /collections/:slug/search.
// Nil boolean flags take the server-side defaults; Filter is a Qdrant
// filter in its JSON wire form and is passed through verbatim.
type SearchRequest struct {
	Query          string          `json:"query"`
	Limit          int             `json:"limit,omitempty"`
	Offset         int             `json:"offset,omitempty"`
	ScoreThreshold *float64        `json:"score_threshold,omitempty"`
	Filter         json.RawMessage `json:"filter,omitempty"`
	RecencyBias    *float64        `json:"recency_bias,omitempty"`

	ExpandQuery      *bool `json:"expand_query,omitempty"`
	InterpretFilters *bool `json:"interpret_filters,omitempty"`
	Rerank           *bool `json:"rerank,omitempty"`
	GenerateAnswer   *bool `json:"generate_answer,omitempty"`
}

// SearchResponse is the synchronous search result envelope.
type SearchResponse struct {
	Results    []search.SearchResult    `json:"results"`
	Completion string                   `json:"completion,omitempty"`
	Execution  *search.ExecutionSummary `json:"execution,omitempty"`
}

// StreamingSearchAck acknowledges an enqueued streaming search. Clients
// subscribe to Channel over the WebSocket endpoint to follow progress.
type StreamingSearchAck struct {
	RequestID string `json:"request_id"`
	Channel   string `json:"channel"`
	Status    string `json:"status"`
}

// SearchRequestFilters contains filtering options for listing search requests
type SearchRequestFilters struct {
	Status         string     `json:"status,omitempty"`
	CollectionSlug string     `json:"collection_slug,omitempty"`
	CreatedAfter   *time.Time `json:"created_after,omitempty"`
	Limit          int        `json:"limit,omitempty"`
	Offset         int        `json:"offset,omitempty"`
}

// SearchRequestListResponse contains a paginated search request list
type SearchRequestListResponse struct {
	Requests   []*ent.SearchRequest `json:"requests"`
	TotalCount int                  `json:"total_count"`
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}
