// Package search executes configurable retrieval pipelines against a
// collection. A pipeline is described by a SearchConfig whose operator
// slots are filled (or left nil) per request; the Executor derives an
// ordered plan from the populated slots, runs each operator once in
// dependency order, and accumulates intermediate products in a State.
//
// Streaming executions additionally publish a frame per lifecycle event
// through an EventPublisher; see stream.go for the frame contract.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Canonical operator names. These are the identifiers used in dependency
// declarations, timing maps, error records and stream frames.
const (
	OpQueryExpansion      = "query_expansion"
	OpQueryInterpretation = "query_interpretation"
	OpQdrantFilter        = "qdrant_filter"
	OpEmbedding           = "embedding"
	OpVectorSearch        = "vector_search"
	OpRecency             = "recency"
	OpReranking           = "reranking"
	OpCompletion          = "completion"
)

// ErrMissingRequired indicates a SearchConfig without one of the two
// mandatory operators (embedding, vector_search).
var ErrMissingRequired = errors.New("required operator missing")

// Operator is a single pipeline stage. Execute reads its inputs from the
// State, performs its work, and writes its products back to the State.
// Operators run at most once per request and must not retain the State
// after returning.
type Operator interface {
	// Name returns the canonical operator name.
	Name() string

	// DependsOn lists operator names that must run first. Dependencies
	// naming operators absent from the plan are treated as satisfied.
	DependsOn() []string

	// Execute runs the stage. A returned error aborts the pipeline.
	Execute(ctx context.Context, state *State) error
}

// SearchConfig describes one search request: the query inputs plus the
// operator slot assignments. Nil slots are skipped. Embedding and
// VectorSearch are mandatory; the rest are optional.
type SearchConfig struct {
	Query          string
	Limit          int
	Offset         int
	ScoreThreshold *float64
	CollectionSlug string

	// OperatorBudget bounds each operator's Execute with a deadline.
	// Zero disables the bound.
	OperatorBudget time.Duration

	// Pre-retrieval slots.
	QueryExpansion      Operator
	QueryInterpretation Operator
	QdrantFilter        Operator

	// Retrieval slots (required).
	Embedding    Operator
	VectorSearch Operator

	// Post-retrieval slots.
	Recency    Operator
	Reranking  Operator
	Completion Operator
}

// Validate checks that the mandatory slots are populated.
func (c *SearchConfig) Validate() error {
	if c.Embedding == nil {
		return fmt.Errorf("%w: %s", ErrMissingRequired, OpEmbedding)
	}
	if c.VectorSearch == nil {
		return fmt.Errorf("%w: %s", ErrMissingRequired, OpVectorSearch)
	}
	return nil
}

// SearchResult is one retrieved document with its similarity score and
// source payload.
type SearchResult struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload,omitempty"`
}

// OperationError records one operator failure for the summary frame and
// the final state.
type OperationError struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// ExecutionSummary aggregates what a finished (or aborted) execution did.
type ExecutionSummary struct {
	OperationsExecuted int     `json:"operations_executed"`
	TotalTimeMs        float64 `json:"total_time_ms"`
	ErrorsCount        int     `json:"errors_count"`
}

// EventPublisher delivers marshaled stream frames to subscribers.
// *events.Publisher satisfies this; tests substitute a recorder. Publish
// failures are logged and swallowed by the emitter, never surfaced to
// operators.
type EventPublisher interface {
	PublishSearchEvent(ctx context.Context, requestID string, frame []byte) error
}
