package search

import (
	"log/slog"

	"github.com/qdrant/go-client/qdrant"

	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/database"
)

// State is the per-request accumulator threaded through every operator.
// The Executor creates one State per Execute call; operators read the
// products of their dependencies from it and write their own back. It is
// never shared across requests and operators run one at a time, so no
// locking is needed.
type State struct {
	// Request inputs.
	Query      string
	Config     *SearchConfig
	DB         *database.Client
	RequestCtx *auth.RequestContext
	Logger     *slog.Logger

	// Streaming identity. RequestID is empty for synchronous searches, in
	// which case Emit is a no-op. StreamingRequired is informational: it
	// records that the caller asked for a live stream, and is not consulted
	// by the executor.
	RequestID         string
	StreamingRequired bool

	// Execution bookkeeping, owned by the executor.
	Timings map[string]float64
	Errors  []OperationError

	// Operator products.
	ExpandedQueries []string
	Embeddings      [][]float32
	Filter          *qdrant.Filter
	RawResults      []SearchResult
	FinalResults    []SearchResult
	Completion      string

	// Summary is populated during finalization, after the last operator.
	Summary *ExecutionSummary

	emitter *Emitter
}

// Emit submits a stream event. opName must be the canonical operator name
// for operator-scoped events and empty for global ones. Safe to call on a
// non-streaming State, where it does nothing.
func (s *State) Emit(eventType string, data map[string]any, opName string) {
	s.emitter.Emit(eventType, data, opName)
}

// Log returns the request-scoped logger, falling back to the default
// logger so operators can log unconditionally.
func (s *State) Log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
