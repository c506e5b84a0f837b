package search

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/auth"
)

// fakeOperator is a scriptable Operator for executor tests.
type fakeOperator struct {
	name    string
	deps    []string
	execute func(ctx context.Context, st *State) error
}

func (o *fakeOperator) Name() string        { return o.name }
func (o *fakeOperator) DependsOn() []string { return o.deps }
func (o *fakeOperator) Execute(ctx context.Context, st *State) error {
	if o.execute == nil {
		return nil
	}
	return o.execute(ctx, st)
}

// recordingPublisher implements EventPublisher and captures decoded frames
// in publish order.
type recordingPublisher struct {
	mu     sync.Mutex
	frames []map[string]any
}

func (p *recordingPublisher) PublishSearchEvent(_ context.Context, _ string, frame []byte) error {
	var decoded map[string]any
	if err := json.Unmarshal(frame, &decoded); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, decoded)
	return nil
}

func (p *recordingPublisher) all() []map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]map[string]any(nil), p.frames...)
}

func (p *recordingPublisher) types() []string {
	frames := p.all()
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, f["type"].(string))
	}
	return out
}

// failingPublisher rejects every publish.
type failingPublisher struct {
	mu    sync.Mutex
	calls int
}

func (p *failingPublisher) PublishSearchEvent(context.Context, string, []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return errors.New("pubsub unavailable")
}

func (p *failingPublisher) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// recordingTracker implements analytics.Tracker and captures events.
type recordingTracker struct {
	mu     sync.Mutex
	events []analytics.SearchQueryEvent
}

func (t *recordingTracker) TrackSearchQuery(ev analytics.SearchQueryEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, ev)
}

func (t *recordingTracker) Close() error { return nil }

func (t *recordingTracker) all() []analytics.SearchQueryEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]analytics.SearchQueryEvent(nil), t.events...)
}

// pipelineOp builds an operator that records its execution into order.
// The dependency declarations mirror the production operators.
func pipelineOp(name string, order *[]string, deps ...string) *fakeOperator {
	return &fakeOperator{
		name: name,
		deps: deps,
		execute: func(_ context.Context, _ *State) error {
			*order = append(*order, name)
			return nil
		},
	}
}

func fullPipelineConfig(order *[]string) *SearchConfig {
	return &SearchConfig{
		Query:               "hello",
		Limit:               10,
		CollectionSlug:      "docs",
		QueryExpansion:      pipelineOp(OpQueryExpansion, order),
		QueryInterpretation: pipelineOp(OpQueryInterpretation, order, OpQueryExpansion),
		QdrantFilter:        pipelineOp(OpQdrantFilter, order, OpQueryInterpretation, OpQueryExpansion),
		Embedding:           pipelineOp(OpEmbedding, order, OpQueryExpansion, OpQueryInterpretation, OpQdrantFilter),
		VectorSearch:        pipelineOp(OpVectorSearch, order, OpEmbedding, OpQdrantFilter),
		Recency:             pipelineOp(OpRecency, order, OpVectorSearch),
		Reranking:           pipelineOp(OpReranking, order, OpVectorSearch, OpRecency),
		Completion:          pipelineOp(OpCompletion, order, OpVectorSearch, OpRecency, OpReranking),
	}
}

func TestExecute_MinimalPipelineNonStreaming(t *testing.T) {
	pub := &recordingPublisher{}
	tracker := &recordingTracker{}
	exec := NewExecutor(pub, tracker)

	reqCtx := &auth.RequestContext{
		Method:       auth.MethodAPIKey,
		Organization: auth.Organization{ID: "org-1", Name: "Acme"},
	}
	cfg := &SearchConfig{
		Query:          "hello",
		Limit:          10,
		CollectionSlug: "docs",
		Embedding: &fakeOperator{name: OpEmbedding, execute: func(_ context.Context, st *State) error {
			st.Embeddings = [][]float32{{0.1, 0.2}}
			return nil
		}},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}, execute: func(_ context.Context, st *State) error {
			st.RawResults = []SearchResult{{ID: "1", Score: 0.9}, {ID: "2", Score: 0.8}}
			return nil
		}},
	}

	st, err := exec.Execute(context.Background(), cfg, nil, reqCtx, "")
	require.NoError(t, err)
	require.NotNil(t, st)

	assert.Equal(t, st.RawResults, st.FinalResults)
	assert.Len(t, st.FinalResults, 2)
	assert.Len(t, st.Timings, 2)
	assert.Contains(t, st.Timings, OpEmbedding)
	assert.Contains(t, st.Timings, OpVectorSearch)
	assert.Empty(t, st.Errors)
	require.NotNil(t, st.Summary)
	assert.Equal(t, 2, st.Summary.OperationsExecuted)
	assert.Equal(t, 0, st.Summary.ErrorsCount)

	// No request ID, no published events.
	assert.Empty(t, pub.all())

	events := tracker.all()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.StatusSuccess, events[0].Status)
	assert.False(t, events[0].Streaming)
	assert.Equal(t, 2, events[0].ResultsCount)
	assert.Equal(t, len("hello"), events[0].QueryLength)
	assert.Equal(t, "docs", events[0].CollectionSlug)
	assert.Equal(t, "api_key_org-1", events[0].DistinctID)
	assert.Equal(t, "Acme", events[0].OrganizationName)
}

func TestExecute_FullPipelineStreaming(t *testing.T) {
	pub := &recordingPublisher{}
	tracker := &recordingTracker{}
	exec := NewExecutor(pub, tracker)

	var order []string
	cfg := fullPipelineConfig(&order)

	st, err := exec.Execute(context.Background(), cfg, nil, nil, "r1")
	require.NoError(t, err)
	require.NotNil(t, st)

	wantOrder := []string{
		OpQueryExpansion, OpQueryInterpretation, OpQdrantFilter, OpEmbedding,
		OpVectorSearch, OpRecency, OpReranking, OpCompletion,
	}
	assert.Equal(t, wantOrder, order)
	assert.Equal(t, 8, st.Summary.OperationsExecuted)

	frames := pub.all()
	wantTypes := []string{EventTypeStart}
	for range wantOrder {
		wantTypes = append(wantTypes, EventTypeOperatorStart, EventTypeOperatorEnd)
	}
	wantTypes = append(wantTypes, EventTypeResults, EventTypeSummary, EventTypeDone)
	assert.Equal(t, wantTypes, pub.types())

	// Dense, strictly increasing seq from 1.
	require.Len(t, frames, 20)
	for i, f := range frames {
		assert.Equal(t, float64(i+1), f["seq"], "frame %d", i)
		ts, ok := f["ts"].(string)
		require.True(t, ok, "frame %d missing ts", i)
		_, parseErr := time.Parse(time.RFC3339Nano, ts)
		assert.NoError(t, parseErr, "frame %d ts not RFC 3339", i)
	}

	// Operator frames carry op and a per-operator sequence; the start/end
	// pair for each operator is op_seq 1 and 2.
	for i, opName := range wantOrder {
		startFrame := frames[1+2*i]
		endFrame := frames[2+2*i]
		assert.Equal(t, opName, startFrame["name"])
		assert.Equal(t, opName, startFrame["op"])
		assert.Equal(t, float64(1), startFrame["op_seq"])
		assert.Equal(t, opName, endFrame["name"])
		assert.Equal(t, opName, endFrame["op"])
		assert.Equal(t, float64(2), endFrame["op_seq"])
		assert.GreaterOrEqual(t, endFrame["ms"].(float64), 0.0)
	}

	// Global frames omit op entirely.
	for _, i := range []int{0, 17, 18, 19} {
		_, hasOp := frames[i]["op"]
		assert.False(t, hasOp, "frame %d should not carry op", i)
	}

	start := frames[0]
	assert.Equal(t, "r1", start["request_id"])
	assert.Equal(t, "hello", start["query"])
	assert.Equal(t, float64(10), start["limit"])
	assert.Equal(t, float64(0), start["offset"])

	summary := frames[18]
	assert.Len(t, summary["timings"], 8)
	assert.GreaterOrEqual(t, summary["total_time_ms"].(float64), 0.0)

	done := frames[19]
	assert.Equal(t, "r1", done["request_id"])

	events := tracker.all()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.StatusSuccess, events[0].Status)
	assert.True(t, events[0].Streaming)
}

func TestExecute_OperatorFailureAbortsPipeline(t *testing.T) {
	pub := &recordingPublisher{}
	tracker := &recordingTracker{}
	exec := NewExecutor(pub, tracker)

	boom := errors.New("boom")
	completionRan := false
	cfg := &SearchConfig{
		Query:          "q",
		CollectionSlug: "docs",
		Embedding:      &fakeOperator{name: OpEmbedding},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}, execute: func(_ context.Context, st *State) error {
			st.RawResults = []SearchResult{{ID: "1"}}
			return nil
		}},
		Reranking: &fakeOperator{name: OpReranking, deps: []string{OpVectorSearch}, execute: func(context.Context, *State) error {
			return boom
		}},
		Completion: &fakeOperator{name: OpCompletion, deps: []string{OpVectorSearch, OpReranking}, execute: func(context.Context, *State) error {
			completionRan = true
			return nil
		}},
	}

	st, err := exec.Execute(context.Background(), cfg, nil, nil, "r2")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), OpReranking)
	require.NotNil(t, st)

	assert.False(t, completionRan, "downstream operator must not run after a failure")
	assert.Equal(t, []OperationError{{Operation: OpReranking, Error: "boom"}}, st.Errors)
	assert.Nil(t, st.Summary, "finalization is skipped when an operator fails")
	assert.Nil(t, st.FinalResults)
	assert.Len(t, st.Timings, 2)
	assert.NotContains(t, st.Timings, OpReranking)

	types := pub.types()
	assert.NotContains(t, types, EventTypeResults)
	assert.NotContains(t, types, EventTypeSummary)
	assert.Equal(t, EventTypeDone, types[len(types)-1])

	frames := pub.all()
	errFrame := frames[len(frames)-2]
	assert.Equal(t, EventTypeError, errFrame["type"])
	assert.Equal(t, OpReranking, errFrame["operation"])
	assert.Equal(t, "boom", errFrame["message"])
	assert.Equal(t, OpReranking, errFrame["op"])

	events := tracker.all()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.StatusError, events[0].Status)
	assert.Equal(t, 0, events[0].ResultsCount)
}

func TestExecute_MissingRequiredOperator(t *testing.T) {
	tests := []struct {
		name string
		cfg  *SearchConfig
	}{
		{
			name: "missing embedding",
			cfg:  &SearchConfig{Query: "q", VectorSearch: &fakeOperator{name: OpVectorSearch}},
		},
		{
			name: "missing vector search",
			cfg:  &SearchConfig{Query: "q", Embedding: &fakeOperator{name: OpEmbedding}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			tracker := &recordingTracker{}
			exec := NewExecutor(pub, tracker)

			st, err := exec.Execute(context.Background(), tt.cfg, nil, nil, "r9")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingRequired)
			assert.Nil(t, st)

			// Plan errors precede streaming, but the analytics hook still
			// fires once per invocation.
			assert.Empty(t, pub.all())
			events := tracker.all()
			require.Len(t, events, 1)
			assert.Equal(t, analytics.StatusError, events[0].Status)
		})
	}
}

func TestExecute_SoftMissingDependency(t *testing.T) {
	exec := NewExecutor(nil, nil)

	var order []string
	cfg := &SearchConfig{
		Query:          "q",
		QueryExpansion: pipelineOp(OpQueryExpansion, &order),
		// query_interpretation omitted; qdrant_filter still declares it.
		QdrantFilter: pipelineOp(OpQdrantFilter, &order, OpQueryInterpretation, OpQueryExpansion),
		Embedding:    pipelineOp(OpEmbedding, &order, OpQueryExpansion, OpQueryInterpretation, OpQdrantFilter),
		VectorSearch: pipelineOp(OpVectorSearch, &order, OpEmbedding, OpQdrantFilter),
	}

	_, err := exec.Execute(context.Background(), cfg, nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{OpQueryExpansion, OpQdrantFilter, OpEmbedding, OpVectorSearch}, order)
}

func TestExecute_UnsatisfiableDependencies(t *testing.T) {
	pub := &recordingPublisher{}
	tracker := &recordingTracker{}
	exec := NewExecutor(pub, tracker)

	ranAny := false
	mark := func(context.Context, *State) error {
		ranAny = true
		return nil
	}
	cfg := &SearchConfig{
		Query:        "q",
		Embedding:    &fakeOperator{name: OpEmbedding, deps: []string{OpVectorSearch}, execute: mark},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}, execute: mark},
	}

	st, err := exec.Execute(context.Background(), cfg, nil, nil, "r3")
	require.NoError(t, err, "an unsatisfiable plan terminates normally")
	require.NotNil(t, st)

	assert.False(t, ranAny)
	require.NotNil(t, st.FinalResults)
	assert.Empty(t, st.FinalResults)
	require.NotNil(t, st.Summary)
	assert.Equal(t, 0, st.Summary.OperationsExecuted)

	assert.Equal(t, []string{EventTypeStart, EventTypeResults, EventTypeSummary, EventTypeDone}, pub.types())
	require.Len(t, tracker.all(), 1)
	assert.Equal(t, analytics.StatusSuccess, tracker.all()[0].Status)
}

func TestExecute_EmptyQueryPropagates(t *testing.T) {
	exec := NewExecutor(nil, nil)

	var seenQuery *string
	cfg := &SearchConfig{
		Query: "",
		Embedding: &fakeOperator{name: OpEmbedding, execute: func(_ context.Context, st *State) error {
			q := st.Query
			seenQuery = &q
			return nil
		}},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}},
	}

	_, err := exec.Execute(context.Background(), cfg, nil, nil, "")
	require.NoError(t, err)
	require.NotNil(t, seenQuery)
	assert.Equal(t, "", *seenQuery)
}

func TestExecute_PublishFailuresDoNotFailSearch(t *testing.T) {
	pub := &failingPublisher{}
	exec := NewExecutor(pub, nil)

	cfg := &SearchConfig{
		Query:     "q",
		Embedding: &fakeOperator{name: OpEmbedding},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}, execute: func(_ context.Context, st *State) error {
			st.RawResults = []SearchResult{{ID: "1"}}
			return nil
		}},
	}

	st, err := exec.Execute(context.Background(), cfg, nil, nil, "r4")
	require.NoError(t, err)
	assert.Len(t, st.FinalResults, 1)
	assert.Greater(t, pub.callCount(), 0, "publishes were attempted")
}

func TestExecute_CancellationAbortsCurrentOperator(t *testing.T) {
	pub := &recordingPublisher{}
	exec := NewExecutor(pub, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &SearchConfig{
		Query: "q",
		Embedding: &fakeOperator{name: OpEmbedding, execute: func(c context.Context, _ *State) error {
			cancel()
			<-c.Done()
			return c.Err()
		}},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}},
	}

	st, err := exec.Execute(ctx, cfg, nil, nil, "r5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, st)
	require.Len(t, st.Errors, 1)
	assert.Equal(t, OpEmbedding, st.Errors[0].Operation)

	types := pub.types()
	assert.Equal(t, []string{EventTypeStart, EventTypeOperatorStart, EventTypeError, EventTypeDone}, types)
}

func TestExecute_OperatorBudgetBoundsEachOperator(t *testing.T) {
	exec := NewExecutor(nil, nil)

	cfg := &SearchConfig{
		Query:          "q",
		OperatorBudget: 20 * time.Millisecond,
		Embedding: &fakeOperator{name: OpEmbedding, execute: func(c context.Context, _ *State) error {
			deadline, ok := c.Deadline()
			if !ok {
				return errors.New("no deadline on operator context")
			}
			if time.Until(deadline) > 20*time.Millisecond {
				return errors.New("deadline exceeds budget")
			}
			return nil
		}},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}, execute: func(c context.Context, _ *State) error {
			<-c.Done()
			return c.Err()
		}},
	}

	st, err := exec.Execute(context.Background(), cfg, nil, nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, st)
	require.Len(t, st.Errors, 1)
	assert.Equal(t, OpVectorSearch, st.Errors[0].Operation)
}

func TestExecute_ConcurrentEmitsWithinOperators(t *testing.T) {
	pub := &recordingPublisher{}
	exec := NewExecutor(pub, nil)

	emitting := func(name string) func(context.Context, *State) error {
		return func(_ context.Context, st *State) error {
			var wg sync.WaitGroup
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					st.Emit("progress", map[string]any{"detail": "tick"}, name)
				}()
			}
			wg.Wait()
			return nil
		}
	}
	cfg := &SearchConfig{
		Query:        "q",
		Embedding:    &fakeOperator{name: OpEmbedding, execute: emitting(OpEmbedding)},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}, execute: emitting(OpVectorSearch)},
	}

	_, err := exec.Execute(context.Background(), cfg, nil, nil, "r6")
	require.NoError(t, err)

	frames := pub.all()
	// start + 2x(operator_start + 2 progress + operator_end) + results +
	// summary + done.
	require.Len(t, frames, 12)

	progress := 0
	for i, f := range frames {
		assert.Equal(t, float64(i+1), f["seq"], "seq must stay dense under concurrent emits")
		if f["type"] == "progress" {
			progress++
		}
	}
	assert.Equal(t, 4, progress)

	// Per-operator sub-sequences are contiguous.
	for _, opName := range []string{OpEmbedding, OpVectorSearch} {
		var opSeqs []float64
		for _, f := range frames {
			if f["op"] == opName {
				opSeqs = append(opSeqs, f["op_seq"].(float64))
			}
		}
		assert.Equal(t, []float64{1, 2, 3, 4}, opSeqs)
	}
}

func TestExecute_NilCollaborators(t *testing.T) {
	exec := NewExecutor(nil, nil)

	cfg := &SearchConfig{
		Query:        "q",
		Embedding:    &fakeOperator{name: OpEmbedding},
		VectorSearch: &fakeOperator{name: OpVectorSearch, deps: []string{OpEmbedding}},
	}

	st, err := exec.Execute(context.Background(), cfg, nil, nil, "r7")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NotNil(t, st.FinalResults)
}
