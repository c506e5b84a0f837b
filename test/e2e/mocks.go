package e2e

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/openai"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
)

// ChatKind identifies which operator a chat completion call came from,
// classified by its system prompt.
type ChatKind string

const (
	KindExpansion      ChatKind = "expansion"
	KindInterpretation ChatKind = "interpretation"
	KindRerank         ChatKind = "rerank"
	KindCompletion     ChatKind = "completion"
	KindUnknown        ChatKind = "unknown"
)

// classifyPrompt maps a system prompt to the operator that sent it. The
// markers are stable fragments of the operator prompts.
func classifyPrompt(system string) ChatKind {
	switch {
	case strings.Contains(system, "rewrite search queries"):
		return KindExpansion
	case strings.Contains(system, "extract structured filters"):
		return KindInterpretation
	case strings.Contains(system, "rank search results"):
		return KindRerank
	case strings.Contains(system, "answer questions"):
		return KindCompletion
	default:
		return KindUnknown
	}
}

// ScriptedChat implements openai.ChatCompleter with canned per-operator
// responses. Safe for concurrent use.
type ScriptedChat struct {
	mu        sync.Mutex
	responses map[ChatKind]string
	errs      map[ChatKind]error
	calls     []openai.CompletionRequest
}

// NewScriptedChat returns a chat fake whose defaults let every LLM
// operator succeed: one expansion, no derived filter, identity rerank,
// and a fixed answer.
func NewScriptedChat() *ScriptedChat {
	return &ScriptedChat{
		responses: map[ChatKind]string{
			KindExpansion:      `["alternate phrasing"]`,
			KindInterpretation: `{"conditions":[],"after":null,"before":null,"confidence":0.0}`,
			KindRerank:         `[0, 1, 2, 3, 4]`,
			KindCompletion:     "The documents describe the requested topic.",
		},
		errs: map[ChatKind]error{},
	}
}

// Respond overrides the canned response for one operator kind.
func (c *ScriptedChat) Respond(kind ChatKind, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[kind] = response
}

// Fail makes calls from the given operator kind return err.
func (c *ScriptedChat) Fail(kind ChatKind, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[kind] = err
}

// Calls returns a snapshot of every completion request received.
func (c *ScriptedChat) Calls() []openai.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]openai.CompletionRequest, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallsOfKind counts the calls classified as kind.
func (c *ScriptedChat) CallsOfKind(kind ChatKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if classifyPrompt(call.System) == kind {
			n++
		}
	}
	return n
}

// Complete implements openai.ChatCompleter.
func (c *ScriptedChat) Complete(_ context.Context, req openai.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)

	kind := classifyPrompt(req.System)
	if err := c.errs[kind]; err != nil {
		return "", err
	}
	resp, ok := c.responses[kind]
	if !ok {
		return "", fmt.Errorf("no scripted response for prompt kind %q", kind)
	}
	return resp, nil
}

// StaticEmbedder implements openai.Embedder with deterministic vectors:
// every text maps to a unit-ish vector derived from its length.
type StaticEmbedder struct {
	Dim int
}

// Embed implements openai.Embedder.
func (e StaticEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	dim := e.Dim
	if dim <= 0 {
		dim = 8
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32((len(text)+i+j)%7) / 7
		}
		out[i] = v
	}
	return out, nil
}

// FakeVectorStore implements both services.VectorStore (collection
// lifecycle) and qdrant.Searcher (queries) over an in-memory corpus. Every
// query returns the same scored results regardless of vector, which keeps
// the pipeline deterministic.
type FakeVectorStore struct {
	mu          sync.Mutex
	collections map[string]bool
	results     []qdrant.ScoredResult
	queryErr    error
	queries     int
}

// NewFakeVectorStore creates the fake with a canned result set.
func NewFakeVectorStore(results []qdrant.ScoredResult) *FakeVectorStore {
	return &FakeVectorStore{
		collections: make(map[string]bool),
		results:     results,
	}
}

// DefaultCorpus is the standard three-document result set used by most
// tests: descending scores, payloads with content and timestamps.
func DefaultCorpus() []qdrant.ScoredResult {
	now := time.Now().UTC()
	return []qdrant.ScoredResult{
		{ID: "doc-1", Score: 0.95, Payload: map[string]any{
			"content":    "Quarterly revenue grew 12 percent year over year.",
			"created_at": now.Add(-48 * time.Hour).Format(time.RFC3339),
		}},
		{ID: "doc-2", Score: 0.82, Payload: map[string]any{
			"content":    "The onboarding guide covers workspace setup.",
			"created_at": now.Add(-2 * time.Hour).Format(time.RFC3339),
		}},
		{ID: "doc-3", Score: 0.71, Payload: map[string]any{
			"content":    "Incident retrospective for the March outage.",
			"created_at": now.Add(-240 * time.Hour).Format(time.RFC3339),
		}},
	}
}

// SetResults replaces the canned result set.
func (f *FakeVectorStore) SetResults(results []qdrant.ScoredResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = results
}

// FailQueries makes Query return err.
func (f *FakeVectorStore) FailQueries(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryErr = err
}

// QueryCount reports how many queries the pipeline issued.
func (f *FakeVectorStore) QueryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

// HasCollection reports whether EnsureCollection was called for name.
func (f *FakeVectorStore) HasCollection(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.collections[name]
}

// EnsureCollection implements services.VectorStore.
func (f *FakeVectorStore) EnsureCollection(_ context.Context, name string, _ uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[name] = true
	return nil
}

// DeleteCollection implements services.VectorStore.
func (f *FakeVectorStore) DeleteCollection(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.collections, name)
	return nil
}

// Query implements qdrant.Searcher. Limit and offset are applied to the
// canned set so pagination behaves like the real store.
func (f *FakeVectorStore) Query(_ context.Context, params qdrant.QueryParams) ([]qdrant.ScoredResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	results := f.results
	if params.ScoreThreshold != nil {
		filtered := make([]qdrant.ScoredResult, 0, len(results))
		for _, r := range results {
			if r.Score >= *params.ScoreThreshold {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}
	if params.Offset >= uint64(len(results)) {
		return nil, nil
	}
	results = results[params.Offset:]
	if params.Limit > 0 && uint64(len(results)) > params.Limit {
		results = results[:params.Limit]
	}

	out := make([]qdrant.ScoredResult, len(results))
	copy(out, results)
	return out, nil
}

// RecordingTracker implements analytics.Tracker and captures every event
// for assertions.
type RecordingTracker struct {
	mu     sync.Mutex
	events []analytics.SearchQueryEvent
}

// NewRecordingTracker creates an empty recorder.
func NewRecordingTracker() *RecordingTracker {
	return &RecordingTracker{}
}

// TrackSearchQuery implements analytics.Tracker.
func (r *RecordingTracker) TrackSearchQuery(ev analytics.SearchQueryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Close implements analytics.Tracker.
func (r *RecordingTracker) Close() error { return nil }

// Events returns a snapshot of the recorded events.
func (r *RecordingTracker) Events() []analytics.SearchQueryEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]analytics.SearchQueryEvent, len(r.events))
	copy(out, r.events)
	return out
}
