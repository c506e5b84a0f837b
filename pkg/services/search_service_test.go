package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/models"
	"github.com/Zeeeepa/airweave/pkg/qdrant"
	"github.com/Zeeeepa/airweave/pkg/search"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureTracker implements analytics.Tracker for tests.
type captureTracker struct {
	mu     sync.Mutex
	events []analytics.SearchQueryEvent
}

func (c *captureTracker) TrackSearchQuery(ev analytics.SearchQueryEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureTracker) Close() error { return nil }

func (c *captureTracker) all() []analytics.SearchQueryEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]analytics.SearchQueryEvent(nil), c.events...)
}

// setupSearchService wires a SearchService with stubbed LLM and vector
// clients against a real test database.
func setupSearchService(t *testing.T, client *database.Client, searcher qdrant.Searcher, tracker analytics.Tracker) *SearchService {
	t.Helper()
	if searcher == nil {
		searcher = &stubSearcher{}
	}
	executor := search.NewExecutor(nil, tracker)
	return NewSearchService(
		client,
		executor,
		config.DefaultSearchDefaults(),
		&stubChat{response: "not json"},
		&stubEmbedder{},
		searcher,
	)
}

func seedCollection(t *testing.T, client *database.Client, org *ent.Organization, slug string) *ent.Collection {
	t.Helper()
	svc := NewCollectionService(client.Client, &fakeVectorStore{})
	col, err := svc.CreateCollection(context.Background(), testRequestContext(org), models.CreateCollectionRequest{
		Slug: slug, Name: slug,
	})
	require.NoError(t, err)
	return col
}

func TestSearchService_BuildConfig(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	col := seedCollection(t, client, org, "docs")
	svc := setupSearchService(t, client, nil, nil)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := svc.BuildConfig(col, models.SearchRequest{Query: "hello"})
		require.NoError(t, err)

		assert.Equal(t, "hello", cfg.Query)
		assert.Equal(t, 20, cfg.Limit, "default limit applied")
		assert.Equal(t, 0, cfg.Offset)
		assert.Equal(t, "docs", cfg.CollectionSlug)
		assert.Equal(t, config.DefaultSearchDefaults().OperatorBudget, cfg.OperatorBudget)

		assert.NotNil(t, cfg.QueryExpansion, "expansion on by default")
		assert.Nil(t, cfg.QueryInterpretation, "interpretation off by default")
		assert.Nil(t, cfg.QdrantFilter)
		assert.NotNil(t, cfg.Embedding)
		assert.NotNil(t, cfg.VectorSearch)
		assert.Nil(t, cfg.Recency)
		assert.NotNil(t, cfg.Reranking, "reranking on by default")
		assert.Nil(t, cfg.Completion, "completion off by default")
	})

	t.Run("flags toggle slots", func(t *testing.T) {
		off, on := false, true
		bias := 0.4
		cfg, err := svc.BuildConfig(col, models.SearchRequest{
			Query:            "hello",
			ExpandQuery:      &off,
			InterpretFilters: &on,
			Rerank:           &off,
			GenerateAnswer:   &on,
			RecencyBias:      &bias,
		})
		require.NoError(t, err)

		assert.Nil(t, cfg.QueryExpansion)
		assert.NotNil(t, cfg.QueryInterpretation)
		assert.NotNil(t, cfg.Recency)
		assert.Nil(t, cfg.Reranking)
		assert.NotNil(t, cfg.Completion)
	})

	t.Run("zero recency bias leaves recency out", func(t *testing.T) {
		bias := 0.0
		cfg, err := svc.BuildConfig(col, models.SearchRequest{Query: "q", RecencyBias: &bias})
		require.NoError(t, err)
		assert.Nil(t, cfg.Recency)
	})

	t.Run("filter is parsed into the filter slot", func(t *testing.T) {
		filter := json.RawMessage(`{"must":[{"field":{"key":"source","match":{"keyword":"github"}}}]}`)
		cfg, err := svc.BuildConfig(col, models.SearchRequest{Query: "q", Filter: filter})
		require.NoError(t, err)
		assert.NotNil(t, cfg.QdrantFilter)
	})

	t.Run("validation", func(t *testing.T) {
		neg := -0.1
		big := 1.5
		tests := []struct {
			name string
			req  models.SearchRequest
		}{
			{"empty query", models.SearchRequest{}},
			{"negative limit", models.SearchRequest{Query: "q", Limit: -1}},
			{"limit above max", models.SearchRequest{Query: "q", Limit: 101}},
			{"negative offset", models.SearchRequest{Query: "q", Offset: -1}},
			{"threshold below range", models.SearchRequest{Query: "q", ScoreThreshold: &neg}},
			{"threshold above range", models.SearchRequest{Query: "q", ScoreThreshold: &big}},
			{"recency bias above range", models.SearchRequest{Query: "q", RecencyBias: &big}},
			{"malformed filter", models.SearchRequest{Query: "q", Filter: json.RawMessage(`{"must": 12}`)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.BuildConfig(col, tt.req)
				assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
			})
		}
	})
}

func TestSearchService_ExecuteSync(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	seedCollection(t, client, org, "docs")
	reqCtx := testRequestContext(org)
	ctx := context.Background()
	off := false

	t.Run("returns results", func(t *testing.T) {
		searcher := &stubSearcher{results: []qdrant.ScoredResult{
			{ID: "a", Score: 0.9, Payload: map[string]any{"content": "first"}},
			{ID: "b", Score: 0.7, Payload: map[string]any{"content": "second"}},
		}}
		tracker := &captureTracker{}
		svc := setupSearchService(t, client, searcher, tracker)

		resp, err := svc.ExecuteSync(ctx, reqCtx, "docs", models.SearchRequest{
			Query:       "hello",
			ExpandQuery: &off,
			Rerank:      &off,
		})
		require.NoError(t, err)

		require.Len(t, resp.Results, 2)
		assert.Equal(t, "a", resp.Results[0].ID)
		assert.Empty(t, resp.Completion)
		require.NotNil(t, resp.Execution)
		assert.Equal(t, 2, resp.Execution.OperationsExecuted)
		assert.Zero(t, resp.Execution.ErrorsCount)

		events := tracker.all()
		require.Len(t, events, 1)
		assert.Equal(t, analytics.StatusSuccess, events[0].Status)
		assert.Equal(t, "docs", events[0].CollectionSlug)
		assert.False(t, events[0].Streaming)
	})

	t.Run("generates an answer when asked", func(t *testing.T) {
		searcher := &stubSearcher{results: []qdrant.ScoredResult{
			{ID: "a", Score: 0.9, Payload: map[string]any{"content": "grounding"}},
		}}
		svc := setupSearchService(t, client, searcher, nil)
		on := true

		resp, err := svc.ExecuteSync(ctx, reqCtx, "docs", models.SearchRequest{
			Query:          "hello",
			ExpandQuery:    &off,
			Rerank:         &off,
			GenerateAnswer: &on,
		})
		require.NoError(t, err)
		assert.Equal(t, "not json", resp.Completion, "chat output becomes the answer")
	})

	t.Run("unknown collection", func(t *testing.T) {
		svc := setupSearchService(t, client, nil, nil)
		_, err := svc.ExecuteSync(ctx, reqCtx, "missing", models.SearchRequest{Query: "q"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("vector search failure surfaces", func(t *testing.T) {
		searcher := &stubSearcher{err: assert.AnError}
		svc := setupSearchService(t, client, searcher, nil)
		_, err := svc.ExecuteSync(ctx, reqCtx, "docs", models.SearchRequest{
			Query:       "q",
			ExpandQuery: &off,
			Rerank:      &off,
		})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestSearchService_EnqueueStreaming(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	col := seedCollection(t, client, org, "docs")
	user := seedTestUser(t, client.Client, org)
	svc := setupSearchService(t, client, nil, nil)
	ctx := context.Background()

	t.Run("persists a pending row", func(t *testing.T) {
		rc := testRequestContext(org)
		row, err := svc.EnqueueStreaming(ctx, rc, "docs", models.SearchRequest{Query: "hello", Limit: 5})
		require.NoError(t, err)

		assert.Equal(t, searchrequest.StatusPending, row.Status)
		assert.Equal(t, col.ID, row.CollectionID)
		assert.Equal(t, org.ID, row.OrganizationID)
		assert.Equal(t, "hello", row.Query)
		assert.Nil(t, row.UserID)
		assert.Equal(t, "hello", row.Config["query"])
		assert.Equal(t, float64(5), row.Config["limit"])
	})

	t.Run("records the user when present", func(t *testing.T) {
		rc := testRequestContext(org)
		rc.User = &auth.User{ID: user.ID, Email: user.Email}

		row, err := svc.EnqueueStreaming(ctx, rc, "docs", models.SearchRequest{Query: "hello"})
		require.NoError(t, err)
		require.NotNil(t, row.UserID)
		assert.Equal(t, user.ID, *row.UserID)
	})

	t.Run("invalid request is rejected at enqueue time", func(t *testing.T) {
		_, err := svc.EnqueueStreaming(ctx, testRequestContext(org), "docs", models.SearchRequest{})
		assert.True(t, IsValidationError(err))
	})

	t.Run("unknown collection", func(t *testing.T) {
		_, err := svc.EnqueueStreaming(ctx, testRequestContext(org), "missing", models.SearchRequest{Query: "q"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchService_ExecuteStreaming(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	seedCollection(t, client, org, "docs")
	user := seedTestUser(t, client.Client, org)
	ctx := context.Background()
	off := false

	searcher := &stubSearcher{results: []qdrant.ScoredResult{
		{ID: "a", Score: 0.9, Payload: map[string]any{"content": "doc"}},
	}}
	tracker := &captureTracker{}
	svc := setupSearchService(t, client, searcher, tracker)

	rc := testRequestContext(org)
	rc.User = &auth.User{ID: user.ID, Email: user.Email}
	row, err := svc.EnqueueStreaming(ctx, rc, "docs", models.SearchRequest{
		Query:       "hello",
		ExpandQuery: &off,
		Rerank:      &off,
	})
	require.NoError(t, err)

	st, err := svc.ExecuteStreaming(ctx, row)
	require.NoError(t, err)
	require.Len(t, st.FinalResults, 1)
	assert.Equal(t, row.ID, st.RequestID)

	// Attribution is rebuilt from the row, not the API context.
	events := tracker.all()
	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].DistinctID)
	assert.Equal(t, org.ID, events[0].OrganizationID)
	assert.True(t, events[0].Streaming)
}

func TestSearchService_GetSearchRequest(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	seedCollection(t, client, org, "docs")
	svc := setupSearchService(t, client, nil, nil)
	ctx := context.Background()

	row, err := svc.EnqueueStreaming(ctx, testRequestContext(org), "docs", models.SearchRequest{Query: "q"})
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		got, err := svc.GetSearchRequest(ctx, testRequestContext(org), row.ID)
		require.NoError(t, err)
		assert.Equal(t, row.ID, got.ID)
	})

	t.Run("scoped to caller org", func(t *testing.T) {
		otherOrg := seedTestOrg(t, client.Client)
		_, err := svc.GetSearchRequest(ctx, testRequestContext(otherOrg), row.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchService_ListSearchRequests(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	seedCollection(t, client, org, "docs")
	seedCollection(t, client, org, "wiki")
	svc := setupSearchService(t, client, nil, nil)
	reqCtx := testRequestContext(org)
	ctx := context.Background()

	for _, slug := range []string{"docs", "docs", "wiki"} {
		_, err := svc.EnqueueStreaming(ctx, reqCtx, slug, models.SearchRequest{Query: "q"})
		require.NoError(t, err)
	}

	t.Run("lists all", func(t *testing.T) {
		resp, err := svc.ListSearchRequests(ctx, reqCtx, models.SearchRequestFilters{})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalCount)
	})

	t.Run("filters by collection", func(t *testing.T) {
		resp, err := svc.ListSearchRequests(ctx, reqCtx, models.SearchRequestFilters{CollectionSlug: "wiki"})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.TotalCount)
	})

	t.Run("filters by status", func(t *testing.T) {
		resp, err := svc.ListSearchRequests(ctx, reqCtx, models.SearchRequestFilters{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalCount)

		none, err := svc.ListSearchRequests(ctx, reqCtx, models.SearchRequestFilters{Status: "completed"})
		require.NoError(t, err)
		assert.Zero(t, none.TotalCount)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.ListSearchRequests(ctx, reqCtx, models.SearchRequestFilters{Status: "sideways"})
		assert.True(t, IsValidationError(err))
	})
}

func TestSearchService_TerminalTransitions(t *testing.T) {
	client := testdb.NewTestClient(t)
	org := seedTestOrg(t, client.Client)
	seedCollection(t, client, org, "docs")
	svc := setupSearchService(t, client, nil, nil)
	reqCtx := testRequestContext(org)
	ctx := context.Background()

	t.Run("complete", func(t *testing.T) {
		row, err := svc.EnqueueStreaming(ctx, reqCtx, "docs", models.SearchRequest{Query: "q"})
		require.NoError(t, err)

		require.NoError(t, svc.CompleteRequest(ctx, row.ID))
		got, err := svc.GetSearchRequest(ctx, reqCtx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, searchrequest.StatusCompleted, got.Status)
		assert.NotNil(t, got.CompletedAt)
		assert.Nil(t, got.ErrorMessage)
	})

	t.Run("fail with message", func(t *testing.T) {
		row, err := svc.EnqueueStreaming(ctx, reqCtx, "docs", models.SearchRequest{Query: "q"})
		require.NoError(t, err)

		require.NoError(t, svc.FailRequest(ctx, row.ID, "operator embedding: boom"))
		got, err := svc.GetSearchRequest(ctx, reqCtx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, searchrequest.StatusFailed, got.Status)
		require.NotNil(t, got.ErrorMessage)
		assert.Equal(t, "operator embedding: boom", *got.ErrorMessage)
	})

	t.Run("unknown request", func(t *testing.T) {
		assert.ErrorIs(t, svc.CompleteRequest(ctx, "missing"), ErrNotFound)
	})
}
