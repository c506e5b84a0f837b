package e2e

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/models"
)

func boolPtr(b bool) *bool { return &b }

// TestSyncSearch_MinimalPipeline runs a synchronous search with every
// optional operator disabled: only embedding and vector search execute, no
// stream events are produced, and the raw retrieval order is returned.
func TestSyncSearch_MinimalPipeline(t *testing.T) {
	app := NewTestApp(t)

	var resp models.SearchResponse
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", models.SearchRequest{
		Query:       "hello",
		Limit:       10,
		ExpandQuery: boolPtr(false),
		Rerank:      boolPtr(false),
	}, &resp)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "doc-1", resp.Results[0].ID)
	assert.Equal(t, "doc-2", resp.Results[1].ID)
	assert.Equal(t, "doc-3", resp.Results[2].ID)
	assert.Empty(t, resp.Completion)

	require.NotNil(t, resp.Execution)
	assert.Equal(t, 2, resp.Execution.OperationsExecuted)
	assert.Equal(t, 0, resp.Execution.ErrorsCount)

	// Non-streaming executions must not persist stream events.
	count, err := app.EntClient.Event.Query().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// No LLM operator was configured, so no chat calls happened.
	assert.Empty(t, app.Chat.Calls())

	// Exactly one analytics event, attributed to the user behind the key.
	events := app.Tracker.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.StatusSuccess, events[0].Status)
	assert.False(t, events[0].Streaming)
	assert.Equal(t, 3, events[0].ResultsCount)
	assert.Equal(t, len("hello"), events[0].QueryLength)
	assert.Equal(t, "docs", events[0].CollectionSlug)
	assert.Equal(t, app.User.ID, events[0].DistinctID)
	assert.Equal(t, app.Org.Name, events[0].OrganizationName)
}

// TestSyncSearch_DefaultOperators leaves the flags at their defaults
// (expansion and reranking on) and requests an answer: the LLM operators
// run and the completion lands in the response.
func TestSyncSearch_DefaultOperators(t *testing.T) {
	app := NewTestApp(t)

	var resp models.SearchResponse
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", models.SearchRequest{
		Query:          "what grew last quarter",
		GenerateAnswer: boolPtr(true),
	}, &resp)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, resp.Results, 3)
	assert.Equal(t, "The documents describe the requested topic.", resp.Completion)

	// expansion, embedding, vector_search, reranking, completion
	require.NotNil(t, resp.Execution)
	assert.Equal(t, 5, resp.Execution.OperationsExecuted)

	assert.Equal(t, 1, app.Chat.CallsOfKind(KindExpansion))
	assert.Equal(t, 1, app.Chat.CallsOfKind(KindRerank))
	assert.Equal(t, 1, app.Chat.CallsOfKind(KindCompletion))
	assert.Equal(t, 0, app.Chat.CallsOfKind(KindInterpretation))

	// Expansion produced a second phrasing, so the embedder saw two texts
	// and vector search queried once per vector.
	assert.Equal(t, 2, app.Vectors.QueryCount())
}

// TestSyncSearch_AdvisoryOperatorFailure verifies that an LLM failure in an
// advisory operator degrades instead of failing the search.
func TestSyncSearch_AdvisoryOperatorFailure(t *testing.T) {
	chat := NewScriptedChat()
	chat.Fail(KindRerank, assert.AnError)
	app := NewTestApp(t, WithChat(chat))

	var resp models.SearchResponse
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", models.SearchRequest{
		Query: "onboarding",
	}, &resp)
	require.Equal(t, http.StatusOK, status)

	// Raw retrieval order survives the failed rerank.
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "doc-1", resp.Results[0].ID)
	assert.Equal(t, 0, resp.Execution.ErrorsCount)

	events := app.Tracker.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.StatusSuccess, events[0].Status)
}

// TestSyncSearch_ValidationErrors exercises the request validation surface.
func TestSyncSearch_ValidationErrors(t *testing.T) {
	app := NewTestApp(t)

	cases := []struct {
		name string
		req  models.SearchRequest
	}{
		{"empty query", models.SearchRequest{}},
		{"negative limit", models.SearchRequest{Query: "q", Limit: -1}},
		{"limit above max", models.SearchRequest{Query: "q", Limit: 1000}},
		{"negative offset", models.SearchRequest{Query: "q", Offset: -2}},
		{"score threshold out of range", models.SearchRequest{Query: "q", ScoreThreshold: float64Ptr(1.5)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", tc.req, nil)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}

	t.Run("unknown collection", func(t *testing.T) {
		status := app.doJSON(t, http.MethodPost, "/api/v1/collections/nope/search",
			models.SearchRequest{Query: "q"}, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("missing api key", func(t *testing.T) {
		resp, err := http.Post(app.BaseURL+"/api/v1/collections/docs/search",
			"application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

// TestSyncSearch_CriticalOperatorFailure verifies that a vector store
// outage fails the whole request and is still recorded by analytics.
func TestSyncSearch_CriticalOperatorFailure(t *testing.T) {
	app := NewTestApp(t)
	app.Vectors.FailQueries(assert.AnError)

	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", models.SearchRequest{
		Query:       "hello",
		ExpandQuery: boolPtr(false),
		Rerank:      boolPtr(false),
	}, nil)
	assert.Equal(t, http.StatusInternalServerError, status)

	events := app.Tracker.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.StatusError, events[0].Status)
	assert.Equal(t, 0, events[0].ResultsCount)
}

// TestSyncSearch_ScoreThresholdAndPagination verifies threshold and offset
// propagate to the vector store.
func TestSyncSearch_ScoreThresholdAndPagination(t *testing.T) {
	app := NewTestApp(t)

	var resp models.SearchResponse
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", models.SearchRequest{
		Query:          "reports",
		Limit:          1,
		Offset:         1,
		ScoreThreshold: float64Ptr(0.5),
		ExpandQuery:    boolPtr(false),
		Rerank:         boolPtr(false),
	}, &resp)
	require.Equal(t, http.StatusOK, status)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "doc-2", resp.Results[0].ID)
}

// TestSyncSearch_NoEventsChannelLeak double-checks that the per-request
// event table stays empty across several synchronous searches.
func TestSyncSearch_NoEventsChannelLeak(t *testing.T) {
	app := NewTestApp(t)

	for i := 0; i < 3; i++ {
		status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search", models.SearchRequest{
			Query:       "hello",
			ExpandQuery: boolPtr(false),
			Rerank:      boolPtr(false),
		}, nil)
		require.Equal(t, http.StatusOK, status)
	}

	total, err := app.EntClient.Event.Query().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	assert.Len(t, app.Tracker.Events(), 3)
}

func float64Ptr(f float64) *float64 { return &f }
