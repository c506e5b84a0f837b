package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/models"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// fullPipelineRequest populates every operator slot: expansion and
// reranking default on, the rest enabled explicitly. The caller filter
// occupies the qdrant_filter slot.
func fullPipelineRequest() models.SearchRequest {
	return models.SearchRequest{
		Query:            "recent incident reports",
		Limit:            10,
		InterpretFilters: boolPtr(true),
		RecencyBias:      float64Ptr(0.3),
		GenerateAnswer:   boolPtr(true),
		Filter:           json.RawMessage(`{"must":[{"field":{"key":"source","match":{"keyword":"zendesk"}}}]}`),
	}
}

// fullPipelineFrameTypes is the exact stream a successful eight-operator
// run produces: start, a start/end pair per operator in plan order, then
// results, summary, done.
func fullPipelineFrameTypes() []string {
	types := []string{search.EventTypeStart}
	for range []string{
		search.OpQueryExpansion,
		search.OpQueryInterpretation,
		search.OpQdrantFilter,
		search.OpEmbedding,
		search.OpVectorSearch,
		search.OpRecency,
		search.OpReranking,
		search.OpCompletion,
	} {
		types = append(types, search.EventTypeOperatorStart, search.EventTypeOperatorEnd)
	}
	return append(types, search.EventTypeResults, search.EventTypeSummary, search.EventTypeDone)
}

// TestStreamingSearch_FullPipeline enqueues a search with all eight
// operator slots populated and follows the stream over WebSocket.
func TestStreamingSearch_FullPipeline(t *testing.T) {
	app := NewTestApp(t)

	var ack models.StreamingSearchAck
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		fullPipelineRequest(), &ack)
	require.Equal(t, http.StatusAccepted, status)
	require.NotEmpty(t, ack.RequestID)
	require.Equal(t, events.SearchChannel(ack.RequestID), ack.Channel)
	require.Equal(t, events.RequestStatusPending, ack.Status)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	ws, err := WSConnect(ctx, app.WSURL)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.Subscribe(ack.Channel))

	_, err = ws.WaitForEventType(search.EventTypeDone, 15*time.Second)
	require.NoError(t, err)

	frames := ws.Frames()
	assert.Equal(t, fullPipelineFrameTypes(), ws.FrameTypes())

	// seq is dense, 1..20.
	require.Len(t, frames, 20)
	for i, f := range frames {
		assert.Equal(t, i+1, f.Seq(), "frame %d", i)
	}

	// The start frame carries the request identity and query inputs.
	start := frames[0]
	assert.Equal(t, ack.RequestID, start.Parsed["request_id"])
	assert.Equal(t, "recent incident reports", start.Parsed["query"])
	assert.Equal(t, float64(10), start.Parsed["limit"])

	// Each operator contributes exactly one start and one end, with
	// op_seq 1 and 2.
	perOp := map[string][]int{}
	for _, f := range frames {
		if op := f.Op(); op != "" {
			perOp[op] = append(perOp[op], int(f.Parsed["op_seq"].(float64)))
		}
	}
	require.Len(t, perOp, 8)
	for op, seqs := range perOp {
		assert.Equal(t, []int{1, 2}, seqs, "op %s", op)
	}

	// results precedes summary; results carries the pipeline output.
	results := frames[17]
	require.Equal(t, search.EventTypeResults, results.Type)
	assert.Len(t, results.Parsed["results"], 3)

	summary := frames[18]
	require.Equal(t, search.EventTypeSummary, summary.Type)
	timings := summary.Parsed["timings"].(map[string]any)
	assert.Len(t, timings, 8)
	assert.Empty(t, summary.Parsed["errors"])

	// The row reaches completed.
	awaitCondition(t, 10*time.Second, func() bool {
		var row struct {
			Status string `json:"status"`
		}
		app.doJSON(t, http.MethodGet, "/api/v1/search/requests/"+ack.RequestID, nil, &row)
		return row.Status == "completed"
	}, "request row should reach completed")

	// One analytics event, streaming mode.
	awaitCondition(t, 5*time.Second, func() bool {
		return len(app.Tracker.Events()) == 1
	})
	ev := app.Tracker.Events()[0]
	assert.Equal(t, analytics.StatusSuccess, ev.Status)
	assert.True(t, ev.Streaming)
	assert.Equal(t, 3, ev.ResultsCount)
}

// TestStreamingSearch_LateSubscriberCatchup lets the pipeline finish
// before anyone subscribes, then verifies the subscriber still receives
// the complete stream from seq 1 via the database catch-up.
func TestStreamingSearch_LateSubscriberCatchup(t *testing.T) {
	app := NewTestApp(t)

	var ack models.StreamingSearchAck
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		fullPipelineRequest(), &ack)
	require.Equal(t, http.StatusAccepted, status)

	awaitCondition(t, 10*time.Second, func() bool {
		var row struct {
			Status string `json:"status"`
		}
		app.doJSON(t, http.MethodGet, "/api/v1/search/requests/"+ack.RequestID, nil, &row)
		return row.Status == "completed"
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ws, err := WSConnect(ctx, app.WSURL)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.Subscribe(ack.Channel))

	_, err = ws.WaitForEventType(search.EventTypeDone, 5*time.Second)
	require.NoError(t, err)

	assert.Equal(t, fullPipelineFrameTypes(), ws.FrameTypes())

	// Catch-up frames carry their database cursor for resumption.
	for _, f := range ws.Frames() {
		assert.Contains(t, f.Parsed, "db_event_id")
	}
}

// TestStreamingSearch_RequestStatusTransitions watches the global searches
// channel for the transient queue transitions.
func TestStreamingSearch_RequestStatusTransitions(t *testing.T) {
	app := NewTestApp(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	ws, err := WSConnect(ctx, app.WSURL)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.Subscribe(events.GlobalSearchesChannel))
	_, err = ws.WaitForEventType("subscription.confirmed", 5*time.Second)
	require.NoError(t, err)

	var ack models.StreamingSearchAck
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		models.SearchRequest{Query: "hello", ExpandQuery: boolPtr(false), Rerank: boolPtr(false)}, &ack)
	require.Equal(t, http.StatusAccepted, status)

	waitStatus := func(want string) {
		t.Helper()
		_, err := ws.WaitForEvent(func(e WSEvent) bool {
			return e.Type == events.EventTypeRequestStatus &&
				e.Parsed["request_id"] == ack.RequestID &&
				e.Parsed["status"] == want
		}, 10*time.Second)
		require.NoError(t, err, "waiting for status %s", want)
	}

	waitStatus(events.RequestStatusPending)
	waitStatus(events.RequestStatusRunning)
	waitStatus(events.RequestStatusCompleted)
}

// TestStreamingSearch_MinimalPlanStream verifies a two-operator plan
// yields the minimal eight-frame stream.
func TestStreamingSearch_MinimalPlanStream(t *testing.T) {
	app := NewTestApp(t)

	var ack models.StreamingSearchAck
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		models.SearchRequest{Query: "hello", ExpandQuery: boolPtr(false), Rerank: boolPtr(false)}, &ack)
	require.Equal(t, http.StatusAccepted, status)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	ws, err := WSConnect(ctx, app.WSURL)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.Subscribe(ack.Channel))

	_, err = ws.WaitForEventType(search.EventTypeDone, 10*time.Second)
	require.NoError(t, err)

	assert.Equal(t, []string{
		search.EventTypeStart,
		search.EventTypeOperatorStart, search.EventTypeOperatorEnd, // embedding
		search.EventTypeOperatorStart, search.EventTypeOperatorEnd, // vector_search
		search.EventTypeResults,
		search.EventTypeSummary,
		search.EventTypeDone,
	}, ws.FrameTypes())
}
