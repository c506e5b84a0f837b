package e2e

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/models"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// TestStreamingSearch_OperatorFailure fails the completion operator and
// verifies the stream reports the error and still terminates with done,
// without results or summary frames.
func TestStreamingSearch_OperatorFailure(t *testing.T) {
	chat := NewScriptedChat()
	chat.Fail(KindCompletion, errors.New("boom"))
	app := NewTestApp(t, WithChat(chat))

	var ack models.StreamingSearchAck
	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		models.SearchRequest{
			Query:          "hello",
			ExpandQuery:    boolPtr(false),
			Rerank:         boolPtr(false),
			GenerateAnswer: boolPtr(true),
		}, &ack)
	require.Equal(t, http.StatusAccepted, status)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	ws, err := WSConnect(ctx, app.WSURL)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.Subscribe(ack.Channel))

	_, err = ws.WaitForEventType(search.EventTypeDone, 15*time.Second)
	require.NoError(t, err)

	// embedding and vector_search succeed, completion starts then errors.
	assert.Equal(t, []string{
		search.EventTypeStart,
		search.EventTypeOperatorStart, search.EventTypeOperatorEnd, // embedding
		search.EventTypeOperatorStart, search.EventTypeOperatorEnd, // vector_search
		search.EventTypeOperatorStart, // completion
		search.EventTypeError,
		search.EventTypeDone,
	}, ws.FrameTypes())

	frames := ws.Frames()
	errFrame := frames[6]
	assert.Equal(t, search.OpCompletion, errFrame.Parsed["operation"])
	assert.Contains(t, errFrame.Parsed["message"], "boom")

	// The error frame closes the completion operator's sub-stream.
	assert.Equal(t, search.OpCompletion, errFrame.Op())
	assert.Equal(t, float64(2), errFrame.Parsed["op_seq"])

	// The row lands in failed with the error recorded.
	awaitCondition(t, 10*time.Second, func() bool {
		var row struct {
			Status       string  `json:"status"`
			ErrorMessage *string `json:"error_message"`
		}
		app.doJSON(t, http.MethodGet, "/api/v1/search/requests/"+ack.RequestID, nil, &row)
		return row.Status == "failed" && row.ErrorMessage != nil
	}, "request row should reach failed")

	// Analytics still fired exactly once, with error status.
	awaitCondition(t, 5*time.Second, func() bool {
		return len(app.Tracker.Events()) == 1
	})
	ev := app.Tracker.Events()[0]
	assert.Equal(t, analytics.StatusError, ev.Status)
	assert.True(t, ev.Streaming)
}

// TestStreamingSearch_InvalidRequestRejectedAtEnqueue verifies a bad
// request never reaches the queue.
func TestStreamingSearch_InvalidRequestRejectedAtEnqueue(t *testing.T) {
	app := NewTestApp(t)

	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		models.SearchRequest{Query: ""}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var list models.SearchRequestListResponse
	status = app.doJSON(t, http.MethodGet, "/api/v1/search/requests", nil, &list)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, list.TotalCount)
}

// TestStreamingSearch_MalformedFilterRejected verifies a filter that does
// not decode as a Qdrant filter is a 400, not a worker-side failure.
func TestStreamingSearch_MalformedFilterRejected(t *testing.T) {
	app := NewTestApp(t)

	status := app.doJSON(t, http.MethodPost, "/api/v1/collections/docs/search?stream=true",
		models.SearchRequest{
			Query:  "hello",
			Filter: []byte(`{"must":"not-a-condition-list"}`),
		}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
