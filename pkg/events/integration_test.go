package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/search"
	"github.com/Zeeeepa/airweave/pkg/services"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/Zeeeepa/airweave/test/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamingTestEnv holds all wired-up components for an integration test.
type streamingTestEnv struct {
	dbClient     *database.Client
	publisher    *Publisher
	eventService *services.EventService
	manager      *ConnectionManager
	listener     *NotifyListener
	server       *httptest.Server
	requestID    string
	channel      string // search:<requestID>
}

// setupStreamingTest wires all real components together against a real
// PostgreSQL database (testcontainers locally, service container in CI).
// No search_requests row is created: events.request_id is intentionally
// not a foreign key, and publishing must work for any request ID.
func setupStreamingTest(t *testing.T) *streamingTestEnv {
	t.Helper()

	dbClient := testdb.NewTestClient(t)
	ctx := context.Background()

	requestID := uuid.New().String()
	channel := SearchChannel(requestID)

	// Real components
	publisher := NewPublisher(dbClient.DB())
	eventService := services.NewEventService(dbClient.Client)
	catchupQuerier := NewEventServiceAdapter(eventService)
	manager := NewConnectionManager(catchupQuerier, 5*time.Second)

	// NotifyListener needs the base connection string (no schema search_path)
	// because NOTIFY/LISTEN is database-level, not schema-level.
	baseConnStr := util.GetBaseConnectionString(t)
	listener := NewNotifyListener(baseConnStr, manager)
	require.NoError(t, listener.Start(ctx))
	manager.SetListener(listener)

	t.Cleanup(func() { listener.Stop(context.Background()) })

	// httptest server with WebSocket upgrade
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			t.Logf("WebSocket accept error: %v", err)
			return
		}
		manager.HandleConnection(r.Context(), conn)
	}))
	t.Cleanup(func() { server.Close() })

	return &streamingTestEnv{
		dbClient:     dbClient,
		publisher:    publisher,
		eventService: eventService,
		manager:      manager,
		listener:     listener,
		server:       server,
		requestID:    requestID,
		channel:      channel,
	}
}

// connectWS opens a WebSocket to the test server. The connection is
// automatically closed on test cleanup.
func (env *streamingTestEnv) connectWS(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + env.server.URL[len("http"):]
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// publish marshals a frame payload and publishes it on the env's channel.
func (env *streamingTestEnv) publish(t *testing.T, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, env.publisher.PublishSearchEvent(context.Background(), env.requestID, data))
}

// readJSONTimeout reads a JSON message from the WebSocket with a timeout.
func readJSONTimeout(t *testing.T, conn *websocket.Conn, timeout time.Duration) map[string]interface{} {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

// subscribeAndWait connects a WebSocket, reads connection.established,
// subscribes to the given channel, and reads subscription.confirmed. LISTEN
// completes before the confirmation is sent, so once confirmed the client
// will see every subsequently committed NOTIFY.
func (env *streamingTestEnv) subscribeAndWait(t *testing.T, channel string) *websocket.Conn {
	t.Helper()
	conn := env.connectWS(t)

	// Read connection.established
	msg := readJSONTimeout(t, conn, 5*time.Second)
	require.Equal(t, "connection.established", msg["type"])

	// Subscribe
	subMsg, _ := json.Marshal(ClientMessage{Action: "subscribe", Channel: channel})
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(writeCtx, websocket.MessageText, subMsg))

	// Read subscription.confirmed
	msg = readJSONTimeout(t, conn, 5*time.Second)
	require.Equal(t, "subscription.confirmed", msg["type"])
	require.True(t, env.listener.isListening(channel),
		"LISTEN must be active once the subscription is confirmed")

	return conn
}

// --- Tests ---

func TestIntegration_PublisherPersistsAndNotifies(t *testing.T) {
	env := setupStreamingTest(t)
	ctx := context.Background()

	env.publish(t, search.StartPayload{
		Frame: search.Frame{
			Type: search.EventTypeStart,
			Seq:  1,
			Ts:   time.Now().UTC().Format(time.RFC3339Nano),
		},
		RequestID: env.requestID,
		Query:     "failing pods",
		Limit:     20,
	})

	env.publish(t, search.DonePayload{
		Frame: search.Frame{
			Type: search.EventTypeDone,
			Seq:  2,
			Ts:   time.Now().UTC().Format(time.RFC3339Nano),
		},
		RequestID: env.requestID,
	})

	// Query persisted events via EventService
	events, err := env.eventService.GetEventsSince(ctx, env.channel, 0, 100)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Verify order and content
	assert.Equal(t, env.requestID, events[0].RequestID)
	assert.Equal(t, env.channel, events[0].Channel)
	assert.Equal(t, search.EventTypeStart, events[0].Payload["type"])
	assert.Equal(t, "failing pods", events[0].Payload["query"])

	assert.Equal(t, search.EventTypeDone, events[1].Payload["type"])
	assert.Equal(t, env.requestID, events[1].Payload["request_id"])

	// IDs should be incrementing
	assert.Greater(t, events[1].ID, events[0].ID)
}

func TestIntegration_RequestStatusNotPersisted(t *testing.T) {
	env := setupStreamingTest(t)
	ctx := context.Background()

	err := env.publisher.PublishRequestStatus(ctx, RequestStatusPayload{
		Type:      EventTypeRequestStatus,
		RequestID: env.requestID,
		Status:    RequestStatusRunning,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	// Query DB — transient events leave no rows
	events, err := env.eventService.GetEventsSince(ctx, GlobalSearchesChannel, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, events, "request.status events should not be persisted in DB")
}

func TestIntegration_EndToEnd_PublishToWebSocket(t *testing.T) {
	env := setupStreamingTest(t)

	// Connect and subscribe to the request's stream channel
	conn := env.subscribeAndWait(t, env.channel)

	env.publish(t, search.StartPayload{
		Frame: search.Frame{
			Type: search.EventTypeStart,
			Seq:  1,
			Ts:   time.Now().UTC().Format(time.RFC3339Nano),
		},
		RequestID: env.requestID,
		Query:     "hello from publisher",
		Limit:     10,
	})

	// The frame should arrive via pg_notify → listener → manager
	msg := readJSONTimeout(t, conn, 5*time.Second)
	assert.Equal(t, search.EventTypeStart, msg["type"])
	assert.Equal(t, "hello from publisher", msg["query"])
	assert.Equal(t, env.requestID, msg["request_id"])
	// db_event_id should be present (added by persistAndNotify after INSERT)
	assert.NotNil(t, msg["db_event_id"])
}

func TestIntegration_RequestStatusDelivery(t *testing.T) {
	env := setupStreamingTest(t)
	ctx := context.Background()

	// Dashboards subscribe to the global channel, not per-request ones
	conn := env.subscribeAndWait(t, GlobalSearchesChannel)

	err := env.publisher.PublishRequestStatus(ctx, RequestStatusPayload{
		Type:      EventTypeRequestStatus,
		RequestID: env.requestID,
		Status:    RequestStatusCompleted,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	msg := readJSONTimeout(t, conn, 5*time.Second)
	assert.Equal(t, EventTypeRequestStatus, msg["type"])
	assert.Equal(t, RequestStatusCompleted, msg["status"])
	assert.Equal(t, env.requestID, msg["request_id"])
	assert.Nil(t, msg["db_event_id"], "transient events carry no db_event_id")
}

func TestIntegration_StreamLifecycleOverWebSocket(t *testing.T) {
	// Publishes a full stream in lifecycle order and verifies the client
	// receives every frame in order, then that all frames were persisted.
	env := setupStreamingTest(t)
	ctx := context.Background()

	conn := env.subscribeAndWait(t, env.channel)
	ts := func() string { return time.Now().UTC().Format(time.RFC3339Nano) }

	env.publish(t, search.StartPayload{
		Frame:     search.Frame{Type: search.EventTypeStart, Seq: 1, Ts: ts()},
		RequestID: env.requestID,
		Query:     "crashloop diagnosis",
		Limit:     5,
	})
	env.publish(t, search.OperatorStartPayload{
		Frame: search.Frame{Type: search.EventTypeOperatorStart, Seq: 2, Op: search.OpVectorSearch, OpSeq: 1, Ts: ts()},
		Name:  search.OpVectorSearch,
	})
	env.publish(t, search.OperatorEndPayload{
		Frame: search.Frame{Type: search.EventTypeOperatorEnd, Seq: 3, Op: search.OpVectorSearch, OpSeq: 2, Ts: ts()},
		Name:  search.OpVectorSearch,
		Ms:    12.5,
	})
	env.publish(t, search.ResultsPayload{
		Frame:   search.Frame{Type: search.EventTypeResults, Seq: 4, Ts: ts()},
		Results: []search.SearchResult{{ID: "doc-1", Score: 0.91}},
	})
	env.publish(t, search.SummaryPayload{
		Frame:       search.Frame{Type: search.EventTypeSummary, Seq: 5, Ts: ts()},
		Timings:     map[string]float64{search.OpVectorSearch: 12.5},
		TotalTimeMs: 14.0,
	})
	env.publish(t, search.DonePayload{
		Frame:     search.Frame{Type: search.EventTypeDone, Seq: 6, Ts: ts()},
		RequestID: env.requestID,
	})

	wantTypes := []string{
		search.EventTypeStart,
		search.EventTypeOperatorStart,
		search.EventTypeOperatorEnd,
		search.EventTypeResults,
		search.EventTypeSummary,
		search.EventTypeDone,
	}
	for i, want := range wantTypes {
		msg := readJSONTimeout(t, conn, 5*time.Second)
		assert.Equal(t, want, msg["type"], "frame %d", i+1)
		assert.Equal(t, float64(i+1), msg["seq"], "seq must be dense and monotonic")
	}

	// Every stream frame is persistent
	events, err := env.eventService.GetEventsSince(ctx, env.channel, 0, 100)
	require.NoError(t, err)
	require.Len(t, events, len(wantTypes))
	for i, want := range wantTypes {
		assert.Equal(t, want, events[i].Payload["type"])
	}
}

func TestIntegration_CatchupFromRealDB(t *testing.T) {
	env := setupStreamingTest(t)
	ctx := context.Background()

	// Pre-populate DB with 3 persistent frames before anyone subscribes
	for i := 1; i <= 3; i++ {
		env.publish(t, search.ResultsPayload{
			Frame: search.Frame{
				Type: search.EventTypeResults,
				Seq:  int64(i),
				Ts:   time.Now().UTC().Format(time.RFC3339Nano),
			},
			Results: []search.SearchResult{{ID: uuid.New().String(), Score: 0.5}},
		})
	}

	// Verify events exist in DB
	allEvents, err := env.eventService.GetEventsSince(ctx, env.channel, 0, 100)
	require.NoError(t, err)
	require.Len(t, allEvents, 3)
	firstEventID := allEvents[0].ID

	// Connect a NEW WebSocket client (simulates reconnection) — the
	// subscribe auto-catchup delivers all 3 prior frames immediately
	conn := env.subscribeAndWait(t, env.channel)

	for i := 1; i <= 3; i++ {
		msg := readJSONTimeout(t, conn, 5*time.Second)
		assert.Equal(t, search.EventTypeResults, msg["type"])
		assert.Equal(t, float64(i), msg["seq"])
		assert.NotNil(t, msg["db_event_id"])
	}

	// Explicit catchup from the first event's ID — only frames 2 and 3
	catchupFrom := firstEventID
	catchupMsg, _ := json.Marshal(ClientMessage{
		Action:      "catchup",
		Channel:     env.channel,
		LastEventID: &catchupFrom,
	})
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(writeCtx, websocket.MessageText, catchupMsg))

	for i := 2; i <= 3; i++ {
		msg := readJSONTimeout(t, conn, 5*time.Second)
		assert.Equal(t, float64(i), msg["seq"])
	}

	// No more messages — verify with short timeout
	readCtx, readCancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer readCancel()
	_, _, err = conn.Read(readCtx)
	assert.Error(t, err, "should not receive more messages after catchup")
}

func TestIntegration_OversizedFrameTruncatedOnWire(t *testing.T) {
	// Frames beyond the NOTIFY payload limit arrive as a truncation envelope;
	// the full frame stays in the DB and is recoverable via catchup.
	env := setupStreamingTest(t)

	conn := env.subscribeAndWait(t, env.channel)

	bigContent := strings.Repeat("x", 8000)
	env.publish(t, search.ResultsPayload{
		Frame: search.Frame{
			Type: search.EventTypeResults,
			Seq:  1,
			Ts:   time.Now().UTC().Format(time.RFC3339Nano),
		},
		Results: []search.SearchResult{{
			ID:      "doc-big",
			Score:   0.99,
			Payload: map[string]any{"content": bigContent},
		}},
	})

	// Wire copy is the truncation envelope
	msg := readJSONTimeout(t, conn, 5*time.Second)
	assert.Equal(t, search.EventTypeResults, msg["type"])
	assert.Equal(t, true, msg["truncated"])
	assert.NotNil(t, msg["db_event_id"])
	assert.Nil(t, msg["results"], "truncated frames must drop the result set")

	// Catchup redelivers the full frame from the DB
	lastEventID := 0
	catchupMsg, _ := json.Marshal(ClientMessage{
		Action:      "catchup",
		Channel:     env.channel,
		LastEventID: &lastEventID,
	})
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(writeCtx, websocket.MessageText, catchupMsg))

	full := readJSONTimeout(t, conn, 5*time.Second)
	assert.Equal(t, search.EventTypeResults, full["type"])
	assert.Nil(t, full["truncated"])
	results, ok := full["results"].([]interface{})
	require.True(t, ok, "catchup copy must carry the results")
	require.Len(t, results, 1)
	payload := results[0].(map[string]interface{})["payload"].(map[string]interface{})
	assert.Len(t, payload["content"], len(bigContent))
}
