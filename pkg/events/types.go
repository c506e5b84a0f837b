// Package events provides real-time event delivery via WebSocket and
// PostgreSQL NOTIFY/LISTEN for cross-pod distribution.
//
// Stream frames produced by the search pipeline (see pkg/search: start,
// operator_start, operator_end, error, results, summary, done) are
// persisted to the events table and broadcast via NOTIFY in one
// transaction, so clients who subscribe mid-stream can catch up from the
// database. Event rows are short lived: they are deleted shortly after
// the request finishes.
//
// Transient events (request.status) are broadcast via NOTIFY only and are
// lost on disconnect.
package events

// Transient event types (NOTIFY only, no DB persistence).
const (
	// Request queue status changes — for dashboards watching all searches.
	EventTypeRequestStatus = "request.status"
)

// Request status values (used in RequestStatusPayload.Status). These mirror
// the search_requests status enum.
const (
	RequestStatusPending   = "pending"
	RequestStatusRunning   = "running"
	RequestStatusCompleted = "completed"
	RequestStatusFailed    = "failed"
)

// GlobalSearchesChannel carries transient request.status events for every
// streaming search. Dashboard pages subscribe to this instead of each
// per-request channel.
const GlobalSearchesChannel = "searches"

// SearchChannel returns the channel name for a specific request's stream.
// Format: "search:{request_id}"
func SearchChannel(requestID string) string {
	return "search:" + requestID
}

// RequestStatusPayload is the payload for request.status transient events
// on the global searches channel.
type RequestStatusPayload struct {
	Type      string `json:"type"` // always EventTypeRequestStatus
	RequestID string `json:"request_id"`
	Status    string `json:"status"` // pending, running, completed, failed
	Timestamp string `json:"timestamp"`
}

// ClientMessage is the JSON structure for client → server WebSocket messages.
type ClientMessage struct {
	Action      string `json:"action"`                  // "subscribe", "unsubscribe", "catchup", "ping"
	Channel     string `json:"channel,omitempty"`       // Channel name (e.g., "search:abc-123")
	LastEventID *int   `json:"last_event_id,omitempty"` // For catchup
}
