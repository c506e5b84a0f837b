package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchChannel(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		want      string
	}{
		{
			name:      "formats search channel correctly",
			requestID: "abc-123",
			want:      "search:abc-123",
		},
		{
			name:      "handles UUID format",
			requestID: "550e8400-e29b-41d4-a716-446655440000",
			want:      "search:550e8400-e29b-41d4-a716-446655440000",
		},
		{
			name:      "handles empty string",
			requestID: "",
			want:      "search:",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SearchChannel(tt.requestID)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestStatusConstants(t *testing.T) {
	// Verify status values are non-empty and distinct
	statuses := []string{
		RequestStatusPending,
		RequestStatusRunning,
		RequestStatusCompleted,
		RequestStatusFailed,
	}

	seen := make(map[string]bool)
	for _, status := range statuses {
		assert.NotEmpty(t, status, "status should not be empty")
		assert.False(t, seen[status], "duplicate status: %s", status)
		seen[status] = true
	}
}

func TestRequestStatusPayload_JSON(t *testing.T) {
	payload := RequestStatusPayload{
		Type:      EventTypeRequestStatus,
		RequestID: "req-123",
		Status:    RequestStatusRunning,
		Timestamp: "2026-08-20T12:00:00Z",
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded RequestStatusPayload
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, EventTypeRequestStatus, decoded.Type)
	assert.Equal(t, "req-123", decoded.RequestID)
	assert.Equal(t, RequestStatusRunning, decoded.Status)
	assert.Equal(t, "2026-08-20T12:00:00Z", decoded.Timestamp)
}

func TestClientMessage_JSON(t *testing.T) {
	t.Run("catchup with last_event_id", func(t *testing.T) {
		var msg ClientMessage
		raw := `{"action":"catchup","channel":"search:abc","last_event_id":42}`
		require.NoError(t, json.Unmarshal([]byte(raw), &msg))

		assert.Equal(t, "catchup", msg.Action)
		assert.Equal(t, "search:abc", msg.Channel)
		require.NotNil(t, msg.LastEventID)
		assert.Equal(t, 42, *msg.LastEventID)
	})

	t.Run("ping without channel", func(t *testing.T) {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(`{"action":"ping"}`), &msg))

		assert.Equal(t, "ping", msg.Action)
		assert.Empty(t, msg.Channel)
		assert.Nil(t, msg.LastEventID)
	})
}
