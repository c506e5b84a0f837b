package events

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Zeeeepa/airweave/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultsFrame builds a marshaled results frame whose payload content is
// contentSize bytes of filler.
func resultsFrame(t *testing.T, seq int64, contentSize int) []byte {
	t.Helper()
	payload, err := json.Marshal(search.ResultsPayload{
		Frame: search.Frame{
			Type: search.EventTypeResults,
			Seq:  seq,
			Ts:   "2026-08-20T12:00:00.000000000Z",
		},
		Results: []search.SearchResult{
			{
				ID:    "doc-1",
				Score: 0.92,
				Payload: map[string]any{
					"content": strings.Repeat("x", contentSize),
				},
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func TestTruncateIfNeeded(t *testing.T) {
	t.Run("passes through normal frame", func(t *testing.T) {
		payload := resultsFrame(t, 5, 100)

		result, err := truncateIfNeeded(string(payload))
		require.NoError(t, err)
		assert.Equal(t, string(payload), result)
		assert.NotContains(t, result, "truncated")
	})

	t.Run("truncates oversized frame", func(t *testing.T) {
		payload := resultsFrame(t, 5, 8000)

		result, err := truncateIfNeeded(string(payload))
		require.NoError(t, err)
		assert.Contains(t, result, `"truncated":true`)
		assert.Less(t, len(result), 8000)
		assert.NotContains(t, result, "xxxx", "result content must be dropped")
	})

	t.Run("truncated envelope preserves routing fields", func(t *testing.T) {
		payload, err := json.Marshal(search.OperatorEndPayload{
			Frame: search.Frame{
				Type:  search.EventTypeOperatorEnd,
				Seq:   7,
				Op:    "rerank",
				OpSeq: 2,
				Ts:    "2026-08-20T12:00:01.000000000Z",
			},
			Name: "rerank",
			Ms:   128.5,
		})
		require.NoError(t, err)

		// Inflate past the limit by hand so the envelope path runs
		var m map[string]any
		require.NoError(t, json.Unmarshal(payload, &m))
		m["debug"] = strings.Repeat("y", 8000)
		inflated, err := json.Marshal(m)
		require.NoError(t, err)

		result, err := truncateIfNeeded(string(inflated))
		require.NoError(t, err)

		var envelope map[string]any
		require.NoError(t, json.Unmarshal([]byte(result), &envelope))
		assert.Equal(t, search.EventTypeOperatorEnd, envelope["type"])
		assert.Equal(t, float64(7), envelope["seq"])
		assert.Equal(t, "rerank", envelope["op"])
		assert.Equal(t, float64(2), envelope["op_seq"])
		assert.Equal(t, "2026-08-20T12:00:01.000000000Z", envelope["ts"])
		assert.Equal(t, true, envelope["truncated"])
		assert.NotContains(t, result, "yyyy")
	})

	t.Run("envelope omits op fields for non-operator frames", func(t *testing.T) {
		payload := resultsFrame(t, 9, 8000)

		result, err := truncateIfNeeded(string(payload))
		require.NoError(t, err)
		assert.Contains(t, result, `"truncated":true`)
		assert.NotContains(t, result, `"op":`)
		assert.NotContains(t, result, `"op_seq":`)
	})

	t.Run("boundary: payload just under limit is not truncated", func(t *testing.T) {
		// Measure the frame's fixed overhead first, then size the content so
		// the JSON lands just under 7900 bytes. The 20-byte margin absorbs
		// encoding variability if fields are added to the frame types.
		base := resultsFrame(t, 3, 0)
		contentSize := 7900 - len(base) - 20
		payload := resultsFrame(t, 3, contentSize)
		require.LessOrEqual(t, len(payload), 7900, "test payload should be under limit")

		result, err := truncateIfNeeded(string(payload))
		require.NoError(t, err)
		assert.NotContains(t, result, "truncated")
	})

	t.Run("empty JSON object", func(t *testing.T) {
		result, err := truncateIfNeeded("{}")
		require.NoError(t, err)
		assert.Equal(t, "{}", result)
	})
}

func TestInjectDBEventIDAndTruncate(t *testing.T) {
	t.Run("injects db_event_id into normal frame", func(t *testing.T) {
		payload := resultsFrame(t, 5, 100)

		result, err := injectDBEventIDAndTruncate(payload, 42)
		require.NoError(t, err)
		assert.Contains(t, result, `"db_event_id":42`)
		assert.Contains(t, result, `"type":"results"`)
		assert.NotContains(t, result, "truncated")
	})

	t.Run("truncated envelope preserves db_event_id", func(t *testing.T) {
		payload := resultsFrame(t, 5, 8000)

		result, err := injectDBEventIDAndTruncate(payload, 42)
		require.NoError(t, err)
		assert.Contains(t, result, `"truncated":true`)
		assert.Contains(t, result, `"db_event_id":42`)
		assert.Contains(t, result, `"type":"results"`)
	})

	t.Run("rejects non-JSON payload", func(t *testing.T) {
		_, err := injectDBEventIDAndTruncate([]byte("not json"), 1)
		assert.Error(t, err)
	})
}

func TestNewPublisher(t *testing.T) {
	publisher := NewPublisher(nil)
	assert.NotNil(t, publisher)
	assert.Nil(t, publisher.db)
}
