package services

import (
	"context"
	"testing"
	"time"

	"github.com/Zeeeepa/airweave/pkg/models"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_CreateEvent(t *testing.T) {
	client := testdb.NewTestClient(t)
	eventService := NewEventService(client.Client)
	ctx := context.Background()

	t.Run("creates event successfully", func(t *testing.T) {
		requestID := uuid.New().String()
		req := models.CreateEventRequest{
			RequestID: requestID,
			Channel:   "search:" + requestID,
			Payload:   map[string]any{"type": "start", "seq": float64(1)},
		}

		event, err := eventService.CreateEvent(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, req.Channel, event.Channel)
		assert.Equal(t, requestID, event.RequestID)
		assert.NotNil(t, event.Payload)
		assert.False(t, event.CreatedAt.IsZero())
	})
}

func TestEventService_GetEventsSince(t *testing.T) {
	client := testdb.NewTestClient(t)
	eventService := NewEventService(client.Client)
	ctx := context.Background()

	requestID := uuid.New().String()
	channel := "search:" + requestID

	// Seed five sequential events.
	var ids []int
	for i := 1; i <= 5; i++ {
		evt, err := eventService.CreateEvent(ctx, models.CreateEventRequest{
			RequestID: requestID,
			Channel:   channel,
			Payload:   map[string]any{"seq": float64(i)},
		})
		require.NoError(t, err)
		ids = append(ids, evt.ID)
	}

	t.Run("returns all events since zero", func(t *testing.T) {
		events, err := eventService.GetEventsSince(ctx, channel, 0, 0)
		require.NoError(t, err)
		require.Len(t, events, 5)
		// Ascending ID order.
		for i := 1; i < len(events); i++ {
			assert.Greater(t, events[i].ID, events[i-1].ID)
		}
	})

	t.Run("returns only events after cursor", func(t *testing.T) {
		events, err := eventService.GetEventsSince(ctx, channel, ids[2], 0)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, ids[3], events[0].ID)
		assert.Equal(t, ids[4], events[1].ID)
	})

	t.Run("respects limit", func(t *testing.T) {
		events, err := eventService.GetEventsSince(ctx, channel, 0, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, ids[0], events[0].ID)
	})

	t.Run("other channels are not visible", func(t *testing.T) {
		events, err := eventService.GetEventsSince(ctx, "search:other", 0, 0)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestEventService_CleanupRequestEvents(t *testing.T) {
	client := testdb.NewTestClient(t)
	eventService := NewEventService(client.Client)
	ctx := context.Background()

	keep := uuid.New().String()
	drop := uuid.New().String()
	for _, id := range []string{keep, drop} {
		for i := 0; i < 3; i++ {
			_, err := eventService.CreateEvent(ctx, models.CreateEventRequest{
				RequestID: id,
				Channel:   "search:" + id,
				Payload:   map[string]any{"seq": float64(i)},
			})
			require.NoError(t, err)
		}
	}

	count, err := eventService.CleanupRequestEvents(ctx, drop)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	remaining, err := eventService.GetEventsSince(ctx, "search:"+keep, 0, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 3)

	gone, err := eventService.GetEventsSince(ctx, "search:"+drop, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestEventService_CleanupOrphanedEvents(t *testing.T) {
	client := testdb.NewTestClient(t)
	eventService := NewEventService(client.Client)
	ctx := context.Background()

	// One stale event, one fresh.
	requestID := uuid.New().String()
	stale, err := client.Event.Create().
		SetRequestID(requestID).
		SetChannel("search:" + requestID).
		SetPayload(map[string]any{"seq": float64(1)}).
		SetCreatedAt(time.Now().Add(-2 * time.Hour)).
		Save(ctx)
	require.NoError(t, err)

	_, err = eventService.CreateEvent(ctx, models.CreateEventRequest{
		RequestID: requestID,
		Channel:   "search:" + requestID,
		Payload:   map[string]any{"seq": float64(2)},
	})
	require.NoError(t, err)

	count, err := eventService.CleanupOrphanedEvents(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	events, err := eventService.GetEventsSince(ctx, "search:"+requestID, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, stale.ID, events[0].ID)
}
