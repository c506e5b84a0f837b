package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/database"
	"github.com/Zeeeepa/airweave/pkg/services"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCleanupServices(t *testing.T) (*database.Client, *services.SearchService, *services.EventService) {
	t.Helper()
	client := testdb.NewTestClient(t)
	// Retention only touches the database; the LLM and vector seams stay nil.
	searchService := services.NewSearchService(client, nil, config.DefaultSearchDefaults(), nil, nil, nil)
	eventService := services.NewEventService(client.Client)
	return client, searchService, eventService
}

func testRetentionConfig() *config.RetentionConfig {
	return &config.RetentionConfig{
		RequestRetentionDays: 30,
		EventTTL:             1 * time.Hour,
		CleanupInterval:      1 * time.Hour,
	}
}

func seedFinishedRequest(t *testing.T, client *database.Client, status searchrequest.Status, completedAt time.Time) *ent.SearchRequest {
	t.Helper()
	ctx := context.Background()

	org, err := client.Organization.Create().
		SetID(uuid.New().String()).
		SetName("Retention Org").
		Save(ctx)
	require.NoError(t, err)

	col, err := client.Collection.Create().
		SetID(uuid.New().String()).
		SetSlug("retention-" + uuid.New().String()[:8]).
		SetName("Retention").
		SetOrganizationID(org.ID).
		Save(ctx)
	require.NoError(t, err)

	req, err := client.SearchRequest.Create().
		SetID(uuid.New().String()).
		SetCollectionID(col.ID).
		SetOrganizationID(org.ID).
		SetQuery("retention query").
		SetConfig(map[string]interface{}{}).
		SetStatus(status).
		SetCompletedAt(completedAt).
		Save(ctx)
	require.NoError(t, err)
	return req
}

func TestService_PurgesOldFinishedRequests(t *testing.T) {
	client, searchService, eventService := setupCleanupServices(t)
	ctx := context.Background()

	oldCompleted := seedFinishedRequest(t, client, searchrequest.StatusCompleted, time.Now().Add(-40*24*time.Hour))
	oldFailed := seedFinishedRequest(t, client, searchrequest.StatusFailed, time.Now().Add(-31*24*time.Hour))

	svc := NewService(testRetentionConfig(), searchService, eventService)
	svc.runAll(ctx)

	_, err := client.SearchRequest.Get(ctx, oldCompleted.ID)
	assert.True(t, ent.IsNotFound(err), "old completed request should be purged")

	_, err = client.SearchRequest.Get(ctx, oldFailed.ID)
	assert.True(t, ent.IsNotFound(err), "old failed request should be purged")
}

func TestService_PreservesRecentAndUnfinishedRequests(t *testing.T) {
	client, searchService, eventService := setupCleanupServices(t)
	ctx := context.Background()

	recent := seedFinishedRequest(t, client, searchrequest.StatusCompleted, time.Now().Add(-time.Hour))

	// A running request never has a terminal completed_at inside the window,
	// but guard against purge touching non-terminal statuses at all.
	running := seedFinishedRequest(t, client, searchrequest.StatusRunning, time.Now().Add(-40*24*time.Hour))

	svc := NewService(testRetentionConfig(), searchService, eventService)
	svc.runAll(ctx)

	kept, err := client.SearchRequest.Get(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, searchrequest.StatusCompleted, kept.Status)

	keptRunning, err := client.SearchRequest.Get(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, searchrequest.StatusRunning, keptRunning.Status)
}

func TestService_CleansUpOldEvents(t *testing.T) {
	client, searchService, eventService := setupCleanupServices(t)
	ctx := context.Background()

	// Old event past the 1 hour TTL
	_, err := client.Event.Create().
		SetRequestID(uuid.New().String()).
		SetChannel("test").
		SetPayload(map[string]any{}).
		SetCreatedAt(time.Now().Add(-2 * time.Hour)).
		Save(ctx)
	require.NoError(t, err)

	// Recent event
	_, err = client.Event.Create().
		SetRequestID(uuid.New().String()).
		SetChannel("test").
		SetPayload(map[string]any{}).
		SetCreatedAt(time.Now()).
		Save(ctx)
	require.NoError(t, err)

	svc := NewService(testRetentionConfig(), searchService, eventService)
	svc.runAll(ctx)

	events, err := eventService.GetEventsSince(ctx, "test", 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1, "old event should be deleted, recent event preserved")
}

func TestService_StartStopLifecycle(t *testing.T) {
	client, searchService, eventService := setupCleanupServices(t)

	old := seedFinishedRequest(t, client, searchrequest.StatusCompleted, time.Now().Add(-40*24*time.Hour))

	svc := NewService(testRetentionConfig(), searchService, eventService)
	svc.Start(context.Background())

	// The loop runs one pass immediately on start.
	require.Eventually(t, func() bool {
		_, err := client.SearchRequest.Get(context.Background(), old.ID)
		return ent.IsNotFound(err)
	}, 5*time.Second, 50*time.Millisecond, "startup pass should purge the old request")

	svc.Stop()

	// Stop twice must not block or panic.
	assert.NotPanics(t, func() { svc.Stop() })
}
