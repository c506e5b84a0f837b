package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/search"
	testdb "github.com/Zeeeepa/airweave/test/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedQueueFixtures creates the organization and collection that search
// requests hang off.
func seedQueueFixtures(ctx context.Context, t *testing.T, client *ent.Client) *ent.Collection {
	t.Helper()
	org, err := client.Organization.Create().
		SetID(uuid.New().String()).
		SetName("Queue Test Org").
		Save(ctx)
	require.NoError(t, err)

	col, err := client.Collection.Create().
		SetID(uuid.New().String()).
		SetSlug("queue-test").
		SetName("Queue Test").
		SetOrganizationID(org.ID).
		Save(ctx)
	require.NoError(t, err)
	return col
}

// createTestRequest creates a search request in pending status.
func createTestRequest(ctx context.Context, t *testing.T, client *ent.Client, col *ent.Collection) *ent.SearchRequest {
	t.Helper()
	req, err := client.SearchRequest.Create().
		SetID(uuid.New().String()).
		SetCollectionID(col.ID).
		SetOrganizationID(col.OrganizationID).
		SetQuery("test query").
		SetConfig(map[string]interface{}{"limit": float64(5)}).
		SetStatus(searchrequest.StatusPending).
		Save(ctx)
	require.NoError(t, err)
	return req
}

// intTestQueueConfig returns a queue config suitable for integration tests.
func intTestQueueConfig() *config.QueueConfig {
	return &config.QueueConfig{
		WorkerCount:             2,
		PollInterval:            100 * time.Millisecond,
		PollIntervalJitter:      0,
		SearchTimeout:           30 * time.Second,
		GracefulShutdownTimeout: 10 * time.Second,
		EventCleanupGrace:       100 * time.Millisecond,
		OrphanScanInterval:      1 * time.Second,
	}
}

// awaitCondition polls until condition returns true or the timeout elapses.
func awaitCondition(t *testing.T, timeout, interval time.Duration, msg string, condition func() bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case <-deadline:
			t.Fatalf("timed out: %s", msg)
		default:
			if condition() {
				return
			}
			time.Sleep(interval)
		}
	}
}

// mockRunner counts executions and records terminal statuses the way the
// real search service does.
type mockRunner struct {
	client            *ent.Client
	processed         atomic.Int64
	requests          sync.Map // request_id → struct{}
	execErr           error
	blockUntilCtxDone bool
	releaseCh         chan struct{} // optional: blocks execution until closed
}

func (m *mockRunner) ExecuteStreaming(ctx context.Context, row *ent.SearchRequest) (*search.State, error) {
	m.processed.Add(1)
	if row != nil {
		m.requests.Store(row.ID, struct{}{})
	}

	if m.blockUntilCtxDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if m.releaseCh != nil {
		select {
		case <-m.releaseCh:
			// Released, continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else {
		// Default behavior: simulate short processing
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.execErr != nil {
		return nil, m.execErr
	}
	return &search.State{Query: row.Query}, nil
}

func (m *mockRunner) CompleteRequest(ctx context.Context, requestID string) error {
	return m.client.SearchRequest.UpdateOneID(requestID).
		SetStatus(searchrequest.StatusCompleted).
		SetCompletedAt(time.Now()).
		Exec(ctx)
}

func (m *mockRunner) FailRequest(ctx context.Context, requestID, errMsg string) error {
	return m.client.SearchRequest.UpdateOneID(requestID).
		SetStatus(searchrequest.StatusFailed).
		SetCompletedAt(time.Now()).
		SetErrorMessage(errMsg).
		Exec(ctx)
}

// mockCleaner records which requests had their events cleaned up.
type mockCleaner struct {
	mu      sync.Mutex
	cleaned []string
}

func (m *mockCleaner) CleanupRequestEvents(_ context.Context, requestID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleaned = append(m.cleaned, requestID)
	return 0, nil
}

func (m *mockCleaner) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cleaned)
}

// mockStatusPublisher records request.status broadcasts.
type mockStatusPublisher struct {
	mu       sync.Mutex
	payloads []events.RequestStatusPayload
}

func (m *mockStatusPublisher) PublishRequestStatus(_ context.Context, payload events.RequestStatusPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return nil
}

func (m *mockStatusPublisher) statusesFor(requestID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var statuses []string
	for _, p := range m.payloads {
		if p.RequestID == requestID {
			statuses = append(statuses, p.Status)
		}
	}
	return statuses
}

// TestForUpdateSkipLockedClaiming tests that a worker can atomically claim a
// pending request.
func TestForUpdateSkipLockedClaiming(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	req := createTestRequest(ctx, t, client, col)

	cfg := intTestQueueConfig()
	w := NewWorker("test-pod-worker-0", "test-pod", client, cfg, nil, nil, nil)

	claimed, err := w.claimNextRequest(ctx)
	require.NoError(t, err)
	require.NotNil(t, claimed, "worker should claim the pending request")
	assert.Equal(t, req.ID, claimed.ID)
	assert.Equal(t, searchrequest.StatusRunning, claimed.Status)
	require.NotNil(t, claimed.WorkerID)
	assert.Equal(t, "test-pod-worker-0", *claimed.WorkerID)
	require.NotNil(t, claimed.ClaimedAt)

	// Second claim should return ErrNoRequestsAvailable
	claimed2, err := w.claimNextRequest(ctx)
	assert.ErrorIs(t, err, ErrNoRequestsAvailable)
	assert.Nil(t, claimed2, "no more pending requests should be available")
}

// TestConcurrentClaimsDistinctRequests tests that concurrent workers claim
// different requests.
func TestConcurrentClaimsDistinctRequests(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	requestIDs := make(map[string]struct{})
	for i := 0; i < 5; i++ {
		r := createTestRequest(ctx, t, client, col)
		requestIDs[r.ID] = struct{}{}
	}

	cfg := intTestQueueConfig()
	var mu sync.Mutex
	claimed := make([]string, 0, 5)
	errCh := make(chan error, 5)
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w := NewWorker(fmt.Sprintf("test-pod-worker-%d", workerID), "test-pod", client, cfg, nil, nil, nil)
			req, err := w.claimNextRequest(ctx)
			if err != nil {
				errCh <- fmt.Errorf("worker-%d claim failed: %w", workerID, err)
				return
			}
			mu.Lock()
			claimed = append(claimed, req.ID)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	// All 5 requests should be claimed, each by exactly one worker
	assert.Len(t, claimed, 5, "all 5 requests should be claimed")

	seen := make(map[string]struct{})
	for _, id := range claimed {
		_, dup := seen[id]
		assert.False(t, dup, "request %s claimed by multiple workers", id)
		seen[id] = struct{}{}

		_, ok := requestIDs[id]
		assert.True(t, ok, "claimed request %s was not in original set", id)
	}
}

// TestOrphanRecovery tests that orphaned requests are detected and recovered.
func TestOrphanRecovery(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)

	// Simulate a crash: running with a claim far past the search timeout
	staleClaim := time.Now().Add(-10 * time.Minute)
	req, err := client.SearchRequest.Create().
		SetID(uuid.New().String()).
		SetCollectionID(col.ID).
		SetOrganizationID(col.OrganizationID).
		SetQuery("orphaned query").
		SetConfig(map[string]interface{}{}).
		SetStatus(searchrequest.StatusRunning).
		SetWorkerID("crashed-pod-worker-1").
		SetClaimedAt(staleClaim).
		Save(ctx)
	require.NoError(t, err)

	// A fresh running request must not be touched
	fresh, err := client.SearchRequest.Create().
		SetID(uuid.New().String()).
		SetCollectionID(col.ID).
		SetOrganizationID(col.OrganizationID).
		SetQuery("fresh query").
		SetConfig(map[string]interface{}{}).
		SetStatus(searchrequest.StatusRunning).
		SetWorkerID("live-pod-worker-0").
		SetClaimedAt(time.Now()).
		Save(ctx)
	require.NoError(t, err)

	pool := &WorkerPool{
		podID:  "test-pod",
		client: client,
		config: intTestQueueConfig(),
	}

	require.NoError(t, pool.detectAndRecoverOrphans(ctx))

	updated, err := client.SearchRequest.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, searchrequest.StatusFailed, updated.Status)
	require.NotNil(t, updated.ErrorMessage)
	assert.Contains(t, *updated.ErrorMessage, "crashed-pod-worker-1")
	require.NotNil(t, updated.CompletedAt)

	untouched, err := client.SearchRequest.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, searchrequest.StatusRunning, untouched.Status)

	pool.orphans.mu.Lock()
	assert.Equal(t, 1, pool.orphans.orphansRecovered)
	assert.False(t, pool.orphans.lastOrphanScan.IsZero())
	pool.orphans.mu.Unlock()
}

// TestStartupOrphanCleanup tests the one-time startup orphan cleanup.
func TestStartupOrphanCleanup(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	podID := "startup-test-pod"

	// Requests claimed by this pod before it crashed
	for i := 0; i < 3; i++ {
		_, err := client.SearchRequest.Create().
			SetID(uuid.New().String()).
			SetCollectionID(col.ID).
			SetOrganizationID(col.OrganizationID).
			SetQuery("startup orphan query").
			SetConfig(map[string]interface{}{}).
			SetStatus(searchrequest.StatusRunning).
			SetWorkerID(fmt.Sprintf("%s-worker-%d", podID, i)).
			SetClaimedAt(time.Now()).
			Save(ctx)
		require.NoError(t, err)
	}

	// A request claimed by a different pod must not be affected
	otherReq, err := client.SearchRequest.Create().
		SetID(uuid.New().String()).
		SetCollectionID(col.ID).
		SetOrganizationID(col.OrganizationID).
		SetQuery("other pod query").
		SetConfig(map[string]interface{}{}).
		SetStatus(searchrequest.StatusRunning).
		SetWorkerID("other-pod-worker-0").
		SetClaimedAt(time.Now()).
		Save(ctx)
	require.NoError(t, err)

	require.NoError(t, CleanupStartupOrphans(ctx, client, podID))

	owned, err := client.SearchRequest.Query().
		Where(searchrequest.WorkerIDHasPrefix(workerIDPrefix(podID))).
		All(ctx)
	require.NoError(t, err)
	require.Len(t, owned, 3)
	for _, r := range owned {
		assert.Equal(t, searchrequest.StatusFailed, r.Status, "request %s should be failed", r.ID)
		require.NotNil(t, r.ErrorMessage)
		assert.Contains(t, *r.ErrorMessage, "restarted")
	}

	other, err := client.SearchRequest.Get(ctx, otherReq.ID)
	require.NoError(t, err)
	assert.Equal(t, searchrequest.StatusRunning, other.Status, "other pod's request should be untouched")
}

// TestPoolEndToEndWithMockRunner tests the full worker pool lifecycle.
func TestPoolEndToEndWithMockRunner(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	reqs := make([]*ent.SearchRequest, 0, 3)
	for i := 0; i < 3; i++ {
		reqs = append(reqs, createTestRequest(ctx, t, client, col))
	}

	cfg := intTestQueueConfig()
	cfg.PollInterval = 50 * time.Millisecond

	runner := &mockRunner{client: client}
	cleaner := &mockCleaner{}
	publisher := &mockStatusPublisher{}
	pool := NewWorkerPool("test-pod", client, cfg, runner, cleaner, publisher)

	require.NoError(t, pool.Start(ctx))

	awaitCondition(t, 10*time.Second, 100*time.Millisecond,
		"waiting for requests to be processed",
		func() bool { return runner.processed.Load() >= 3 })

	// Event cleanup fires after the grace period (100ms in this config)
	awaitCondition(t, 5*time.Second, 50*time.Millisecond,
		"waiting for event cleanup after grace period",
		func() bool { return cleaner.count() >= 3 })

	pool.Stop()

	completed, err := client.SearchRequest.Query().
		Where(searchrequest.StatusEQ(searchrequest.StatusCompleted)).
		All(ctx)
	require.NoError(t, err)
	assert.Len(t, completed, 3, "all 3 requests should be completed")
	for _, r := range completed {
		require.NotNil(t, r.WorkerID)
		assert.Contains(t, *r.WorkerID, "test-pod-worker-")
		require.NotNil(t, r.CompletedAt)
	}

	// Each request should have broadcast running then completed
	for _, r := range reqs {
		statuses := publisher.statusesFor(r.ID)
		assert.Equal(t, []string{events.RequestStatusRunning, events.RequestStatusCompleted}, statuses,
			"request %s status broadcasts", r.ID)
	}

	health := pool.Health()
	assert.Equal(t, 2, health.TotalWorkers)
	assert.True(t, health.DBReachable)
	assert.Equal(t, 0, health.QueueDepth)
}

// TestWorkerRecordsFailure tests that a runner error marks the request failed.
func TestWorkerRecordsFailure(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	req := createTestRequest(ctx, t, client, col)

	cfg := intTestQueueConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 50 * time.Millisecond

	runner := &mockRunner{client: client, execErr: fmt.Errorf("operator embedding: chat unavailable")}
	publisher := &mockStatusPublisher{}
	pool := NewWorkerPool("test-pod", client, cfg, runner, nil, publisher)

	require.NoError(t, pool.Start(ctx))

	awaitCondition(t, 5*time.Second, 50*time.Millisecond,
		"waiting for request to reach terminal status",
		func() bool {
			r, err := client.SearchRequest.Get(ctx, req.ID)
			require.NoError(t, err)
			return r.Status == searchrequest.StatusFailed
		})

	pool.Stop()

	updated, err := client.SearchRequest.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, searchrequest.StatusFailed, updated.Status)
	require.NotNil(t, updated.ErrorMessage)
	assert.Contains(t, *updated.ErrorMessage, "chat unavailable")

	assert.Equal(t, []string{events.RequestStatusRunning, events.RequestStatusFailed},
		publisher.statusesFor(req.ID))
}

// TestWorkerMarksTimeout tests that a search exceeding the timeout is failed
// with a timeout message.
func TestWorkerMarksTimeout(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	req := createTestRequest(ctx, t, client, col)

	cfg := intTestQueueConfig()
	cfg.WorkerCount = 1
	cfg.PollInterval = 50 * time.Millisecond
	cfg.SearchTimeout = 200 * time.Millisecond

	runner := &mockRunner{client: client, blockUntilCtxDone: true}
	pool := NewWorkerPool("test-pod", client, cfg, runner, nil, nil)

	require.NoError(t, pool.Start(ctx))

	awaitCondition(t, 5*time.Second, 50*time.Millisecond,
		"waiting for request to reach terminal status",
		func() bool {
			r, err := client.SearchRequest.Get(ctx, req.ID)
			require.NoError(t, err)
			return r.Status == searchrequest.StatusFailed
		})

	pool.Stop()

	updated, err := client.SearchRequest.Get(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.ErrorMessage)
	assert.Contains(t, *updated.ErrorMessage, "timed out")
	assert.Contains(t, *updated.ErrorMessage, "200ms")
}

// TestPoolHealthQueueDepth tests that health reflects pending requests.
func TestPoolHealthQueueDepth(t *testing.T) {
	dbClient := testdb.NewTestClient(t)
	client := dbClient.Client
	ctx := context.Background()

	col := seedQueueFixtures(ctx, t, client)
	createTestRequest(ctx, t, client, col)
	createTestRequest(ctx, t, client, col)

	pool := NewWorkerPool("test-pod", client, intTestQueueConfig(), nil, nil, nil)

	health := pool.Health()
	assert.Equal(t, 2, health.QueueDepth)
	assert.Equal(t, 0, health.RunningSearches)
	assert.Equal(t, 0, health.TotalWorkers)
	assert.True(t, health.DBReachable)
	assert.False(t, health.IsHealthy, "pool without workers is not healthy")
}
