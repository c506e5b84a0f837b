package queue

import (
	"strings"
	"testing"
	"time"

	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/stretchr/testify/assert"
)

func testQueueConfig() *config.QueueConfig {
	return &config.QueueConfig{
		WorkerCount:             4,
		PollInterval:            1 * time.Second,
		PollIntervalJitter:      500 * time.Millisecond,
		SearchTimeout:           2 * time.Minute,
		GracefulShutdownTimeout: 2 * time.Minute,
		EventCleanupGrace:       60 * time.Second,
		OrphanScanInterval:      1 * time.Minute,
	}
}

func TestWorkerPollInterval(t *testing.T) {
	cfg := testQueueConfig()
	w := NewWorker("test-worker", "test-pod", nil, cfg, nil, nil, nil)

	// Poll interval should be within [base - jitter, base + jitter]
	for i := 0; i < 100; i++ {
		d := w.pollInterval()
		assert.GreaterOrEqual(t, d, 500*time.Millisecond, "poll interval below minimum")
		assert.LessOrEqual(t, d, 1500*time.Millisecond, "poll interval above maximum")
	}
}

func TestWorkerPollIntervalNoJitter(t *testing.T) {
	cfg := testQueueConfig()
	cfg.PollIntervalJitter = 0
	w := NewWorker("test-worker", "test-pod", nil, cfg, nil, nil, nil)

	for i := 0; i < 10; i++ {
		d := w.pollInterval()
		assert.Equal(t, 1*time.Second, d, "poll interval should equal base when jitter is 0")
	}
}

func TestWorkerHealth(t *testing.T) {
	cfg := testQueueConfig()
	w := NewWorker("worker-1", "pod-1", nil, cfg, nil, nil, nil)

	h := w.Health()
	assert.Equal(t, "worker-1", h.ID)
	assert.Equal(t, "idle", h.Status)
	assert.Equal(t, "", h.CurrentRequestID)
	assert.Equal(t, 0, h.RequestsProcessed)

	// Simulate working state
	w.setStatus(WorkerStatusWorking, "request-abc")
	h = w.Health()
	assert.Equal(t, "working", h.Status)
	assert.Equal(t, "request-abc", h.CurrentRequestID)

	// Back to idle
	w.setStatus(WorkerStatusIdle, "")
	h = w.Health()
	assert.Equal(t, "idle", h.Status)
	assert.Equal(t, "", h.CurrentRequestID)
}

func TestWorkerIDPrefix(t *testing.T) {
	assert.Equal(t, "pod-1-worker-", workerIDPrefix("pod-1"))

	// Attribution must not bleed across pods with a shared ID prefix.
	assert.True(t, strings.HasPrefix("pod-1-worker-0", workerIDPrefix("pod-1")))
	assert.False(t, strings.HasPrefix("pod-10-worker-0", workerIDPrefix("pod-1")))
}

func TestPoolStopTwiceDoesNotPanic(t *testing.T) {
	pool := &WorkerPool{
		stopCh: make(chan struct{}),
	}

	// First call should close the channel without panic.
	pool.Stop()

	// Second call must not panic (sync.Once guards the close).
	assert.NotPanics(t, func() { pool.Stop() })
}
