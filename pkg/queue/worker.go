package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
	"github.com/Zeeeepa/airweave/pkg/config"
	"github.com/Zeeeepa/airweave/pkg/events"
)

// WorkerStatus represents the current state of a worker.
type WorkerStatus string

// Worker status constants.
const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusWorking WorkerStatus = "working"
)

// Worker is a single queue worker that polls for and processes search requests.
type Worker struct {
	id        string
	podID     string
	client    *ent.Client
	config    *config.QueueConfig
	runner    SearchRunner
	cleaner   EventCleaner
	publisher StatusPublisher
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	// Health tracking
	mu                sync.RWMutex
	status            WorkerStatus
	currentRequestID  string
	requestsProcessed int
	lastActivity      time.Time
}

// NewWorker creates a new queue worker.
// cleaner may be nil (event cleanup disabled).
// publisher may be nil (status broadcasting disabled).
func NewWorker(id, podID string, client *ent.Client, cfg *config.QueueConfig, runner SearchRunner, cleaner EventCleaner, publisher StatusPublisher) *Worker {
	return &Worker{
		id:           id,
		podID:        podID,
		client:       client,
		config:       cfg,
		runner:       runner,
		cleaner:      cleaner,
		publisher:    publisher,
		stopCh:       make(chan struct{}),
		status:       WorkerStatusIdle,
		lastActivity: time.Now(),
	}
}

// Start begins the worker polling loop in a goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop signals the worker to stop and waits for it to finish.
// It is safe to call Stop multiple times.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// Health returns the current worker health status.
func (w *Worker) Health() WorkerHealth {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WorkerHealth{
		ID:                w.id,
		Status:            string(w.status),
		CurrentRequestID:  w.currentRequestID,
		RequestsProcessed: w.requestsProcessed,
		LastActivity:      w.lastActivity,
	}
}

// run is the main worker loop.
func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	log := slog.With("worker_id", w.id, "pod_id", w.podID)
	log.Info("Worker started")

	for {
		select {
		case <-w.stopCh:
			log.Info("Worker shutting down")
			return
		case <-ctx.Done():
			log.Info("Context cancelled, worker shutting down")
			return
		default:
			if err := w.pollAndProcess(ctx); err != nil {
				if errors.Is(err, ErrNoRequestsAvailable) {
					w.sleep(w.pollInterval())
					continue
				}
				log.Error("Error processing search request", "error", err)
				w.sleep(time.Second) // Brief backoff on error
			}
		}
	}
}

// sleep waits for the given duration or until stop is signalled.
func (w *Worker) sleep(d time.Duration) {
	select {
	case <-w.stopCh:
	case <-time.After(d):
	}
}

// pollAndProcess claims the next pending request and runs the pipeline for it.
func (w *Worker) pollAndProcess(ctx context.Context) error {
	// 1. Claim next request
	req, err := w.claimNextRequest(ctx)
	if err != nil {
		return err
	}

	log := slog.With("request_id", req.ID, "worker_id", w.id)
	log.Info("Search request claimed")

	// Broadcast "running" on the global channel so dashboards see the transition
	w.publishRequestStatus(ctx, req.ID, events.RequestStatusRunning)

	w.setStatus(WorkerStatusWorking, req.ID)
	defer w.setStatus(WorkerStatusIdle, "")

	// 2. Bound the pipeline run
	searchCtx, cancelSearch := context.WithTimeout(ctx, w.config.SearchTimeout)
	defer cancelSearch()

	// 3. Execute the pipeline. The executor streams progress events on the
	// request's channel itself; the worker only sees the final error.
	_, execErr := w.runner.ExecuteStreaming(searchCtx, req)

	// 4. Record terminal status (background context — search ctx may be expired)
	status := events.RequestStatusCompleted
	if execErr != nil {
		status = events.RequestStatusFailed
		msg := execErr.Error()
		if errors.Is(searchCtx.Err(), context.DeadlineExceeded) {
			msg = fmt.Sprintf("search timed out after %v", w.config.SearchTimeout)
		}
		if err := w.runner.FailRequest(context.Background(), req.ID, msg); err != nil {
			log.Error("Failed to record search failure", "error", err)
			return err
		}
	} else {
		if err := w.runner.CompleteRequest(context.Background(), req.ID); err != nil {
			log.Error("Failed to record search completion", "error", err)
			return err
		}
	}

	// 5. Broadcast terminal status
	w.publishRequestStatus(context.Background(), req.ID, status)

	// 6. Cleanup transient events after the grace period so WebSocket clients
	// can still catch up on the final frames.
	w.scheduleEventCleanup(req.ID)

	w.mu.Lock()
	w.requestsProcessed++
	w.mu.Unlock()

	log.Info("Search request processed", "status", status)
	return nil
}

// claimNextRequest atomically claims the next pending request using FOR UPDATE SKIP LOCKED.
func (w *Worker) claimNextRequest(ctx context.Context) (*ent.SearchRequest, error) {
	tx, err := w.client.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// SELECT ... FOR UPDATE SKIP LOCKED
	// Order by created_at for FIFO processing
	req, err := tx.SearchRequest.Query().
		Where(searchrequest.StatusEQ(searchrequest.StatusPending)).
		Order(ent.Asc(searchrequest.FieldCreatedAt)).
		Limit(1).
		ForUpdate(sql.WithLockAction(sql.SkipLocked)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNoRequestsAvailable
		}
		return nil, fmt.Errorf("failed to query pending request: %w", err)
	}

	// Claim: set running, worker_id, claimed_at
	req, err = req.Update().
		SetStatus(searchrequest.StatusRunning).
		SetWorkerID(w.id).
		SetClaimedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to claim request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	return req, nil
}

// publishRequestStatus broadcasts a request.status event on the global searches
// channel for real-time WebSocket delivery. Non-blocking: errors are logged.
func (w *Worker) publishRequestStatus(ctx context.Context, requestID, status string) {
	if w.publisher == nil {
		return
	}
	if err := w.publisher.PublishRequestStatus(ctx, events.RequestStatusPayload{
		Type:      events.EventTypeRequestStatus,
		RequestID: requestID,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}); err != nil {
		slog.Warn("Failed to publish request status",
			"request_id", requestID, "status", status, "error", err)
	}
}

// scheduleEventCleanup schedules deletion of the request's transient events
// after the configured grace period, allowing WebSocket clients to receive
// final events.
func (w *Worker) scheduleEventCleanup(requestID string) {
	if w.cleaner == nil {
		return
	}
	time.AfterFunc(w.config.EventCleanupGrace, func() {
		if _, err := w.cleaner.CleanupRequestEvents(context.Background(), requestID); err != nil {
			slog.Warn("Failed to cleanup request events after grace period",
				"request_id", requestID, "error", err)
		}
	})
}

// pollInterval returns the poll duration with jitter.
func (w *Worker) pollInterval() time.Duration {
	base := w.config.PollInterval
	jitter := w.config.PollIntervalJitter
	if jitter <= 0 {
		return base
	}
	// Range: [base - jitter, base + jitter]
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

// setStatus updates the worker's health tracking state.
func (w *Worker) setStatus(status WorkerStatus, requestID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.currentRequestID = requestID
	w.lastActivity = time.Now()
}
