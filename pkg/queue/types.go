// Package queue runs streaming searches off the database-backed work queue.
package queue

import (
	"context"
	"errors"
	"time"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/pkg/events"
	"github.com/Zeeeepa/airweave/pkg/search"
)

// ErrNoRequestsAvailable indicates no pending search requests are in the queue.
var ErrNoRequestsAvailable = errors.New("no requests available")

// SearchRunner executes a claimed search request and records its terminal
// status. Implemented by services.SearchService.
//
// ExecuteStreaming owns the pipeline run end to end: it rebuilds the request
// context from the persisted row, streams progress events on the request's
// channel, and returns the final state. The worker only handles claiming,
// the terminal status transition, and event cleanup.
type SearchRunner interface {
	ExecuteStreaming(ctx context.Context, row *ent.SearchRequest) (*search.State, error)
	CompleteRequest(ctx context.Context, requestID string) error
	FailRequest(ctx context.Context, requestID, errMsg string) error
}

// EventCleaner deletes the transient events of a finished request.
// Implemented by services.EventService.
type EventCleaner interface {
	CleanupRequestEvents(ctx context.Context, requestID string) (int, error)
}

// StatusPublisher broadcasts request.status transitions on the global
// searches channel. May be nil (streaming disabled).
type StatusPublisher interface {
	PublishRequestStatus(ctx context.Context, payload events.RequestStatusPayload) error
}

// PoolHealth contains health information for the entire worker pool.
type PoolHealth struct {
	IsHealthy        bool           `json:"is_healthy"`
	DBReachable      bool           `json:"db_reachable"`
	DBError          string         `json:"db_error,omitempty"`
	PodID            string         `json:"pod_id"`
	ActiveWorkers    int            `json:"active_workers"`
	TotalWorkers     int            `json:"total_workers"`
	RunningSearches  int            `json:"running_searches"`
	QueueDepth       int            `json:"queue_depth"`
	WorkerStats      []WorkerHealth `json:"worker_stats"`
	LastOrphanScan   time.Time      `json:"last_orphan_scan"`
	OrphansRecovered int            `json:"orphans_recovered"`
}

// WorkerHealth contains health information for a single worker.
type WorkerHealth struct {
	ID                string    `json:"id"`
	Status            string    `json:"status"` // "idle" or "working"
	CurrentRequestID  string    `json:"current_request_id,omitempty"`
	RequestsProcessed int       `json:"requests_processed"`
	LastActivity      time.Time `json:"last_activity"`
}
