package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Zeeeepa/airweave/ent"
	"github.com/Zeeeepa/airweave/ent/searchrequest"
)

// orphanSlack is added to the search timeout when deciding that a running
// request was abandoned by a dead worker. Workers that are still alive mark
// their request failed well before this threshold.
const orphanSlack = time.Minute

// workerIDPrefix returns the worker ID prefix used by a pod, so running
// requests can be attributed to the pod that claimed them.
func workerIDPrefix(podID string) string {
	return podID + "-worker-"
}

// orphanState tracks orphan detection metrics (thread-safe).
type orphanState struct {
	mu               sync.Mutex
	lastOrphanScan   time.Time
	orphansRecovered int
}

// runOrphanDetection periodically scans for orphaned requests.
// All pods run this independently — operations are idempotent.
func (p *WorkerPool) runOrphanDetection(ctx context.Context) {
	ticker := time.NewTicker(p.config.OrphanScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.detectAndRecoverOrphans(ctx); err != nil {
				slog.Error("Orphan detection failed", "error", err)
			}
		}
	}
}

// detectAndRecoverOrphans finds running requests claimed longer ago than the
// search timeout allows and marks them as failed (terminal state).
func (p *WorkerPool) detectAndRecoverOrphans(ctx context.Context) error {
	threshold := time.Now().Add(-(p.config.SearchTimeout + orphanSlack))

	orphans, err := p.client.SearchRequest.Query().
		Where(
			searchrequest.StatusEQ(searchrequest.StatusRunning),
			searchrequest.ClaimedAtNotNil(),
			searchrequest.ClaimedAtLT(threshold),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to query orphaned requests: %w", err)
	}

	if len(orphans) == 0 {
		p.orphans.mu.Lock()
		p.orphans.lastOrphanScan = time.Now()
		p.orphans.mu.Unlock()
		return nil
	}

	slog.Warn("Detected orphaned search requests", "count", len(orphans))

	recovered := 0
	for _, req := range orphans {
		if err := p.recoverOrphanedRequest(ctx, req); err != nil {
			slog.Error("Failed to recover orphaned request",
				"request_id", req.ID,
				"error", err)
			continue
		}
		recovered++
	}

	p.orphans.mu.Lock()
	p.orphans.lastOrphanScan = time.Now()
	p.orphans.orphansRecovered += recovered
	p.orphans.mu.Unlock()

	return nil
}

// recoverOrphanedRequest marks a single orphaned request as failed.
func (p *WorkerPool) recoverOrphanedRequest(ctx context.Context, req *ent.SearchRequest) error {
	workerID := "unknown"
	if req.WorkerID != nil {
		workerID = *req.WorkerID
	}
	claimedAt := "unknown"
	if req.ClaimedAt != nil {
		claimedAt = req.ClaimedAt.Format(time.RFC3339)
	}

	err := req.Update().
		SetStatus(searchrequest.StatusFailed).
		SetCompletedAt(time.Now()).
		SetErrorMessage(fmt.Sprintf("Orphaned: claimed by worker %s at %s and never finished", workerID, claimedAt)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark request as failed: %w", err)
	}

	slog.Warn("Orphaned search request marked as failed",
		"request_id", req.ID,
		"worker_id", workerID,
		"claimed_at", claimedAt)
	return nil
}

// CleanupStartupOrphans performs a one-time cleanup of requests owned by this
// pod that were running when the pod previously crashed.
// Called once during startup, before the worker pool begins processing.
func CleanupStartupOrphans(ctx context.Context, client *ent.Client, podID string) error {
	orphans, err := client.SearchRequest.Query().
		Where(
			searchrequest.StatusEQ(searchrequest.StatusRunning),
			searchrequest.WorkerIDHasPrefix(workerIDPrefix(podID)),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("failed to query startup orphans: %w", err)
	}

	if len(orphans) == 0 {
		return nil
	}

	slog.Warn("Found startup orphans from previous run",
		"pod_id", podID,
		"count", len(orphans))

	now := time.Now()
	for _, req := range orphans {
		err := req.Update().
			SetStatus(searchrequest.StatusFailed).
			SetCompletedAt(now).
			SetErrorMessage(fmt.Sprintf("Orphaned: pod %s restarted while the search was running", podID)).
			Exec(ctx)
		if err != nil {
			slog.Error("Failed to mark startup orphan",
				"request_id", req.ID,
				"error", err)
			continue
		}

		slog.Info("Startup orphan recovered", "request_id", req.ID)
	}

	return nil
}
