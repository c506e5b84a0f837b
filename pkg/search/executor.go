package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Zeeeepa/airweave/pkg/analytics"
	"github.com/Zeeeepa/airweave/pkg/auth"
	"github.com/Zeeeepa/airweave/pkg/database"
)

// Executor runs search pipelines. One Executor serves the whole process;
// all per-request state lives in the State it returns.
type Executor struct {
	publisher EventPublisher
	tracker   analytics.Tracker
}

// NewExecutor creates an executor. publisher may be nil when streaming is
// disabled process-wide; tracker may be nil to disable analytics.
func NewExecutor(publisher EventPublisher, tracker analytics.Tracker) *Executor {
	return &Executor{
		publisher: publisher,
		tracker:   tracker,
	}
}

// Execute runs the pipeline described by cfg and returns the final State.
// requestID identifies a streaming execution and may be empty for
// synchronous searches, in which case no events are published.
//
// A non-nil error means an operator (or the plan itself) failed; the
// returned State still carries whatever accumulated before the failure.
// The analytics hook fires exactly once per call, and streaming
// executions always terminate their stream with a done frame, on success
// and failure alike.
func (e *Executor) Execute(ctx context.Context, cfg *SearchConfig, db *database.Client, reqCtx *auth.RequestContext, requestID string) (st *State, err error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		e.recordAnalytics(cfg, reqCtx, nil, time.Since(start), err)
		return nil, err
	}

	plan := BuildPlan(cfg)
	logger := requestLogger(reqCtx, requestID)

	st = &State{
		Query:             cfg.Query,
		Config:            cfg,
		DB:                db,
		RequestCtx:        reqCtx,
		Logger:            logger,
		RequestID:         requestID,
		StreamingRequired: requestID != "",
		Timings:           make(map[string]float64),
		Errors:            []OperationError{},
		emitter:           NewEmitter(requestID, e.publisher, logger),
	}

	// Deferred in reverse order: analytics first, then the terminal done
	// frame and emitter drain. Both run on every path out of this
	// function.
	defer func() {
		st.Emit(EventTypeDone, map[string]any{"request_id": requestID}, "")
		st.emitter.Close()
	}()
	defer func() {
		e.recordAnalytics(cfg, reqCtx, st, time.Since(start), err)
	}()

	logger.Debug("Starting search execution",
		"collection", cfg.CollectionSlug,
		"query_length", len(cfg.Query),
		"limit", cfg.Limit,
		"offset", cfg.Offset,
		"operators", PlanNames(plan),
		"streaming", st.StreamingRequired)

	st.Emit(EventTypeStart, map[string]any{
		"request_id": requestID,
		"query":      cfg.Query,
		"limit":      cfg.Limit,
		"offset":     cfg.Offset,
	}, "")

	executed := make(map[string]bool, len(plan))
	for len(executed) < len(plan) {
		ready := FindReady(plan, executed)
		if len(ready) == 0 {
			logger.Warn("No runnable operators before plan completed; unsatisfiable dependencies",
				"executed", len(executed),
				"remaining", unexecutedNames(plan, executed))
			break
		}
		for _, op := range ready {
			if err := e.runOperator(ctx, op, st); err != nil {
				return st, err
			}
			executed[op.Name()] = true
		}
	}

	finalize(st)

	st.Emit(EventTypeResults, map[string]any{
		"results": st.FinalResults,
	}, "")

	// The summary frame reports wall-clock time for the whole execution;
	// the state's ExecutionSummary reports the sum of operator timings.
	totalMs := float64(time.Since(start).Microseconds()) / 1000.0
	st.Emit(EventTypeSummary, map[string]any{
		"timings":       st.Timings,
		"errors":        st.Errors,
		"total_time_ms": totalMs,
	}, "")

	logger.Debug("Search execution finished",
		"operations_executed", st.Summary.OperationsExecuted,
		"planned", len(plan),
		"total_time_ms", totalMs,
		"results", len(st.FinalResults),
		"errors", len(st.Errors))

	return st, nil
}

// runOperator executes one operator with its lifecycle frames and timing.
// On failure the error is recorded on the state and the wrapped cause is
// returned so callers can still match the underlying error.
func (e *Executor) runOperator(ctx context.Context, op Operator, st *State) error {
	name := op.Name()

	st.Emit(EventTypeOperatorStart, map[string]any{"name": name}, name)
	opStart := time.Now()

	opCtx := ctx
	if budget := st.Config.OperatorBudget; budget > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	if err := op.Execute(opCtx, st); err != nil {
		st.Errors = append(st.Errors, OperationError{Operation: name, Error: err.Error()})
		st.Emit(EventTypeError, map[string]any{
			"operation": name,
			"message":   err.Error(),
		}, name)
		st.Log().Error("Operator failed",
			"operator", name,
			"error", err)
		return fmt.Errorf("operator %s: %w", name, err)
	}

	ms := float64(time.Since(opStart).Microseconds()) / 1000.0
	st.Timings[name] = ms
	st.Emit(EventTypeOperatorEnd, map[string]any{"name": name, "ms": ms}, name)

	st.Log().Debug("Operator finished",
		"operator", name,
		"ms", ms,
		"expanded_queries", len(st.ExpandedQueries),
		"embeddings", len(st.Embeddings),
		"raw_results", len(st.RawResults),
		"final_results", len(st.FinalResults))
	return nil
}

// finalize promotes raw results when no post-processing stage produced
// final ones and builds the execution summary. Runs only when the
// scheduler loop completed without an operator failure.
func finalize(st *State) {
	if st.FinalResults == nil {
		if st.RawResults != nil {
			st.FinalResults = st.RawResults
		} else {
			st.FinalResults = []SearchResult{}
		}
	}

	total := 0.0
	for _, ms := range st.Timings {
		total += ms
	}
	st.Summary = &ExecutionSummary{
		OperationsExecuted: len(st.Timings),
		TotalTimeMs:        total,
		ErrorsCount:        len(st.Errors),
	}
}

// recordAnalytics fires the per-execution business event. Never fails the
// search: the tracker implementation swallows delivery errors.
func (e *Executor) recordAnalytics(cfg *SearchConfig, reqCtx *auth.RequestContext, st *State, duration time.Duration, execErr error) {
	if e.tracker == nil {
		return
	}

	ev := analytics.SearchQueryEvent{
		CollectionSlug: cfg.CollectionSlug,
		QueryLength:    len(cfg.Query),
		DurationMs:     duration.Milliseconds(),
		Status:         analytics.StatusSuccess,
	}
	if execErr != nil {
		ev.Status = analytics.StatusError
	}
	if st != nil {
		ev.Streaming = st.StreamingRequired
		ev.ResultsCount = len(st.FinalResults)
	}
	if reqCtx != nil {
		ev.DistinctID = reqCtx.DistinctID()
		ev.OrganizationID = reqCtx.Organization.ID
		ev.OrganizationName = reqCtx.Organization.Name
	}
	e.tracker.TrackSearchQuery(ev)
}

// requestLogger builds the logger threaded through the pipeline.
func requestLogger(reqCtx *auth.RequestContext, requestID string) *slog.Logger {
	logger := slog.Default()
	if reqCtx != nil {
		logger = reqCtx.Log()
	}
	if requestID != "" {
		logger = logger.With("request_id", requestID)
	}
	return logger
}

// unexecutedNames lists the plan operators not yet executed, for the
// deadlock warning.
func unexecutedNames(plan []Operator, executed map[string]bool) []string {
	var names []string
	for _, op := range plan {
		if !executed[op.Name()] {
			names = append(names, op.Name())
		}
	}
	return names
}
