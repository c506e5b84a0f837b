package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

const (
	// emitQueueSize bounds the number of frames awaiting publication.
	// Emit blocks once the queue is full, which backpressures operators
	// against a slow publisher instead of growing memory.
	emitQueueSize = 64

	// publishTimeout caps one publish attempt. Publishes run on a
	// background context so terminal frames still go out when the
	// request context is already cancelled.
	publishTimeout = 5 * time.Second
)

// queuedEvent is one frame awaiting sequencing. The timestamp is captured
// when Emit is called, so frame timestamps reflect emission order even
// when publication lags.
type queuedEvent struct {
	eventType string
	data      map[string]any
	opName    string
	ts        time.Time
}

// Emitter serializes stream publication for one request. Operators and
// the executor call Emit from the execution goroutine; a single writer
// goroutine assigns the dense per-request sequence and the per-operator
// sub-sequence, marshals the frame, and publishes it. Centralizing
// sequence assignment in the writer keeps frames gap-free without a lock
// around every emit site.
//
// An Emitter built without a request ID (synchronous searches) is inert:
// Emit returns immediately and nothing is published.
type Emitter struct {
	requestID string
	publisher EventPublisher
	logger    *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan queuedEvent
	done   chan struct{}

	// Writer-goroutine state. Only the writer touches these.
	seq    int64
	opSeqs map[string]int64
}

// NewEmitter creates an emitter for requestID publishing through pub.
// An empty requestID or nil publisher yields an inert emitter.
func NewEmitter(requestID string, pub EventPublisher, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Emitter{
		requestID: requestID,
		publisher: pub,
		logger:    logger.With("request_id", requestID),
	}
	if requestID == "" || pub == nil {
		return e
	}

	e.queue = make(chan queuedEvent, emitQueueSize)
	e.done = make(chan struct{})
	e.opSeqs = make(map[string]int64)
	go e.run()
	return e
}

// Emit submits one frame. The timestamp is captured here; sequencing and
// publication happen on the writer goroutine. The data map must not be
// mutated after the call. Emits after Close are dropped.
func (e *Emitter) Emit(eventType string, data map[string]any, opName string) {
	if e == nil || e.queue == nil {
		return
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	e.queue <- queuedEvent{
		eventType: eventType,
		data:      data,
		opName:    opName,
		ts:        time.Now(),
	}
}

// Close stops intake, publishes everything already queued, and waits for
// the writer to exit. Idempotent.
func (e *Emitter) Close() {
	if e == nil || e.queue == nil {
		return
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	<-e.done
}

// run is the writer goroutine: it drains the queue until Close, assigning
// sequence numbers in arrival order.
func (e *Emitter) run() {
	defer close(e.done)

	for ev := range e.queue {
		e.seq++

		frame := make(map[string]any, len(ev.data)+5)
		for k, v := range ev.data {
			frame[k] = v
		}
		frame["type"] = ev.eventType
		frame["seq"] = e.seq
		frame["ts"] = ev.ts.UTC().Format(time.RFC3339Nano)
		if ev.opName != "" {
			e.opSeqs[ev.opName]++
			frame["op"] = ev.opName
			frame["op_seq"] = e.opSeqs[ev.opName]
		}

		payload, err := json.Marshal(frame)
		if err != nil {
			e.logger.Warn("Failed to marshal stream frame",
				"event_type", ev.eventType,
				"error", err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := e.publisher.PublishSearchEvent(ctx, e.requestID, payload); err != nil {
			// Streaming is best-effort: a failed publish must never fail
			// the search itself.
			e.logger.Warn("Failed to publish stream frame",
				"event_type", ev.eventType,
				"seq", e.seq,
				"error", err)
		}
		cancel()
	}
}
