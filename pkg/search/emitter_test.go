package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowPublisher delays each publish to expose enqueue/publish timing.
type slowPublisher struct {
	recordingPublisher
	delay time.Duration
}

func (p *slowPublisher) PublishSearchEvent(ctx context.Context, requestID string, frame []byte) error {
	time.Sleep(p.delay)
	return p.recordingPublisher.PublishSearchEvent(ctx, requestID, frame)
}

func TestEmitter_SequencesInArrivalOrder(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter("r1", pub, nil)

	e.Emit("start", map[string]any{"query": "q"}, "")
	e.Emit("operator_start", map[string]any{"name": "embedding"}, "embedding")
	e.Emit("operator_end", map[string]any{"name": "embedding"}, "embedding")
	e.Emit("results", nil, "")
	e.Emit("done", nil, "")
	e.Close()

	frames := pub.all()
	require.Len(t, frames, 5)
	for i, f := range frames {
		assert.Equal(t, float64(i+1), f["seq"])
	}
	assert.Equal(t, []string{"start", "operator_start", "operator_end", "results", "done"}, pub.types())

	assert.Equal(t, float64(1), frames[1]["op_seq"])
	assert.Equal(t, float64(2), frames[2]["op_seq"])
	_, hasOp := frames[0]["op"]
	assert.False(t, hasOp)
}

func TestEmitter_InertWithoutRequestID(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter("", pub, nil)

	e.Emit("start", nil, "")
	e.Close()
	assert.Empty(t, pub.all())
}

func TestEmitter_InertWithoutPublisher(t *testing.T) {
	e := NewEmitter("r1", nil, nil)
	e.Emit("start", nil, "")
	e.Close()
}

func TestEmitter_NilReceiver(t *testing.T) {
	var e *Emitter
	e.Emit("start", nil, "")
	e.Close()
}

func TestEmitter_CloseIdempotentAndDropsLateEmits(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter("r1", pub, nil)

	e.Emit("start", nil, "")
	e.Close()
	e.Close()
	e.Emit("late", nil, "")

	frames := pub.all()
	require.Len(t, frames, 1)
	assert.Equal(t, "start", frames[0]["type"])
}

func TestEmitter_CloseDrainsQueuedFrames(t *testing.T) {
	pub := &slowPublisher{delay: 5 * time.Millisecond}
	e := NewEmitter("r1", pub, nil)

	for i := 0; i < 10; i++ {
		e.Emit("tick", map[string]any{"i": i}, "")
	}
	e.Close()

	assert.Len(t, pub.all(), 10, "Close must publish everything queued before returning")
}

func TestEmitter_EnvelopeOverridesPayloadKeys(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter("r1", pub, nil)

	e.Emit("results", map[string]any{"type": "spoof", "seq": 99, "ts": "bogus"}, "")
	e.Close()

	frames := pub.all()
	require.Len(t, frames, 1)
	assert.Equal(t, "results", frames[0]["type"])
	assert.Equal(t, float64(1), frames[0]["seq"])
	_, err := time.Parse(time.RFC3339Nano, frames[0]["ts"].(string))
	assert.NoError(t, err)
}

func TestEmitter_TimestampCapturedAtEmitTime(t *testing.T) {
	pub := &slowPublisher{delay: 30 * time.Millisecond}
	e := NewEmitter("r1", pub, nil)

	e.Emit("first", nil, "")
	e.Emit("second", nil, "")
	e.Emit("third", nil, "")
	e.Close()

	frames := pub.all()
	require.Len(t, frames, 3)

	first, err := time.Parse(time.RFC3339Nano, frames[0]["ts"].(string))
	require.NoError(t, err)
	last, err := time.Parse(time.RFC3339Nano, frames[2]["ts"].(string))
	require.NoError(t, err)

	// All three were submitted back to back; if timestamps were taken at
	// publish time they would be ~30ms apart each.
	assert.Less(t, last.Sub(first), 25*time.Millisecond)
}

func TestEmitter_ConcurrentEmitsStayDense(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter("r1", pub, nil)

	const perOp = 25
	ops := []string{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for _, op := range ops {
		wg.Add(1)
		go func(op string) {
			defer wg.Done()
			for i := 0; i < perOp; i++ {
				e.Emit("progress", map[string]any{"op_name": op}, op)
			}
		}(op)
	}
	wg.Wait()
	e.Close()

	frames := pub.all()
	require.Len(t, frames, len(ops)*perOp)

	for i, f := range frames {
		assert.Equal(t, float64(i+1), f["seq"], "global seq must be dense")
	}

	for _, op := range ops {
		var opSeqs []float64
		for _, f := range frames {
			if f["op"] == op {
				opSeqs = append(opSeqs, f["op_seq"].(float64))
			}
		}
		require.Len(t, opSeqs, perOp)
		for i, s := range opSeqs {
			assert.Equal(t, float64(i+1), s, "per-operator sub-sequence must be dense for %s", op)
		}
	}
}
