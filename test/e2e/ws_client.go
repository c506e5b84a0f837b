package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// WSEvent is one received WebSocket message.
type WSEvent struct {
	Type     string
	Raw      json.RawMessage
	Parsed   map[string]any
	Received time.Time
}

// Seq returns the stream sequence number, or 0 for non-frame messages
// (subscription acks, pongs).
func (e WSEvent) Seq() int {
	if v, ok := e.Parsed["seq"].(float64); ok {
		return int(v)
	}
	return 0
}

// Op returns the operator name carried by the frame, if any.
func (e WSEvent) Op() string {
	s, _ := e.Parsed["op"].(string)
	return s
}

// WSClient connects to the WebSocket endpoint and collects messages.
type WSClient struct {
	conn   *websocket.Conn
	events []WSEvent
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	doneCh chan struct{}
}

// WSConnect dials the endpoint and starts collecting messages in a
// background goroutine.
func WSConnect(ctx context.Context, wsURL string) (*WSClient, error) {
	conn, _, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{})
	if err != nil {
		return nil, fmt.Errorf("WebSocket dial: %w", err)
	}

	clientCtx, cancel := context.WithCancel(ctx)
	c := &WSClient{
		conn:   conn,
		ctx:    clientCtx,
		cancel: cancel,
		doneCh: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Subscribe sends a subscribe action for the given channel. The server
// confirms and auto-replays any frames already persisted for it.
func (c *WSClient) Subscribe(channel string) error {
	msg := map[string]string{
		"action":  "subscribe",
		"channel": channel,
	}
	data, _ := json.Marshal(msg)
	return c.conn.Write(c.ctx, websocket.MessageText, data)
}

// WaitForEvent waits until a message matching the predicate arrives, or
// the timeout elapses.
func (c *WSClient) WaitForEvent(predicate func(WSEvent) bool, timeout time.Duration) (*WSEvent, error) {
	deadline := time.After(timeout)
	tick := time.NewTicker(25 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for event (collected %d events)", len(c.Events()))
		case <-tick.C:
			c.mu.Lock()
			for i := range c.events {
				if predicate(c.events[i]) {
					evt := c.events[i]
					c.mu.Unlock()
					return &evt, nil
				}
			}
			c.mu.Unlock()
		}
	}
}

// WaitForEventType waits for a message with the given type.
func (c *WSClient) WaitForEventType(eventType string, timeout time.Duration) (*WSEvent, error) {
	return c.WaitForEvent(func(e WSEvent) bool {
		return e.Type == eventType
	}, timeout)
}

// Events returns a snapshot of all collected messages.
func (c *WSClient) Events() []WSEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]WSEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Frames returns the stream frames (messages carrying a seq) ordered by
// seq and deduplicated. A client that subscribes mid-stream can receive a
// frame twice — once from catch-up and once live — and the contract is to
// dedupe on seq.
func (c *WSClient) Frames() []WSEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	bySeq := make(map[int]WSEvent)
	for _, e := range c.events {
		if seq := e.Seq(); seq > 0 {
			if _, dup := bySeq[seq]; !dup {
				bySeq[seq] = e
			}
		}
	}

	frames := make([]WSEvent, 0, len(bySeq))
	for _, e := range bySeq {
		frames = append(frames, e)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i].Seq() < frames[j].Seq() })
	return frames
}

// FrameTypes returns the type of each stream frame in seq order.
func (c *WSClient) FrameTypes() []string {
	frames := c.Frames()
	types := make([]string, len(frames))
	for i, f := range frames {
		types[i] = f.Type
	}
	return types
}

// Close closes the connection and waits for the read loop to exit.
func (c *WSClient) Close() error {
	c.cancel()
	_ = c.conn.CloseNow()
	<-c.doneCh
	return nil
}

// readLoop reads messages and appends them to the events slice.
func (c *WSClient) readLoop() {
	defer close(c.doneCh)
	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			return
		}

		var parsed map[string]any
		if err := json.Unmarshal(data, &parsed); err != nil {
			continue
		}

		evt := WSEvent{
			Raw:      json.RawMessage(data),
			Parsed:   parsed,
			Received: time.Now(),
		}
		if t, ok := parsed["type"].(string); ok {
			evt.Type = t
		}

		c.mu.Lock()
		c.events = append(c.events, evt)
		c.mu.Unlock()
	}
}
