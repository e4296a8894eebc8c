package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// DefaultSubscriberBuffer is the per-subscriber event backlog before the
// hook starts dropping events for that subscriber.
const DefaultSubscriberBuffer = 8

// BroadcastHook fans out snapshot change events to in-process subscribers so
// connected views re-render whenever exposed state changes.
type BroadcastHook struct {
	mu        sync.RWMutex
	subs      map[int]chan ChangeEvent
	next      int
	buffer    int
	dropped   atomic.Uint64
	telemetry Telemetry
}

// BroadcastOption customizes a BroadcastHook.
type BroadcastOption func(*BroadcastHook)

// WithSubscriberBuffer sets the per-subscriber channel backlog.
func WithSubscriberBuffer(n int) BroadcastOption {
	return func(h *BroadcastHook) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithBroadcastTelemetry reports dropped events to the given recorder.
func WithBroadcastTelemetry(t Telemetry) BroadcastOption {
	return func(h *BroadcastHook) {
		h.telemetry = normalizeTelemetry(t)
	}
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook(opts ...BroadcastOption) *BroadcastHook {
	hook := &BroadcastHook{
		subs:      make(map[int]chan ChangeEvent),
		buffer:    DefaultSubscriberBuffer,
		telemetry: noopTelemetry{},
	}
	for _, opt := range opts {
		opt(hook)
	}
	return hook
}

// SnapshotUpdated satisfies the RefreshHook interface and broadcasts events.
// Slow subscribers drop events rather than block the mutator; drops are
// counted and reported to telemetry.
func (h *BroadcastHook) SnapshotUpdated(ctx context.Context, event ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
			h.telemetry.Record(ctx, "storefront.broadcast.dropped", map[string]any{
				"entity": event.Entity,
				"reason": event.Reason,
			})
		}
	}
	return nil
}

// Dropped reports how many events were discarded for lagging subscribers.
func (h *BroadcastHook) Dropped() uint64 {
	return h.dropped.Load()
}

// Subscribe returns a channel of change events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan ChangeEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan ChangeEvent, h.buffer)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams change events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for change events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
