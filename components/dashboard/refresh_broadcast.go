package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 8

// BroadcastHook fans out layout events to in-process subscribers. A slow
// subscriber loses its oldest queued events, never the newest, so the last
// version it reads is always current. Commits never block on subscribers.
type BroadcastHook struct {
	mu      sync.RWMutex
	subs    map[int]*subscriber
	next    int
	dropped atomic.Int64
}

type subscriber struct {
	canvasID string
	ch       chan LayoutEvent
	// send serializes writers so drop-oldest cannot race another delivery.
	send sync.Mutex
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs: make(map[int]*subscriber),
	}
}

// LayoutChanged satisfies the RefreshHook interface and broadcasts events.
func (h *BroadcastHook) LayoutChanged(_ context.Context, event LayoutEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if sub.canvasID != "" && sub.canvasID != event.CanvasID {
			continue
		}
		h.deliver(sub, event)
	}
	return nil
}

func (h *BroadcastHook) deliver(sub *subscriber, event LayoutEvent) {
	sub.send.Lock()
	defer sub.send.Unlock()
	for {
		select {
		case sub.ch <- event:
			return
		default:
		}
		select {
		case <-sub.ch:
			h.dropped.Add(1)
		default:
		}
	}
}

// Dropped counts events discarded because a subscriber fell behind.
func (h *BroadcastHook) Dropped() int64 {
	return h.dropped.Load()
}

// Subscribe returns a channel of layout events for every canvas and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan LayoutEvent, func()) {
	return h.SubscribeCanvas("")
}

// SubscribeCanvas is Subscribe limited to one canvas; an empty id receives
// every canvas.
func (h *BroadcastHook) SubscribeCanvas(canvasID string) (<-chan LayoutEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	sub := &subscriber{canvasID: canvasID, ch: make(chan LayoutEvent, subscriberBuffer)}
	h.subs[id] = sub
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Stream calls write for each event of canvasID (every canvas when empty)
// until ctx ends, write fails, or the hook drops the subscription.
func (h *BroadcastHook) Stream(ctx context.Context, canvasID string, write func(LayoutEvent) error) error {
	events, cancel := h.SubscribeCanvas(canvasID)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := write(event); err != nil {
				return err
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams layout events as JSON. The
// optional "canvas" query parameter limits the stream to one canvas.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	_ = h.Stream(r.Context(), r.URL.Query().Get("canvas"), func(event LayoutEvent) error {
		return conn.WriteJSON(event)
	})
}

// ServeSSE streams layout events as Server-Sent Events. The event id is the
// layout version so clients can discard out-of-order frames.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}
	_ = h.Stream(r.Context(), r.URL.Query().Get("canvas"), func(event LayoutEvent) error {
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "id: %d\nevent: layout\ndata: %s\n\n", event.Version, data); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
}
