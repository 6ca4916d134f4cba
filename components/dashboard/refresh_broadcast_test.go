package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := LayoutEvent{CanvasID: "home", Reason: "drop", Version: 3}
	if err := hook.LayoutChanged(context.Background(), event); err != nil {
		t.Fatalf("LayoutChanged returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.CanvasID != event.CanvasID || e.Version != 3 {
			t.Fatalf("unexpected event %+v", e)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookFiltersByCanvas(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.SubscribeCanvas("home")
	defer cancel()
	_ = hook.LayoutChanged(context.Background(), LayoutEvent{CanvasID: "other", Reason: "drop"})
	_ = hook.LayoutChanged(context.Background(), LayoutEvent{CanvasID: "home", Reason: "remove"})
	select {
	case e := <-ch:
		if e.CanvasID != "home" || e.Reason != "remove" {
			t.Fatalf("expected only home events, got %+v", e)
		}
	default:
		t.Fatalf("expected home event to be delivered")
	}
	select {
	case e := <-ch:
		t.Fatalf("unexpected extra event %+v", e)
	default:
	}
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	cancel()
	if err := hook.LayoutChanged(context.Background(), LayoutEvent{CanvasID: "home"}); err != nil {
		t.Fatalf("LayoutChanged after cancel returned error: %v", err)
	}
}

func TestBroadcastHookKeepsNewestWhenSubscriberLags(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.SubscribeCanvas("home")
	defer cancel()
	total := subscriberBuffer + 3
	for v := 1; v <= total; v++ {
		_ = hook.LayoutChanged(context.Background(), LayoutEvent{CanvasID: "home", Version: uint64(v)})
	}
	if hook.Dropped() != 3 {
		t.Fatalf("expected 3 dropped events, got %d", hook.Dropped())
	}
	first := <-ch
	if first.Version != 4 {
		t.Fatalf("expected oldest events to be dropped, first is version %d", first.Version)
	}
	var last LayoutEvent
	for i := 1; i < subscriberBuffer; i++ {
		last = <-ch
	}
	if last.Version != uint64(total) {
		t.Fatalf("expected newest version %d, got %d", total, last.Version)
	}
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events?canvas=home", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		hook.ServeSSE(rec, req)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hookSubscribers(hook) == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("SSE handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	_ = hook.LayoutChanged(context.Background(), LayoutEvent{CanvasID: "other", Version: 1})
	_ = hook.LayoutChanged(context.Background(), LayoutEvent{CanvasID: "home", Reason: "drop", Version: 7})
	for hookQueued(hook) > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("SSE handler never drained its queue")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "id: 7\nevent: layout\ndata: {") {
		t.Fatalf("unexpected SSE body %q", body)
	}
	if strings.Contains(body, `"canvas_id":"other"`) {
		t.Fatalf("SSE stream leaked another canvas: %q", body)
	}
}

func hookSubscribers(h *BroadcastHook) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func hookQueued(h *BroadcastHook) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	queued := 0
	for _, sub := range h.subs {
		queued += len(sub.ch)
	}
	return queued
}
