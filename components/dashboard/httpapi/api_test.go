package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[T any, R any] struct {
	last   T
	calls  int
	result R
	err    error
}

func (s *stubQuerier[T, R]) Query(ctx context.Context, msg T) (R, error) {
	s.last = msg
	s.calls++
	return s.result, s.err
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	buf, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(buf)
}

func TestHandlePlaceWidgetRespondsWithLayout(t *testing.T) {
	place := &stubCommander[commands.PlaceWidgetInput]{}
	layout := &stubQuerier[queries.LayoutInput, dashboard.LayoutPayload]{
		result: dashboard.LayoutPayload{CanvasID: "home", Version: 3},
	}
	api := &Handlers{Place: place, Layout: layout}
	req := httptest.NewRequest(http.MethodPost, "/canvases/home/widgets", jsonBody(t, map[string]any{
		"definition_code": "dashboard.widget.kpi",
		"cell":            7,
	}))
	req.Header.Set(ViewerHeader, "user-1")
	rec := httptest.NewRecorder()
	api.HandlePlaceWidget(rec, req, "home")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if place.last.CanvasID != "home" || place.last.Cell != 7 || place.last.UserID != "user-1" {
		t.Fatalf("unexpected command input %+v", place.last)
	}
	var payload dashboard.LayoutPayload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Version != 3 {
		t.Fatalf("expected layout payload in response, got %+v", payload)
	}
}

func TestHandlePlaceWidgetMapsRejection(t *testing.T) {
	place := &stubCommander[commands.PlaceWidgetInput]{
		err: fmt.Errorf("place: %w", grid.ErrCascadeUnresolvable),
	}
	api := &Handlers{Place: place}
	req := httptest.NewRequest(http.MethodPost, "/canvases/home/widgets", jsonBody(t, map[string]any{"widget_id": "w1"}))
	rec := httptest.NewRecorder()
	api.HandlePlaceWidget(rec, req, "home")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandlePlaceWidgetRejectsBadJSON(t *testing.T) {
	api := &Handlers{Place: &stubCommander[commands.PlaceWidgetInput]{}}
	req := httptest.NewRequest(http.MethodPost, "/canvases/home/widgets", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	api.HandlePlaceWidget(rec, req, "home")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRemoveWidget(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{}
	api := &Handlers{Remove: remove}
	req := httptest.NewRequest(http.MethodDelete, "/canvases/home/widgets/w1", nil)
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, req, "home", "w1")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if remove.last.WidgetID != "w1" || remove.last.CanvasID != "home" {
		t.Fatalf("expected ids propagation, got %+v", remove.last)
	}
}

func TestHandleRemoveWidgetNotFound(t *testing.T) {
	remove := &stubCommander[commands.RemoveWidgetInput]{err: grid.ErrUnknownWidget}
	api := &Handlers{Remove: remove}
	req := httptest.NewRequest(http.MethodDelete, "/canvases/home/widgets/ghost", nil)
	rec := httptest.NewRecorder()
	api.HandleRemoveWidget(rec, req, "home", "ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDragLifecycleHandlers(t *testing.T) {
	begin := &stubCommander[commands.BeginDragInput]{}
	drop := &stubCommander[commands.DropWidgetInput]{}
	cancel := &stubCommander[commands.CancelDragInput]{}
	drag := &stubQuerier[queries.DragInput, dashboard.DragHandle]{
		result: dashboard.DragHandle{CanvasID: "home", WidgetID: "w-1"},
	}
	hover := &stubQuerier[dashboard.HoverRequest, grid.Preview]{
		result: grid.Preview{Valid: true, Cell: 4},
	}
	api := &Handlers{BeginDrag: begin, Drop: drop, Cancel: cancel, Drag: drag, Hover: hover}

	req := httptest.NewRequest(http.MethodPost, "/canvases/home/drag", jsonBody(t, map[string]any{"definition_code": "dashboard.widget.qr"}))
	req.Header.Set(ViewerHeader, "user-1")
	rec := httptest.NewRecorder()
	api.HandleBeginDrag(rec, req, "home")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if begin.last.Viewer.UserID != "user-1" || begin.last.DefinitionCode != "dashboard.widget.qr" {
		t.Fatalf("unexpected begin input %+v", begin.last)
	}
	if drag.last.Viewer.UserID != "user-1" {
		t.Fatalf("expected drag query scoped to viewer, got %+v", drag.last)
	}

	req = httptest.NewRequest(http.MethodPost, "/canvases/home/drag/hover", jsonBody(t, cellPayload{Cell: 4}))
	req.Header.Set(ViewerHeader, "user-1")
	rec = httptest.NewRecorder()
	api.HandleHover(rec, req, "home")
	if rec.Code != http.StatusOK || hover.last.Cell != 4 {
		t.Fatalf("unexpected hover response %d for %+v", rec.Code, hover.last)
	}

	req = httptest.NewRequest(http.MethodPost, "/canvases/home/drag/drop", jsonBody(t, cellPayload{Cell: 4}))
	req.Header.Set(ViewerHeader, "user-1")
	rec = httptest.NewRecorder()
	api.HandleDrop(rec, req, "home")
	if rec.Code != http.StatusOK || drop.last.Cell != 4 || drop.last.UserID != "user-1" {
		t.Fatalf("unexpected drop response %d for %+v", rec.Code, drop.last)
	}

	req = httptest.NewRequest(http.MethodDelete, "/canvases/home/drag", nil)
	rec = httptest.NewRecorder()
	api.HandleCancelDrag(rec, req, "home")
	if rec.Code != http.StatusNoContent || cancel.calls != 1 {
		t.Fatalf("unexpected cancel response %d", rec.Code)
	}
}

func TestHandleDropStaleLayoutConflicts(t *testing.T) {
	drop := &stubCommander[commands.DropWidgetInput]{err: fmt.Errorf("save: %w", dashboard.ErrStaleLayout)}
	api := &Handlers{Drop: drop}
	req := httptest.NewRequest(http.MethodPost, "/canvases/home/drag/drop", jsonBody(t, cellPayload{Cell: 1}))
	rec := httptest.NewRecorder()
	api.HandleDrop(rec, req, "home")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestHandlePreviewUsesCanvasFromPath(t *testing.T) {
	preview := &stubQuerier[dashboard.PreviewRequest, grid.Preview]{
		result: grid.Preview{Valid: false, Reason: "footprint extends past the grid"},
	}
	api := &Handlers{Preview: preview}
	req := httptest.NewRequest(http.MethodPost, "/canvases/home/preview", jsonBody(t, dashboard.PreviewRequest{
		CanvasID:       "other",
		DefinitionCode: "dashboard.widget.table",
		Cell:           5,
	}))
	rec := httptest.NewRecorder()
	api.HandlePreview(rec, req, "home")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if preview.last.CanvasID != "home" {
		t.Fatalf("expected canvas from path, got %q", preview.last.CanvasID)
	}
	var body grid.Preview
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Valid || body.Reason == "" {
		t.Fatalf("expected invalid preview with reason, got %+v", body)
	}
}

func TestHandleRefresh(t *testing.T) {
	refresh := &stubCommander[commands.RefreshLayoutInput]{}
	api := &Handlers{Refresh: refresh}
	req := httptest.NewRequest(http.MethodPost, "/canvases/home/refresh", jsonBody(t, commands.RefreshLayoutInput{}))
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, req, "home")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresh.last.Event.CanvasID != "home" {
		t.Fatalf("expected canvas id on event, got %+v", refresh.last.Event)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		dashboard.ErrCanvasNotFound:  http.StatusNotFound,
		grid.ErrNoSession:            http.StatusNotFound,
		dashboard.ErrCanvasExists:    http.StatusConflict,
		grid.ErrStalePlan:            http.StatusConflict,
		dashboard.ErrInvalidMetadata: http.StatusUnprocessableEntity,
		grid.ErrDirectOverlap:        http.StatusUnprocessableEntity,
		fmt.Errorf("boom"):           http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := StatusFor(err); got != want {
			t.Fatalf("StatusFor(%v) = %d, want %d", err, got, want)
		}
	}
}
