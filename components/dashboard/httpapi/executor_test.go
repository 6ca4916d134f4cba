package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/queries"
)

func newSeededService(t *testing.T) *dashboard.Service {
	t.Helper()
	ctx := context.Background()
	service := dashboard.NewService(dashboard.Options{})
	if _, err := service.CreateCanvas(ctx, dashboard.CreateCanvasRequest{CanvasID: "home"}); err != nil {
		t.Fatalf("CreateCanvas returned error: %v", err)
	}
	if err := dashboard.SeedCanvas(ctx, service, "home", nil); err != nil {
		t.Fatalf("SeedCanvas returned error: %v", err)
	}
	return service
}

func TestCommandExecutorRunsDragAgainstService(t *testing.T) {
	ctx := context.Background()
	service := newSeededService(t)
	exec := NewCommandExecutor(service, nil, nil)
	viewer := dashboard.ViewerContext{UserID: "user-1"}

	err := exec.BeginDrag(ctx, commands.BeginDragInput{CanvasID: "home", Viewer: viewer, WidgetID: "kpi-orders"})
	if err != nil {
		t.Fatalf("BeginDrag returned error: %v", err)
	}
	handle, err := exec.ActiveDrag(ctx, queries.DragInput{CanvasID: "home", Viewer: viewer})
	if err != nil || !handle.Moving || handle.WidgetID != "kpi-orders" {
		t.Fatalf("unexpected handle %+v, err %v", handle, err)
	}
	if err := exec.Drop(ctx, commands.DropWidgetInput{CanvasID: "home", Viewer: viewer, Cell: 35}); err != nil {
		t.Fatalf("Drop returned error: %v", err)
	}
	layout, err := exec.Layout(ctx, queries.LayoutInput{CanvasID: "home", Viewer: viewer})
	if err != nil {
		t.Fatalf("Layout returned error: %v", err)
	}
	if layout.Drag != nil {
		t.Fatalf("expected drag to end after drop")
	}
	if layout.Occupancy[5][5] != "kpi-orders" {
		t.Fatalf("expected kpi-orders in the last cell, got %q", layout.Occupancy[5][5])
	}
}

func TestHandlersAgainstServiceReportRejections(t *testing.T) {
	service := newSeededService(t)
	api := NewHandlers(service, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/canvases/home/widgets", bytes.NewBufferString(`{"definition_code":"dashboard.widget.banner","cell":1}`))
	rec := httptest.NewRecorder()
	api.HandlePlaceWidget(rec, req, "home")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a banner past the grid edge, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/canvases/missing", nil)
	rec = httptest.NewRecorder()
	api.HandleLayout(rec, req, "missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown canvas, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/canvases/home/widgets", bytes.NewBufferString(`{"definition_code":"dashboard.widget.qr","cell":35}`))
	rec = httptest.NewRecorder()
	api.HandlePlaceWidget(rec, req, "home")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload dashboard.LayoutPayload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Occupancy[5][5] == "" {
		t.Fatalf("expected the qr widget in the last cell")
	}
}
