package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// ViewerHeader carries the viewer id when no ViewerResolver is configured.
const ViewerHeader = "X-Dashboard-Viewer"

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Place     gocommand.Commander[commands.PlaceWidgetInput]
	Remove    gocommand.Commander[commands.RemoveWidgetInput]
	BeginDrag gocommand.Commander[commands.BeginDragInput]
	Drop      gocommand.Commander[commands.DropWidgetInput]
	Cancel    gocommand.Commander[commands.CancelDragInput]
	Refresh   gocommand.Commander[commands.RefreshLayoutInput]

	Layout  gocommand.Querier[queries.LayoutInput, dashboard.LayoutPayload]
	Drag    gocommand.Querier[queries.DragInput, dashboard.DragHandle]
	Preview gocommand.Querier[dashboard.PreviewRequest, grid.Preview]
	Hover   gocommand.Querier[dashboard.HoverRequest, grid.Preview]

	ViewerResolver func(r *http.Request) dashboard.ViewerContext
}

type cellPayload struct {
	Cell int `json:"cell"`
}

func (h *Handlers) HandleLayout(w http.ResponseWriter, r *http.Request, canvasID string) {
	h.respondLayout(w, r, canvasID, http.StatusOK)
}

func (h *Handlers) HandlePlaceWidget(w http.ResponseWriter, r *http.Request, canvasID string) {
	var payload commands.PlaceWidgetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.CanvasID = canvasID
	if payload.UserID == "" {
		payload.UserID = h.viewer(r).UserID
	}
	if err := h.Place.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	h.respondLayout(w, r, canvasID, http.StatusCreated)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, canvasID, widgetID string) {
	input := commands.RemoveWidgetInput{CanvasID: canvasID, WidgetID: widgetID}
	input.UserID = h.viewer(r).UserID
	if err := h.Remove.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request, canvasID string) {
	var payload dashboard.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.CanvasID = canvasID
	preview, err := h.Preview.Query(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *Handlers) HandleBeginDrag(w http.ResponseWriter, r *http.Request, canvasID string) {
	var payload commands.BeginDragInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	viewer := h.viewer(r)
	payload.CanvasID = canvasID
	payload.Viewer = viewer
	payload.UserID = viewer.UserID
	if err := h.BeginDrag.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	if h.Drag == nil {
		w.WriteHeader(http.StatusCreated)
		return
	}
	handle, err := h.Drag.Query(r.Context(), queries.DragInput{CanvasID: canvasID, Viewer: viewer})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, handle)
}

func (h *Handlers) HandleHover(w http.ResponseWriter, r *http.Request, canvasID string) {
	var payload cellPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	preview, err := h.Hover.Query(r.Context(), dashboard.HoverRequest{
		CanvasID: canvasID,
		Viewer:   h.viewer(r),
		Cell:     payload.Cell,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

func (h *Handlers) HandleDrop(w http.ResponseWriter, r *http.Request, canvasID string) {
	var payload cellPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	viewer := h.viewer(r)
	input := commands.DropWidgetInput{CanvasID: canvasID, Viewer: viewer, Cell: payload.Cell}
	input.UserID = viewer.UserID
	if err := h.Drop.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	h.respondLayout(w, r, canvasID, http.StatusOK)
}

func (h *Handlers) HandleCancelDrag(w http.ResponseWriter, r *http.Request, canvasID string) {
	input := commands.CancelDragInput{CanvasID: canvasID, Viewer: h.viewer(r)}
	if err := h.Cancel.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request, canvasID string) {
	var payload commands.RefreshLayoutInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	payload.Event.CanvasID = canvasID
	if err := h.Refresh.Execute(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) respondLayout(w http.ResponseWriter, r *http.Request, canvasID string, status int) {
	if h.Layout == nil {
		w.WriteHeader(status)
		return
	}
	payload, err := h.Layout.Query(r.Context(), queries.LayoutInput{CanvasID: canvasID, Viewer: h.viewer(r)})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, payload)
}

func (h *Handlers) viewer(r *http.Request) dashboard.ViewerContext {
	if h.ViewerResolver != nil {
		return h.ViewerResolver(r)
	}
	return dashboard.ViewerContext{UserID: r.Header.Get(ViewerHeader)}
}

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrCanvasNotFound),
		errors.Is(err, dashboard.ErrUnknownDefinition),
		errors.Is(err, grid.ErrUnknownWidget),
		errors.Is(err, grid.ErrNoSession):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrCanvasExists),
		errors.Is(err, dashboard.ErrStaleLayout),
		errors.Is(err, grid.ErrStalePlan):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrInvalidMetadata),
		errors.Is(err, dashboard.ErrMissingSubject),
		errors.Is(err, grid.ErrInvalidPreview),
		errors.Is(err, grid.ErrOutOfBounds),
		errors.Is(err, grid.ErrDirectOverlap),
		errors.Is(err, grid.ErrCascadeUnresolvable),
		errors.Is(err, grid.ErrInvalidSize),
		errors.Is(err, grid.ErrDuplicateWidget),
		errors.Is(err, grid.ErrMissingWidgetID):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
