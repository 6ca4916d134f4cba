package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

// LayoutInput identifies a canvas read for a viewer.
type LayoutInput struct {
	CanvasID string                  `json:"canvas_id"`
	Viewer   dashboard.ViewerContext `json:"viewer"`
}

type layoutService interface {
	LayoutPayload(ctx context.Context, canvasID string, viewer dashboard.ViewerContext) (dashboard.LayoutPayload, error)
}

// LayoutQuery executes read-only layout resolution.
type LayoutQuery struct {
	service layoutService
}

// NewLayoutQuery builds the query.
func NewLayoutQuery(service layoutService) *LayoutQuery {
	return &LayoutQuery{service: service}
}

var _ gocommand.Querier[LayoutInput, dashboard.LayoutPayload] = (*LayoutQuery)(nil)

// Query resolves the layout for the viewer.
func (q *LayoutQuery) Query(ctx context.Context, input LayoutInput) (dashboard.LayoutPayload, error) {
	return q.service.LayoutPayload(ctx, input.CanvasID, input.Viewer)
}

// DragInput identifies the drag a viewer has open on a canvas.
type DragInput struct {
	CanvasID string                  `json:"canvas_id"`
	Viewer   dashboard.ViewerContext `json:"viewer"`
}

type dragReader interface {
	ActiveDrag(ctx context.Context, canvasID string, viewer dashboard.ViewerContext) (dashboard.DragHandle, bool)
}

// DragQuery reports the viewer's active drag.
type DragQuery struct {
	service dragReader
}

// NewDragQuery builds the query.
func NewDragQuery(service dragReader) *DragQuery {
	return &DragQuery{service: service}
}

var _ gocommand.Querier[DragInput, dashboard.DragHandle] = (*DragQuery)(nil)

// Query returns the drag handle or an error wrapping grid.ErrNoSession.
func (q *DragQuery) Query(ctx context.Context, input DragInput) (dashboard.DragHandle, error) {
	handle, ok := q.service.ActiveDrag(ctx, input.CanvasID, input.Viewer)
	if !ok {
		return dashboard.DragHandle{}, errNoDrag(input.CanvasID)
	}
	return handle, nil
}
