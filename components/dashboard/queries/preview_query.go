package queries

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

type previewService interface {
	Preview(ctx context.Context, req dashboard.PreviewRequest) (grid.Preview, error)
}

// PreviewQuery evaluates a placement without touching any drag.
type PreviewQuery struct {
	service previewService
}

// NewPreviewQuery builds the query.
func NewPreviewQuery(service previewService) *PreviewQuery {
	return &PreviewQuery{service: service}
}

var _ gocommand.Querier[dashboard.PreviewRequest, grid.Preview] = (*PreviewQuery)(nil)

// Query returns the preview; an invalid preview is a result, not an error.
func (q *PreviewQuery) Query(ctx context.Context, req dashboard.PreviewRequest) (grid.Preview, error) {
	return q.service.Preview(ctx, req)
}

type hoverService interface {
	Hover(ctx context.Context, req dashboard.HoverRequest) (grid.Preview, error)
}

// HoverQuery previews the viewer's active drag over a cell. It only moves the
// drag between its preview states; the canvas is never changed.
type HoverQuery struct {
	service hoverService
}

// NewHoverQuery builds the query.
func NewHoverQuery(service hoverService) *HoverQuery {
	return &HoverQuery{service: service}
}

var _ gocommand.Querier[dashboard.HoverRequest, grid.Preview] = (*HoverQuery)(nil)

// Query runs the hover.
func (q *HoverQuery) Query(ctx context.Context, req dashboard.HoverRequest) (grid.Preview, error) {
	return q.service.Hover(ctx, req)
}

func errNoDrag(canvasID string) error {
	return fmt.Errorf("%w on canvas %s", grid.ErrNoSession, canvasID)
}
