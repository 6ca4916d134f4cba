package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// LayoutSource is the subset of Service the controller reads from.
type LayoutSource interface {
	Layout(ctx context.Context, canvasID string) (grid.Layout, error)
	ActiveDrag(ctx context.Context, canvasID string, viewer ViewerContext) (DragHandle, bool)
	Catalog() Catalog
}

// ControllerOptions wires a Controller.
type ControllerOptions struct {
	Service  LayoutSource
	Chart    *OccupancyChart
	Renderer Renderer
	Template string
	// IncludeCatalog attaches the widget catalog to layout payloads.
	IncludeCatalog bool
}

// Controller turns service state into transport payloads.
type Controller struct {
	service        LayoutSource
	chart          *OccupancyChart
	renderer       Renderer
	template       string
	includeCatalog bool
}

var (
	errMissingLayoutSource = errors.New("dashboard: controller has no layout source")
	errMissingRenderer     = errors.New("dashboard: controller has no renderer")
)

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Chart == nil {
		opts.Chart = NewOccupancyChart()
	}
	if opts.Template == "" {
		opts.Template = DefaultCanvasTemplate
	}
	return &Controller{
		service:        opts.Service,
		chart:          opts.Chart,
		renderer:       opts.Renderer,
		template:       opts.Template,
		includeCatalog: opts.IncludeCatalog,
	}
}

// LayoutPayload resolves the canvas layout for a viewer, including the drag
// the viewer has in progress.
func (c *Controller) LayoutPayload(ctx context.Context, canvasID string, viewer ViewerContext) (LayoutPayload, error) {
	if c.service == nil {
		return LayoutPayload{}, errMissingLayoutSource
	}
	layout, err := c.service.Layout(ctx, canvasID)
	if err != nil {
		return LayoutPayload{}, err
	}
	payload := NewLayoutPayload(canvasID, layout)
	if c.includeCatalog && c.service.Catalog() != nil {
		payload.Catalog = c.service.Catalog().Definitions()
	}
	if handle, ok := c.service.ActiveDrag(ctx, canvasID, viewer); ok {
		payload.Drag = &handle
	}
	return payload, nil
}

// RenderOccupancy writes the occupancy heatmap of a canvas.
func (c *Controller) RenderOccupancy(ctx context.Context, canvasID string, preview *grid.Preview, out io.Writer) error {
	if c.service == nil {
		return errMissingLayoutSource
	}
	layout, err := c.service.Layout(ctx, canvasID)
	if err != nil {
		return err
	}
	return c.chart.Render(layout, preview, out)
}

// RenderPage renders the canvas page template with the layout payload and
// the occupancy chart.
func (c *Controller) RenderPage(ctx context.Context, canvasID string, viewer ViewerContext, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	payload, err := c.LayoutPayload(ctx, canvasID, viewer)
	if err != nil {
		return err
	}
	var chart bytes.Buffer
	if err := c.RenderOccupancy(ctx, canvasID, nil, &chart); err != nil {
		return err
	}
	_, err = c.renderer.Render(c.template, map[string]any{
		"layout": payload,
		"chart":  chart.String(),
	}, out)
	return err
}
