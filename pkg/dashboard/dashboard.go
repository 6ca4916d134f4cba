package dashboard

import (
	core "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// ViewerContext re-export for convenience.
type ViewerContext = core.ViewerContext

// WidgetDefinition re-export for convenience.
type WidgetDefinition = core.WidgetDefinition

// Layout is the committed state of a canvas.
type Layout = grid.Layout

// Preview is the outcome of hovering a widget over a cell.
type Preview = grid.Preview

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}
