package httpapi

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-grid/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// Executor is the transport-neutral surface adapters call into. Router
// integrations depend on it instead of the concrete commands.
type Executor interface {
	Place(ctx context.Context, input commands.PlaceWidgetInput) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	BeginDrag(ctx context.Context, input commands.BeginDragInput) error
	Drop(ctx context.Context, input commands.DropWidgetInput) error
	CancelDrag(ctx context.Context, input commands.CancelDragInput) error
	Refresh(ctx context.Context, input commands.RefreshLayoutInput) error
	Layout(ctx context.Context, input queries.LayoutInput) (dashboard.LayoutPayload, error)
	ActiveDrag(ctx context.Context, input queries.DragInput) (dashboard.DragHandle, error)
	Preview(ctx context.Context, req dashboard.PreviewRequest) (grid.Preview, error)
	Hover(ctx context.Context, req dashboard.HoverRequest) (grid.Preview, error)
}

// CommandExecutor runs every Executor call through the shared commands and
// queries, which is where telemetry is recorded.
type CommandExecutor struct {
	handlers *Handlers
}

// NewCommandExecutor builds the commands and queries for a service.
func NewCommandExecutor(service *dashboard.Service, controller *dashboard.Controller, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{handlers: NewHandlers(service, controller, telemetry)}
}

// NewHandlers wires net/http handlers over the service. The controller
// provides the layout payload returned after mutations.
func NewHandlers(service *dashboard.Service, controller *dashboard.Controller, telemetry commands.Telemetry) *Handlers {
	if controller == nil {
		controller = dashboard.NewController(dashboard.ControllerOptions{Service: service})
	}
	return &Handlers{
		Place:     commands.NewPlaceWidgetCommand(service, telemetry),
		Remove:    commands.NewRemoveWidgetCommand(service, telemetry),
		BeginDrag: commands.NewBeginDragCommand(service, telemetry),
		Drop:      commands.NewDropWidgetCommand(service, telemetry),
		Cancel:    commands.NewCancelDragCommand(service, telemetry),
		Refresh:   commands.NewRefreshLayoutCommand(service, telemetry),
		Layout:    queries.NewLayoutQuery(controller),
		Drag:      queries.NewDragQuery(service),
		Preview:   queries.NewPreviewQuery(service),
		Hover:     queries.NewHoverQuery(service),
	}
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Place(ctx context.Context, input commands.PlaceWidgetInput) error {
	return e.handlers.Place.Execute(ctx, input)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return e.handlers.Remove.Execute(ctx, input)
}

func (e *CommandExecutor) BeginDrag(ctx context.Context, input commands.BeginDragInput) error {
	return e.handlers.BeginDrag.Execute(ctx, input)
}

func (e *CommandExecutor) Drop(ctx context.Context, input commands.DropWidgetInput) error {
	return e.handlers.Drop.Execute(ctx, input)
}

func (e *CommandExecutor) CancelDrag(ctx context.Context, input commands.CancelDragInput) error {
	return e.handlers.Cancel.Execute(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshLayoutInput) error {
	return e.handlers.Refresh.Execute(ctx, input)
}

func (e *CommandExecutor) Layout(ctx context.Context, input queries.LayoutInput) (dashboard.LayoutPayload, error) {
	return e.handlers.Layout.Query(ctx, input)
}

func (e *CommandExecutor) ActiveDrag(ctx context.Context, input queries.DragInput) (dashboard.DragHandle, error) {
	return e.handlers.Drag.Query(ctx, input)
}

func (e *CommandExecutor) Preview(ctx context.Context, req dashboard.PreviewRequest) (grid.Preview, error) {
	return e.handlers.Preview.Query(ctx, req)
}

func (e *CommandExecutor) Hover(ctx context.Context, req dashboard.HoverRequest) (grid.Preview, error) {
	return e.handlers.Hover.Query(ctx, req)
}
