package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// BeginDragInput starts an interactive drag.
type BeginDragInput struct {
	CanvasID       string                  `json:"canvas_id"`
	Viewer         dashboard.ViewerContext `json:"viewer"`
	DefinitionCode string                  `json:"definition_code,omitempty"`
	WidgetID       string                  `json:"widget_id,omitempty"`
	Metadata       map[string]any          `json:"metadata,omitempty"`
	Actor
}

// DropWidgetInput commits the viewer's drag at a cell.
type DropWidgetInput struct {
	CanvasID string                  `json:"canvas_id"`
	Viewer   dashboard.ViewerContext `json:"viewer"`
	Cell     int                     `json:"cell"`
	Actor
}

// CancelDragInput abandons the viewer's drag (dragend or dragleave).
type CancelDragInput struct {
	CanvasID string                  `json:"canvas_id"`
	Viewer   dashboard.ViewerContext `json:"viewer"`
}

type dragService interface {
	BeginDrag(ctx context.Context, req dashboard.BeginDragRequest) (dashboard.DragHandle, error)
	Drop(ctx context.Context, req dashboard.DropRequest) (grid.Layout, error)
	CancelDrag(ctx context.Context, canvasID string, viewer dashboard.ViewerContext) error
}

// BeginDragCommand wraps Service.BeginDrag.
type BeginDragCommand struct {
	service   dragService
	telemetry Telemetry
}

// NewBeginDragCommand creates the command.
func NewBeginDragCommand(service dragService, telemetry Telemetry) *BeginDragCommand {
	return &BeginDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[BeginDragInput] = (*BeginDragCommand)(nil)

// Execute starts the drag.
func (c *BeginDragCommand) Execute(ctx context.Context, msg BeginDragInput) error {
	if c.service == nil {
		return errors.New("begin drag command requires service")
	}
	ctx = msg.attach(ctx)
	handle, err := c.service.BeginDrag(ctx, dashboard.BeginDragRequest{
		CanvasID:       msg.CanvasID,
		Viewer:         msg.Viewer,
		DefinitionCode: msg.DefinitionCode,
		WidgetID:       msg.WidgetID,
		Metadata:       msg.Metadata,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.drag", map[string]any{
		"canvas_id": msg.CanvasID,
		"widget_id": handle.WidgetID,
	})
	return nil
}

// DropWidgetCommand wraps Service.Drop.
type DropWidgetCommand struct {
	service   dragService
	telemetry Telemetry
}

// NewDropWidgetCommand creates the command.
func NewDropWidgetCommand(service dragService, telemetry Telemetry) *DropWidgetCommand {
	return &DropWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DropWidgetInput] = (*DropWidgetCommand)(nil)

// Execute commits the drop.
func (c *DropWidgetCommand) Execute(ctx context.Context, msg DropWidgetInput) error {
	if c.service == nil {
		return errors.New("drop command requires service")
	}
	ctx = msg.attach(ctx)
	layout, err := c.service.Drop(ctx, dashboard.DropRequest{
		CanvasID: msg.CanvasID,
		Viewer:   msg.Viewer,
		Cell:     msg.Cell,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.drop", map[string]any{
		"canvas_id": msg.CanvasID,
		"cell":      msg.Cell,
		"version":   layout.Version,
	})
	return nil
}

// CancelDragCommand wraps Service.CancelDrag.
type CancelDragCommand struct {
	service   dragService
	telemetry Telemetry
}

// NewCancelDragCommand creates the command.
func NewCancelDragCommand(service dragService, telemetry Telemetry) *CancelDragCommand {
	return &CancelDragCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CancelDragInput] = (*CancelDragCommand)(nil)

// Execute discards the drag.
func (c *CancelDragCommand) Execute(ctx context.Context, msg CancelDragInput) error {
	if c.service == nil {
		return errors.New("cancel drag command requires service")
	}
	return c.service.CancelDrag(ctx, msg.CanvasID, msg.Viewer)
}
