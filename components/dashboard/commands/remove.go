package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// RemoveWidgetInput identifies the widget to take off a canvas.
type RemoveWidgetInput struct {
	CanvasID string `json:"canvas_id"`
	WidgetID string `json:"widget_id"`
	Actor
}

type removeService interface {
	RemoveWidget(ctx context.Context, canvasID, widgetID string) (grid.Layout, error)
}

// RemoveWidgetCommand removes widgets through the service and records
// telemetry for auditing purposes.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds a command instance.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	ctx = msg.attach(ctx)
	layout, err := c.service.RemoveWidget(ctx, msg.CanvasID, msg.WidgetID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.remove", map[string]any{
		"canvas_id": msg.CanvasID,
		"widget_id": msg.WidgetID,
		"version":   layout.Version,
		"remaining": layout.Len(),
	})
	return nil
}
