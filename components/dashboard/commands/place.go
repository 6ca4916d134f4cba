package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-dashboard-grid/components/grid"
)

// PlaceWidgetInput places a catalog widget, or moves an existing one, in one step.
type PlaceWidgetInput struct {
	CanvasID       string         `json:"canvas_id"`
	DefinitionCode string         `json:"definition_code,omitempty"`
	WidgetID       string         `json:"widget_id,omitempty"`
	Cell           int            `json:"cell"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Actor
}

type placeService interface {
	PlaceWidget(ctx context.Context, req dashboard.PlaceWidgetRequest) (grid.Layout, error)
}

// PlaceWidgetCommand wraps Service.PlaceWidget so transports can place widgets
// without linking directly against the service.
type PlaceWidgetCommand struct {
	service   placeService
	telemetry Telemetry
}

// NewPlaceWidgetCommand creates a command instance.
func NewPlaceWidgetCommand(service placeService, telemetry Telemetry) *PlaceWidgetCommand {
	return &PlaceWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PlaceWidgetInput] = (*PlaceWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *PlaceWidgetCommand) Execute(ctx context.Context, msg PlaceWidgetInput) error {
	if c.service == nil {
		return errors.New("place command requires service")
	}
	ctx = msg.attach(ctx)
	layout, err := c.service.PlaceWidget(ctx, dashboard.PlaceWidgetRequest{
		CanvasID:       msg.CanvasID,
		DefinitionCode: msg.DefinitionCode,
		WidgetID:       msg.WidgetID,
		Cell:           msg.Cell,
		Metadata:       msg.Metadata,
		UserID:         msg.UserID,
	})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.place", map[string]any{
		"canvas_id":       msg.CanvasID,
		"definition_code": msg.DefinitionCode,
		"cell":            msg.Cell,
		"version":         layout.Version,
	})
	return nil
}
