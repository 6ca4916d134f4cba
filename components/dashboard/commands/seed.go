package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

// SeedCanvasInput creates a canvas and optionally seeds the starter widgets.
type SeedCanvasInput struct {
	CanvasID   string                    `json:"canvas_id"`
	Rows       int                       `json:"rows,omitempty"`
	Cols       int                       `json:"cols,omitempty"`
	Seed       bool                      `json:"seed,omitempty"`
	Placements []dashboard.SeedPlacement `json:"placements,omitempty"`
	Actor
}

// SeedCanvasCommand creates canvases and places starter widgets.
type SeedCanvasCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedCanvasCommand wires dependencies.
func NewSeedCanvasCommand(service *dashboard.Service, telemetry Telemetry) *SeedCanvasCommand {
	return &SeedCanvasCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedCanvasInput] = (*SeedCanvasCommand)(nil)

// Execute runs the bootstrap pipeline. Placements given explicitly imply Seed.
func (c *SeedCanvasCommand) Execute(ctx context.Context, msg SeedCanvasInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	ctx = msg.attach(ctx)
	if _, err := c.service.CreateCanvas(ctx, dashboard.CreateCanvasRequest{
		CanvasID: msg.CanvasID,
		Rows:     msg.Rows,
		Cols:     msg.Cols,
	}); err != nil {
		return err
	}
	seeded := msg.Seed || len(msg.Placements) > 0
	if seeded {
		if err := dashboard.SeedCanvas(ctx, c.service, msg.CanvasID, msg.Placements); err != nil {
			return err
		}
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"canvas_id": msg.CanvasID,
		"seeded":    seeded,
	})
	return nil
}

// DeleteCanvasInput identifies the canvas to delete.
type DeleteCanvasInput struct {
	CanvasID string `json:"canvas_id"`
	Actor
}

type deleteService interface {
	DeleteCanvas(ctx context.Context, canvasID string) error
}

// DeleteCanvasCommand wraps Service.DeleteCanvas.
type DeleteCanvasCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteCanvasCommand creates the command.
func NewDeleteCanvasCommand(service deleteService, telemetry Telemetry) *DeleteCanvasCommand {
	return &DeleteCanvasCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteCanvasInput] = (*DeleteCanvasCommand)(nil)

// Execute deletes the canvas.
func (c *DeleteCanvasCommand) Execute(ctx context.Context, msg DeleteCanvasInput) error {
	if c.service == nil {
		return errors.New("delete canvas command requires service")
	}
	ctx = msg.attach(ctx)
	if err := c.service.DeleteCanvas(ctx, msg.CanvasID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.canvas.retire", map[string]any{"canvas_id": msg.CanvasID})
	return nil
}
