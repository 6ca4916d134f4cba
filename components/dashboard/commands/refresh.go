package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

// RefreshLayoutInput re-emits a layout event, e.g. after an external import.
type RefreshLayoutInput struct {
	Event dashboard.LayoutEvent
}

type refreshNotifier interface {
	NotifyLayoutChanged(ctx context.Context, event dashboard.LayoutEvent) error
}

// RefreshLayoutCommand triggers refresh hooks without forcing transports.
type RefreshLayoutCommand struct {
	service   refreshNotifier
	telemetry Telemetry
}

// NewRefreshLayoutCommand creates the command.
func NewRefreshLayoutCommand(service refreshNotifier, telemetry Telemetry) *RefreshLayoutCommand {
	return &RefreshLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshLayoutInput] = (*RefreshLayoutCommand)(nil)

// Execute notifies the dashboard service's refresh hooks.
func (c *RefreshLayoutCommand) Execute(ctx context.Context, msg RefreshLayoutInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Event.Reason == "" {
		msg.Event.Reason = "refresh"
	}
	if err := c.service.NotifyLayoutChanged(ctx, msg.Event); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.layout.refresh", map[string]any{
		"canvas_id": msg.Event.CanvasID,
	})
	return nil
}
