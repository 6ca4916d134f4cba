// Package usersink forwards committed layout changes to a go-users activity
// sink so canvas edits show up in the user activity feed.
package usersink

import (
	"context"
	"log/slog"
	"time"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Channel tags every record written by the hook.
const Channel = "dashboard"

// ObjectType is the activity object type of a canvas.
const ObjectType = "dashboard.canvas"

// Sink persists activity records.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook adapts layout events to go-users activity records. Actor identifiers
// come from the activity context attached by the dashboard commands.
type Hook struct {
	Sink Sink
	Now  func() time.Time
}

var _ dashboard.RefreshHook = Hook{}

// LayoutChanged satisfies dashboard.RefreshHook. Events without a reason are
// skipped.
func (h Hook) LayoutChanged(ctx context.Context, event dashboard.LayoutEvent) error {
	if h.Sink == nil || event.Reason == "" {
		return nil
	}
	return h.Sink.Log(ctx, h.record(ctx, event))
}

func (h Hook) record(ctx context.Context, event dashboard.LayoutEvent) types.ActivityRecord {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	data := map[string]any{
		"version": event.Version,
		"moves":   len(event.Moves),
	}
	if event.WidgetID != "" {
		data["widget_id"] = event.WidgetID
	}
	record := types.ActivityRecord{
		Verb:       event.Reason,
		ObjectType: ObjectType,
		ObjectID:   event.CanvasID,
		Channel:    Channel,
		OccurredAt: now().UTC(),
		Data:       data,
	}
	meta, ok := dashboard.ActivityFromContext(ctx)
	if !ok {
		return record
	}
	record.ActorID = parseID(meta.ActorID, "actor_id", data)
	record.UserID = parseID(meta.UserID, "user_id", data)
	record.TenantID = parseID(meta.TenantID, "tenant_id", data)
	return record
}

// parseID returns the UUID form of value. Identifiers that are not UUIDs are
// kept verbatim in data under key.
func parseID(value, key string, data map[string]any) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		data[key] = value
		return uuid.Nil
	}
	return id
}

// LogSink writes activity records to a structured logger. It stands in for a
// go-users activity repository when none is configured.
type LogSink struct {
	Logger *slog.Logger
}

// Log satisfies Sink.
func (s LogSink) Log(ctx context.Context, record types.ActivityRecord) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "activity",
		slog.String("verb", record.Verb),
		slog.String("object_type", record.ObjectType),
		slog.String("object_id", record.ObjectID),
		slog.String("channel", record.Channel),
		slog.String("actor_id", record.ActorID.String()),
		slog.Any("data", record.Data),
	)
	return nil
}
