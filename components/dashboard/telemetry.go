package dashboard

import (
	"context"
	"log/slog"
	"sort"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// SlogTelemetry writes telemetry events as structured log records.
type SlogTelemetry struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewSlogTelemetry logs events at info level through logger, or through
// slog.Default when logger is nil.
func NewSlogTelemetry(logger *slog.Logger) *SlogTelemetry {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetry{Logger: logger, Level: slog.LevelInfo}
}

// Record implements Telemetry.
func (t *SlogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, payload[k]))
	}
	t.Logger.LogAttrs(ctx, t.Level, event, attrs...)
}
