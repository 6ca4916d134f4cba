package commands

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

// Telemetry records command outcomes. It is the same contract the service
// uses, so one sink (e.g. dashboard.SlogTelemetry) can serve both.
type Telemetry = dashboard.Telemetry

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
