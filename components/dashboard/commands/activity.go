package commands

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-grid/components/dashboard"
)

// Actor identifies who issued a command. It is attached to the context so the
// service can stamp telemetry with it.
type Actor struct {
	ActorID  string `json:"actor_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

func (a Actor) attach(ctx context.Context) context.Context {
	if a == (Actor{}) {
		return ctx
	}
	return dashboard.ContextWithActivity(ctx, dashboard.ActivityContext{
		ActorID:  a.ActorID,
		UserID:   a.UserID,
		TenantID: a.TenantID,
	})
}
