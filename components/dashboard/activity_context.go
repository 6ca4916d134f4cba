package dashboard

import "context"

// ActivityContext identifies who caused a layout change. Commands attach it
// to the request context and the service copies it onto telemetry payloads.
type ActivityContext struct {
	ActorID  string `json:"actor_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// Empty reports whether no identifier is set.
func (a ActivityContext) Empty() bool {
	return a == ActivityContext{}
}

func (a ActivityContext) stamp(payload map[string]any) {
	if a.Empty() {
		return
	}
	payload["actor_id"] = a.ActorID
	payload["user_id"] = a.UserID
	payload["tenant_id"] = a.TenantID
}

type activityContextKey struct{}

// ContextWithActivity stores the activity context on ctx.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

// ActivityFromContext returns the activity context stored on ctx, if any.
func ActivityFromContext(ctx context.Context) (ActivityContext, bool) {
	if ctx == nil {
		return ActivityContext{}, false
	}
	meta, ok := ctx.Value(activityContextKey{}).(ActivityContext)
	return meta, ok
}
