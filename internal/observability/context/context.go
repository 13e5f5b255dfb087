package context

import "context"

type requestIDKey struct{}

type actorKey struct{}

type actor struct {
	kind string
	id   string
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithActor records who is acting on the request: "staff" with a staff id, or "system".
func WithActor(ctx context.Context, kind, id string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor{kind: kind, id: id})
}

func ActorFromContext(ctx context.Context) (string, string) {
	if ctx == nil {
		return "", ""
	}
	if v, ok := ctx.Value(actorKey{}).(actor); ok {
		return v.kind, v.id
	}
	return "", ""
}
