package core

import "context"

type contextKey string

const ctxKeyOwner contextKey = "session_owner"

// ContextWithOwner tags ctx with the session owner key used for import state.
func ContextWithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ctxKeyOwner, owner)
}

// OwnerFromContext returns the session owner, or "".
func OwnerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyOwner).(string); ok {
		return v
	}
	return ""
}
