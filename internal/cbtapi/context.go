package cbtapi

import "context"

type contextKey string

const sessionKey contextKey = "cbt_session"

// WithSessionID attaches the test session id to ctx for request logging.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// SessionIDFrom extracts the session id set by WithSessionID.
func SessionIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey).(string); ok {
		return v
	}
	return ""
}
