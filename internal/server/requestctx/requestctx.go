// Package requestctx carries per-request values on a context.Context. It
// replaces thread-local storage: the authenticated username is established
// at the start of request handling and travels with the request context, so
// nothing leaks across requests sharing a worker.
package requestctx

import "context"

type ctxKey string

const usernameKey ctxKey = "username"

// WithUsername returns a context carrying the authenticated caller's
// username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// Username returns the authenticated caller's username for the current unit
// of work. ok is false when no identity has been established.
func Username(ctx context.Context) (username string, ok bool) {
	username, ok = ctx.Value(usernameKey).(string)
	if username == "" {
		return "", false
	}
	return username, ok
}
