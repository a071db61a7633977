package auth

import "context"

type rawSessionKey struct{}

// WithRawSession attaches the middleware-resolved raw session to ctx.
func WithRawSession(ctx context.Context, raw RawSession) context.Context {
	return context.WithValue(ctx, rawSessionKey{}, raw)
}

// RawSessionFromContext extracts the raw session attached by the middleware.
func RawSessionFromContext(ctx context.Context) (RawSession, bool) {
	raw, ok := ctx.Value(rawSessionKey{}).(RawSession)
	return raw, ok
}
