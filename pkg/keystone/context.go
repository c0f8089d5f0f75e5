package keystone

import "context"

const RequestIDHeader = "X-OpenStack-Request-ID"

type requestIDKey struct{}

// WithRequestID returns a context carrying the correlation id of the caller.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
