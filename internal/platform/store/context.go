package store

import "context"

type reqIDKey struct{}

// WithRequestID tags ctx so traced statements carry id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, false when absent or empty
func RequestID(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(reqIDKey{}).(string)
	return id, id != ""
}
