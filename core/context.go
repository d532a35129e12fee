package core

import "context"

// contextKey is a private type for context values set by this package.
type contextKey string

const suppressHeaderKey contextKey = "suppressHeader"

// WithSuppressedHeader marks the context so analysis runs skip the stdout
// header, used when output must stay machine-readable (MCP, csv/json piping).
func WithSuppressedHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

func shouldSuppressHeader(ctx context.Context) bool {
	v, ok := ctx.Value(suppressHeaderKey).(bool)
	return ok && v
}
