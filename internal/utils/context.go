package utils

import (
	"context"
)

type contextKey string

const ContextClientKey contextKey = "client"

// WithClient stores the client fingerprint on ctx.
func WithClient(ctx context.Context, fingerprint string) context.Context {
	return context.WithValue(ctx, ContextClientKey, fingerprint)
}

func GetClientFromContext(ctx context.Context) (string, bool) {
	client := ctx.Value(ContextClientKey)
	clientStr, ok := client.(string)
	return clientStr, ok
}
