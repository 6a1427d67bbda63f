package service

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID stores id on ctx for the classification started from it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the id stored on ctx, or a new random one.
func RequestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
