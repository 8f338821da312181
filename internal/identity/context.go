package identity

import (
	"context"
	"strings"
)

// UserContextKey is the request context key for the verified user ID.
type UserContextKey struct{}

// WithUserID stores the opaque verified user ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserContextKey{}, strings.TrimSpace(userID))
}

// UserIDFromContext returns the verified user ID from context, if present.
// Absence means the request carried no identity, which callers treat
// differently from malformed input.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(UserContextKey{}).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
