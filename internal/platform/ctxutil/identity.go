package ctxutil

import (
	"context"
	"strings"
)

type identityKey struct{}

// Identity is the authenticated caller attached by the auth middleware.
type Identity struct {
	Subject string
	Email   string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return id
	}
	return nil
}

// Email returns the caller's normalized email or "" when unauthenticated.
func Email(ctx context.Context) string {
	id := GetIdentity(ctx)
	if id == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(id.Email))
}
