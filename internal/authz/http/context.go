// Package http provides HTTP handlers and middleware for authorization decisions.
package http

import (
	"context"
)

// identityKey is a context key type for storing the caller identity.
type identityKey struct{}

// WithIdentity stores the caller's username in the context.
// This is typically called by the identity middleware after reading the
// trusted upstream header.
func WithIdentity(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}

// GetIdentity retrieves the caller's username from the context.
// Returns (user, true) if an identity is present, or ("", false) if none was set.
func GetIdentity(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(identityKey{}).(string)
	return user, ok
}
