// Package identity carries the authenticated caller through request contexts.
package identity

import "context"

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	Admin       bool
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
