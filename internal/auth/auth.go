package auth

import (
	"context"

	"postboard/internal/apperr"
)

// Gate yields the principal behind a request. Token issuance and
// verification live outside this module; the server-side implementation
// only reads what the verification middleware put into the context.
type Gate interface {
	CurrentPrincipal(ctx context.Context) (string, error)
}

type principalKey struct{}

// WithPrincipal stores a verified principal id in the context.
func WithPrincipal(ctx context.Context, principal string) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom reports the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(principalKey{}).(string)
	return principal, ok && principal != ""
}

// ContextGate is the server-side Gate: the principal is whatever the
// verification middleware stashed in the request context.
type ContextGate struct{}

func (ContextGate) CurrentPrincipal(ctx context.Context) (string, error) {
	principal, ok := PrincipalFrom(ctx)
	if !ok {
		return "", apperr.New(apperr.Unauthenticated, "authentication required")
	}
	return principal, nil
}
