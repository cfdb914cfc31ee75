package auth

import "context"

type contextKey struct{}

// Identity is the authenticated caller attached to request contexts by the
// bearer middleware.
type Identity struct {
	EmployeeID string
	Role       string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

func EmployeeID(ctx context.Context) string {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return id.EmployeeID
}
