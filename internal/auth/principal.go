// Package auth consumes the identity collaborator's output: a (userId, role)
// pair per request, delivered by the gateway in headers. Token verification
// itself happens upstream and is not this service's concern.
package auth

import "context"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// Elevated reports whether the role may see and manage other users' orders.
func (r Role) Elevated() bool {
	return r == RoleSeller || r == RoleAdmin
}

type Principal struct {
	UserID string
	Role   Role
}

type ctxKey string

const ctxPrincipal ctxKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(Principal)
	return p, ok
}
