package auth

import "context"

// Principal is the authenticated identity attached to a request. It is
// reconstructed entirely from token claims; see the package doc for the
// staleness trade-off that implies.
type Principal struct {
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// IsAdmin reports whether the principal carries the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func principalFromClaims(c *Claims) *Principal {
	return &Principal{
		UserID:   c.UserID,
		Username: c.Username,
		FullName: c.FullName,
		Email:    c.Email,
		Role:     c.UserRole,
	}
}

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	return raw, ok
}
