package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the typed payload carried by every issued token. Embedding
// jwt.RegisteredClaims keeps iat/exp on the registered claim names, so the
// wire format stays compatible with tokens the previous backend issued.
// Fields not listed here do not survive a decode.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64    `json:"user_id"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	UserRole UserRole `json:"role"`
}

// NewClaims builds the claim set for a verified user. Issued-at and expiry
// are stamped by the codec at signing time, never by the caller.
func NewClaims(user *UserRecord) *Claims {
	return &Claims{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		UserRole: user.Role,
	}
}

// Role returns the global role
func (c *Claims) Role() UserRole {
	return c.UserRole
}

// HasRole checks if the user has a specific role
func (c *Claims) HasRole(role UserRole) bool {
	return c.UserRole == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (c *Claims) IsAtLeast(minRole UserRole) bool {
	return c.UserRole.IsAtLeast(minRole)
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Issued returns the issued at time
func (c *Claims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
