package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsPrincipalKey is where the guards stash the resolved principal in the
// fiber request locals.
const LocalsPrincipalKey = "principal"

// Gate bridges raw requests to authorization decisions. It performs no
// mutation and holds no per-request state; a single Gate serves every route.
type Gate struct {
	codec  *TokenCodec
	logger Logger
}

// NewGate returns a Gate validating tokens with the given codec.
func NewGate(codec *TokenCodec) *Gate {
	return &Gate{codec: codec, logger: defLogger{}}
}

func (g *Gate) WithLogger(logger Logger) *Gate {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// BearerToken extracts the token from an `Authorization: Bearer <token>`
// header. The scheme match is case insensitive and must be followed by
// whitespace; Go's header access already folds the casing quirks proxies
// introduce on the header name itself.
func (g *Gate) BearerToken(c *fiber.Ctx) (string, bool) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", false
	}

	const scheme = "Bearer"
	if len(header) <= len(scheme)+1 || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	if sep := header[len(scheme)]; sep != ' ' && sep != '\t' {
		return "", false
	}

	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", false
	}
	return token, true
}

// CurrentPrincipal resolves the caller's identity from the bearer token.
// Every failure mode collapses to "absent": callers must not be able to tell
// a missing header from a bad signature or an expired token. The specific
// reason is only logged.
func (g *Gate) CurrentPrincipal(c *fiber.Ctx) (*Principal, bool) {
	raw, ok := g.BearerToken(c)
	if !ok {
		return nil, false
	}

	claims, err := g.codec.Decode(raw)
	if err != nil {
		g.logger.Debug("bearer token rejected for %s: %v", c.Path(), err)
		return nil, false
	}

	return principalFromClaims(claims), true
}

// RequireAuthenticated terminates the request with a 401 before any handler
// runs unless a valid bearer token resolves a principal. On success the
// principal is available via PrincipalFromFiber and the request context.
func (g *Gate) RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := g.resolve(c); !ok {
			return rejectJSON(c, fiber.StatusUnauthorized, "Authentication required")
		}
		return c.Next()
	}
}

// RequireRole gates a route on a minimum role. An unauthenticated caller
// always gets the 401 first; the 403 is reserved for callers that proved
// identity but lack the role.
func (g *Gate) RequireRole(role UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := g.resolve(c)
		if !ok {
			return rejectJSON(c, fiber.StatusUnauthorized, "Authentication required")
		}
		if !p.Role.IsAtLeast(role) {
			return rejectJSON(c, fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

// resolve returns the principal for the request, reusing one a previous guard
// already attached.
func (g *Gate) resolve(c *fiber.Ctx) (*Principal, bool) {
	if p, ok := c.Locals(LocalsPrincipalKey).(*Principal); ok && p != nil {
		return p, true
	}

	p, ok := g.CurrentPrincipal(c)
	if !ok {
		return nil, false
	}

	c.Locals(LocalsPrincipalKey, p)
	c.SetUserContext(WithPrincipal(c.UserContext(), p))
	return p, true
}

// PrincipalFromFiber returns the principal a guard attached to the request.
func PrincipalFromFiber(c *fiber.Ctx) (*Principal, bool) {
	p, ok := c.Locals(LocalsPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func rejectJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"errors":  []any{},
	})
}
