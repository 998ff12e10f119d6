package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/icetlab/assettrack/auth"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Auth serves login, logout, and the current-user probe.
type Auth struct {
	authenticator *auth.Authenticator
	gate          *auth.Gate
	logger        auth.Logger
}

func NewAuth(authenticator *auth.Authenticator, gate *auth.Gate, logger auth.Logger) *Auth {
	return &Auth{authenticator: authenticator, gate: gate, logger: logger}
}

// Register mounts the auth routes. Login is the only unguarded mutation in
// the API; logout stays open so a stale client can always log out.
func (h *Auth) Register(r fiber.Router) {
	r.Post("/auth/login", h.Login)
	r.Delete("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

// Login verifies credentials and hands out a fresh token.
func (h *Auth) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	result, err := h.authenticator.Login(c.UserContext(), payload.Username, payload.Password, requestMeta(c))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return respondFail(c, fiber.StatusUnauthorized, "Invalid username or password")
		}
		return respondError(c, h.logger, err)
	}

	return respondOK(c, "Login successful", result)
}

// Logout always succeeds; tokens stay valid until they expire, so this only
// audits the event for callers that still hold a good token.
func (h *Auth) Logout(c *fiber.Ctx) error {
	p, _ := h.gate.CurrentPrincipal(c)
	h.authenticator.Logout(c.UserContext(), p, requestMeta(c))
	return respondOK(c, "Logout successful", nil)
}

// Me echoes the identity baked into the presented token.
func (h *Auth) Me(c *fiber.Ctx) error {
	p, ok := h.gate.CurrentPrincipal(c)
	if !ok {
		return respondFail(c, fiber.StatusUnauthorized, "Not authenticated")
	}
	return respondOK(c, "User authenticated", p)
}
