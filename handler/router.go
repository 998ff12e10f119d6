package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// Deps carries the collaborators the API surface is built from.
type Deps struct {
	Authenticator *auth.Authenticator
	Gate          *auth.Gate
	Logger        auth.Logger

	Devices       *store.Devices
	Installations *store.Installations
	Metadata      *store.Metadata
	Rooms         *store.Rooms
	GatePasses    *store.GatePasses
	Support       *store.Support
	Blog          *store.Blog
	AuditLogs     *store.AuditLogs
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Register mounts the whole API under /api.
func Register(app *fiber.App, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}

	api := app.Group("/api")

	NewAuth(deps.Authenticator, deps.Gate, deps.Logger).Register(api)
	NewDevices(deps.Devices, deps.Installations, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)
	NewMetadata(deps.Metadata, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)
	NewRooms(deps.Rooms, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)
	NewInstallations(deps.Installations, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)
	NewGatePasses(deps.GatePasses, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)
	NewSupport(deps.Support, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)
	NewBlog(deps.Blog, deps.Gate, deps.AuditLogs, deps.Logger).Register(api)
	NewDeleted(deps.Devices, deps.Rooms, deps.GatePasses, deps.AuditLogs, deps.Logger).Register(api, deps.Gate)

	// audit trail read, admin only
	api.Get("/audit-log", deps.Gate.RequireRole(auth.RoleAdmin), func(c *fiber.Ctx) error {
		entries, err := deps.AuditLogs.Recent(c.UserContext(), c.QueryInt("limit"))
		if err != nil {
			return respondError(c, deps.Logger, err)
		}
		return respondOK(c, "Audit log retrieved", entries)
	})
}
