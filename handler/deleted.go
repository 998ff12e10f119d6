package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// RestoreRequest identifies a soft-deleted item by kind and id.
type RestoreRequest struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Validate will run validation rules
func (r RestoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required, validation.In("device", "room", "gate_pass")),
		validation.Field(&r.ID, validation.Required),
	)
}

// Deleted is the admin recycle bin: everything soft-deleted can be listed,
// restored, or purged for good from here.
type Deleted struct {
	devices *store.Devices
	rooms   *store.Rooms
	passes  *store.GatePasses
	audit   *store.AuditLogs
	logger  auth.Logger
}

func NewDeleted(devices *store.Devices, rooms *store.Rooms, passes *store.GatePasses, audit *store.AuditLogs, logger auth.Logger) *Deleted {
	return &Deleted{devices: devices, rooms: rooms, passes: passes, audit: audit, logger: logger}
}

func (h *Deleted) Register(r fiber.Router, gate *auth.Gate) {
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/deleted-items", admin, h.List)
	r.Post("/deleted-items/restore", admin, h.Restore)
	r.Delete("/deleted-items/:type/:id", admin, h.Purge)
}

// List returns every soft-deleted item grouped by kind.
func (h *Deleted) List(c *fiber.Ctx) error {
	devices, err := h.devices.ListDeleted(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	rooms, err := h.rooms.ListDeleted(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	passes, err := h.passes.ListDeleted(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respondOK(c, "Deleted items retrieved", fiber.Map{
		"devices":     devices,
		"rooms":       rooms,
		"gate_passes": passes,
	})
}

// Restore brings a soft-deleted item back.
func (h *Deleted) Restore(c *fiber.Ctx) error {
	payload := new(RestoreRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	var (
		err   error
		table string
	)
	switch payload.Type {
	case "device":
		table = "devices"
		err = h.devices.Restore(c.UserContext(), payload.ID)
	case "room":
		table = "rooms"
		err = h.rooms.Restore(c.UserContext(), payload.ID)
	case "gate_pass":
		table = "gate_passes"
		err = h.passes.Restore(c.UserContext(), payload.ID)
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionRestore, table, payload.ID)
	return respondOK(c, "Item restored successfully", nil)
}

// Purge permanently removes a soft-deleted item. There is no undo.
func (h *Deleted) Purge(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var table string
	switch c.Params("type") {
	case "device":
		table = "devices"
		err = h.devices.PurgeDeleted(c.UserContext(), id)
	case "room":
		table = "rooms"
		err = h.rooms.PurgeDeleted(c.UserContext(), id)
	default:
		return respondFail(c, fiber.StatusBadRequest, "Unknown item type")
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, table, id)
	return respondOK(c, "Item permanently deleted", nil)
}
