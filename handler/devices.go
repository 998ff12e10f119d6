package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// DeviceRequest is the create and update payload for a device.
type DeviceRequest struct {
	UniqueID       string `json:"device_unique_id"`
	TypeID         int64  `json:"type_id"`
	BrandID        int64  `json:"brand_id"`
	Model          string `json:"model"`
	SerialNumber   string `json:"serial_number"`
	PurchaseDate   string `json:"purchase_date"`
	WarrantyPeriod string `json:"warranty_period"`
	Notes          string `json:"notes"`
}

// Validate will run validation rules
func (r DeviceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UniqueID, validation.Required),
		validation.Field(&r.TypeID, validation.Required),
		validation.Field(&r.BrandID, validation.Required),
		validation.Field(&r.PurchaseDate, validation.Date("2006-01-02")),
	)
}

func (r DeviceRequest) apply(device *store.Device) {
	device.UniqueID = r.UniqueID
	device.TypeID = r.TypeID
	device.BrandID = r.BrandID
	device.Model = r.Model
	device.SerialNumber = r.SerialNumber
	device.PurchaseDate = r.PurchaseDate
	device.WarrantyPeriod = r.WarrantyPeriod
	device.Notes = r.Notes
}

// Devices serves the asset inventory.
type Devices struct {
	devices       *store.Devices
	installations *store.Installations
	audit         *store.AuditLogs
	logger        auth.Logger
}

func NewDevices(devices *store.Devices, installations *store.Installations, audit *store.AuditLogs, logger auth.Logger) *Devices {
	return &Devices{devices: devices, installations: installations, audit: audit, logger: logger}
}

// Register mounts the device routes. Reads need a login; writes need admin.
func (h *Devices) Register(r fiber.Router, gate *auth.Gate) {
	authed := gate.RequireAuthenticated()
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/devices", authed, h.List)
	r.Get("/devices/:id", authed, h.Get)
	r.Get("/devices/:id/history", authed, h.History)
	r.Post("/devices", admin, h.Create)
	r.Put("/devices/:id", admin, h.Update)
	r.Delete("/devices/:id", admin, h.Delete)
}

// List returns the inventory, narrowed by the query string.
func (h *Devices) List(c *fiber.Ctx) error {
	filter := store.DeviceFilter{
		UniqueID: c.Query("search"),
		TypeID:   int64(c.QueryInt("type_id")),
		BrandID:  int64(c.QueryInt("brand_id")),
		RoomID:   int64(c.QueryInt("room_id")),
	}

	devices, err := h.devices.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Devices retrieved", devices)
}

func (h *Devices) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	device, err := h.devices.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Device retrieved", device)
}

// History returns every stay of the device, newest first.
func (h *Devices) History(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if _, err := h.devices.GetByID(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	history, err := h.installations.HistoryForDevice(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Device history retrieved", history)
}

func (h *Devices) Create(c *fiber.Ctx) error {
	payload := new(DeviceRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	device := &store.Device{Active: true}
	payload.apply(device)

	created, err := h.devices.Create(c.UserContext(), device)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "devices", created.ID)
	return respondCreated(c, "Device created successfully", created)
}

func (h *Devices) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(DeviceRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	device, err := h.devices.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	before := *device
	payload.apply(device)

	if err := h.devices.Update(c.UserContext(), device); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAuditChange(c, h.logger, h.audit, auth.AuditActionUpdate, "devices", id, before, device)
	return respondOK(c, "Device updated successfully", device)
}

// Delete soft-deletes; an actively installed device must be withdrawn first.
func (h *Devices) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if err := h.devices.SoftDelete(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "devices", id)
	return respondOK(c, "Device deleted successfully", nil)
}
