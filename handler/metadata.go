package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// DeviceTypeRequest creates a device type lookup row.
type DeviceTypeRequest struct {
	Name        string `json:"type_name"`
	Description string `json:"description"`
}

// Validate will run validation rules
func (r DeviceTypeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// DeviceBrandRequest creates a device brand lookup row.
type DeviceBrandRequest struct {
	Name string `json:"brand_name"`
}

// Validate will run validation rules
func (r DeviceBrandRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// Metadata serves the lookup tables the device forms are built from.
type Metadata struct {
	metadata *store.Metadata
	audit    *store.AuditLogs
	logger   auth.Logger
}

func NewMetadata(metadata *store.Metadata, audit *store.AuditLogs, logger auth.Logger) *Metadata {
	return &Metadata{metadata: metadata, audit: audit, logger: logger}
}

func (h *Metadata) Register(r fiber.Router, gate *auth.Gate) {
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/metadata", gate.RequireAuthenticated(), h.Get)
	r.Post("/metadata/types", admin, h.CreateType)
	r.Post("/metadata/brands", admin, h.CreateBrand)
}

// Get returns types, brands, and the installation type enum in one payload so
// the clients can populate every dropdown with a single request.
func (h *Metadata) Get(c *fiber.Ctx) error {
	types, err := h.metadata.ListTypes(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	brands, err := h.metadata.ListBrands(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return respondOK(c, "Metadata retrieved", fiber.Map{
		"device_types":       types,
		"brands":             brands,
		"installation_types": store.InstallationTypes(),
	})
}

func (h *Metadata) CreateType(c *fiber.Ctx) error {
	payload := new(DeviceTypeRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	created, err := h.metadata.CreateType(c.UserContext(), &store.DeviceType{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "device_types", created.ID)
	return respondCreated(c, "Device type created successfully", created)
}

func (h *Metadata) CreateBrand(c *fiber.Ctx) error {
	payload := new(DeviceBrandRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	created, err := h.metadata.CreateBrand(c.UserContext(), &store.DeviceBrand{Name: payload.Name})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "device_brands", created.ID)
	return respondCreated(c, "Brand created successfully", created)
}
