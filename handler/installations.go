package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// InstallRequest places a device into a room.
type InstallRequest struct {
	DeviceID          int64  `json:"device_id"`
	RoomID            int64  `json:"room_id"`
	InstalledDate     string `json:"installed_date"`
	InstallationType  string `json:"installation_type"`
	InstallationNotes string `json:"installation_notes"`
	TeamMembers       string `json:"team_members"`
	InstallerName     string `json:"installer_name"`
	GatePassNumber    string `json:"gate_pass_number"`
	GatePassDate      string `json:"gate_pass_date"`
}

// Validate will run validation rules
func (r InstallRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeviceID, validation.Required),
		validation.Field(&r.RoomID, validation.Required),
		validation.Field(&r.InstalledDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.InstallationType,
			validation.In(store.InstallTypeNew, store.InstallTypeRepaired, store.InstallTypeReinstall)),
		validation.Field(&r.GatePassDate, validation.Date("2006-01-02")),
	)
}

// WithdrawRequest closes an active installation.
type WithdrawRequest struct {
	WithdrawnDate     string `json:"withdrawn_date"`
	WithdrawerName    string `json:"withdrawer_name"`
	WithdrawalNotes   string `json:"withdrawal_notes"`
	IssueAtWithdrawal string `json:"issue_at_withdrawal"`
	StorageLocation   string `json:"storage_location"`
}

// Validate will run validation rules
func (r WithdrawRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.WithdrawnDate, validation.Required, validation.Date("2006-01-02")),
	)
}

// Installations serves device placement and withdrawal.
type Installations struct {
	installations *store.Installations
	audit         *store.AuditLogs
	logger        auth.Logger
}

func NewInstallations(installations *store.Installations, audit *store.AuditLogs, logger auth.Logger) *Installations {
	return &Installations{installations: installations, audit: audit, logger: logger}
}

func (h *Installations) Register(r fiber.Router, gate *auth.Gate) {
	authed := gate.RequireAuthenticated()
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/installations", authed, h.List)
	r.Post("/installations", admin, h.Install)
	r.Put("/installations/:id/withdraw", admin, h.Withdraw)
	r.Delete("/installations/:id", admin, h.Delete)
}

func (h *Installations) List(c *fiber.Ctx) error {
	filter := store.InstallationFilter{
		DeviceID: int64(c.QueryInt("device_id")),
		RoomID:   int64(c.QueryInt("room_id")),
		Status:   c.Query("status"),
		Type:     c.Query("installation_type"),
	}

	installations, err := h.installations.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Installations retrieved", installations)
}

// Install places a device; a device with an active installation is rejected
// until it is withdrawn.
func (h *Installations) Install(c *fiber.Ctx) error {
	payload := new(InstallRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	created, err := h.installations.Install(c.UserContext(), &store.Installation{
		DeviceID:          payload.DeviceID,
		RoomID:            payload.RoomID,
		InstalledDate:     payload.InstalledDate,
		InstallationType:  payload.InstallationType,
		InstallationNotes: payload.InstallationNotes,
		TeamMembers:       payload.TeamMembers,
		InstallerName:     payload.InstallerName,
		GatePassNumber:    payload.GatePassNumber,
		GatePassDate:      payload.GatePassDate,
		InstalledBy:       p.UserID,
		DataEntryBy:       p.UserID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "device_installations", created.ID)
	return respondCreated(c, "Device installed successfully", created)
}

func (h *Installations) Withdraw(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(WithdrawRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	err = h.installations.Withdraw(c.UserContext(), store.Withdrawal{
		InstallationID:    id,
		WithdrawnDate:     payload.WithdrawnDate,
		WithdrawerName:    payload.WithdrawerName,
		WithdrawalNotes:   payload.WithdrawalNotes,
		IssueAtWithdrawal: payload.IssueAtWithdrawal,
		StorageLocation:   payload.StorageLocation,
		WithdrawnBy:       p.UserID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionUpdate, "device_installations", id)
	return respondOK(c, "Device withdrawn successfully", nil)
}

func (h *Installations) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if err := h.installations.SoftDelete(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "device_installations", id)
	return respondOK(c, "Installation record deleted successfully", nil)
}
