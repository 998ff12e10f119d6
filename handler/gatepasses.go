package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// GatePassRequest creates a removal document with its device set.
type GatePassRequest struct {
	Number              string  `json:"gate_pass_number"`
	Date                string  `json:"gate_pass_date"`
	ConsigneeName       string  `json:"consignee_name"`
	Destination         string  `json:"destination"`
	CarrierName         string  `json:"carrier_name"`
	CarrierAppointment  string  `json:"carrier_appointment"`
	CarrierDepartment   string  `json:"carrier_department"`
	CarrierTelephone    string  `json:"carrier_telephone"`
	SecurityName        string  `json:"security_name"`
	SecurityAppointment string  `json:"security_appointment"`
	SecurityDepartment  string  `json:"security_department"`
	SecurityTelephone   string  `json:"security_telephone"`
	ReceiverName        string  `json:"receiver_name"`
	ReceiverAppointment string  `json:"receiver_appointment"`
	ReceiverDepartment  string  `json:"receiver_department"`
	ReceiverTelephone   string  `json:"receiver_telephone"`
	DeviceIDs           []int64 `json:"device_ids"`
}

// Validate will run validation rules
func (r GatePassRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Number, validation.Required),
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.ConsigneeName, validation.Required),
		validation.Field(&r.Destination, validation.Required),
		validation.Field(&r.CarrierName, validation.Required),
		validation.Field(&r.DeviceIDs, validation.Required),
	)
}

// GatePasses serves the removal documents.
type GatePasses struct {
	passes *store.GatePasses
	audit  *store.AuditLogs
	logger auth.Logger
}

func NewGatePasses(passes *store.GatePasses, audit *store.AuditLogs, logger auth.Logger) *GatePasses {
	return &GatePasses{passes: passes, audit: audit, logger: logger}
}

func (h *GatePasses) Register(r fiber.Router, gate *auth.Gate) {
	authed := gate.RequireAuthenticated()
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/gate-passes", authed, h.List)
	r.Get("/gate-passes/:id", authed, h.Get)
	r.Post("/gate-passes", admin, h.Create)
	r.Delete("/gate-passes/:id", admin, h.Delete)
}

func (h *GatePasses) List(c *fiber.Ctx) error {
	passes, err := h.passes.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Gate passes retrieved", passes)
}

func (h *GatePasses) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	pass, err := h.passes.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Gate pass retrieved", pass)
}

// Create inserts the pass and its device links atomically.
func (h *GatePasses) Create(c *fiber.Ctx) error {
	payload := new(GatePassRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	created, err := h.passes.Create(c.UserContext(), &store.GatePass{
		Number:              payload.Number,
		Date:                payload.Date,
		ConsigneeName:       payload.ConsigneeName,
		Destination:         payload.Destination,
		CarrierName:         payload.CarrierName,
		CarrierAppointment:  payload.CarrierAppointment,
		CarrierDepartment:   payload.CarrierDepartment,
		CarrierTelephone:    payload.CarrierTelephone,
		SecurityName:        payload.SecurityName,
		SecurityAppointment: payload.SecurityAppointment,
		SecurityDepartment:  payload.SecurityDepartment,
		SecurityTelephone:   payload.SecurityTelephone,
		ReceiverName:        payload.ReceiverName,
		ReceiverAppointment: payload.ReceiverAppointment,
		ReceiverDepartment:  payload.ReceiverDepartment,
		ReceiverTelephone:   payload.ReceiverTelephone,
		Status:              "active",
		CreatedBy:           p.UserID,
	}, payload.DeviceIDs)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "gate_passes", created.ID)
	return respondCreated(c, "Gate pass created successfully", created)
}

func (h *GatePasses) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if err := h.passes.SoftDelete(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "gate_passes", id)
	return respondOK(c, "Gate pass deleted successfully", nil)
}
