package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// SupportMemberRequest is the create and update payload for a team member.
type SupportMemberRequest struct {
	Name       string `json:"member_name"`
	Email      string `json:"member_email"`
	Phone      string `json:"member_phone"`
	Department string `json:"department"`
	UserID     *int64 `json:"user_id"`
	Active     *bool  `json:"is_active"`
}

// Validate will run validation rules
func (r SupportMemberRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, is.Email),
	)
}

// SupportRecordRequest is the create and update payload for a support visit.
type SupportRecordRequest struct {
	MemberID        int64  `json:"member_id"`
	SupportDate     string `json:"support_date"`
	SupportTime     string `json:"support_time"`
	Location        string `json:"location"`
	RoomID          *int64 `json:"room_id"`
	Description     string `json:"support_description"`
	IssueType       string `json:"issue_type"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	DevicesInvolved string `json:"devices_involved"`
	DurationMinutes int    `json:"duration_minutes"`
	FacultyName     string `json:"faculty_name"`
	Notes           string `json:"notes"`
}

// Validate will run validation rules
func (r SupportRecordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MemberID, validation.Required),
		validation.Field(&r.SupportDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.SupportTime, validation.Required),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.DurationMinutes, validation.Min(0)),
	)
}

func (r SupportRecordRequest) apply(record *store.SupportRecord) {
	record.MemberID = r.MemberID
	record.SupportDate = r.SupportDate
	record.SupportTime = r.SupportTime
	record.Location = r.Location
	record.RoomID = r.RoomID
	record.Description = r.Description
	record.IssueType = r.IssueType
	record.Priority = r.Priority
	record.Status = r.Status
	record.DevicesInvolved = r.DevicesInvolved
	record.DurationMinutes = r.DurationMinutes
	record.FacultyName = r.FacultyName
	record.Notes = r.Notes
}

// Support serves the team roster and classroom support records.
type Support struct {
	support *store.Support
	audit   *store.AuditLogs
	logger  auth.Logger
}

func NewSupport(support *store.Support, audit *store.AuditLogs, logger auth.Logger) *Support {
	return &Support{support: support, audit: audit, logger: logger}
}

// Register mounts the support routes. Roster writes are admin only; records
// can be filed by anyone logged in and edited by their author or an admin.
func (h *Support) Register(r fiber.Router, gate *auth.Gate) {
	authed := gate.RequireAuthenticated()
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/support-team", authed, h.ListMembers)
	r.Post("/support-team", admin, h.CreateMember)
	r.Put("/support-team/:id", admin, h.UpdateMember)
	r.Delete("/support-team/:id", admin, h.DeleteMember)

	r.Get("/classroom-support", authed, h.ListRecords)
	r.Get("/classroom-support/:id", authed, h.GetRecord)
	r.Post("/classroom-support", authed, h.CreateRecord)
	r.Put("/classroom-support/:id", authed, h.UpdateRecord)
	r.Delete("/classroom-support/:id", authed, h.DeleteRecord)
}

func (h *Support) ListMembers(c *fiber.Ctx) error {
	members, err := h.support.ListMembers(c.UserContext(), c.QueryBool("active"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Support team retrieved", members)
}

func (h *Support) CreateMember(c *fiber.Ctx) error {
	payload := new(SupportMemberRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	created, err := h.support.CreateMember(c.UserContext(), &store.SupportMember{
		Name:       payload.Name,
		Email:      payload.Email,
		Phone:      payload.Phone,
		Department: payload.Department,
		UserID:     payload.UserID,
		Active:     active,
		CreatedBy:  p.UserID,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "support_team_members", created.ID)
	return respondCreated(c, "Team member added successfully", created)
}

func (h *Support) UpdateMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(SupportMemberRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	member := &store.SupportMember{
		ID:         id,
		Name:       payload.Name,
		Email:      payload.Email,
		Phone:      payload.Phone,
		Department: payload.Department,
		UserID:     payload.UserID,
		Active:     active,
	}
	if err := h.support.UpdateMember(c.UserContext(), member); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionUpdate, "support_team_members", id)
	return respondOK(c, "Team member updated successfully", member)
}

// DeleteMember removes a member; one still referenced by support records is
// rejected with a conflict.
func (h *Support) DeleteMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.support.DeleteMember(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "support_team_members", id)
	return respondOK(c, "Team member removed successfully", nil)
}

func (h *Support) ListRecords(c *fiber.Ctx) error {
	filter := store.SupportRecordFilter{
		MemberID:  int64(c.QueryInt("member_id")),
		Location:  c.Query("location"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Status:    c.Query("status"),
		IssueType: c.Query("issue_type"),
	}

	records, err := h.support.ListRecords(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Support records retrieved", records)
}

func (h *Support) GetRecord(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	record, err := h.support.GetRecord(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Support record retrieved", record)
}

func (h *Support) CreateRecord(c *fiber.Ctx) error {
	payload := new(SupportRecordRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	p := principal(c)
	record := &store.SupportRecord{CreatedBy: p.UserID}
	payload.apply(record)

	created, err := h.support.CreateRecord(c.UserContext(), record)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "classroom_support_records", created.ID)
	return respondCreated(c, "Support record created successfully", created)
}

// UpdateRecord lets the record's author or an admin edit it.
func (h *Support) UpdateRecord(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(SupportRecordRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	record, err := h.support.GetRecord(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if record.CreatedBy != p.UserID && !p.IsAdmin() {
		return respondFail(c, fiber.StatusForbidden, "You can only edit your own records")
	}

	before := *record
	payload.apply(record)

	if err := h.support.UpdateRecord(c.UserContext(), record); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAuditChange(c, h.logger, h.audit, auth.AuditActionUpdate, "classroom_support_records", id, before, record)
	return respondOK(c, "Support record updated successfully", record)
}

// DeleteRecord soft-deletes; same ownership rule as UpdateRecord.
func (h *Support) DeleteRecord(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	record, err := h.support.GetRecord(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	p := principal(c)
	if record.CreatedBy != p.UserID && !p.IsAdmin() {
		return respondFail(c, fiber.StatusForbidden, "You can only delete your own records")
	}

	if err := h.support.SoftDeleteRecord(c.UserContext(), id, p.UserID); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "classroom_support_records", id)
	return respondOK(c, "Support record deleted successfully", nil)
}
