package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/store"
)

// RoomRequest is the create and update payload for a room.
type RoomRequest struct {
	Number   string `json:"room_number"`
	Name     string `json:"room_name"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
	Capacity int    `json:"capacity"`
}

// Validate will run validation rules
func (r RoomRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Number, validation.Required),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Capacity, validation.Min(0)),
	)
}

func (r RoomRequest) apply(room *store.Room) {
	room.Number = r.Number
	room.Name = r.Name
	room.Building = r.Building
	room.Floor = r.Floor
	room.Capacity = r.Capacity
}

// Rooms serves the room registry.
type Rooms struct {
	rooms  *store.Rooms
	audit  *store.AuditLogs
	logger auth.Logger
}

func NewRooms(rooms *store.Rooms, audit *store.AuditLogs, logger auth.Logger) *Rooms {
	return &Rooms{rooms: rooms, audit: audit, logger: logger}
}

func (h *Rooms) Register(r fiber.Router, gate *auth.Gate) {
	authed := gate.RequireAuthenticated()
	admin := gate.RequireRole(auth.RoleAdmin)

	r.Get("/rooms", authed, h.List)
	r.Get("/rooms/:id", authed, h.Get)
	r.Post("/rooms", admin, h.Create)
	r.Put("/rooms/:id", admin, h.Update)
	r.Delete("/rooms/:id", admin, h.Delete)
}

// List returns active rooms with their current device counts.
func (h *Rooms) List(c *fiber.Ctx) error {
	rooms, err := h.rooms.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Rooms retrieved", rooms)
}

func (h *Rooms) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	room, err := h.rooms.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return respondOK(c, "Room retrieved", room)
}

func (h *Rooms) Create(c *fiber.Ctx) error {
	payload := new(RoomRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	room := new(store.Room)
	payload.apply(room)

	created, err := h.rooms.Create(c.UserContext(), room)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionInsert, "rooms", created.ID)
	return respondCreated(c, "Room created successfully", created)
}

func (h *Rooms) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	payload := new(RoomRequest)
	if err := c.BodyParser(payload); err != nil {
		return respondFail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return respondValidation(c, err)
	}

	room, err := h.rooms.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	before := *room
	payload.apply(room)

	if err := h.rooms.Update(c.UserContext(), room); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAuditChange(c, h.logger, h.audit, auth.AuditActionUpdate, "rooms", id, before, room)
	return respondOK(c, "Room updated successfully", room)
}

// Delete soft-deletes; a room still holding devices must be emptied first.
func (h *Rooms) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.rooms.SoftDelete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	recordAudit(c, h.logger, h.audit, auth.AuditActionDelete, "rooms", id)
	return respondOK(c, "Room deleted successfully", nil)
}
