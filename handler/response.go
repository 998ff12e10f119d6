// Package handler exposes the JSON API. Every response rides the same
// envelope: {"success":true,"message":...,"data":...} on success and
// {"success":false,"message":...,"errors":...} on failure.
package handler

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/icetlab/assettrack/auth"
)

func respond(c *fiber.Ctx, status int, message string, data any) error {
	if data == nil {
		data = []any{}
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondOK(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusOK, message, data)
}

func respondCreated(c *fiber.Ctx, message string, data any) error {
	return respond(c, fiber.StatusCreated, message, data)
}

func respondFail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"errors":  []any{},
	})
}

func respondValidation(c *fiber.Ctx, errs error) error {
	fields := any(errs.Error())
	if v, ok := errs.(validation.Errors); ok {
		fields = v
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed",
		"errors":  fields,
	})
}

// respondError maps a rich error to the envelope. Internal details never reach
// the client; they only hit the log.
func respondError(c *fiber.Ctx, logger auth.Logger, err error) error {
	var rich *errors.Error
	if !errors.As(err, &rich) {
		logger.Error("unhandled error on %s: %v", c.Path(), err)
		return respondFail(c, fiber.StatusInternalServerError, "Operation failed")
	}

	switch rich.Category {
	case errors.CategoryNotFound:
		return respondFail(c, fiber.StatusNotFound, rich.Message)
	case errors.CategoryConflict:
		return respondFail(c, fiber.StatusConflict, rich.Message)
	case errors.CategoryBadInput, errors.CategoryValidation:
		return respondFail(c, fiber.StatusBadRequest, rich.Message)
	case errors.CategoryAuth:
		return respondFail(c, fiber.StatusUnauthorized, rich.Message)
	case errors.CategoryAuthz:
		return respondFail(c, fiber.StatusForbidden, rich.Message)
	default:
		logger.Error("internal error on %s: %v", c.Path(), err)
		return respondFail(c, fiber.StatusInternalServerError, "Operation failed")
	}
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id", errors.CategoryBadInput)
	}
	return int64(id), nil
}

// requestMeta captures the caller attributes the audit trail keeps.
func requestMeta(c *fiber.Ctx) auth.RequestMeta {
	return auth.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// principal returns the identity a gate attached; guarded routes always have
// one.
func principal(c *fiber.Ctx) *auth.Principal {
	p, _ := auth.PrincipalFromFiber(c)
	return p
}
