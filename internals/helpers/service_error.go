package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"library_backend/internals/helpers/errs"
)

// FromServiceError renders a service-layer error with the standard JSON
// error shape. authenticated decides between 401 and 403 on permission errors.
func FromServiceError(c *fiber.Ctx, err error, authenticated bool) error {
	if ve, ok := errs.AsValidation(err); ok {
		return JsonValidationError(c, ve.Fields)
	}

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, errs.ErrNotFound):
		return JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrPermissionDenied):
		if !authenticated {
			return JsonError(c, fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}
		return JsonError(c, fiber.StatusForbidden, "You do not have permission to perform this action.")
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrIllegalTransition):
		return JsonError(c, fiber.StatusConflict, err.Error())
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}
