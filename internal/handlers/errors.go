package handlers

import (
	"errors"
	"log"

	"fruitbasket/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// statusByKind is the single mapping from error kind to HTTP status.
// Conflicts are 400, not 409, to match the wire contract.
var statusByKind = map[apperrors.Kind]int{
	apperrors.BadRequest: fiber.StatusBadRequest,
	apperrors.Validation: fiber.StatusBadRequest,
	apperrors.NotFound:   fiber.StatusNotFound,
	apperrors.Conflict:   fiber.StatusBadRequest,
	apperrors.Internal:   fiber.StatusInternalServerError,
}

// renderError writes err as a JSON error body. Internal errors keep their
// diagnostic detail in the log; the body carries the contextual message only.
func renderError(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(apperrors.Internal, "Internal server error", err)
	}

	status, ok := statusByKind[appErr.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), appErr)
	}

	return c.Status(status).JSON(MessageResponse{
		Message: appErr.Message,
		Errors:  appErr.Errors,
	})
}
