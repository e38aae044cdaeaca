package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/printcraft/backend/internal/apperrors"
)

func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validationf("invalid id")
	}
	return id, nil
}

// translateDBError maps persistence failures onto the error taxonomy:
// missing rows become not-found errors and unique index violations surface
// as conflicts, so the database stays the final authority on uniqueness.
func translateDBError(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFoundf("%s not found", resource)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflictf("%s already exists", resource)
	}
	return err
}

// ErrorHandler renders application errors with their HTTP status and a
// stable JSON envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		code = fiber.StatusBadRequest
	case apperrors.KindNotFound:
		code = fiber.StatusNotFound
	case apperrors.KindConflict:
		code = fiber.StatusConflict
	case apperrors.KindStorage:
		code = fiber.StatusInternalServerError
	default:
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
