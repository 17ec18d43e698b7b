package serverutils

import (
	"errors"

	"academy-be/internal/repository/contract"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into JSON
// responses so controllers can simply `return err`.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps domain and framework errors to an HTTP status and message.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, validationMessage(validationErrs)
	case errors.Is(err, contract.ErrNotFound):
		return fiber.StatusNotFound, "Resource not found"
	case errors.Is(err, contract.ErrDuplicate):
		return fiber.StatusConflict, "Resource already exists"
	case errors.Is(err, contract.ErrForbidden):
		return fiber.StatusForbidden, "Forbidden"
	case errors.Is(err, contract.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, contract.ErrInvalidInput):
		return fiber.StatusBadRequest, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal server error"
}
