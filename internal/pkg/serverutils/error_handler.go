package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorMapper translates a domain error into an HTTP status. ok is false when
// the mapper does not recognise the error.
type ErrorMapper func(err error) (status int, ok bool)

// ErrorHandlerMiddleware converts errors returned by handlers into BaseResponse
// bodies. Unmapped errors become 500.
func ErrorHandlerMiddleware(mappers ...ErrorMapper) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse(validationErr.Fields))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		for _, mapper := range mappers {
			if status, ok := mapper(err); ok {
				return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
			}
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}
