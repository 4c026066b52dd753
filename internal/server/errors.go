package server

import (
	"errors"

	"rocktalk-be/internal/repository/memory"
	"rocktalk-be/internal/service"
	"rocktalk-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrSessionNotFound, fiber.StatusNotFound},
	{service.ErrMessageNotFound, fiber.StatusNotFound},
	{service.ErrTemplateNotFound, fiber.StatusNotFound},
	{service.ErrAuthDisabled, fiber.StatusNotFound},

	{service.ErrEmptyTitle, fiber.StatusBadRequest},
	{service.ErrEmptyMessage, fiber.StatusBadRequest},
	{service.ErrInvalidConfig, fiber.StatusBadRequest},
	{service.ErrInvalidImport, fiber.StatusBadRequest},
	{service.ErrOnlyUserEditable, fiber.StatusBadRequest},
	{service.ErrNothingToRegenerate, fiber.StatusBadRequest},
	{service.ErrDefaultTemplateDelete, fiber.StatusBadRequest},

	{service.ErrTemplateNameTaken, fiber.StatusConflict},
	{service.ErrGenerationCancelled, fiber.StatusConflict},
	{memory.ErrStreamActive, fiber.StatusConflict},

	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},

	{llm.ErrUnauthorized, fiber.StatusUnauthorized},
	{llm.ErrRateLimited, fiber.StatusTooManyRequests},
	{llm.ErrUnavailable, fiber.StatusServiceUnavailable},
	{llm.ErrBadRequest, fiber.StatusBadGateway},
	{service.ErrEmptyReply, fiber.StatusBadGateway},
}

// domainStatus maps service and LLM errors to HTTP statuses.
func domainStatus(err error) (int, bool) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status, true
		}
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		return fiber.StatusBadGateway, true
	}
	return 0, false
}
