package controller

import (
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/service"
	"rocktalk-be/pkg/export"

	"github.com/gofiber/fiber/v2"
)

type ITransferController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	ExportSession(ctx *fiber.Ctx) error
	ExportSessions(ctx *fiber.Ctx) error
	ImportSessions(ctx *fiber.Ctx) error
}

type transferController struct {
	service service.ITransferService
}

func NewTransferController(service service.ITransferService) ITransferController {
	return &transferController{service: service}
}

func (c *transferController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/transfer/v1", jwtMiddleware)
	h.Post("sessions/export", c.ExportSessions)
	h.Post("sessions/import", c.ImportSessions)
	h.Get("sessions/:id", c.ExportSession)
}

// ExportSession downloads one session as ?format=json (default) or markdown.
func (c *transferController) ExportSession(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	switch ctx.Query("format", "json") {
	case "markdown", "md":
		md, name, err := c.service.ExportSessionMarkdown(ctx.Context(), id)
		if err != nil {
			return err
		}
		ctx.Attachment(name)
		ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return ctx.SendString(md)
	case "json":
		res, err := c.service.ExportSession(ctx.Context(), id)
		if err != nil {
			return err
		}
		ctx.Attachment(export.FileName(res.Session.Title, "json"))
		return ctx.JSON(res)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "format must be json or markdown")
	}
}

func (c *transferController) ExportSessions(ctx *fiber.Ctx) error {
	var req dto.SessionIdsRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.service.ExportSessions(ctx.Context(), req.Ids)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success export sessions", res))
}

// ImportSessions accepts a single ChatExport document or an array of them.
func (c *transferController) ImportSessions(ctx *fiber.Ctx) error {
	docs, err := dto.DecodeChatExports(ctx.Body())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.ImportSessions(ctx.Context(), docs)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success import sessions", res))
}
