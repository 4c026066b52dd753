package controller

import (
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Grouped(ctx *fiber.Ctx) error
	Range(ctx *fiber.Ctx) error
	DeleteAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Duplicate(ctx *fiber.Ctx) error
	ApplyTemplate(ctx *fiber.Ctx) error
	ToggleVisibility(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/session/v1", jwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Delete("", c.DeleteAll)
	h.Get("grouped", c.Grouped)
	h.Get("range", c.Range)
	h.Patch("visibility", c.ToggleVisibility)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/duplicate", c.Duplicate)
	h.Put(":id/template/:templateId", c.ApplyTemplate)
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.ListRecent(ctx.Context(), ctx.QueryInt("limit", 0), ctx.QueryBool("include_private", false))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Grouped(ctx *fiber.Ctx) error {
	res, err := c.service.ListGrouped(ctx.Context(), ctx.QueryBool("include_private", false))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get grouped sessions", res))
}

func (c *sessionController) Range(ctx *fiber.Ctx) error {
	from, err := timeQuery(ctx, "from", false)
	if err != nil {
		return err
	}
	to, err := timeQuery(ctx, "to", true)
	if err != nil {
		return err
	}

	res, err := c.service.ListByDateRange(ctx.Context(), &dto.SessionRangeRequest{
		From:           from,
		To:             to,
		IncludePrivate: ctx.QueryBool("include_private", false),
	})
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

// DeleteAll requires ?confirm=true.
func (c *sessionController) DeleteAll(ctx *fiber.Ctx) error {
	if !ctx.QueryBool("confirm", false) {
		return fiber.NewError(fiber.StatusBadRequest, "deleting all sessions requires confirm=true")
	}

	if err := c.service.DeleteAll(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete all sessions", nil))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Update(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateSessionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update session", res))
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}

func (c *sessionController) Duplicate(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.DuplicateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Duplicate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success duplicate session", res))
}

func (c *sessionController) ApplyTemplate(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	templateId, err := uuidParam(ctx, "templateId")
	if err != nil {
		return err
	}

	res, err := c.service.ApplyTemplate(ctx.Context(), id, templateId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success apply template", res))
}

func (c *sessionController) ToggleVisibility(ctx *fiber.Ctx) error {
	var req dto.ToggleVisibilityRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ToggleVisibility(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle visibility", res))
}
