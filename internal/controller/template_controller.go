package controller

import (
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITemplateController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	GetDefault(ctx *fiber.Ctx) error
	Match(ctx *fiber.Ctx) error
	Import(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SetDefault(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type templateController struct {
	service service.ITemplateService
}

func NewTemplateController(service service.ITemplateService) ITemplateController {
	return &templateController{service: service}
}

func (c *templateController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/template/v1", jwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get("default", c.GetDefault)
	h.Post("match", c.Match)
	h.Post("import", c.Import)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Put(":id/default", c.SetDefault)
	h.Get(":id/export", c.Export)
}

// GetAll lists templates by name, or looks one up with ?name=.
func (c *templateController) GetAll(ctx *fiber.Ctx) error {
	if name := ctx.Query("name"); name != "" {
		res, err := c.service.GetByName(ctx.Context(), name)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success get template", res))
	}

	res, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get templates", res))
}

func (c *templateController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateTemplateRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create template", res))
}

func (c *templateController) GetDefault(ctx *fiber.Ctx) error {
	res, err := c.service.GetDefault(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get default template", res))
}

func (c *templateController) Match(ctx *fiber.Ctx) error {
	var req entity.LLMConfig
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Match(ctx.Context(), req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success match template", res))
}

func (c *templateController) Import(ctx *fiber.Ctx) error {
	var req dto.TemplateExport
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Import(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success import template", res))
}

func (c *templateController) Show(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show template", res))
}

func (c *templateController) Update(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTemplateRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success update template", res))
}

func (c *templateController) Delete(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete template", nil))
}

func (c *templateController) SetDefault(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.SetDefault(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set default template", res))
}

func (c *templateController) Export(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Export(ctx.Context(), id)
	if err != nil {
		return err
	}

	ctx.Attachment(res.Name + ".json")
	return ctx.JSON(res)
}
