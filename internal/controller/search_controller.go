package controller

import (
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Query(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type searchController struct {
	service service.ISearchService
}

func NewSearchController(service service.ISearchService) ISearchController {
	return &searchController{service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/search/v1", jwtMiddleware)
	h.Get("", c.Query)
	h.Post("", c.Search)
}

// Query runs a search-box query string, e.g. ?q=golang /title /from:2024-01-01
func (c *searchController) Query(ctx *fiber.Ctx) error {
	req := dto.SearchRequest{
		Query:          ctx.Query("q"),
		IncludePrivate: ctx.QueryBool("include_private", false),
		Limit:          ctx.QueryInt("limit", 0),
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search", res))
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search", res))
}
