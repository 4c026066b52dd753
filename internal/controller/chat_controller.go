package controller

import (
	"context"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	GetMessages(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	DeleteMessage(ctx *fiber.Ctx) error
	Truncate(ctx *fiber.Ctx) error
	Regenerate(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	GenerateTitle(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService    service.IChatService
	messageService service.IMessageService
	titleService   service.ITitleService
	logger         logger.ILogger
}

func NewChatController(
	chatService service.IChatService,
	messageService service.IMessageService,
	titleService service.ITitleService,
	log logger.ILogger,
) IChatController {
	return &chatController{
		chatService:    chatService,
		messageService: messageService,
		titleService:   titleService,
		logger:         log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/chat/v1/sessions/:id", jwtMiddleware)
	h.Get("messages", c.GetMessages)
	h.Post("messages", c.Send)
	h.Delete("messages", c.Truncate)
	h.Put("messages/:index", c.Edit)
	h.Delete("messages/:index", c.DeleteMessage)
	h.Post("regenerate", c.Regenerate)
	h.Post("cancel", c.Cancel)
	h.Post("title", c.GenerateTitle)
}

type replyFunc func(ctx context.Context, onChunk func(string) error) (*dto.ChatReplyResponse, error)

// reply answers with JSON, or with an event stream when ?stream=true.
func (c *chatController) reply(ctx *fiber.Ctx, sessionId uuid.UUID, message string, run replyFunc) error {
	if !ctx.QueryBool("stream", false) {
		res, err := run(ctx.Context(), nil)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse(message, res))
	}

	return streamSSE(ctx, func(sse *sseWriter) {
		// the request context is recycled once the handler returns
		res, err := run(context.Background(), func(chunk string) error {
			return sse.send(sseChunk, fiber.Map{"text": chunk})
		})
		if err != nil {
			c.logger.Warn("CHAT", "Streaming reply failed", map[string]interface{}{
				"session_id": sessionId.String(),
				"error":      err.Error(),
			})
			_ = sse.send(sseError, fiber.Map{"message": err.Error()})
			return
		}
		_ = sse.send(sseDone, res)
	})
}

func (c *chatController) GetMessages(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	messages, err := c.messageService.List(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", dto.NewMessageResponses(messages)))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return c.reply(ctx, id, "Success send message", func(rctx context.Context, onChunk func(string) error) (*dto.ChatReplyResponse, error) {
		if onChunk == nil {
			return c.chatService.Send(rctx, id, &req)
		}
		return c.chatService.SendStream(rctx, id, &req, onChunk)
	})
}

func (c *chatController) Edit(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}

	var req dto.EditMessageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Index = index
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return c.reply(ctx, id, "Success edit message", func(rctx context.Context, onChunk func(string) error) (*dto.ChatReplyResponse, error) {
		return c.chatService.EditAndRegenerate(rctx, id, &req, onChunk)
	})
}

func (c *chatController) DeleteMessage(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}

	if err := c.messageService.Delete(ctx.Context(), id, index); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete message", nil))
}

// Truncate deletes every message from ?from=n onwards.
func (c *chatController) Truncate(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}
	from := ctx.QueryInt("from", -1)
	if from < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter from is required")
	}

	deleted, err := c.messageService.TruncateFrom(ctx.Context(), id, from)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success truncate messages", dto.TruncateResponse{Deleted: deleted}))
}

func (c *chatController) Regenerate(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	return c.reply(ctx, id, "Success regenerate reply", func(rctx context.Context, onChunk func(string) error) (*dto.ChatReplyResponse, error) {
		return c.chatService.Regenerate(rctx, id, onChunk)
	})
}

func (c *chatController) Cancel(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	cancelled := c.chatService.Cancel(ctx.Context(), id)
	return ctx.JSON(serverutils.SuccessResponse("Success cancel generation", dto.CancelResponse{Cancelled: cancelled}))
}

func (c *chatController) GenerateTitle(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.titleService.Generate(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate title", res))
}
