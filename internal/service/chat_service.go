package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/memory"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/internal/tracer"
	"rocktalk-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// IChatService drives a conversation turn. A nil onChunk means the reply is
// returned in one piece; otherwise text deltas are pushed to it as they arrive.
type IChatService interface {
	Send(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.ChatReplyResponse, error)
	SendStream(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error)
	Regenerate(ctx context.Context, sessionId uuid.UUID, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error)
	EditAndRegenerate(ctx context.Context, sessionId uuid.UUID, request *dto.EditMessageRequest, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error)
	Cancel(ctx context.Context, sessionId uuid.UUID) bool
}

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	messageService   IMessageService
	publisherService IPublisherService
	llmProvider      llm.LLMProvider
	streams          *memory.StreamRepository
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	messageService IMessageService,
	publisherService IPublisherService,
	llmProvider llm.LLMProvider,
	streams *memory.StreamRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		messageService:   messageService,
		publisherService: publisherService,
		llmProvider:      llmProvider,
		streams:          streams,
		logger:           log,
	}
}

func (cs *chatService) loadSession(ctx context.Context, sessionId uuid.UUID) (*entity.ChatSession, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (cs *chatService) Send(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest) (*dto.ChatReplyResponse, error) {
	return cs.SendStream(ctx, sessionId, request, nil)
}

func (cs *chatService) SendStream(ctx context.Context, sessionId uuid.UUID, request *dto.SendMessageRequest, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error) {
	content := request.Items()
	if !hasContent(content) {
		return nil, ErrEmptyMessage
	}

	session, err := cs.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	genCtx, release, err := cs.streams.Begin(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer release()

	sent, err := cs.messageService.Append(ctx, sessionId, entity.RoleUser, content)
	if err != nil {
		return nil, err
	}

	return cs.respond(ctx, genCtx, session, sent, onChunk)
}

// Regenerate drops a trailing assistant reply and answers the last user
// message again.
func (cs *chatService) Regenerate(ctx context.Context, sessionId uuid.UUID, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error) {
	session, err := cs.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	genCtx, release, err := cs.streams.Begin(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer release()

	messages, err := cs.messageService.List(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	last := len(messages) - 1
	if last >= 0 && messages[last].Role == entity.RoleAssistant {
		last--
	}
	if last < 0 || messages[last].Role != entity.RoleUser {
		return nil, ErrNothingToRegenerate
	}

	if last < len(messages)-1 {
		if _, err := cs.messageService.TruncateFrom(ctx, sessionId, last+1); err != nil {
			return nil, err
		}
	}

	return cs.respond(ctx, genCtx, session, nil, onChunk)
}

func (cs *chatService) EditAndRegenerate(ctx context.Context, sessionId uuid.UUID, request *dto.EditMessageRequest, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error) {
	session, err := cs.loadSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	genCtx, release, err := cs.streams.Begin(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	defer release()

	edited, err := cs.messageService.Edit(ctx, sessionId, request.Index, request.Items())
	if err != nil {
		return nil, err
	}

	return cs.respond(ctx, genCtx, session, edited, onChunk)
}

func (cs *chatService) Cancel(ctx context.Context, sessionId uuid.UUID) bool {
	cancelled := cs.streams.Cancel(sessionId)
	if cancelled {
		cs.logger.Info("CHAT", "Generation cancelled", map[string]interface{}{"session_id": sessionId.String()})
	}
	return cancelled
}

// respond sends the stored history to the model and stores its reply. When a
// stream is cancelled, loses its sink or breaks off after some text arrived,
// that text is kept as a partial reply.
func (cs *chatService) respond(ctx, genCtx context.Context, session *entity.ChatSession, sent *entity.ChatMessage, onChunk llm.ChunkHandler) (*dto.ChatReplyResponse, error) {
	messages, err := cs.messageService.List(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	history := llmHistory(session.Config, messages)
	opts := llmOptions(session.Config)

	spanCtx, span := tracer.Tracer().Start(genCtx, "llm.chat")
	span.SetAttributes(
		attribute.String("session.id", session.Id.String()),
		attribute.String("llm.model", session.Config.ModelId),
		attribute.Int("llm.history_length", len(history)),
		attribute.Bool("llm.stream", onChunk != nil),
	)

	var (
		text    string
		sinkErr error
	)
	if onChunk == nil {
		text, err = cs.llmProvider.Chat(spanCtx, history, opts...)
	} else {
		text, err = cs.llmProvider.Stream(spanCtx, history, func(chunk string) error {
			if err := onChunk(chunk); err != nil {
				sinkErr = err
				return err
			}
			return nil
		}, opts...)
	}
	span.SetAttributes(attribute.Int("llm.reply_length", len(text)))

	partial := false
	if err != nil {
		interrupted := genCtx.Err() != nil || sinkErr != nil
		brokenStream := onChunk != nil && strings.TrimSpace(text) != ""
		if !interrupted {
			span.RecordError(err)
			if !brokenStream {
				span.SetStatus(codes.Error, err.Error())
				span.End()
				cs.logger.Error("CHAT", "LLM request failed", map[string]interface{}{
					"session_id": session.Id.String(),
					"model":      session.Config.ModelId,
					"error":      err.Error(),
				})
				return nil, fmt.Errorf("generate reply: %w", err)
			}
			cs.logger.Warn("CHAT", "Stream broke off, keeping partial reply", map[string]interface{}{
				"session_id": session.Id.String(),
				"model":      session.Config.ModelId,
				"error":      err.Error(),
			})
		}
		if strings.TrimSpace(text) == "" {
			span.End()
			return nil, ErrGenerationCancelled
		}
		partial = true
	}
	span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyReply
	}

	// the reply must be stored even if the request context was cancelled
	storeCtx := context.WithoutCancel(ctx)
	reply, err := cs.messageService.Append(storeCtx, session.Id, entity.RoleAssistant, entity.TextContent(text))
	if err != nil {
		return nil, err
	}

	if session.HasDefaultTitle() {
		cs.queueTitle(storeCtx, session.Id)
	}

	res := &dto.ChatReplyResponse{
		SessionId: session.Id,
		Title:     session.Title,
		Reply:     dto.NewMessageResponse(reply),
		Partial:   partial,
	}
	if sent != nil {
		res.Sent = dto.NewMessageResponse(sent)
	}
	return res, nil
}

func (cs *chatService) queueTitle(ctx context.Context, sessionId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishTitleMessage{SessionId: sessionId.String()})
	if err != nil {
		return
	}
	if err := cs.publisherService.Publish(ctx, payload); err != nil {
		cs.logger.Warn("CHAT", "Failed to queue title generation", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
	}
}
