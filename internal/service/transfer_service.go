package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/pkg/events"
	"rocktalk-be/pkg/export"

	"github.com/google/uuid"
)

type ITransferService interface {
	ExportSession(ctx context.Context, id uuid.UUID) (*dto.ChatExport, error)
	ExportSessionMarkdown(ctx context.Context, id uuid.UUID) (string, string, error)
	ExportSessions(ctx context.Context, ids []uuid.UUID) ([]*dto.ChatExport, error)
	ImportSession(ctx context.Context, chat *dto.ChatExport) (*dto.SessionResponse, error)
	ImportSessions(ctx context.Context, chats []*dto.ChatExport) (*dto.ImportResponse, error)
}

type transferService struct {
	uowFactory    unitofwork.RepositoryFactory
	publisher     events.Publisher
	logger        logger.ILogger
	builtinConfig entity.LLMConfig
}

func NewTransferService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	log logger.ILogger,
	builtinConfig entity.LLMConfig,
) ITransferService {
	return &transferService{
		uowFactory:    uowFactory,
		publisher:     publisher,
		logger:        log,
		builtinConfig: builtinConfig,
	}
}

func (s *transferService) load(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.ChatSession, []*entity.ChatMessage, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: id},
		specification.ByMessageOrder(),
	)
	if err != nil {
		return nil, nil, err
	}
	return session, messages, nil
}

func newChatExport(session *entity.ChatSession, messages []*entity.ChatMessage, at time.Time) *dto.ChatExport {
	out := &dto.ChatExport{
		Session: dto.SessionExport{
			Id:         session.Id,
			Title:      session.Title,
			CreatedAt:  session.CreatedAt,
			LastActive: session.LastActive,
			IsPrivate:  session.IsPrivate,
			Config:     session.Config,
		},
		Messages:   make([]dto.MessageExport, 0, len(messages)),
		ExportedAt: at,
	}
	for _, m := range messages {
		out.Messages = append(out.Messages, dto.MessageExport{
			Role:      m.Role,
			Content:   m.Content,
			Index:     m.Index,
			Version:   m.Version,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

func (s *transferService) ExportSession(ctx context.Context, id uuid.UUID) (*dto.ChatExport, error) {
	session, messages, err := s.load(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	return newChatExport(session, messages, time.Now().UTC()), nil
}

// ExportSessionMarkdown returns the rendered transcript and a file name for it.
func (s *transferService) ExportSessionMarkdown(ctx context.Context, id uuid.UUID) (string, string, error) {
	session, messages, err := s.load(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return "", "", err
	}

	transcript := export.Transcript{
		Title:        session.Title,
		Model:        session.Config.ModelId,
		SystemPrompt: session.Config.SystemPrompt,
		CreatedAt:    session.CreatedAt,
		LastActive:   session.LastActive,
		Messages:     make([]export.Message, 0, len(messages)),
	}
	for _, m := range messages {
		images := 0
		for _, item := range m.Content {
			if item.Type == entity.ContentTypeImage {
				images++
			}
		}
		transcript.Messages = append(transcript.Messages, export.Message{
			Role:      m.Role,
			Text:      m.Text(),
			Images:    images,
			Version:   m.Version,
			Timestamp: m.CreatedAt,
		})
	}

	return export.Markdown(transcript, export.DefaultOptions()), export.FileName(session.Title, "md"), nil
}

// ExportSessions exports the given sessions, or every session when ids is empty.
func (s *transferService) ExportSessions(ctx context.Context, ids []uuid.UUID) ([]*dto.ChatExport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if len(ids) == 0 {
		sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.RecentFirst())
		if err != nil {
			return nil, err
		}
		for _, session := range sessions {
			ids = append(ids, session.Id)
		}
	}

	now := time.Now().UTC()
	out := make([]*dto.ChatExport, 0, len(ids))
	for _, id := range ids {
		session, messages, err := s.load(ctx, uow, id)
		if err != nil {
			return nil, fmt.Errorf("export session %s: %w", id, err)
		}
		out = append(out, newChatExport(session, messages, now))
	}
	return out, nil
}

func (s *transferService) validate(chat *dto.ChatExport) error {
	if chat == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidImport)
	}
	for i, m := range chat.Messages {
		if m.Role != entity.RoleUser && m.Role != entity.RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidImport, i, m.Role)
		}
		if !hasContent(m.Content) {
			return fmt.Errorf("%w: message %d is empty", ErrInvalidImport, i)
		}
		for _, item := range m.Content {
			if item.Type != entity.ContentTypeText && item.Type != entity.ContentTypeImage {
				return fmt.Errorf("%w: message %d has content type %q", ErrInvalidImport, i, item.Type)
			}
		}
	}
	return nil
}

// prepare validates the document and builds a new session from it. Ids are
// regenerated, timestamps stored in UTC and message indexes renumbered from 0
// in their exported order.
func (s *transferService) prepare(chat *dto.ChatExport) (*entity.ChatSession, []*entity.ChatMessage, error) {
	if err := s.validate(chat); err != nil {
		return nil, nil, err
	}

	config := chat.Session.Config
	if config.ModelId == "" {
		config = s.builtinConfig
	}
	if err := validateConfig(config); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	now := time.Now().UTC()
	session := &entity.ChatSession{
		Id:         uuid.New(),
		Title:      strings.TrimSpace(chat.Session.Title),
		CreatedAt:  chat.Session.CreatedAt.UTC(),
		LastActive: chat.Session.LastActive.UTC(),
		IsPrivate:  chat.Session.IsPrivate,
		Config:     config.Clone(),
	}
	if session.Title == "" {
		session.Title = entity.DefaultSessionTitle
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.LastActive.IsZero() {
		session.LastActive = session.CreatedAt
	}

	ordered := make([]dto.MessageExport, len(chat.Messages))
	copy(ordered, chat.Messages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	messages := make([]*entity.ChatMessage, 0, len(ordered))
	for i, m := range ordered {
		version := m.Version
		if version < 1 {
			version = 1
		}
		createdAt := m.CreatedAt.UTC()
		if createdAt.IsZero() {
			createdAt = session.CreatedAt
		}
		messages = append(messages, &entity.ChatMessage{
			Id:        uuid.New(),
			SessionId: session.Id,
			Role:      m.Role,
			Content:   m.Content,
			Index:     i,
			Version:   version,
			CreatedAt: createdAt,
		})
	}
	return session, messages, nil
}

func (s *transferService) store(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, messages []*entity.ChatMessage) error {
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return err
	}
	if len(messages) > 0 {
		if err := uow.ChatMessageRepository().CreateBulk(ctx, messages); err != nil {
			return err
		}
	}
	return nil
}

func (s *transferService) announce(ctx context.Context, session *entity.ChatSession, messageCount int) {
	s.logger.Info("TRANSFER", "Session imported", map[string]interface{}{
		"session_id": session.Id.String(),
		"messages":   messageCount,
	})
	publishEvent(ctx, s.publisher, s.logger, events.SessionCreated, map[string]interface{}{
		"session_id": session.Id.String(),
		"title":      session.Title,
	})
}

func (s *transferService) ImportSession(ctx context.Context, chat *dto.ChatExport) (*dto.SessionResponse, error) {
	session, messages, err := s.prepare(chat)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := s.store(ctx, uow, session, messages); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.announce(ctx, session, len(messages))
	return dto.NewSessionResponse(session), nil
}

// ImportSessions imports every document or none of them.
func (s *transferService) ImportSessions(ctx context.Context, chats []*dto.ChatExport) (*dto.ImportResponse, error) {
	if len(chats) == 0 {
		return nil, fmt.Errorf("%w: no sessions in document", ErrInvalidImport)
	}

	sessions := make([]*entity.ChatSession, len(chats))
	messages := make([][]*entity.ChatMessage, len(chats))
	for i, chat := range chats {
		session, msgs, err := s.prepare(chat)
		if err != nil {
			return nil, fmt.Errorf("import session %d: %w", i, err)
		}
		sessions[i], messages[i] = session, msgs
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	for i := range sessions {
		if err := s.store(ctx, uow, sessions[i], messages[i]); err != nil {
			return nil, fmt.Errorf("import session %d: %w", i, err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := &dto.ImportResponse{Imported: make([]*dto.SessionResponse, 0, len(sessions))}
	for i, session := range sessions {
		s.announce(ctx, session, len(messages[i]))
		res.Imported = append(res.Imported, dto.NewSessionResponse(session))
	}
	return res, nil
}
