package service

import (
	"context"
	"strings"
	"time"

	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/pkg/events"

	"github.com/google/uuid"
)

// IMessageService owns message ordering. Indexes within a session stay
// contiguous from 0 and every write bumps the session's last_active.
type IMessageService interface {
	Append(ctx context.Context, sessionId uuid.UUID, role string, content []entity.ContentItem) (*entity.ChatMessage, error)
	List(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error)
	Delete(ctx context.Context, sessionId uuid.UUID, index int) error
	TruncateFrom(ctx context.Context, sessionId uuid.UUID, index int) (int64, error)
	Edit(ctx context.Context, sessionId uuid.UUID, index int, content []entity.ContentItem) (*entity.ChatMessage, error)
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func hasContent(content []entity.ContentItem) bool {
	for _, item := range content {
		switch item.Type {
		case entity.ContentTypeText:
			if strings.TrimSpace(item.Text) != "" {
				return true
			}
		case entity.ContentTypeImage:
			if item.Data != "" {
				return true
			}
		}
	}
	return false
}

func ensureSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) error {
	count, err := uow.ChatSessionRepository().Count(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *messageService) changed(ctx context.Context, sessionId uuid.UUID) {
	publishEvent(ctx, s.publisher, s.logger, events.MessagesChanged, map[string]interface{}{
		"session_id": sessionId.String(),
	})
}

func (s *messageService) Append(ctx context.Context, sessionId uuid.UUID, role string, content []entity.ContentItem) (*entity.ChatMessage, error) {
	if !hasContent(content) {
		return nil, ErrEmptyMessage
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := ensureSession(ctx, uow, sessionId); err != nil {
		return nil, err
	}

	index, err := uow.ChatMessageRepository().NextIndex(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	message := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      role,
		Content:   content,
		Index:     index,
		Version:   1,
		CreatedAt: now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, sessionId, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.MessageCreated, map[string]interface{}{
		"session_id": sessionId.String(),
		"index":      message.Index,
		"role":       message.Role,
	})
	return message, nil
}

func (s *messageService) List(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := ensureSession(ctx, uow, sessionId); err != nil {
		return nil, err
	}

	return uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ByMessageOrder(),
	)
}

func (s *messageService) Delete(ctx context.Context, sessionId uuid.UUID, index int) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := ensureSession(ctx, uow, sessionId); err != nil {
		return err
	}

	deleted, err := uow.ChatMessageRepository().DeleteByIndex(ctx, sessionId, index)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMessageNotFound
	}

	if err := uow.ChatMessageRepository().ShiftIndexesDown(ctx, sessionId, index); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, sessionId, time.Now()); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.changed(ctx, sessionId)
	return nil
}

func (s *messageService) TruncateFrom(ctx context.Context, sessionId uuid.UUID, index int) (int64, error) {
	if index < 0 {
		index = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	if err := ensureSession(ctx, uow, sessionId); err != nil {
		return 0, err
	}

	deleted, err := uow.ChatMessageRepository().DeleteFromIndex(ctx, sessionId, index)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		if err := uow.ChatSessionRepository().Touch(ctx, sessionId, time.Now()); err != nil {
			return 0, err
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.changed(ctx, sessionId)
	}
	return deleted, nil
}

// Edit replaces a user message in place. Everything after it is dropped since
// the later turns answered the old text.
func (s *messageService) Edit(ctx context.Context, sessionId uuid.UUID, index int, content []entity.ContentItem) (*entity.ChatMessage, error) {
	if !hasContent(content) {
		return nil, ErrEmptyMessage
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := ensureSession(ctx, uow, sessionId); err != nil {
		return nil, err
	}

	original, err := uow.ChatMessageRepository().FindOne(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ByMessageIndex{Index: index},
	)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, ErrMessageNotFound
	}
	if original.Role != entity.RoleUser {
		return nil, ErrOnlyUserEditable
	}

	removed, err := uow.ChatMessageRepository().DeleteFromIndex(ctx, sessionId, index)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	edited := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      entity.RoleUser,
		Content:   content,
		Index:     index,
		Version:   original.Version + 1,
		CreatedAt: now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, edited); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, sessionId, now); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("MESSAGE", "Message edited", map[string]interface{}{
		"session_id": sessionId.String(),
		"index":      index,
		"version":    edited.Version,
		"dropped":    removed - 1,
	})
	s.changed(ctx, sessionId)
	return edited, nil
}
