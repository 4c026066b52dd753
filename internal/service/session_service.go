package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/pkg/events"
	"rocktalk-be/pkg/timegroup"

	"github.com/google/uuid"
)

const defaultRecentLimit = 50

type ISessionService interface {
	Create(ctx context.Context, request *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionDetailResponse, error)
	ListRecent(ctx context.Context, limit int, includePrivate bool) ([]*dto.SessionResponse, error)
	ListGrouped(ctx context.Context, includePrivate bool) ([]*dto.SessionGroupResponse, error)
	ListByDateRange(ctx context.Context, request *dto.SessionRangeRequest) ([]*dto.SessionResponse, error)
	Update(ctx context.Context, request *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Rename(ctx context.Context, id uuid.UUID, title string) (*dto.SessionResponse, error)
	ApplyTemplate(ctx context.Context, sessionId, templateId uuid.UUID) (*dto.SessionResponse, error)
	Duplicate(ctx context.Context, request *dto.DuplicateSessionRequest) (*dto.SessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
	ToggleVisibility(ctx context.Context, request *dto.ToggleVisibilityRequest) (*dto.ToggleVisibilityResponse, error)
}

type sessionService struct {
	uowFactory    unitofwork.RepositoryFactory
	publisher     events.Publisher
	logger        logger.ILogger
	builtinConfig entity.LLMConfig
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	log logger.ILogger,
	builtinConfig entity.LLMConfig,
) ISessionService {
	return &sessionService{
		uowFactory:    uowFactory,
		publisher:     publisher,
		logger:        log,
		builtinConfig: builtinConfig,
	}
}

// resolveConfig picks explicit config, then the requested template, then the
// default template, then the built-in config.
func (s *sessionService) resolveConfig(ctx context.Context, uow unitofwork.UnitOfWork, explicit *entity.LLMConfig, templateId *uuid.UUID) (entity.LLMConfig, *uuid.UUID, error) {
	if explicit != nil {
		if err := validateConfig(*explicit); err != nil {
			return entity.LLMConfig{}, nil, err
		}
		return explicit.Clone(), templateId, nil
	}

	if templateId != nil {
		template, err := uow.ChatTemplateRepository().FindOne(ctx, specification.ByID{ID: *templateId})
		if err != nil {
			return entity.LLMConfig{}, nil, err
		}
		if template == nil {
			return entity.LLMConfig{}, nil, ErrTemplateNotFound
		}
		return template.Config.Clone(), &template.Id, nil
	}

	def, err := uow.ChatTemplateRepository().FindOne(ctx, specification.IsDefault{})
	if err != nil {
		return entity.LLMConfig{}, nil, err
	}
	if def != nil {
		return def.Config.Clone(), &def.Id, nil
	}

	return s.builtinConfig.Clone(), nil, nil
}

func (s *sessionService) findSession(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) Create(ctx context.Context, request *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	config, templateId, err := s.resolveConfig(ctx, uow, request.Config, request.TemplateId)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = entity.DefaultSessionTitle
	}

	now := time.Now().UTC()
	session := &entity.ChatSession{
		Id:         uuid.New(),
		Title:      title,
		CreatedAt:  now,
		LastActive: now,
		IsPrivate:  request.IsPrivate,
		Config:     config,
		TemplateId: templateId,
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.SessionCreated, map[string]interface{}{
		"session_id": session.Id.String(),
		"title":      session.Title,
	})

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: id},
		specification.ByMessageOrder(),
	)
	if err != nil {
		return nil, err
	}

	return &dto.SessionDetailResponse{
		SessionResponse: *dto.NewSessionResponse(session),
		Messages:        dto.NewMessageResponses(messages),
	}, nil
}

func (s *sessionService) ListRecent(ctx context.Context, limit int, includePrivate bool) ([]*dto.SessionResponse, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.VisibleSessions{IncludePrivate: includePrivate},
		specification.RecentFirst(),
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponses(sessions), nil
}

func (s *sessionService) ListGrouped(ctx context.Context, includePrivate bool) ([]*dto.SessionGroupResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.VisibleSessions{IncludePrivate: includePrivate},
		specification.RecentFirst(),
	)
	if err != nil {
		return nil, err
	}

	groups := timegroup.GroupByDate(sessions, func(s *entity.ChatSession) time.Time { return s.LastActive }, time.Now())

	res := make([]*dto.SessionGroupResponse, 0, len(groups))
	for _, g := range groups {
		res = append(res, &dto.SessionGroupResponse{
			Label:    g.Label,
			Sessions: dto.NewSessionResponses(g.Items),
		})
	}
	return res, nil
}

func (s *sessionService) ListByDateRange(ctx context.Context, request *dto.SessionRangeRequest) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.VisibleSessions{IncludePrivate: request.IncludePrivate},
		specification.ActiveBetween{From: request.From, To: request.To},
	)
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponses(sessions), nil
}

func (s *sessionService) Update(ctx context.Context, request *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, request.Id)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		title := strings.TrimSpace(*request.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		session.Title = title
	}
	if request.IsPrivate != nil {
		session.IsPrivate = *request.IsPrivate
	}
	if request.Config != nil {
		if err := validateConfig(*request.Config); err != nil {
			return nil, err
		}
		if !request.Config.Equal(session.Config) {
			session.Config = request.Config.Clone()
			session.TemplateId = nil
		}
	}

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.SessionUpdated, map[string]interface{}{
		"session_id": session.Id.String(),
		"title":      session.Title,
	})

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Rename(ctx context.Context, id uuid.UUID, title string) (*dto.SessionResponse, error) {
	return s.Update(ctx, &dto.UpdateSessionRequest{Id: id, Title: &title})
}

// ApplyTemplate copies the template's model settings but keeps the session's
// own system prompt.
func (s *sessionService) ApplyTemplate(ctx context.Context, sessionId, templateId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findSession(ctx, uow, sessionId)
	if err != nil {
		return nil, err
	}

	template, err := uow.ChatTemplateRepository().FindOne(ctx, specification.ByID{ID: templateId})
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	config := template.Config.Clone()
	config.SystemPrompt = session.Config.SystemPrompt
	session.Config = config
	session.TemplateId = &template.Id

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.SessionUpdated, map[string]interface{}{
		"session_id":  session.Id.String(),
		"template_id": template.Id.String(),
	})

	return dto.NewSessionResponse(session), nil
}

func (s *sessionService) Duplicate(ctx context.Context, request *dto.DuplicateSessionRequest) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	source, err := s.findSession(ctx, uow, request.Id)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s (copy)", source.Title)
	if request.Title != nil && strings.TrimSpace(*request.Title) != "" {
		title = strings.TrimSpace(*request.Title)
	}

	config, templateId := source.Config.Clone(), source.TemplateId
	if !request.CopySettings {
		config, templateId, err = s.resolveConfig(ctx, uow, nil, nil)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	copied := &entity.ChatSession{
		Id:         uuid.New(),
		Title:      title,
		CreatedAt:  now,
		LastActive: now,
		IsPrivate:  source.IsPrivate,
		Config:     config,
		TemplateId: templateId,
	}
	if err := uow.ChatSessionRepository().Create(ctx, copied); err != nil {
		return nil, err
	}

	if request.CopyMessages {
		messages, err := uow.ChatMessageRepository().FindAll(ctx,
			specification.ByChatSessionID{ChatSessionID: source.Id},
			specification.ByMessageOrder(),
		)
		if err != nil {
			return nil, err
		}

		clones := make([]*entity.ChatMessage, 0, len(messages))
		for _, m := range messages {
			clones = append(clones, &entity.ChatMessage{
				Id:        uuid.New(),
				SessionId: copied.Id,
				Role:      m.Role,
				Content:   m.Content,
				Index:     m.Index,
				Version:   m.Version,
				CreatedAt: m.CreatedAt,
			})
		}
		if err := uow.ChatMessageRepository().CreateBulk(ctx, clones); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.publisher, s.logger, events.SessionCreated, map[string]interface{}{
		"session_id": copied.Id.String(),
		"title":      copied.Title,
	})

	return dto.NewSessionResponse(copied), nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	deleted, err := uow.ChatSessionRepository().Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	publishEvent(ctx, s.publisher, s.logger, events.SessionDeleted, map[string]interface{}{
		"session_id": id.String(),
	})
	return nil
}

func (s *sessionService) DeleteAll(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().DeleteAll(ctx); err != nil {
		return err
	}

	s.logger.Info("SESSION", "All sessions deleted", nil)
	publishEvent(ctx, s.publisher, s.logger, events.SessionDeleted, map[string]interface{}{"all": true})
	return nil
}

// ToggleVisibility makes every session public when more than half of them are
// private, otherwise private.
func (s *sessionService) ToggleVisibility(ctx context.Context, request *dto.ToggleVisibilityRequest) (*dto.ToggleVisibilityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sessions, err := uow.ChatSessionRepository().FindAll(ctx, specification.ByIDs{IDs: request.Ids})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrSessionNotFound
	}

	ids := make([]uuid.UUID, 0, len(sessions))
	private := 0
	for _, session := range sessions {
		ids = append(ids, session.Id)
		if session.IsPrivate {
			private++
		}
	}

	makePrivate := private*2 <= len(sessions)
	if err := uow.ChatSessionRepository().SetPrivate(ctx, ids, makePrivate); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		publishEvent(ctx, s.publisher, s.logger, events.SessionUpdated, map[string]interface{}{
			"session_id": id.String(),
			"is_private": makePrivate,
		})
	}

	return &dto.ToggleVisibilityResponse{Ids: ids, IsPrivate: makePrivate}, nil
}
