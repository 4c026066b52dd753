package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/internal/tracer"
	"rocktalk-be/pkg/events"
	"rocktalk-be/pkg/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

const (
	titleMaxWords = 5
	titleMaxRunes = 40
	// only the opening exchange is sent to the model
	titleContextMessages = 4
	titleContextRunes    = 1500
)

const titlePrompt = `Summarize the topic of the following conversation as a short title of at most 5 words (about 40 characters).
Reply with the title only: no quotes, no punctuation at the end, no explanation.

Conversation:
%s`

type ITitleService interface {
	Generate(ctx context.Context, sessionId uuid.UUID) (*dto.TitleResponse, error)
}

type titleService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	titleModel  string
	publisher   events.Publisher
	logger      logger.ILogger
}

func NewTitleService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	titleModel string,
	publisher events.Publisher,
	log logger.ILogger,
) ITitleService {
	return &titleService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		titleModel:  titleModel,
		publisher:   publisher,
		logger:      log,
	}
}

// Generate asks the model for a title. Any failure falls back to a timestamped
// title so the session never stays "New Chat".
func (s *titleService) Generate(ctx context.Context, sessionId uuid.UUID) (*dto.TitleResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.ByMessageOrder(),
		specification.Pagination{Limit: titleContextMessages},
	)
	if err != nil {
		return nil, err
	}

	title, err := s.ask(ctx, session, messages)
	if err != nil || title == "" {
		s.logger.Warn("TITLE", "Title generation failed, using fallback", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      fmt.Sprint(err),
		})
		title = FallbackTitle(time.Now())
	}

	updated, err := uow.ChatSessionRepository().UpdateTitle(ctx, sessionId, session.Title, title)
	if err != nil {
		return nil, err
	}
	if !updated {
		current, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrSessionNotFound
		}
		s.logger.Info("TITLE", "Session renamed while generating, keeping current title", map[string]interface{}{
			"session_id": sessionId.String(),
		})
		return &dto.TitleResponse{SessionId: sessionId, Title: current.Title}, nil
	}

	publishEvent(ctx, s.publisher, s.logger, events.SessionUpdated, map[string]interface{}{
		"session_id": sessionId.String(),
		"title":      title,
	})

	return &dto.TitleResponse{SessionId: sessionId, Title: title}, nil
}

func (s *titleService) ask(ctx context.Context, session *entity.ChatSession, messages []*entity.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyMessage
	}

	var transcript strings.Builder
	for _, m := range messages {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Role, m.Text())
	}
	conversation := []rune(transcript.String())
	if len(conversation) > titleContextRunes {
		conversation = conversation[:titleContextRunes]
	}

	model := s.titleModel
	if model == "" {
		model = session.Config.ModelId
	}

	ctx, span := tracer.Tracer().Start(ctx, "llm.title")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", session.Id.String()),
		attribute.String("llm.model", model),
	)

	raw, err := s.llmProvider.Generate(ctx, fmt.Sprintf(titlePrompt, string(conversation)),
		llm.WithModel(model),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(20),
	)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return CleanTitle(raw), nil
}

// CleanTitle keeps the first line of a model reply, strips quoting and caps it
// at five words and about forty characters.
func CleanTitle(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimPrefix(line, "Title:")
	line = strings.Trim(line, " \t\"'`*#")
	line = strings.TrimRightFunc(line, func(r rune) bool { return unicode.IsPunct(r) && r != ')' })

	words := strings.Fields(line)
	if len(words) > titleMaxWords {
		words = words[:titleMaxWords]
	}

	title := ""
	for _, w := range words {
		candidate := strings.TrimSpace(title + " " + w)
		if len([]rune(candidate)) > titleMaxRunes {
			break
		}
		title = candidate
	}
	if title == "" && len(words) > 0 {
		r := []rune(words[0])
		if len(r) > titleMaxRunes {
			r = r[:titleMaxRunes]
		}
		title = string(r)
	}
	return title
}

func FallbackTitle(at time.Time) string {
	return "Chat " + at.Format("2006-01-02 15:04")
}
