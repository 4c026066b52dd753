package service

import (
	"context"
	"encoding/json"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IConsumerService runs the async title generation jobs.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	titleService ITitleService
	logger       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	titleService ITitleService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		titleService: titleService,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishTitleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal title job", map[string]interface{}{"error": err.Error()})
		// malformed jobs would be redelivered forever
		msg.Ack()
		return
	}

	sessionId, err := uuid.Parse(payload.SessionId)
	if err != nil {
		cs.logger.Error("CONSUMER", "Invalid session id in title job", map[string]interface{}{"session_id": payload.SessionId})
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to load session", map[string]interface{}{"session_id": payload.SessionId, "error": err.Error()})
		msg.Ack()
		return
	}
	// deleted or renamed in the meantime
	if session == nil || !session.HasDefaultTitle() {
		msg.Ack()
		return
	}

	res, err := cs.titleService.Generate(ctx, sessionId)
	if err != nil {
		cs.logger.Error("CONSUMER", "Title generation failed", map[string]interface{}{"session_id": payload.SessionId, "error": err.Error()})
		msg.Ack()
		return
	}

	cs.logger.Info("CONSUMER", "Session title generated", map[string]interface{}{
		"session_id": payload.SessionId,
		"title":      res.Title,
	})
	msg.Ack()
}
