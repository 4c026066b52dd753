package service

import (
	"context"

	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/pkg/events"
	pktNats "rocktalk-be/pkg/nats"
)

// EventDelivery pushes an event to the clients connected to this instance.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	Broadcast(event events.Event) error
}

// EventRelayService forwards domain events from the NATS bus to local
// websocket clients. Every instance runs its own consumer so each one sees
// every event.
type EventRelayService struct {
	subscriber *pktNats.Subscriber
	delivery   EventDelivery
	durable    string
	logger     logger.ILogger
}

func NewEventRelayService(sub *pktNats.Subscriber, delivery EventDelivery, instanceID string, log logger.ILogger) *EventRelayService {
	return &EventRelayService{
		subscriber: sub,
		delivery:   delivery,
		durable:    "ws-relay-" + instanceID,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *EventRelayService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", s.durable, s.handleEvent); err != nil {
		s.logger.Error("EVENT_RELAY", "Failed to start event relay", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("EVENT_RELAY", "Relaying events to websocket clients", map[string]interface{}{"durable": s.durable})
	return nil
}

func (s *EventRelayService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Debug("EVENT_RELAY", "Relaying event", map[string]interface{}{"type": event.EventType()})
	return s.delivery.Broadcast(event)
}
