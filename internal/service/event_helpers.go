package service

import (
	"context"

	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/pkg/events"
)

// publishEvent never fails the caller; a lost UI refresh is only logged.
func publishEvent(ctx context.Context, pub events.Publisher, log logger.ILogger, eventType string, data map[string]interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(context.WithoutCancel(ctx), events.New(eventType, data)); err != nil {
		log.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
