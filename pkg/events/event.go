package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	SessionCreated  = "session.created"
	SessionUpdated  = "session.updated"
	SessionDeleted  = "session.deleted"
	MessageCreated  = "message.created"
	MessagesChanged = "message.changed"
	TemplateChanged = "template.changed"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the dotted event code, e.g. "session.updated".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Marshal encodes any Event as a BaseEvent envelope.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events to whoever is listening (websocket clients, a bus).
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

// NopPublisher drops every event.
func NopPublisher() Publisher {
	return nopPublisher{}
}
