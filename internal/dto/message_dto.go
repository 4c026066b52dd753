package dto

import (
	"time"

	"rocktalk-be/internal/entity"

	"github.com/google/uuid"
)

// SendMessageRequest accepts either structured Content or a plain Text shortcut.
type SendMessageRequest struct {
	Text    string               `json:"text"`
	Content []entity.ContentItem `json:"content" validate:"omitempty,dive"`
}

// Items merges Text into Content.
func (r *SendMessageRequest) Items() []entity.ContentItem {
	items := make([]entity.ContentItem, 0, len(r.Content)+1)
	if r.Text != "" {
		items = append(items, entity.ContentItem{Type: entity.ContentTypeText, Text: r.Text})
	}
	return append(items, r.Content...)
}

type EditMessageRequest struct {
	Index int `json:"-"`
	SendMessageRequest
}

type MessageResponse struct {
	Id        uuid.UUID            `json:"id"`
	SessionId uuid.UUID            `json:"session_id"`
	Role      string               `json:"role"`
	Content   []entity.ContentItem `json:"content"`
	Text      string               `json:"text"`
	Index     int                  `json:"index"`
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"created_at"`
}

type ChatReplyResponse struct {
	SessionId uuid.UUID        `json:"session_id"`
	Title     string           `json:"title"`
	Sent      *MessageResponse `json:"sent,omitempty"`
	Reply     *MessageResponse `json:"reply"`
	// Partial is set when the generation was cancelled before it finished.
	Partial bool `json:"partial"`
}

type TitleResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Title     string    `json:"title"`
}

type TruncateResponse struct {
	Deleted int64 `json:"deleted"`
}

type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

func NewMessageResponse(m *entity.ChatMessage) *MessageResponse {
	return &MessageResponse{
		Id:        m.Id,
		SessionId: m.SessionId,
		Role:      m.Role,
		Content:   m.Content,
		Text:      m.Text(),
		Index:     m.Index,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
	}
}

func NewMessageResponses(messages []*entity.ChatMessage) []*MessageResponse {
	res := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, NewMessageResponse(m))
	}
	return res
}

// PublishTitleMessage is the payload of an async title generation job.
type PublishTitleMessage struct {
	SessionId string `json:"session_id"`
}
