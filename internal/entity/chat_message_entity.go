package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// ContentItem is one part of a message. Text items carry Text, image items
// carry a base64 payload in Data and its Format (png, jpeg, ...).
type ContentItem struct {
	Type   string `json:"type" validate:"oneof=text image"`
	Text   string `json:"text,omitempty"`
	Format string `json:"format,omitempty"`
	Data   string `json:"data,omitempty"`
}

type ChatMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   []ContentItem
	Index     int
	Version   int
	CreatedAt time.Time
}

func TextContent(text string) []ContentItem {
	return []ContentItem{{Type: ContentTypeText, Text: text}}
}

// Text joins the text items of the message.
func (m *ChatMessage) Text() string {
	return JoinText(m.Content)
}

func (m *ChatMessage) HasImages() bool {
	for _, item := range m.Content {
		if item.Type == ContentTypeImage {
			return true
		}
	}
	return false
}

func JoinText(items []ContentItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == ContentTypeText && item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n")
}
