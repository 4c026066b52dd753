package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultSessionTitle = "New Chat"

type ChatSession struct {
	Id         uuid.UUID
	Title      string
	CreatedAt  time.Time
	LastActive time.Time
	IsPrivate  bool
	Config     LLMConfig
	TemplateId *uuid.UUID
}

// HasDefaultTitle reports whether the title was never generated or set.
func (s *ChatSession) HasDefaultTitle() bool {
	return s.Title == "" || s.Title == DefaultSessionTitle
}
