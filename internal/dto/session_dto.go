package dto

import (
	"time"

	"rocktalk-be/internal/entity"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Title      string            `json:"title" validate:"max=200"`
	TemplateId *uuid.UUID        `json:"template_id"`
	Config     *entity.LLMConfig `json:"config"`
	IsPrivate  bool              `json:"is_private"`
}

type UpdateSessionRequest struct {
	Id        uuid.UUID         `json:"-"`
	Title     *string           `json:"title" validate:"omitempty,min=1,max=200"`
	IsPrivate *bool             `json:"is_private"`
	Config    *entity.LLMConfig `json:"config"`
}

type DuplicateSessionRequest struct {
	Id           uuid.UUID `json:"-"`
	Title        *string   `json:"title" validate:"omitempty,min=1,max=200"`
	CopyMessages bool      `json:"copy_messages"`
	CopySettings bool      `json:"copy_settings"`
}

type ToggleVisibilityRequest struct {
	Ids []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type ToggleVisibilityResponse struct {
	Ids       []uuid.UUID `json:"ids"`
	IsPrivate bool        `json:"is_private"`
}

type SessionResponse struct {
	Id         uuid.UUID        `json:"id"`
	Title      string           `json:"title"`
	CreatedAt  time.Time        `json:"created_at"`
	LastActive time.Time        `json:"last_active"`
	IsPrivate  bool             `json:"is_private"`
	Config     entity.LLMConfig `json:"config"`
	TemplateId *uuid.UUID       `json:"template_id,omitempty"`
}

type SessionDetailResponse struct {
	SessionResponse
	Messages []*MessageResponse `json:"messages"`
}

type SessionGroupResponse struct {
	Label    string             `json:"label"`
	Sessions []*SessionResponse `json:"sessions"`
}

func NewSessionResponse(s *entity.ChatSession) *SessionResponse {
	return &SessionResponse{
		Id:         s.Id,
		Title:      s.Title,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
		IsPrivate:  s.IsPrivate,
		Config:     s.Config,
		TemplateId: s.TemplateId,
	}
}

func NewSessionResponses(sessions []*entity.ChatSession) []*SessionResponse {
	res := make([]*SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, NewSessionResponse(s))
	}
	return res
}
