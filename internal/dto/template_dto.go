package dto

import (
	"time"

	"rocktalk-be/internal/entity"

	"github.com/google/uuid"
)

type CreateTemplateRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=500"`
	Config      entity.LLMConfig `json:"config"`
	IsDefault   bool             `json:"is_default"`
}

type UpdateTemplateRequest struct {
	Id          uuid.UUID         `json:"-"`
	Name        *string           `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string           `json:"description" validate:"omitempty,max=500"`
	Config      *entity.LLMConfig `json:"config"`
}

type TemplateResponse struct {
	Id          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Config      entity.LLMConfig `json:"config"`
	IsDefault   bool             `json:"is_default"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type MatchTemplateResponse struct {
	Name       string     `json:"name"`
	TemplateId *uuid.UUID `json:"template_id,omitempty"`
}

// TemplateExport is the portable JSON form of a template.
type TemplateExport struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description"`
	Config      entity.LLMConfig `json:"config"`
	Version     int              `json:"version"`
	ExportedAt  time.Time        `json:"exported_at"`
}

func NewTemplateResponse(t *entity.ChatTemplate) *TemplateResponse {
	return &TemplateResponse{
		Id:          t.Id,
		Name:        t.Name,
		Description: t.Description,
		Config:      t.Config,
		IsDefault:   t.IsDefault,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func NewTemplateResponses(templates []*entity.ChatTemplate) []*TemplateResponse {
	res := make([]*TemplateResponse, 0, len(templates))
	for _, t := range templates {
		res = append(res, NewTemplateResponse(t))
	}
	return res
}
