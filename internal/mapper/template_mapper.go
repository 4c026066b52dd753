package mapper

import (
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/model"
)

type TemplateMapper struct{}

func NewTemplateMapper() *TemplateMapper {
	return &TemplateMapper{}
}

func (m *TemplateMapper) ToEntity(t *model.ChatTemplate) *entity.ChatTemplate {
	if t == nil {
		return nil
	}
	return &entity.ChatTemplate{
		Id:          t.Id,
		Name:        t.Name,
		Description: t.Description,
		Config:      decodeConfig(t.Config),
		IsDefault:   t.IsDefault,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *TemplateMapper) ToModel(t *entity.ChatTemplate) *model.ChatTemplate {
	if t == nil {
		return nil
	}
	return &model.ChatTemplate{
		Id:          t.Id,
		Name:        t.Name,
		Description: t.Description,
		Config:      encodeJSON(t.Config),
		IsDefault:   t.IsDefault,
		Version:     t.Version,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (m *TemplateMapper) ToEntities(models []*model.ChatTemplate) []*entity.ChatTemplate {
	out := make([]*entity.ChatTemplate, len(models))
	for i, t := range models {
		out[i] = m.ToEntity(t)
	}
	return out
}
