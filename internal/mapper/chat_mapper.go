package mapper

import (
	"encoding/json"
	"strings"

	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	return &entity.ChatSession{
		Id:         s.Id,
		Title:      s.Title,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
		IsPrivate:  s.IsPrivate,
		Config:     decodeConfig(s.Config),
		TemplateId: s.TemplateId,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	return &model.ChatSession{
		Id:         s.Id,
		Title:      s.Title,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
		IsPrivate:  s.IsPrivate,
		Config:     encodeJSON(s.Config),
		TemplateId: s.TemplateId,
	}
}

func (m *ChatMapper) ChatSessionsToEntities(models []*model.ChatSession) []*entity.ChatSession {
	entities := make([]*entity.ChatSession, len(models))
	for i, s := range models {
		entities[i] = m.ChatSessionToEntity(s)
	}
	return entities
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var content []entity.ContentItem
	if len(msg.Content) > 0 {
		if err := json.Unmarshal(msg.Content, &content); err != nil {
			// Rows written as a bare JSON string by older exports.
			var text string
			if json.Unmarshal(msg.Content, &text) == nil {
				content = entity.TextContent(text)
			}
		}
	}

	return &entity.ChatMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   content,
		Index:     msg.Index,
		Version:   msg.Version,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	content := msg.Content
	if content == nil {
		content = []entity.ContentItem{}
	}

	return &model.ChatMessage{
		Id:         msg.Id,
		SessionId:  msg.SessionId,
		Role:       msg.Role,
		Content:    encodeJSON(content),
		SearchText: strings.ToLower(entity.JoinText(content)),
		Index:      msg.Index,
		Version:    msg.Version,
		CreatedAt:  msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessagesToEntities(models []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(models))
	for i, msg := range models {
		entities[i] = m.ChatMessageToEntity(msg)
	}
	return entities
}

func decodeConfig(raw datatypes.JSON) entity.LLMConfig {
	var cfg entity.LLMConfig
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &cfg)
	}
	return cfg
}

func encodeJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}
