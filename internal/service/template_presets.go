package service

import (
	"rocktalk-be/internal/entity"
	"rocktalk-be/pkg/llm"
)

type PresetTemplate struct {
	Name        string
	Description string
	Config      entity.LLMConfig
}

// PresetTemplates returns the templates stored on first start. The first one
// becomes the default.
func PresetTemplates(modelID string) []PresetTemplate {
	maxTokens := llm.MaxOutputTokens(modelID)

	return []PresetTemplate{
		{
			Name:        "Balanced",
			Description: "General purpose assistant with moderate creativity.",
			Config: entity.LLMConfig{
				ModelId:         modelID,
				Temperature:     0.5,
				TopP:            0.9,
				MaxOutputTokens: maxTokens,
				SystemPrompt:    "You are a helpful, concise assistant.",
			},
		},
		{
			Name:        "Creative",
			Description: "Higher temperature for brainstorming and writing.",
			Config: entity.LLMConfig{
				ModelId:         modelID,
				Temperature:     1.0,
				TopP:            1.0,
				MaxOutputTokens: maxTokens,
				SystemPrompt:    "You are a creative writing partner. Offer varied, original ideas.",
			},
		},
		{
			Name:        "Precise",
			Description: "Low temperature for factual answers and code.",
			Config: entity.LLMConfig{
				ModelId:         modelID,
				Temperature:     0.1,
				TopP:            0.5,
				MaxOutputTokens: maxTokens,
				SystemPrompt:    "You are a precise technical assistant. Answer accurately and say when you are unsure.",
			},
		},
	}
}
