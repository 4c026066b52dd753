package service

import (
	"fmt"

	"rocktalk-be/internal/entity"
	"rocktalk-be/pkg/llm"
)

// BuiltinConfig is used when neither the request nor any template supplies one.
func BuiltinConfig(modelID string, maxTokens int) entity.LLMConfig {
	if maxTokens <= 0 || maxTokens > llm.MaxOutputTokens(modelID) {
		maxTokens = llm.MaxOutputTokens(modelID)
	}
	return entity.LLMConfig{
		ModelId:         modelID,
		Temperature:     0.5,
		TopP:            0.9,
		MaxOutputTokens: maxTokens,
		SystemPrompt:    "You are a helpful, concise assistant.",
	}
}

// validateConfig checks the ranges the model accepts. Field-level tags are
// checked on requests; this also guards imports and service callers.
func validateConfig(cfg entity.LLMConfig) error {
	switch {
	case cfg.ModelId == "":
		return fmt.Errorf("%w: model_id is required", ErrInvalidConfig)
	case cfg.Temperature < 0 || cfg.Temperature > 2:
		return fmt.Errorf("%w: temperature must be within 0..2", ErrInvalidConfig)
	case cfg.TopP < 0 || cfg.TopP > 1:
		return fmt.Errorf("%w: top_p must be within 0..1", ErrInvalidConfig)
	case cfg.TopK != nil && *cfg.TopK < 0:
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidConfig)
	case cfg.MaxOutputTokens < 1:
		return fmt.Errorf("%w: max_output_tokens must be at least 1", ErrInvalidConfig)
	}

	if limit := llm.MaxOutputTokens(cfg.ModelId); cfg.MaxOutputTokens > limit {
		return fmt.Errorf("%w: max_output_tokens %d exceeds %d for %s", ErrInvalidConfig, cfg.MaxOutputTokens, limit, cfg.ModelId)
	}
	return nil
}

func llmOptions(cfg entity.LLMConfig) []llm.Option {
	opts := []llm.Option{
		llm.WithModel(cfg.ModelId),
		llm.WithTemperature(cfg.Temperature),
		llm.WithTopP(cfg.TopP),
		llm.WithMaxTokens(cfg.MaxOutputTokens),
	}
	if cfg.TopK != nil {
		opts = append(opts, llm.WithTopK(*cfg.TopK))
	}
	if len(cfg.StopSequences) > 0 {
		opts = append(opts, llm.WithStopSequences(cfg.StopSequences))
	}
	return opts
}

// llmHistory turns stored messages into provider messages, prefixed by the
// system prompt when one is set.
func llmHistory(cfg entity.LLMConfig, messages []*entity.ChatMessage) []llm.Message {
	history := make([]llm.Message, 0, len(messages)+1)
	if cfg.SystemPrompt != "" {
		history = append(history, llm.Message{Role: entity.RoleSystem, Content: cfg.SystemPrompt})
	}
	for _, m := range messages {
		msg := llm.Message{Role: m.Role, Content: m.Text()}
		for _, item := range m.Content {
			if item.Type == entity.ContentTypeImage {
				msg.Images = append(msg.Images, llm.ImagePart{Format: item.Format, Data: item.Data})
			}
		}
		history = append(history, msg)
	}
	return history
}
