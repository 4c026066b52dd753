package factory

import (
	"fmt"
	"time"

	"rocktalk-be/pkg/llm"
	"rocktalk-be/pkg/llm/echo"
	"rocktalk-be/pkg/llm/ollama"
	"rocktalk-be/pkg/llm/openai"
)

const (
	HuggingFaceBaseURL = "https://router.huggingface.co/v1"
	OpenRouterBaseURL  = "https://openrouter.ai/api/v1"
)

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	switch cfg.Provider {
	case "openai":
		return openai.NewProvider("openai", cfg.APIKey, cfg.BaseURL, cfg.Model, timeout), nil
	case "openrouter":
		return openai.NewProvider("openrouter", cfg.APIKey, orDefault(cfg.BaseURL, OpenRouterBaseURL), cfg.Model, timeout), nil
	case "huggingface":
		return openai.NewProvider("huggingface", cfg.APIKey, orDefault(cfg.BaseURL, HuggingFaceBaseURL), cfg.Model, timeout), nil
	case "ollama":
		return ollama.NewOllamaProvider(cfg.BaseURL, cfg.Model, timeout), nil
	case "echo":
		return echo.NewProvider(0), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
