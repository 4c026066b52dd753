// Package echo is an offline provider that answers with the last user
// message. It needs no credentials and is used for local development.
package echo

import (
	"context"
	"strings"
	"time"

	"rocktalk-be/pkg/llm"
)

type Provider struct {
	delay time.Duration
}

var _ llm.LLMProvider = &Provider{}

// NewProvider returns an echo provider. delay is slept between streamed words.
func NewProvider(delay time.Duration) *Provider {
	return &Provider{delay: delay}
}

func reply(history []llm.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			text := strings.TrimSpace(history[i].Content)
			if text == "" && len(history[i].Images) > 0 {
				text = "[image]"
			}
			return "Echo: " + text
		}
	}
	return "Echo:"
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return truncate(reply(history), options...), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func (p *Provider) Stream(ctx context.Context, history []llm.Message, onChunk llm.ChunkHandler, options ...llm.Option) (string, error) {
	text := truncate(reply(history), options...)

	var full strings.Builder
	words := strings.SplitAfter(text, " ")
	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return full.String(), err
		}
		full.WriteString(w)
		if err := onChunk(w); err != nil {
			return full.String(), err
		}
		if p.delay > 0 {
			select {
			case <-ctx.Done():
				return full.String(), ctx.Err()
			case <-time.After(p.delay):
			}
		}
	}
	return full.String(), nil
}

// truncate treats MaxTokens as a word budget.
func truncate(text string, options ...llm.Option) string {
	opts := llm.Apply(llm.Options{}, options...)
	if opts.MaxTokens <= 0 {
		return text
	}
	words := strings.SplitAfter(text, " ")
	if len(words) <= opts.MaxTokens {
		return text
	}
	return strings.TrimSpace(strings.Join(words[:opts.MaxTokens], ""))
}
