package llm

import (
	"context"
)

// ImagePart is an inline image attached to a message.
type ImagePart struct {
	Format string // png, jpeg, gif, webp
	Data   string // base64, no data: prefix
}

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
	Images  []ImagePart
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature   *float64
	TopP          *float64
	TopK          *int
	MaxTokens     int
	StopSequences []string
	Model         string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithTopP(p float64) Option {
	return func(o *Options) {
		o.TopP = &p
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = &k
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithStopSequences(stop []string) Option {
	return func(o *Options) {
		o.StopSequences = stop
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply builds Options from opts over the given defaults.
func Apply(defaults Options, opts ...Option) Options {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ChunkHandler receives streamed text deltas. Returning an error stops the stream.
type ChunkHandler func(chunk string) error

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// Stream sends a chat history and delivers the response incrementally.
	// It returns the full text received before the stream ended.
	Stream(ctx context.Context, history []Message, onChunk ChunkHandler, options ...Option) (string, error)
}
