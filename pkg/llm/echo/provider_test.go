package echo

import (
	"context"
	"testing"

	"rocktalk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoChat(t *testing.T) {
	p := NewProvider(0)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: " hello world "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello world", out)
}

func TestEchoStreamRespectsMaxTokens(t *testing.T) {
	p := NewProvider(0)
	var chunks []string
	full, err := p.Stream(context.Background(), []llm.Message{{Role: "user", Content: "one two three four"}},
		func(c string) error { chunks = append(chunks, c); return nil },
		llm.WithMaxTokens(3))
	require.NoError(t, err)
	assert.Equal(t, "Echo: one two", full)
	assert.Equal(t, []string{"Echo: ", "one ", "two"}, chunks)
}

func TestEchoStreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider(0).Stream(ctx, []llm.Message{{Role: "user", Content: "x"}}, func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
