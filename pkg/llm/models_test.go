package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxOutputTokens(t *testing.T) {
	assert.Equal(t, 16384, MaxOutputTokens("gpt-4o"))
	assert.Equal(t, 2048, MaxOutputTokens("llama3:8b"))
	assert.Equal(t, DefaultMaxOutputTokens, MaxOutputTokens("unknown-model"))
}

func TestApplyOptions(t *testing.T) {
	o := Apply(Options{Model: "base"}, WithModel("override"), WithTopP(0.5))
	assert.Equal(t, "override", o.Model)
	assert.NotNil(t, o.TopP)
	assert.Nil(t, o.Temperature)
}

func TestAPIErrorTruncatesBody(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	err := NewAPIError("p", 500, string(long))
	assert.Len(t, err.Body, 512)
	assert.False(t, errors.Is(err, ErrRateLimited))
}
