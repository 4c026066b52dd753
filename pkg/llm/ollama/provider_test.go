package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rocktalk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaStream(t *testing.T) {
	var req ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"Hi"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":" there"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)
	var chunks []string
	full, err := p.Stream(context.Background(),
		[]llm.Message{{Role: "model", Content: "prev"}, {Role: "user", Content: "hello", Images: []llm.ImagePart{{Format: "png", Data: "QUJD"}}}},
		func(c string) error { chunks = append(chunks, c); return nil },
		llm.WithTopK(20), llm.WithMaxTokens(10))
	require.NoError(t, err)

	assert.Equal(t, "Hi there", full)
	assert.Equal(t, []string{"Hi", " there"}, chunks)
	assert.True(t, req.Stream)
	assert.Equal(t, "assistant", req.Messages[0].Role)
	assert.Equal(t, []string{"QUJD"}, req.Messages[1].Images)
	require.NotNil(t, req.Options.TopK)
	assert.Equal(t, 20, *req.Options.TopK)
	assert.Equal(t, 10, req.Options.NumPredict)
}

func TestOllamaChatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", time.Second)
	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "x"}})
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestOllamaStreamOutlivesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for i := 0; i < 5; i++ {
			fmt.Fprintf(w, "{\"message\":{\"role\":\"assistant\",\"content\":\"c%d\"},\"done\":false}\n", i)
			flusher.Flush()
			time.Sleep(100 * time.Millisecond)
		}
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", 250*time.Millisecond)
	full, err := p.Stream(context.Background(), []llm.Message{{Role: "user", Content: "x"}}, func(string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, "c0c1c2c3c4", full)
}
