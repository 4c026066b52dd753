package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"rocktalk-be/internal/bootstrap"
	"rocktalk-be/internal/config"
	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/pkg/serverutils"
	"rocktalk-be/internal/pkg/testdb"
	"rocktalk-be/internal/server"
	"rocktalk-be/pkg/llm/echo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			DataDir:            t.TempDir(),
			CorsAllowedOrigins: "*",
		},
		LLM: config.LLMConfig{
			Provider:         "echo",
			Model:            "gpt-4o-mini",
			TitleGenTopic:    "TEST_TITLES",
			DefaultMaxTokens: 4096,
		},
	}

	container, err := bootstrap.NewContainer(testdb.New(t), cfg, bootstrap.Options{
		Provider: echo.NewProvider(0),
		Logger:   logger.NewNopLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, container.Start(ctx))
	t.Cleanup(func() {
		cancel()
		container.Close()
	})

	return server.New(cfg, container).GetApp()
}

func call[T any](t *testing.T, app *fiber.App, method, path string, body interface{}) (int, serverutils.BaseResponse[T]) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.BaseResponse[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	app := newTestServer(t)

	status, res := call[map[string]interface{}](t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", res.Data["status"])
}

func TestConversationFlow(t *testing.T) {
	app := newTestServer(t)

	status, templates := call[[]dto.TemplateResponse](t, app, http.MethodGet, "/api/template/v1", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, templates.Data, 3)

	status, created := call[dto.SessionResponse](t, app, http.MethodPost, "/api/session/v1", dto.CreateSessionRequest{})
	require.Equal(t, fiber.StatusCreated, status)
	sessionPath := "/api/chat/v1/sessions/" + created.Data.Id.String()

	status, reply := call[dto.ChatReplyResponse](t, app, http.MethodPost, sessionPath+"/messages", dto.SendMessageRequest{Text: "hello there"})
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, reply.Data.Reply)
	assert.Equal(t, "Echo: hello there", reply.Data.Reply.Text)
	assert.Equal(t, 1, reply.Data.Reply.Index)

	status, messages := call[[]dto.MessageResponse](t, app, http.MethodGet, sessionPath+"/messages", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, messages.Data, 2)
	assert.Equal(t, "user", messages.Data[0].Role)

	status, found := call[dto.SearchResponse](t, app, http.MethodGet, "/api/search/v1?q=hello", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, found.Data.Results, 1)
	assert.Equal(t, created.Data.Id, found.Data.Results[0].Session.Id)
}

func TestErrorStatuses(t *testing.T) {
	app := newTestServer(t)

	status, _ := call[any](t, app, http.MethodGet, "/api/session/v1/"+uuid.NewString(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call[any](t, app, http.MethodGet, "/api/session/v1/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call[any](t, app, http.MethodDelete, "/api/session/v1", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, defaults := call[dto.TemplateResponse](t, app, http.MethodGet, "/api/template/v1/default", nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = call[any](t, app, http.MethodDelete, "/api/template/v1/"+defaults.Data.Id.String(), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = call[any](t, app, http.MethodPost, "/api/auth/v1/login", dto.LoginRequest{Username: "a", Password: "b"})
	assert.Equal(t, fiber.StatusNotFound, status)
}
