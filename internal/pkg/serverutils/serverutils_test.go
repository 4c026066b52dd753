package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("thing not found")

type createThing struct {
	Name  string  `json:"name" validate:"required,max=5"`
	Score float64 `json:"score" validate:"gte=0,lte=2"`
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(func(err error) (int, bool) {
		if errors.Is(err, errMissing) {
			return fiber.StatusNotFound, true
		}
		return 0, false
	}))
	app.Get("/missing", func(ctx *fiber.Ctx) error { return errMissing })
	app.Get("/boom", func(ctx *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/teapot", func(ctx *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/invalid", func(ctx *fiber.Ctx) error {
		return ValidateRequest(createThing{Name: "toolong", Score: 3})
	})
	return app
}

func decode(t *testing.T, body io.Reader) BaseResponse[map[string]string] {
	t.Helper()
	var res BaseResponse[map[string]string]
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		path   string
		status int
	}{
		{"/missing", fiber.StatusNotFound},
		{"/boom", fiber.StatusInternalServerError},
		{"/teapot", fiber.StatusTeapot},
		{"/invalid", fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			res := decode(t, resp.Body)
			assert.False(t, res.Success)
			assert.Equal(t, tt.status, res.Code)
		})
	}
}

func TestValidateRequestFields(t *testing.T) {
	err := ValidateRequest(createThing{Name: "toolong", Score: 3})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "must be at most 5", vErr.Fields["Name"])
	assert.Equal(t, "must be <= 2", vErr.Fields["Score"])

	assert.NoError(t, ValidateRequest(createThing{Name: "ok", Score: 1}))
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(NewJwtMiddleware("secret", true))
	app.Get("/me", func(ctx *fiber.Ctx) error {
		return ctx.SendString(ctx.Locals("username").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, _, err := GenerateToken("secret", "admin", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "admin", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/me?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	other, _, err := GenerateToken("other", "admin", time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareDisabled(t *testing.T) {
	app := fiber.New()
	app.Use(NewJwtMiddleware("", false))
	app.Get("/open", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
