package logging

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LogsRequestWithID(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)

	var scoped bool
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(Middleware(base))
	app.Get("/ping", func(c *fiber.Ctx) error {
		_, scoped = c.Locals(loggerKey).(zerolog.Logger)
		return c.SendString("pong")
	})

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, scoped)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, "/ping", line["path"])
	assert.EqualValues(t, 200, line["status"])
}

func TestMiddleware_FiberErrorStatus(t *testing.T) {
	var buf bytes.Buffer

	app := fiber.New()
	app.Use(Middleware(zerolog.New(&buf)))
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "error", line["level"])
	assert.EqualValues(t, 503, line["status"])
}

func TestFromCtx_Fallback(t *testing.T) {
	var buf bytes.Buffer
	fallback := zerolog.New(&buf)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		logger := FromCtx(c, fallback)
		logger.Info().Msg("hello")
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("debug", "json").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("", "console").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("nonsense", "json").GetLevel())
}
