package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

const loggerKey = "logger"

// Middleware writes one structured access log line per request and stores a
// request-scoped logger in the fiber context. It expects requestid to run first.
func Middleware(base zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		l := base.With().Str("request_id", reqID).Logger()
		c.Locals(loggerKey, l)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency_ms", float64(time.Since(start))/float64(time.Millisecond)).
			Str("ip", c.IP()).
			Msg("http request")

		return err
	}
}

// FromCtx returns the request-scoped logger, or fallback outside Middleware.
func FromCtx(c *fiber.Ctx, fallback zerolog.Logger) zerolog.Logger {
	if l, ok := c.Locals(loggerKey).(zerolog.Logger); ok {
		return l
	}
	return fallback
}
