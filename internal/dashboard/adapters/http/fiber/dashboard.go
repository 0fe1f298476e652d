package fiber

import (
	"context"

	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Dashboard is the per-session controller the handlers drive.
type Dashboard interface {
	EnsureInit(ctx context.Context) error
	LoginURL(state string) string
	Login(ctx context.Context, code string) error
	Logout(ctx context.Context) error
	Select(in usecase.SelectInput) error
	FetchInsights(ctx context.Context) error
	Snapshot() domain.State
}

// LookupFunc resolves the dashboard of a browser session id.
type LookupFunc func(sessionID string) Dashboard

const (
	dashboardKey  = "dashboard"
	lookupKey     = "dashboard_lookup"
	sessionKey    = "session"
	oauthStateKey = "oauth_state"
)

// SessionMiddleware binds the caller's session into the context and persists
// it after the handler ran. The dashboard is resolved on first use only, so
// requests that never touch it do not allocate one.
func SessionMiddleware(store *session.Store, lookup LookupFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "session unavailable")
		}
		c.Locals(sessionKey, sess)
		c.Locals(lookupKey, lookup)

		if err := c.Next(); err != nil {
			return err
		}
		return sess.Save()
	}
}

func dashboardFrom(c *fiber.Ctx) Dashboard {
	if d, ok := c.Locals(dashboardKey).(Dashboard); ok {
		return d
	}
	lookup, _ := c.Locals(lookupKey).(LookupFunc)
	sess := sessionFrom(c)
	if lookup == nil || sess == nil {
		return nil
	}
	d := lookup(sess.ID())
	c.Locals(dashboardKey, d)
	return d
}

func sessionFrom(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(sessionKey).(*session.Session)
	return s
}
