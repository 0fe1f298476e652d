package fiber

import (
	"errors"
	"net/http"

	"page-insights-dashboard/internal/dashboard/core/usecase"
	"page-insights-dashboard/internal/logging"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WebHandler serves the server-rendered dashboard.
type WebHandler struct {
	logger zerolog.Logger
}

func NewWebHandler(logger zerolog.Logger) *WebHandler {
	return &WebHandler{logger: logger.With().Str("component", "web_handler").Logger()}
}

func (h *WebHandler) Register(r fiber.Router) {
	r.Get("/", h.Index)
	r.Get("/login", h.Login)
	r.Get("/auth/callback", h.Callback)
	r.Post("/logout", h.Logout)
	r.Post("/insights", h.Insights)
}

func (h *WebHandler) Index(c *fiber.Ctx) error {
	d := dashboardFrom(c)
	if err := d.EnsureInit(c.UserContext()); err != nil {
		logger := logging.FromCtx(c, h.logger)
		logger.Warn().Err(err).Msg("dashboard init failed")
	}
	return render(c, http.StatusOK, newViewModel(d.Snapshot()))
}

// Login redirects to the provider's login dialog.
func (h *WebHandler) Login(c *fiber.Ctx) error {
	state := uuid.NewString()
	sessionFrom(c).Set(oauthStateKey, state)
	return c.Redirect(dashboardFrom(c).LoginURL(state), http.StatusFound)
}

// Callback completes the login started by Login.
func (h *WebHandler) Callback(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	expected, _ := sess.Get(oauthStateKey).(string)
	sess.Delete(oauthStateKey)

	code := c.Query("code")
	if expected == "" || c.Query("state") != expected {
		code = ""
	}

	if err := dashboardFrom(c).Login(c.UserContext(), code); err != nil {
		logger := logging.FromCtx(c, h.logger)
		logger.Warn().
			Err(err).
			Str("provider_error", c.Query("error")).
			Msg("login failed")
	}
	return c.Redirect("/", http.StatusSeeOther)
}

func (h *WebHandler) Logout(c *fiber.Ctx) error {
	if err := dashboardFrom(c).Logout(c.UserContext()); err != nil {
		logger := logging.FromCtx(c, h.logger)
		logger.Warn().Err(err).Msg("logout reported an error")
	}
	return c.Redirect("/", http.StatusSeeOther)
}

// Insights applies the submitted form and fetches insights for it.
func (h *WebHandler) Insights(c *fiber.Ctx) error {
	d := dashboardFrom(c)

	in := usecase.SelectInput{
		PageID: formValue(c, "page_id"),
		Period: formValue(c, "period"),
		Since:  formValue(c, "since"),
		Until:  formValue(c, "until"),
	}
	if err := d.Select(in); err != nil {
		vm := newViewModel(d.Snapshot())
		vm.FormError = formErrorMessage(err)
		return render(c, http.StatusBadRequest, vm)
	}

	status := http.StatusOK
	err := d.FetchInsights(c.UserContext())
	switch {
	case err == nil,
		errors.Is(err, usecase.ErrNoPageSelected),
		errors.Is(err, usecase.ErrStaleResult):
	case errors.Is(err, usecase.ErrNotAuthenticated):
		return c.Redirect("/", http.StatusSeeOther)
	case errors.Is(err, usecase.ErrFetchInProgress):
		status = http.StatusConflict
	default:
		// the message is already part of the state
		logger := logging.FromCtx(c, h.logger)
		logger.Warn().Err(err).Msg("insights fetch failed")
	}

	return render(c, status, newViewModel(d.Snapshot()))
}

func formValue(c *fiber.Ctx, key string) *string {
	if c.Request().PostArgs().Has(key) {
		v := c.FormValue(key)
		return &v
	}
	return nil
}

func formErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidPeriod):
		return "Unknown period."
	case errors.Is(err, usecase.ErrInvalidDate):
		return "Dates must use the YYYY-MM-DD format."
	default:
		return "Invalid selection."
	}
}

func render(c *fiber.Ctx, status int, vm viewModel) error {
	return renderComponent(c, status, dashboardPage(vm))
}

func renderComponent(c *fiber.Ctx, status int, component templ.Component) error {
	c.Status(status)
	c.Type("html", "utf-8")
	return component.Render(c.UserContext(), c.Response().BodyWriter())
}
