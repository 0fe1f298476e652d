package fiber

import (
	"errors"
	"net/http"

	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/usecase"
	"page-insights-dashboard/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// APIHandler exposes the dashboard state as JSON.
type APIHandler struct {
	logger zerolog.Logger
}

func NewAPIHandler(logger zerolog.Logger) *APIHandler {
	return &APIHandler{logger: logger.With().Str("component", "api_handler").Logger()}
}

// Register mounts the session-bound routes; r must run SessionMiddleware.
func (h *APIHandler) Register(r fiber.Router) {
	r.Get("/state", h.GetState)
	r.Put("/selection", h.PutSelection)
	r.Post("/insights", h.PostInsights)
}

// RegisterPublic mounts the routes that need no session.
func (h *APIHandler) RegisterPublic(r fiber.Router) {
	r.Get("/periods", h.GetPeriods)
}

// GetState godoc
// @Summary Current dashboard state
// @Description Login state, administered pages, selection and the last fetched insights of the caller's session
// @Tags Dashboard
// @Produce json
// @Success 200 {object} StateResponse
// @Router /api/v1/state [get]
func (h *APIHandler) GetState(c *fiber.Ctx) error {
	d := dashboardFrom(c)
	if err := d.EnsureInit(c.UserContext()); err != nil {
		logger := logging.FromCtx(c, h.logger)
		logger.Warn().Err(err).Msg("dashboard init failed")
	}
	return c.Status(http.StatusOK).JSON(toStateResponse(d.Snapshot()))
}

// PutSelection godoc
// @Summary Update the selection
// @Description Sets page, period and optional date range. Omitted fields are left unchanged, empty dates are cleared.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body SelectionRequest true "Selection"
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/selection [put]
func (h *APIHandler) PutSelection(c *fiber.Ctx) error {
	var req SelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be a JSON selection",
		})
	}

	d := dashboardFrom(c)
	err := d.Select(usecase.SelectInput{
		PageID: req.PageID,
		Period: req.Period,
		Since:  req.Since,
		Until:  req.Until,
	})
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_selection",
			Message: err.Error(),
		})
	}
	return c.Status(http.StatusOK).JSON(toStateResponse(d.Snapshot()))
}

// PostInsights godoc
// @Summary Fetch insights
// @Description Requests the fixed metric set for the selected page, period and range. Every call re-fetches.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} StateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/insights [post]
func (h *APIHandler) PostInsights(c *fiber.Ctx) error {
	d := dashboardFrom(c)

	err := d.FetchInsights(c.UserContext())
	switch {
	case err == nil, errors.Is(err, usecase.ErrStaleResult):
		return c.Status(http.StatusOK).JSON(toStateResponse(d.Snapshot()))
	case errors.Is(err, usecase.ErrNotAuthenticated):
		return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "not_authenticated",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrNoPageSelected), errors.Is(err, usecase.ErrUnknownPage):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_selection",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrFetchInProgress):
		return c.Status(http.StatusConflict).JSON(ErrorResponse{
			Error:   "fetch_in_progress",
			Message: err.Error(),
		})
	default:
		logger := logging.FromCtx(c, h.logger)
		logger.Warn().Err(err).Msg("insights fetch failed")
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Error:   "upstream_error",
			Message: d.Snapshot().Error,
		})
	}
}

// GetPeriods godoc
// @Summary Selectable periods
// @Tags Dashboard
// @Produce json
// @Success 200 {array} PeriodResponse
// @Router /api/v1/periods [get]
func (h *APIHandler) GetPeriods(c *fiber.Ctx) error {
	resp := make([]PeriodResponse, 0, len(domain.PeriodOptions))
	for _, o := range domain.PeriodOptions {
		resp = append(resp, PeriodResponse{Value: string(o.Value), Label: o.Label})
	}
	return c.Status(http.StatusOK).JSON(resp)
}
