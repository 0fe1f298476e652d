package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/ports"

	"github.com/goccy/go-json"
)

// FetchInsights requests the fixed metric set for the selected page and period.
// Only one request may be in flight per controller.
func (c *Controller) FetchInsights(ctx context.Context) error {
	c.mu.Lock()
	if c.state.User == nil {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}
	if c.state.Loading {
		c.mu.Unlock()
		return ErrFetchInProgress
	}
	sel := c.state.Selection
	if sel.PageID == "" {
		c.mu.Unlock()
		return ErrNoPageSelected
	}
	page, ok := c.state.Page(sel.PageID)
	if !ok {
		c.state.Metrics = domain.Metrics{}
		c.state.Error = MsgInsightsFailed
		c.mu.Unlock()
		return ErrUnknownPage
	}
	c.state.Loading = true
	c.state.Error = ""
	gen := c.generation
	c.mu.Unlock()

	metrics, err := c.requestInsights(ctx, page, sel)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false

	if gen != c.generation {
		c.logger.Debug().Str("page_id", page.ID).Msg("discarding stale insights result")
		return ErrStaleResult
	}

	if err != nil {
		c.state.Metrics = domain.Metrics{}
		c.state.Error = insightsMessage(err)
		c.logger.Warn().Err(err).Str("page_id", page.ID).Msg("insights request failed")
		return fmt.Errorf("fetch insights: %w", err)
	}

	c.state.Metrics = metrics
	return nil
}

func (c *Controller) requestInsights(ctx context.Context, page domain.Page, sel domain.Selection) (domain.Metrics, error) {
	body, err := c.sdk.API(ctx, InsightsPath(page.ID), InsightsQuery(page, sel))
	if err != nil {
		return nil, err
	}

	var r insightsResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	if err := r.err(); err != nil {
		return nil, err
	}
	return domain.FlattenInsights(r.Data), nil
}

// InsightsPath is the page-scoped insights endpoint.
func InsightsPath(pageID string) string {
	return "/" + url.PathEscape(pageID) + "/insights"
}

// InsightsQuery encodes metric list, period, optional date range and the page credential.
func InsightsQuery(page domain.Page, sel domain.Selection) url.Values {
	q := url.Values{}
	q.Set("metric", strings.Join(domain.InsightMetrics, ","))
	q.Set("period", string(sel.Period))
	if since := domain.FormatDate(sel.Since); since != "" {
		q.Set("since", since)
	}
	if until := domain.FormatDate(sel.Until); until != "" {
		q.Set("until", until)
	}
	q.Set("access_token", page.AccessToken)
	return q
}

func insightsMessage(err error) string {
	var apiErr *ports.APIError
	if errors.As(err, &apiErr) && apiErr.UserMessage != "" {
		return apiErr.UserMessage
	}
	return MsgInsightsFailed
}
