package usecase

import (
	"context"
	"fmt"
	"net/url"

	"page-insights-dashboard/internal/dashboard/core/domain"

	"github.com/goccy/go-json"
)

const profileFields = "name,email,picture"

// Init asks the SDK for the current login status and, when connected, loads
// the profile and the administered pages.
func (c *Controller) Init(ctx context.Context) error {
	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()

	return c.init(ctx)
}

// EnsureInit runs Init for the first caller only. Concurrent first requests
// of one session do not query the SDK twice.
func (c *Controller) EnsureInit(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.initialized = true
	c.mu.Unlock()

	return c.init(ctx)
}

func (c *Controller) init(ctx context.Context) error {
	status, err := c.sdk.GetLoginStatus(ctx)
	if err != nil {
		// not an explicit disconnect: keep the login control without a message
		return fmt.Errorf("login status: %w", err)
	}

	c.mu.Lock()
	c.state.Status = status
	c.mu.Unlock()

	switch status {
	case domain.StatusConnected:
		return c.loadAccount(ctx)
	case domain.StatusNotAuthorized:
		c.setError(MsgNotConnected)
		return nil
	default:
		// no credentials yet: show the login control without an error
		return nil
	}
}

// LoginURL returns the URL of the interactive login flow.
func (c *Controller) LoginURL(state string) string {
	return c.sdk.LoginURL(state)
}

// Login completes the interactive login with the code returned by the provider.
func (c *Controller) Login(ctx context.Context, code string) error {
	if code == "" {
		c.setError(MsgLoginFailed)
		return ErrLoginFailed
	}

	auth, err := c.sdk.Login(ctx, code)
	if err != nil || auth == nil {
		c.setError(MsgLoginFailed)
		if err == nil {
			err = ErrLoginFailed
		}
		return fmt.Errorf("login: %w", err)
	}

	c.mu.Lock()
	c.initialized = true
	c.state.Status = domain.StatusConnected
	c.state.Error = ""
	c.mu.Unlock()

	return c.loadAccount(ctx)
}

// Logout delegates to the SDK and then clears session, pages and metrics
// whatever the SDK reported.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.sdk.Logout(ctx)

	c.mu.Lock()
	c.generation++
	c.state.Status = domain.StatusUnknown
	c.state.User = nil
	c.state.Pages = nil
	c.state.Selection.PageID = ""
	c.state.Metrics = nil
	c.state.Error = ""
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn().Err(err).Msg("sdk logout failed; local session cleared anyway")
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Controller) loadAccount(ctx context.Context) error {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	user, err := c.fetchProfile(ctx)
	if err != nil {
		if !c.setErrorIfCurrent(gen, MsgProfileFailed) {
			return ErrStaleResult
		}
		return fmt.Errorf("fetch profile: %w", err)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleResult
	}
	c.state.User = user
	c.mu.Unlock()

	pages, err := c.fetchPages(ctx)
	if err != nil {
		if !c.setErrorIfCurrent(gen, MsgPagesFailed) {
			return ErrStaleResult
		}
		return fmt.Errorf("fetch pages: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrStaleResult
	}
	c.state.Pages = pages
	c.state.Selection.PageID = ""
	if len(pages) > 0 {
		c.state.Selection.PageID = pages[0].ID
	}

	c.logger.Debug().Int("pages", len(pages)).Msg("account loaded")
	return nil
}

func (c *Controller) fetchProfile(ctx context.Context) (*domain.User, error) {
	body, err := c.sdk.API(ctx, "/me", url.Values{"fields": {profileFields}})
	if err != nil {
		return nil, err
	}

	var p profileResponse
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if err := p.err(); err != nil {
		return nil, err
	}

	return &domain.User{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		PictureURL: p.Picture.Data.URL,
	}, nil
}

func (c *Controller) fetchPages(ctx context.Context) ([]domain.Page, error) {
	body, err := c.sdk.API(ctx, "/me/accounts", nil)
	if err != nil {
		return nil, err
	}

	var r accountsResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	if err := r.err(); err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, len(r.Data))
	for _, p := range r.Data {
		pages = append(pages, domain.Page{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			AccessToken: p.AccessToken,
		})
	}
	return pages, nil
}
