package usecase

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/ports"

	"github.com/rs/zerolog"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrLoginFailed      = errors.New("login failed")
	ErrFetchInProgress  = errors.New("insights request already in flight")
	ErrNoPageSelected   = errors.New("no page selected")
	ErrUnknownPage      = errors.New("selected page is not in the page list")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrStaleResult      = errors.New("selection changed while the request was in flight")
)

// Messages shown to the user. One per failure class.
const (
	MsgProfileFailed  = "Failed to fetch user profile."
	MsgPagesFailed    = "Failed to fetch user pages."
	MsgLoginFailed    = "Login failed."
	MsgNotConnected   = "User not connected."
	MsgInsightsFailed = "Failed to fetch insights."
)

// Controller owns the dashboard state of one browser session.
//
// SDK calls are made without holding mu so readers can observe Loading while a
// request is outstanding. generation is bumped whenever the selection changes or
// the user logs out; a completion carrying an older generation must not
// overwrite the state.
type Controller struct {
	sdk    ports.SDK
	logger zerolog.Logger

	mu          sync.Mutex
	state       domain.State
	generation  uint64
	initialized bool
}

func NewController(sdk ports.SDK, logger zerolog.Logger) *Controller {
	return &Controller{
		sdk:    sdk,
		logger: logger.With().Str("component", "dashboard_controller").Logger(),
		state: domain.State{
			Status:    domain.StatusUnknown,
			Selection: domain.Selection{Period: domain.DefaultPeriod},
		},
	}
}

// Snapshot returns a copy of the current state safe to use after the lock is released.
func (c *Controller) Snapshot() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	s.Pages = slices.Clone(s.Pages)
	if s.Metrics != nil {
		s.Metrics = maps.Clone(s.Metrics)
	}
	return s
}

// Initialized reports whether Init has run for this session.
func (c *Controller) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

// setErrorIfCurrent records msg unless the state moved on since gen was taken.
func (c *Controller) setErrorIfCurrent(gen uint64, msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.state.Error = msg
	return true
}
