package memory

import (
	"context"
	"sync"
	"time"

	"page-insights-dashboard/internal/dashboard/core/usecase"

	"github.com/rs/zerolog"
)

// Registry keeps one dashboard controller per browser session id.
// Entries idle for longer than ttl are dropped by Sweep.
type Registry struct {
	newController func() *usecase.Controller
	ttl           time.Duration
	now           func() time.Time
	logger        zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	controller *usecase.Controller
	lastSeen   time.Time
}

func NewRegistry(newController func() *usecase.Controller, ttl time.Duration, logger zerolog.Logger) *Registry {
	return &Registry{
		newController: newController,
		ttl:           ttl,
		now:           time.Now,
		logger:        logger.With().Str("component", "dashboard_registry").Logger(),
		entries:       make(map[string]*entry),
	}
}

// Get returns the controller for id, creating it on first use.
func (r *Registry) Get(id string) *usecase.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry{controller: r.newController()}
		r.entries[id] = e
	}
	e.lastSeen = r.now()
	return e.controller
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops idle entries and returns how many were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug().Int("removed", n).Int("remaining", r.Len()).Msg("swept idle dashboards")
			}
		}
	}
}
