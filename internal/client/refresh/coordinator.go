// Package refresh arbitrates the three ways dashboard data gets reloaded:
// an explicit pull gesture, the periodic auto-refresh, and programmatic
// triggers after writes. Only one refresh runs at a time.
package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Coordinator serializes refresh passes. Whatever triggers fire, at most one
// refresh runs; the rest are dropped, not queued.
type Coordinator struct {
	logger *slog.Logger
	now    func() time.Time

	mu            sync.Mutex
	inFlight      bool
	lastCompleted time.Time
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = logger }
}

// WithClock overrides the completion-timestamp source. Tests use this.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes fn unless a refresh is already in flight, in which case it
// returns false without running anything. The in-flight flag is cleared and
// the completion time recorded whether fn succeeds, fails, or panics.
func (c *Coordinator) Run(ctx context.Context, reason string, fn func(context.Context) error) bool {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.logger.Debug("refresh dropped, one already running", "reason", reason)
		return false
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.lastCompleted = c.now()
		c.mu.Unlock()
	}()

	c.logger.Debug("refresh starting", "reason", reason)
	if err := fn(ctx); err != nil {
		c.logger.Error("refresh failed", "reason", reason, "error", err)
	}
	return true
}

// InFlight reports whether a refresh is currently running.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// LastCompleted returns when the most recent refresh finished, or the zero
// time if none has.
func (c *Coordinator) LastCompleted() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCompleted
}
