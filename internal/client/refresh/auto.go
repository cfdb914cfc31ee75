package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultAutoInterval is how often the dashboard refreshes on its own while
// a view is attached.
const DefaultAutoInterval = 10 * time.Minute

// AutoRefresher fires a trigger on a fixed interval while started. Views
// start it on attach and stop it on detach so backgrounded views do not keep
// fetching.
type AutoRefresher struct {
	interval time.Duration
	trigger  func()
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// AutoOption configures an AutoRefresher.
type AutoOption func(*AutoRefresher)

func WithAutoInterval(d time.Duration) AutoOption {
	return func(a *AutoRefresher) { a.interval = d }
}

func WithAutoLogger(logger *slog.Logger) AutoOption {
	return func(a *AutoRefresher) { a.logger = logger }
}

func NewAutoRefresher(trigger func(), opts ...AutoOption) *AutoRefresher {
	a := &AutoRefresher{
		interval: DefaultAutoInterval,
		trigger:  trigger,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start launches the interval loop. Calling Start on a running refresher
// restarts it. Safe for concurrent use with Stop.
func (a *AutoRefresher) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	done := make(chan struct{})
	a.done = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.trigger()
			}
		}
	}()
	a.logger.Debug("auto refresh started", "interval", a.interval)
}

// Stop halts the loop and waits for it to exit. Safe to call when not
// running.
func (a *AutoRefresher) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *AutoRefresher) stopLocked() {
	if a.cancel == nil {
		return
	}
	a.cancel()
	<-a.done
	a.cancel = nil
	a.done = nil
	a.logger.Debug("auto refresh stopped")
}
