package refresh

import (
	"sync"
	"time"
)

// DefaultGestureWindow is how close together the two upward scroll events
// must land for the pull gesture to count.
const DefaultGestureWindow = time.Second

// GestureDetector recognizes the pull-to-refresh gesture: two upward scroll
// events while the view is already at the top, within the window. Any
// downward event, any event away from the top, or too long a pause resets
// the count.
type GestureDetector struct {
	window time.Duration
	now    func() time.Time

	mu       sync.Mutex
	attempts int
	lastAt   time.Time
}

// GestureOption configures a GestureDetector.
type GestureOption func(*GestureDetector)

func WithGestureWindow(d time.Duration) GestureOption {
	return func(g *GestureDetector) { g.window = d }
}

func WithGestureClock(now func() time.Time) GestureOption {
	return func(g *GestureDetector) { g.now = now }
}

func NewGestureDetector(opts ...GestureOption) *GestureDetector {
	g := &GestureDetector{
		window: DefaultGestureWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Observe feeds one scroll event into the detector and reports whether the
// gesture just completed. atTop is whether the view is scrolled to the top;
// upward is the scroll direction. Completing the gesture resets the
// detector.
func (g *GestureDetector) Observe(atTop, upward bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !atTop || !upward {
		g.attempts = 0
		return false
	}

	now := g.now()
	if g.attempts > 0 && now.Sub(g.lastAt) > g.window {
		g.attempts = 0
	}
	g.attempts++
	g.lastAt = now

	if g.attempts >= 2 {
		g.attempts = 0
		return true
	}
	return false
}

// Reset clears any partial gesture.
func (g *GestureDetector) Reset() {
	g.mu.Lock()
	g.attempts = 0
	g.mu.Unlock()
}
