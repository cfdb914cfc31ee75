package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type window struct {
	count    int
	resetsAt time.Time
}

// RateLimiter provides fixed-window in-memory rate limiting, keyed by
// arbitrary strings (client IPs for the auth routes).
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
	}
}

// Allow reports whether the key is still under limit for the current window.
func (rl *RateLimiter) Allow(key string, limit int, period time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.windows[key]
	if !ok || now.After(w.resetsAt) {
		rl.windows[key] = &window{count: 1, resetsAt: now.Add(period)}
		return true
	}
	w.count++
	return w.count <= limit
}

// Cleanup removes expired windows. Meant to run periodically from main.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, w := range rl.windows {
		if now.After(w.resetsAt) {
			delete(rl.windows, key)
		}
	}
}

// RateLimit returns middleware that rejects over-limit requests with the
// standard JSON error envelope.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, limit int, period time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(keyFunc(r), limit, period) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Too many requests. Please try again shortly.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
