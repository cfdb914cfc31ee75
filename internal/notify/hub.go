// Package notify pushes notification events to connected dashboard clients
// over WebSocket. Clients still poll the notifications endpoint; the hub just
// removes the poll latency for clients that stay connected.
package notify

import (
	"encoding/json"
	"log/slog"
	"sync"

	"salespulse/internal/model"
)

// Event is a single broadcast payload.
type Event struct {
	Type         string              `json:"type"`
	Notification *model.Notification `json:"notification,omitempty"`
}

// Hub maintains the set of connected subscribers and fans events out to them.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
	}
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
	h.mu.Unlock()
}

// NotificationCreated broadcasts a freshly created notification to all
// subscribers. Slow subscribers have the event dropped rather than blocking
// the sender.
func (h *Hub) NotificationCreated(n *model.Notification) {
	h.broadcast(Event{Type: "notification_created", Notification: n})
}

func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		select {
		case s.send <- data:
		default:
			// Subscriber buffer full — drop the event
		}
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
