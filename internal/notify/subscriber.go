package notify

import (
	"context"
	"net/http"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// subscriber is a single WebSocket connection attached to the hub.
type subscriber struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

// run registers the subscriber, starts the write pump, and blocks reading
// until the connection closes, then unregisters.
func (s *subscriber) run(ctx context.Context) {
	s.hub.register(s)
	defer s.hub.unregister(s)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.writePump(ctx)

	// Inbound frames are discarded; the feed is one-way.
	for {
		if _, _, err := s.conn.Read(ctx); err != nil {
			return
		}
	}
}

func (s *subscriber) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				// Hub closed the channel — connection is done
				return
			}
			if err := s.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Handler returns an HTTP handler that upgrades connections and runs them as
// hub subscribers.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // dashboard clients connect from app webviews
		})
		if err != nil {
			hub.logger.Error("websocket accept", "error", err)
			return
		}

		sub := &subscriber{hub: hub, conn: conn, send: make(chan []byte, sendBufferSize)}
		sub.run(r.Context())
	}
}
