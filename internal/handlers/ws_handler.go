package handlers

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"produits/internal/realtime"
)

// SocketHandler exposes the realtime channel: a websocket endpoint over
// which every committed product mutation is pushed to every connected
// client. There is no authentication; any client may subscribe.
type SocketHandler struct {
	hub *realtime.Hub
}

// NewSocketHandler creates a new SocketHandler.
func NewSocketHandler(hub *realtime.Hub) *SocketHandler {
	return &SocketHandler{
		hub: hub,
	}
}

// RegisterRoutes registers the websocket endpoint with the Fiber app.
func (h *SocketHandler) RegisterRoutes(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConn))
}

// handleConn owns one client connection for its whole lifetime. The
// handler goroutine is the only writer on the connection; a side
// goroutine reads solely to notice the peer going away. Either way out,
// the subscription is removed and the server forgets the client.
func (h *SocketHandler) handleConn(c *websocket.Conn) {
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub.ID)

	log.Printf("Realtime client %s connected", sub.ID)
	defer log.Printf("Realtime client %s disconnected", sub.ID)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.C:
			if !ok {
				// Dropped by the hub (stalled buffer).
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
