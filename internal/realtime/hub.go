package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is the number of pending messages a subscriber may
// accumulate before it is considered stalled and dropped.
const subscriberBuffer = 32

// Subscription is one client's view of the hub: a stream of marshaled
// events. C is closed when the subscriber is removed.
type Subscription struct {
	ID uuid.UUID
	C  <-chan []byte
}

// Hub fans change events out to all currently subscribed clients. It is
// owned by the composition root and passed explicitly to whoever needs
// it; there is no package-level instance.
//
// Delivery is best-effort: a subscriber that is not connected at publish
// time never sees the event, and a subscriber that stops draining its
// channel is dropped. Events are delivered to each subscriber in publish
// order.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]chan []byte
}

// NewHub creates a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]chan []byte),
	}
}

// Subscribe registers a new client and returns its subscription.
func (h *Hub) Subscribe() Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New()
	ch := make(chan []byte, subscriberBuffer)
	h.clients[id] = ch
	return Subscription{ID: id, C: ch}
}

// Unsubscribe removes a client and closes its channel. Unknown ids are
// ignored, so it is safe to call more than once.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(ch)
}

// Count returns the number of currently subscribed clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish marshals the event once and hands it to every subscriber.
// Subscribers whose buffer is full are dropped rather than blocking the
// mutation path.
func (h *Hub) Publish(event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Name, err)
	}

	var stalled []uuid.UUID

	h.mu.RLock()
	for id, ch := range h.clients {
		select {
		case ch <- body:
		default:
			stalled = append(stalled, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range stalled {
		log.Printf("Dropping stalled realtime subscriber %s", id)
		h.Unsubscribe(id)
	}
	return nil
}
