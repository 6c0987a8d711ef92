package realtime

import "produits/internal/models"

// Event names pushed to connected clients.
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

// Event is a change notification describing one committed mutation.
type Event struct {
	Name string      `json:"event"`
	Data interface{} `json:"data"`
}

// DeletedPayload is the payload of a product_deleted event.
type DeletedPayload struct {
	ID int `json:"id"`
}

// ProductCreated builds the event for a newly created product.
func ProductCreated(product models.Product) Event {
	return Event{Name: EventProductCreated, Data: product}
}

// ProductUpdated builds the event for an updated product, carrying the
// full post-update document.
func ProductUpdated(product models.Product) Event {
	return Event{Name: EventProductUpdated, Data: product}
}

// ProductDeleted builds the event for a deleted product; only the id is
// carried.
func ProductDeleted(id int) Event {
	return Event{Name: EventProductDeleted, Data: DeletedPayload{ID: id}}
}

// EventPublisher delivers change events to interested parties. The
// websocket hub and the AMQP bridge both implement it.
type EventPublisher interface {
	Publish(event Event) error
}
