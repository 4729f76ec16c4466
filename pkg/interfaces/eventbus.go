package interfaces

import (
	"context"
)

// Event represents a domain event.
type Event interface {
	// EventID returns the unique identifier of the event
	EventID() string

	// EventType returns the type of the event
	EventType() string

	// Timestamp returns when the event occurred (unix nanoseconds)
	Timestamp() int64

	// AggregateID returns the ID of the aggregate that produced the event
	AggregateID() string
}

// EventHandler handles events of a specific type.
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event Event) error

	// Name identifies the handler in logs
	Name() string
}

// EventBus provides pub/sub functionality for domain events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, event Event) error

	// PublishAsync publishes an event asynchronously
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a handler for a specific event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler for a specific event type
	Unsubscribe(eventType string, handler EventHandler) error

	// Start starts the event bus
	Start(ctx context.Context) error

	// Stop waits for in-flight async deliveries and stops the bus
	Stop() error
}
