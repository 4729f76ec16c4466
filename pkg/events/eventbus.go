package events

import (
	"context"
	"sync"

	"github.com/narwhalmedia/marquee/pkg/interfaces"
)

const defaultQueueSize = 256

type queuedEvent struct {
	ctx   context.Context
	event interfaces.Event
}

// InMemoryEventBus is an in-memory implementation of EventBus. Async
// events are delivered one at a time, in publish order.
type InMemoryEventBus struct {
	handlers map[string][]interfaces.EventHandler
	mu       sync.RWMutex
	logger   interfaces.Logger

	queue     chan queuedEvent
	queueMu   sync.Mutex
	closed    bool
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger interfaces.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]interfaces.EventHandler),
		logger:   logger,
		queue:    make(chan queuedEvent, defaultQueueSize),
		done:     make(chan struct{}),
	}
}

// Publish delivers an event to every subscriber of its type. Handler
// failures are logged and do not stop delivery to the remaining handlers.
func (eb *InMemoryEventBus) Publish(ctx context.Context, event interfaces.Event) error {
	eb.mu.RLock()
	handlers := append([]interfaces.EventHandler(nil), eb.handlers[event.EventType()]...)
	eb.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			eb.logger.Error("Event handler failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.String("event_id", event.EventID()),
				interfaces.String("handler", handler.Name()),
				interfaces.Error(err))
		}
	}

	return nil
}

// PublishAsync queues an event for delivery. The delivery is detached
// from ctx cancellation so a finished HTTP request does not abort it.
// Events published after Stop are dropped.
func (eb *InMemoryEventBus) PublishAsync(ctx context.Context, event interfaces.Event) {
	eb.startOnce.Do(eb.run)

	eb.queueMu.Lock()
	defer eb.queueMu.Unlock()

	if eb.closed {
		eb.logger.Warn("Event bus stopped, dropping event",
			interfaces.String("event_type", event.EventType()),
			interfaces.String("event_id", event.EventID()))
		return
	}
	eb.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}
}

// run starts the single delivery goroutine.
func (eb *InMemoryEventBus) run() {
	go func() {
		defer close(eb.done)
		for q := range eb.queue {
			_ = eb.Publish(q.ctx, q.event)
		}
	}()
}

// Subscribe registers a handler for a specific event type
func (eb *InMemoryEventBus) Subscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("Event handler subscribed",
		interfaces.String("event_type", eventType),
		interfaces.String("handler", handler.Name()))

	return nil
}

// Unsubscribe removes a handler for a specific event type
func (eb *InMemoryEventBus) Unsubscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			eb.handlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}

	return nil
}

// Start starts the event bus
func (eb *InMemoryEventBus) Start(ctx context.Context) error {
	eb.startOnce.Do(eb.run)
	eb.logger.Info("Event bus started")
	return nil
}

// Stop stops the event bus after delivering every queued event
func (eb *InMemoryEventBus) Stop() error {
	eb.stopOnce.Do(func() {
		eb.startOnce.Do(eb.run)

		eb.queueMu.Lock()
		eb.closed = true
		close(eb.queue)
		eb.queueMu.Unlock()

		<-eb.done
		eb.logger.Info("Event bus stopped")
	})
	return nil
}
