package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher decouples the auth workflows from their side effects.
// Subscribers registered for an event type are invoked on every Publish of
// that type.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type inMemoryDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a synchronous in-process dispatcher.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{subscribers: make(map[EventType][]EventHandler)}
}

// Publish invokes every subscriber for the event's type in registration
// order. A failing subscriber does not block the rest; side effects are
// best-effort and never fail the triggering workflow. Publication stops
// early if ctx is cancelled.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]EventHandler, len(d.subscribers[event.Type]))
	copy(handlers, d.subscribers[event.Type])
	d.mu.RUnlock()

	for _, handle := range handlers {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_ = handle(ctx, event)
	}
	return nil
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	d.subscribers[eventType] = append(d.subscribers[eventType], handler)
	d.mu.Unlock()
}
