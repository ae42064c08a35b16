package observability

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// EventHandler receives published events.
type EventHandler func(ctx context.Context, eventType string, data map[string]interface{})

// EventBus logs events and fans them out to subscribers.
type EventBus struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers []EventHandler
}

// NewEventBus creates a new event bus. logger may be nil.
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		logger: logger,
	}
}

// Subscribe registers a handler for every subsequent event.
func (e *EventBus) Subscribe(handler EventHandler) {
	if handler == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlers = append(e.handlers, handler)
}

// Publish publishes an event with the given type and data.
// Handlers run synchronously in subscription order.
func (e *EventBus) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if e.logger != nil {
		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]zap.Field, 0, len(data)+1)
		fields = append(fields, zap.String("event", eventType))
		for _, k := range keys {
			fields = append(fields, zap.Any(k, data[k]))
		}

		e.logger.Debug("event published", fields...)
	}

	e.mu.RLock()
	handlers := make([]EventHandler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, eventType, data)
	}
}
