package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) EventID() string {
	return e.ID
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

type Handler func(ctx context.Context, event Event) error

// Publisher is the side of the bus that services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type EventBus struct {
	handlers     map[string][]Handler
	syncHandlers map[string][]Handler
	logger       *slog.Logger
	mu           sync.RWMutex
	wg           sync.WaitGroup
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers:     make(map[string][]Handler),
		syncHandlers: make(map[string][]Handler),
		logger:       logger,
	}
}

func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("event handler registered",
		"event_type", eventType,
		"total_handlers", len(eb.handlers[eventType]))
}

// SubscribeMany registers the same handler for several event types.
func (eb *EventBus) SubscribeMany(handler Handler, eventTypes ...string) {
	for _, t := range eventTypes {
		eb.Subscribe(t, handler)
	}
}

// SubscribeSync registers a handler that Publish runs inline, before it
// returns. Use it for short handlers whose effect the publisher must observe.
func (eb *EventBus) SubscribeSync(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.syncHandlers[eventType] = append(eb.syncHandlers[eventType], handler)
	eb.logger.Debug("inline event handler registered",
		"event_type", eventType,
		"total_handlers", len(eb.syncHandlers[eventType]))
}

func (eb *EventBus) SubscribeSyncMany(handler Handler, eventTypes ...string) {
	for _, t := range eventTypes {
		eb.SubscribeSync(t, handler)
	}
}

func (eb *EventBus) handlersFor(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.handlers[eventType]
}

func (eb *EventBus) syncHandlersFor(eventType string) []Handler {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.syncHandlers[eventType]
}

// Publish runs inline handlers first, then the rest in the background.
// Inline failures are logged only. Background handlers receive a context that
// keeps the caller's values but outlives the request that triggered the event.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	for _, handler := range eb.syncHandlersFor(event.EventType()) {
		if err := handler(ctx, event); err != nil {
			eb.logger.Error("inline event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
		}
	}

	handlers := eb.handlersFor(event.EventType())
	if len(handlers) == 0 {
		eb.logger.Debug("no handlers for event type", "event_type", event.EventType())
		return nil
	}

	eb.logger.Debug("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"handlers_count", len(handlers))

	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		eb.wg.Add(1)
		go func(h Handler) {
			defer eb.wg.Done()
			if err := h(detached, event); err != nil {
				eb.logger.Error("event handler failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"error", err)
			}
		}(handler)
	}

	return nil
}

// PublishSync runs every handler in the caller's goroutine and stops at the first failure.
func (eb *EventBus) PublishSync(ctx context.Context, event Event) error {
	inline := eb.syncHandlersFor(event.EventType())
	background := eb.handlersFor(event.EventType())
	handlers := make([]Handler, 0, len(inline)+len(background))
	handlers = append(handlers, inline...)
	handlers = append(handlers, background...)
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			eb.logger.Error("event handler failed",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			return fmt.Errorf("handler failed for event %s: %w", event.EventType(), err)
		}
	}
	return nil
}

// Wait blocks until every handler started by Publish has returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}
