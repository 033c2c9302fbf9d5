package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter stores registered handlers in memory and dispatches
// events to them synchronously, optionally restricted to one channel.
type InMemoryEventEmitter struct {
	handlers map[int]registration
	nextID   int
	mu       sync.RWMutex
	logger   *slog.Logger
}

type registration struct {
	channel string
	handler EventHandler
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make(map[int]registration),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler adds a handler that receives events on every channel.
// The returned function removes the handler again.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) func() {
	return e.Subscribe("", handler)
}

// Subscribe adds a handler for events on channel. An empty channel matches
// every event. The returned function removes the handler again.
func (e *InMemoryEventEmitter) Subscribe(channel string, handler EventHandler) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.handlers[id] = registration{channel: channel, handler: handler}
	count := len(e.handlers)
	e.mu.Unlock()

	e.logger.Debug("registered new event handler",
		"channel", channel,
		"handler_count", count)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.handlers, id)
			e.mu.Unlock()
		})
	}
}

// HandlerCount returns the number of registered handlers.
func (e *InMemoryEventEmitter) HandlerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// EmitEvent publishes the given event to all matching handlers.
// If any handler returns an error, the event will still be sent to all other handlers,
// and the first error encountered will be returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := make([]EventHandler, 0, len(e.handlers))
	for _, r := range e.handlers {
		if r.channel == "" || r.channel == event.Channel {
			handlers = append(handlers, r.handler)
		}
	}
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Debug("no handlers registered for event",
			"event_id", event.ID,
			"channel", event.Channel,
			"event", event.Name)
		return nil
	}

	var firstErr error
	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"event_id", event.ID,
				"event", event.Name)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// Ensure InMemoryEventEmitter implements EventEmitter
var _ EventEmitter = (*InMemoryEventEmitter)(nil)
