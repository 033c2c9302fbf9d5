package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("notification queue is closed")
	ErrQueueFull   = errors.New("notification queue is full")
)

// Queue is a bounded, non-blocking buffer of events awaiting delivery.
type Queue struct {
	events chan *events.Event
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a new queue with the specified buffer size.
// A size below 1 is treated as 1.
func NewQueue(size int, logger *slog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		events: make(chan *events.Event, size),
		logger: logger,
	}
}

// Enqueue adds an event to the queue without blocking.
// Returns ErrQueueFull when the buffer is exhausted and ErrQueueClosed after Close.
func (q *Queue) Enqueue(event *events.Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- event:
		q.logger.Debug("notification enqueued",
			"event_id", event.ID,
			"event", event.Name,
			"queue_len", len(q.events),
			"queue_cap", cap(q.events))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.events))
	}
}

// Close prevents further submissions. Events already buffered remain
// readable from Channel until drained.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.events)
		q.logger.Info("notification queue closed")
	}
}

// Channel returns a read-only channel for consuming events.
func (q *Queue) Channel() <-chan *events.Event {
	return q.events
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}
