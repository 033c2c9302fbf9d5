package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/events"
)

// Frame is the JSON message written to subscribers for each event.
type Frame struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data"`
}

// Hub tracks connected subscribers and fans broadcasts out to them.
// Subscribers whose send buffer is full are disconnected rather than
// allowed to slow the others down.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger.With("component", "realtime_hub"),
	}
}

// HandleEvent implements events.EventHandler by broadcasting the event to
// every connected subscriber.
func (h *Hub) HandleEvent(ctx context.Context, event *events.Event) error {
	frame, err := json.Marshal(Frame{Channel: event.Channel, Event: event.Name, Data: event.Data})
	if err != nil {
		return fmt.Errorf("failed to encode frame for event %s: %w", event.ID, err)
	}

	h.broadcast(frame)
	return nil
}

var _ events.EventHandler = (*Hub)(nil)

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.logger.Info("realtime hub closed")
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.logger.Debug("subscriber connected",
		"user_id", c.userID,
		"client_count", len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("subscriber disconnected",
			"user_id", c.userID,
			"client_count", len(h.clients))
	}
}

func (h *Hub) broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("dropping slow subscriber", "user_id", c.userID)
		}
	}
}

// client is one connected subscriber. The hub owns closing send.
type client struct {
	userID uuid.UUID
	send   chan []byte
}
