package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Broadcast channel and event names.
const (
	ChannelTasks     = "tasks"
	EventTaskCreated = "task.created"
)

// ErrNilTask is returned when a task event is built without a task.
var ErrNilTask = errors.New("task cannot be nil")

// Event is a named notification published on a channel.
// It is the unit carried between the service, the broker and the
// real-time subscribers.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Channel is the broadcast channel, e.g. "tasks"
	Channel string `json:"channel"`

	// Name identifies the kind of event, e.g. "task.created"
	Name string `json:"event"`

	// Data contains the event-specific payload serialized as JSON
	Data json.RawMessage `json:"data"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalData decodes the event data into the provided structure.
func (e *Event) UnmarshalData(v any) error {
	return json.Unmarshal(e.Data, v)
}

// NewEvent creates an Event on channel with the given name and data.
func NewEvent(channel, name string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s data: %w", name, err)
	}

	return &Event{
		ID:        uuid.New(),
		Channel:   channel,
		Name:      name,
		Data:      raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// TaskCreatedData is the payload of a task.created event.
type TaskCreatedData struct {
	Task    *domain.Task       `json:"task"`
	User    domain.UserSummary `json:"user"`
	Message string             `json:"message"`
}

// TaskCreatedMessage renders the human-readable notification text.
func TaskCreatedMessage(title, creatorName string) string {
	return fmt.Sprintf("New task: %s has been created by: %s", title, creatorName)
}

// NewTaskCreatedEvent builds the task.created broadcast for a freshly
// persisted task and the user who created it.
func NewTaskCreatedEvent(task *domain.Task, creator domain.UserSummary) (*Event, error) {
	if task == nil {
		return nil, ErrNilTask
	}

	return NewEvent(ChannelTasks, EventTaskCreated, TaskCreatedData{
		Task:    task,
		User:    creator,
		Message: TaskCreatedMessage(task.Title, creator.Name),
	})
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// Publisher delivers events to out-of-process subscribers, e.g. a message broker.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}
