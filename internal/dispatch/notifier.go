package dispatch

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// Config sizes the notifier.
type Config struct {
	QueueSize int
	WorkerPoolConfig
}

// Notifier broadcasts task activity without blocking the caller.
// Events are buffered and published by background workers; when the
// buffer is full the event is dropped with a warning.
type Notifier struct {
	queue  *Queue
	pool   *WorkerPool
	logger *slog.Logger
}

// NewNotifier creates a Notifier publishing through publisher.
// Call Start before use and Stop on shutdown.
func NewNotifier(publisher events.Publisher, config Config, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "notifier")

	queue := NewQueue(config.QueueSize, log)
	return &Notifier{
		queue:  queue,
		pool:   NewWorkerPool(queue.Channel(), publisher, config.WorkerPoolConfig, log),
		logger: log,
	}
}

// Start launches the delivery workers.
func (n *Notifier) Start() {
	n.pool.Start()
}

// Stop closes the queue and waits, bounded by ctx, for buffered events to
// be delivered.
func (n *Notifier) Stop(ctx context.Context) {
	n.queue.Close()
	n.pool.Stop(ctx)
}

// NotifyTaskCreated schedules a task.created broadcast. It never fails:
// problems are logged and the notification is skipped.
func (n *Notifier) NotifyTaskCreated(ctx context.Context, task *domain.Task, creator domain.UserSummary) {
	log := logger.FromContextOrDefault(ctx, n.logger)

	event, err := events.NewTaskCreatedEvent(task, creator)
	if err != nil {
		log.Warn("failed to build task.created notification", "error", err)
		return
	}

	if err := n.queue.Enqueue(event); err != nil {
		log.Warn("dropping task.created notification",
			"error", err,
			"task_id", task.ID,
			"event_id", event.ID)
	}
}
