package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int

	// PublishTimeout bounds a single delivery attempt.
	// If zero or negative, defaults to 5 seconds
	PublishTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount:    2,
		PublishTimeout: 5 * time.Second,
	}
}

// WorkerPool drains a Queue and hands each event to a Publisher.
// Delivery is attempted once; failures are reported and dropped.
type WorkerPool struct {
	queue          <-chan *events.Event
	publisher      events.Publisher
	workerCount    int
	publishTimeout time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	// errorHandler is called when a delivery fails
	// If nil, errors are only logged
	errorHandler func(event *events.Event, err error)
}

// NewWorkerPool creates a new worker pool reading from queue.
func NewWorkerPool(
	queue <-chan *events.Event,
	publisher events.Publisher,
	config WorkerPoolConfig,
	logger *slog.Logger,
) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	publishTimeout := config.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = DefaultWorkerPoolConfig().PublishTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:          queue,
		publisher:      publisher,
		workerCount:    workerCount,
		publishTimeout: publishTimeout,
		ctx:            ctx,
		cancel:         cancel,
		logger:         logger,
	}
}

// SetErrorHandler allows setting a custom error handler for delivery failures
func (p *WorkerPool) SetErrorHandler(handler func(event *events.Event, err error)) {
	p.errorHandler = handler
}

// Start launches the worker goroutines.
func (p *WorkerPool) Start() {
	p.logger.Info("starting notification workers", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop waits for the workers to drain the queue, which must already be
// closed. If ctx expires first the remaining deliveries are abandoned.
func (p *WorkerPool) Stop(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("notification workers stopped")
	case <-ctx.Done():
		p.logger.Warn("notification workers did not drain before deadline")
		p.cancel()
		<-done
	}
	p.cancel()
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	for {
		select {
		case <-p.ctx.Done():
			return
		case event, ok := <-p.queue:
			if !ok {
				return
			}
			p.deliver(log, event)
		}
	}
}

func (p *WorkerPool) deliver(log *slog.Logger, event *events.Event) {
	ctx, cancel := context.WithTimeout(p.ctx, p.publishTimeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish notification",
			"error", err,
			"event_id", event.ID,
			"event", event.Name)
		if p.errorHandler != nil {
			p.errorHandler(event, err)
		}
		return
	}

	log.Debug("notification published",
		"event_id", event.ID,
		"event", event.Name,
		"channel", event.Channel)
}
