package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/redis/go-redis/v9"
)

// Publisher sends events to a Redis pub/sub channel as JSON.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher creates a Publisher writing to channel.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

// Publish implements events.Publisher.
func (p *Publisher) Publish(ctx context.Context, event *events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}
	return nil
}

var _ events.Publisher = (*Publisher)(nil)

// Subscriber relays events received on a Redis pub/sub channel to an
// in-process emitter, so every server instance sees every broadcast.
type Subscriber struct {
	client  *redis.Client
	channel string
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewSubscriber creates a Subscriber relaying channel into emitter.
func NewSubscriber(client *redis.Client, channel string, emitter events.EventEmitter, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		client:  client,
		channel: channel,
		emitter: emitter,
		logger:  logger.With("component", "redis_subscriber", "channel", channel),
	}
}

// Run subscribes and relays messages until ctx is cancelled. It returns nil
// on cancellation and an error if the subscription cannot be established or
// the connection is lost.
func (s *Subscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer func() { _ = pubsub.Close() }()

	// Receive blocks until the subscription is confirmed.
	if _, err := pubsub.Receive(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", s.channel, err)
	}
	s.logger.Info("subscribed to broadcast channel")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("subscriber stopping")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return errors.New("redis subscription closed")
			}
			s.relay(ctx, msg)
		}
	}
}

func (s *Subscriber) relay(ctx context.Context, msg *redis.Message) {
	var event events.Event
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		s.logger.Warn("discarding malformed broadcast", "error", err)
		return
	}

	if err := s.emitter.EmitEvent(ctx, &event); err != nil {
		s.logger.Warn("failed to relay broadcast",
			"error", err,
			"event_id", event.ID,
			"event", event.Name)
	}
}
