package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/cauldron/pkg/session"
	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix is prepended to the session ID to form a channel name.
const DefaultChannelPrefix = "cauldron:events:"

// Broadcaster publishes session events to Redis Pub/Sub so a renderer in
// another process can follow a session.
type Broadcaster struct {
	redisClient *redis.Client
	prefix      string
	logger      *slog.Logger
}

// Ensure Broadcaster implements session.Publisher
var _ session.Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, prefix string, logger *slog.Logger) *Broadcaster {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		redisClient: redisClient,
		prefix:      prefix,
		logger:      logger,
	}
}

// Channel returns the Pub/Sub channel for a session.
func (b *Broadcaster) Channel(sessionID uuid.UUID) string {
	return b.prefix + sessionID.String()
}

// Publish sends an event to the session's channel.
func (b *Broadcaster) Publish(ctx context.Context, sessionID uuid.UUID, event session.Event) error {
	channel := b.Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}

// Subscribe streams events for a session until ctx is done. Messages that
// don't decode are logged and dropped. The returned channel is closed when
// the subscription ends.
func (b *Broadcaster) Subscribe(ctx context.Context, sessionID uuid.UUID) (<-chan session.Event, error) {
	channel := b.Channel(sessionID)
	pubsub := b.redisClient.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan session.Event)
	go func() {
		defer close(out)
		defer func() {
			_ = pubsub.Close()
		}()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev session.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("Dropping malformed event", "channel", channel, "error", err)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
