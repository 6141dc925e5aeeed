package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rescuesim/rescue-engine/pkg/player"
)

// Broadcaster publishes session events to Redis Pub/Sub so event-stream
// consumers (websocket clients) can follow a running session.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new session event broadcaster.
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// channelForSession returns the pub/sub channel for a session.
func channelForSession(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s:events", sessionID.String())
}

// Publish sends one session event to the session's channel. Publish
// failures are logged and swallowed: event delivery is best-effort and
// must never stall the tick loop.
func (b *Broadcaster) Publish(ctx context.Context, event player.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal session event", "type", event.Type, "error", err)
		return
	}
	channel := channelForSession(event.SessionID)
	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish session event",
			"channel", channel, "type", event.Type, "error", err)
	}
}

// Subscribe opens a subscription for a session's events. The returned
// channel closes when ctx is cancelled.
func (b *Broadcaster) Subscribe(ctx context.Context, sessionID uuid.UUID) <-chan player.Event {
	sub := b.redisClient.Subscribe(ctx, channelForSession(sessionID))
	out := make(chan player.Event)

	go func() {
		defer close(out)
		defer func() { _ = sub.Close() }()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event player.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("Dropping malformed session event", "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
