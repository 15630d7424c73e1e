package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
)

// RedisBroker distributes changes across API instances over a Redis pub/sub channel.
type RedisBroker struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisBroker constructs a broker on channel.
func NewRedisBroker(client *redis.Client, channel string, logger *zap.Logger) *RedisBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisBroker{client: client, channel: channel, logger: logger}
}

// Publish sends change to every instance subscribed to the channel.
func (b *RedisBroker) Publish(ctx context.Context, change models.RecordChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal record change: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", b.channel, err)
	}
	return nil
}

// Subscribe opens a channel subscription and invokes handler for every decoded message.
func (b *RedisBroker) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}

	go func() {
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = pubsub.Close()
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var change models.RecordChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					b.logger.Warn("discarding malformed realtime event", zap.Error(err))
					continue
				}
				handler(change)
			}
		}
	}()
	return pubsub, nil
}
