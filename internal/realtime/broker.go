// Package realtime fans record change events out to live subscribers so list views can
// be refreshed without polling.
package realtime

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
)

// Handler receives every change published after the subscription was opened.
type Handler func(models.RecordChange)

// Subscription is a cancellable handle returned by Subscribe.
type Subscription interface {
	Close() error
}

// Broker publishes record changes and delivers them to subscribers.
type Broker interface {
	Publish(ctx context.Context, change models.RecordChange) error
	Subscribe(ctx context.Context, handler Handler) (Subscription, error)
}

// New returns a Redis backed broker, or an in-process one when client is nil.
func New(client *redis.Client, channel string, logger *zap.Logger) Broker {
	if client == nil {
		return NewLocalBroker(logger)
	}
	return NewRedisBroker(client, channel, logger)
}
