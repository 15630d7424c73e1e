package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
)

const localBufferSize = 32

// LocalBroker delivers changes to subscribers inside the current process.
type LocalBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]chan models.RecordChange
	logger *zap.Logger
}

// NewLocalBroker constructs an in-process broker.
func NewLocalBroker(logger *zap.Logger) *LocalBroker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalBroker{subs: make(map[int]chan models.RecordChange), logger: logger}
}

// Publish hands change to every subscriber. Slow subscribers drop events instead of
// blocking the publisher.
func (b *LocalBroker) Publish(_ context.Context, change models.RecordChange) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- change:
		default:
			b.logger.Warn("dropping realtime event for slow subscriber", zap.Int("subscriber", id), zap.String("record_id", change.RecordID))
		}
	}
	return nil
}

// Subscribe registers handler until the subscription is closed or ctx is cancelled.
func (b *LocalBroker) Subscribe(ctx context.Context, handler Handler) (Subscription, error) {
	ch := make(chan models.RecordChange, localBufferSize)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = ch
	b.mu.Unlock()

	sub := &localSubscription{broker: b, id: id, done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-ctx.Done():
				sub.Close() //nolint:errcheck
				return
			case <-sub.done:
				return
			case change := <-ch:
				handler(change)
			}
		}
	}()
	return sub, nil
}

// Subscribers reports the number of open subscriptions.
func (b *LocalBroker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

type localSubscription struct {
	broker *LocalBroker
	id     int
	once   sync.Once
	done   chan struct{}
}

func (s *localSubscription) Close() error {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.id)
		s.broker.mu.Unlock()
		close(s.done)
	})
	return nil
}
