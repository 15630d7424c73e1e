package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/realtime"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

type changeSubscriber interface {
	Subscribe(ctx context.Context, handler realtime.Handler) (realtime.Subscription, error)
}

// StreamService turns record change events into freshly filtered list snapshots.
type StreamService struct {
	requests requestLister
	broker   changeSubscriber
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewStreamService constructs a StreamService.
func NewStreamService(requests requestLister, broker changeSubscriber, metrics *MetricsService, logger *zap.Logger) *StreamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamService{requests: requests, broker: broker, metrics: metrics, logger: logger}
}

// WatchRequests emits the actor's list once and again after every request change.
// Bursts of changes are coalesced into one refresh. The channel closes when ctx ends,
// which also releases the broker subscription.
func (s *StreamService) WatchRequests(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) (<-chan []*models.RequestRecord, error) {
	initial, err := s.requests.List(ctx, actor, query)
	if err != nil {
		return nil, err
	}

	refresh := make(chan struct{}, 1)
	sub, err := s.broker.Subscribe(ctx, func(change models.RecordChange) {
		if change.Kind != models.KindRequest {
			return
		}
		select {
		case refresh <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open change stream")
	}
	s.metrics.SubscriberOpened()

	out := make(chan []*models.RequestRecord, 1)
	out <- initial
	go func() {
		defer func() {
			if err := sub.Close(); err != nil {
				s.logger.Debug("failed to close change subscription", zap.Error(err))
			}
			s.metrics.SubscriberClosed()
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-refresh:
			}
			records, err := s.requests.List(ctx, actor, query)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("failed to refresh streamed request list", zap.String("user_id", actor.ID), zap.Error(err))
				continue
			}
			select {
			case out <- records:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
