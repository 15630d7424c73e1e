package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/jobs"
)

const notificationJobType = "notification"

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	IDsByUser(ctx context.Context, userID string, unreadOnly bool) ([]string, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	Delete(ctx context.Context, userID, id string) (bool, error)
	MarkReadBatch(ctx context.Context, userID string, ids []string) error
	DeleteBatch(ctx context.Context, userID string, ids []string) error
}

// NotificationConfig tunes background delivery and bulk inbox operations.
type NotificationConfig struct {
	Workers    int
	Buffer     int
	Retries    int
	RetryDelay time.Duration
	BatchSize  int
}

// NotificationInbox is the recipient's view of their notifications.
type NotificationInbox struct {
	Items  []models.Notification `json:"items"`
	Unread int                   `json:"unread"`
}

// NotificationService persists routed notifications in the background and serves each
// user's inbox. Delivery never blocks or fails the transition that produced it.
type NotificationService struct {
	repo      notificationStore
	queue     *jobs.Queue
	batchSize int
	metrics   *MetricsService
	logger    *zap.Logger
	now       Clock
}

// NewNotificationService constructs the service and its delivery queue. Call Start
// before dispatching.
func NewNotificationService(repo notificationStore, metrics *MetricsService, logger *zap.Logger, cfg NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{repo: repo, batchSize: cfg.BatchSize, metrics: metrics, logger: logger, now: systemClock}
	svc.queue = jobs.NewQueue("notifications", svc.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.Buffer,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnFailure:  svc.deliveryFailed,
	})
	return svc
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the delivery workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Drain waits until every dispatched notification was delivered or given up on.
func (s *NotificationService) Drain(ctx context.Context) error {
	return s.queue.Drain(ctx)
}

// Dispatch queues one notification per intent. A full or stopped queue drops the
// notification with a warning.
func (s *NotificationService) Dispatch(ctx context.Context, intents []workflow.Intent) {
	for _, intent := range intents {
		n := models.Notification{
			ID:        uuid.NewString(),
			UserID:    intent.RecipientID,
			Message:   intent.Message,
			Link:      intent.Link,
			CreatedAt: s.now(),
		}
		if err := s.queue.TryEnqueue(jobs.Job{ID: n.ID, Type: notificationJobType, Payload: n}); err != nil {
			s.metrics.RecordNotification("dropped")
			s.logger.Warn(appErrors.ErrNotificationDeliveryFailed.Message,
				zap.String("recipient", n.UserID),
				zap.String("message", n.Message),
				zap.Error(err))
		}
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected notification payload %T", job.Payload)
	}
	if err := s.repo.Create(ctx, &n); err != nil {
		return err
	}
	s.metrics.RecordNotification("delivered")
	return nil
}

func (s *NotificationService) deliveryFailed(job jobs.Job, err error) {
	s.metrics.RecordNotification("failed")
	s.logger.Warn(appErrors.ErrNotificationDeliveryFailed.Message,
		zap.String("notification_id", job.ID),
		zap.Int("attempts", job.Attempt),
		zap.Error(err))
}

// List returns the actor's notifications, newest first, with the unread count.
func (s *NotificationService) List(ctx context.Context, actor models.IdentityFacts, limit int) (*NotificationInbox, error) {
	items, err := s.repo.ListByUser(ctx, actor.ID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return &NotificationInbox{Items: items, Unread: unread}, nil
}

// MarkRead flags one of the actor's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, actor models.IdentityFacts, id string) error {
	found, err := s.repo.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// Delete removes one of the actor's notifications.
func (s *NotificationService) Delete(ctx context.Context, actor models.IdentityFacts, id string) error {
	found, err := s.repo.Delete(ctx, actor.ID, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notification")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead flags every unread notification of the actor in chunks.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.IdentityFacts) (BulkResult, error) {
	ids, err := s.repo.IDsByUser(ctx, actor.ID, true)
	if err != nil {
		return BulkResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return commitBulk(ctx, s.metrics, "mark_all_read", ids, s.batchSize, identity, func(ctx context.Context, chunk []string) error {
		return s.repo.MarkReadBatch(ctx, actor.ID, chunk)
	})
}

// DeleteAll removes every notification of the actor in chunks.
func (s *NotificationService) DeleteAll(ctx context.Context, actor models.IdentityFacts) (BulkResult, error) {
	ids, err := s.repo.IDsByUser(ctx, actor.ID, false)
	if err != nil {
		return BulkResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return commitBulk(ctx, s.metrics, "delete_all_notifications", ids, s.batchSize, identity, func(ctx context.Context, chunk []string) error {
		return s.repo.DeleteBatch(ctx, actor.ID, chunk)
	})
}
