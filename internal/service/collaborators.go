package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/repository"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

// maxStaleRetries bounds how often a transition is re-validated after losing a race.
const maxStaleRetries = 1

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type changePublisher interface {
	Publish(ctx context.Context, change models.RecordChange) error
}

type notificationDispatcher interface {
	Dispatch(ctx context.Context, intents []workflow.Intent)
}

type userDirectory interface {
	SuperAdminIDs(ctx context.Context) ([]string, error)
	ResolveAssignee(ctx context.Context, id string) (workflow.Assignee, error)
}

type batchApplier interface {
	ApplyBatch(ctx context.Context, ops []models.BatchOp) error
}

// Clock returns the current time at database precision.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// notFoundOr maps a store miss to a NotFound error and anything else to an internal one.
func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what)
}

func isStale(err error) bool {
	return errors.Is(err, repository.ErrStaleRecord)
}

// eventSink fans a persisted transition out to notifications and live subscribers.
// Every failure here is logged and swallowed.
type eventSink struct {
	directory userDirectory
	notifier  notificationDispatcher
	publisher changePublisher
	audit     auditWriter
	metrics   *MetricsService
	logger    *zap.Logger
}

func (s *eventSink) emit(ctx context.Context, ev *workflow.Event) {
	if ev == nil || s.notifier == nil {
		return
	}
	var superAdmins []string
	if s.directory != nil {
		ids, err := s.directory.SuperAdminIDs(ctx)
		if err != nil {
			s.logger.Warn("failed to resolve super admins for notification", zap.String("event", string(ev.Type)), zap.Error(err))
			s.metrics.RecordNotification("dropped")
			return
		}
		superAdmins = ids
	}
	s.notifier.Dispatch(ctx, workflow.Route(*ev, superAdmins))
}

func (s *eventSink) publish(ctx context.Context, kind models.RecordKind, id, action string, at time.Time) {
	s.metrics.RecordTransition(string(kind), action)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, models.RecordChange{Kind: kind, RecordID: id, Action: action, At: at}); err != nil {
		s.logger.Warn("failed to publish record change", zap.String("record_id", id), zap.String("action", action), zap.Error(err))
	}
}

func (s *eventSink) auditLog(ctx context.Context, actor models.IdentityFacts, action, resource, resourceID string, values []byte) {
	if s.audit == nil {
		return
	}
	userID := actor.ID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  values,
	}); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.String("resource_id", resourceID), zap.Error(err))
	}
}
