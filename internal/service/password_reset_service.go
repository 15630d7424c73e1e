package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/repository"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

type passwordResetStore interface {
	Create(ctx context.Context, rec *models.PasswordResetRecord) error
	GetByID(ctx context.Context, id string) (*models.PasswordResetRecord, error)
	List(ctx context.Context, filter models.PasswordResetFilter) ([]*models.PasswordResetRecord, error)
	Update(ctx context.Context, rec *models.PasswordResetRecord, version time.Time) error
}

// PasswordResetService handles public reset submissions and their processing by staff.
type PasswordResetService struct {
	repo      passwordResetStore
	batches   batchApplier
	directory userDirectory
	events    *eventSink
	validator *validator.Validate
	logger    *zap.Logger
	batchSize int
	now       Clock
}

// NewPasswordResetService constructs the service.
func NewPasswordResetService(repo passwordResetStore, batches batchApplier, directory userDirectory, notifier notificationDispatcher, publisher changePublisher, audit auditWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, batchSize int) *PasswordResetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PasswordResetService{
		repo:      repo,
		batches:   batches,
		directory: directory,
		events: &eventSink{
			directory: directory,
			notifier:  notifier,
			publisher: publisher,
			audit:     audit,
			metrics:   metrics,
			logger:    logger,
		},
		validator: validate,
		logger:    logger,
		batchSize: batchSize,
		now:       systemClock,
	}
}

// Submit records a reset request from an unauthenticated user and alerts every super admin.
func (s *PasswordResetService) Submit(ctx context.Context, sub models.PasswordResetSubmission) (*models.PasswordResetRecord, error) {
	if err := s.validator.Struct(sub); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password reset request")
	}
	now := s.now()
	change, err := workflow.SubmitPasswordReset(sub, uuid.NewString(), now)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, change.Record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save password reset")
	}
	s.events.emit(ctx, change.Event)
	s.events.publish(ctx, models.KindPasswordReset, change.Record.ID, "CREATED", now)
	return change.Record, nil
}

// List returns the resets visible to actor, newest first.
func (s *PasswordResetService) List(ctx context.Context, actor models.IdentityFacts) ([]*models.PasswordResetRecord, error) {
	records, err := s.repo.List(ctx, workflow.PasswordResetFilterFor(actor))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list password resets")
	}
	return workflow.ListPasswordResets(actor, records), nil
}

// Assign hands a reset to a staff member.
func (s *PasswordResetService) Assign(ctx context.Context, actor models.IdentityFacts, id, assigneeID string) (*models.PasswordResetRecord, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can assign password resets")
	}
	assignee, err := s.directory.ResolveAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, "ASSIGNED", func(current *models.PasswordResetRecord, now time.Time) (*workflow.PasswordResetChange, error) {
		return workflow.AssignPasswordReset(actor, current, assignee, now)
	})
}

// SetStatus applies a manual status change.
func (s *PasswordResetService) SetStatus(ctx context.Context, actor models.IdentityFacts, id string, status models.RecordStatus) (*models.PasswordResetRecord, error) {
	return s.transition(ctx, actor, id, "STATUS_CHANGED", func(current *models.PasswordResetRecord, now time.Time) (*workflow.PasswordResetChange, error) {
		return workflow.SetPasswordResetStatus(actor, current, status, now)
	})
}

// Delete purges the reset for a super admin and hides it for anyone else.
func (s *PasswordResetService) Delete(ctx context.Context, actor models.IdentityFacts, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "password reset")
	}
	op, err := workflow.Delete(actor, rec)
	if err != nil {
		return err
	}
	if err := s.batches.ApplyBatch(ctx, []models.BatchOp{op}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete password reset")
	}
	if op.Type == models.BatchOpDelete {
		s.events.auditLog(ctx, actor, models.AuditActionPasswordResetPurge, "password_reset", id, auditValues(map[string]string{"email": rec.Email}))
	}
	s.events.publish(ctx, models.KindPasswordReset, id, string(op.Type), s.now())
	return nil
}

// ClearDisplayed applies Delete to every reset the actor currently sees.
func (s *PasswordResetService) ClearDisplayed(ctx context.Context, actor models.IdentityFacts) (BulkResult, error) {
	displayed, err := s.List(ctx, actor)
	if err != nil {
		return BulkResult{}, err
	}
	ops, err := workflow.ClearDisplayed(actor, displayed)
	if err != nil {
		return BulkResult{}, err
	}
	result, err := commitBulk(ctx, s.events.metrics, "clear_password_resets", ops, s.batchSize, batchOpID, s.batches.ApplyBatch)
	if len(result.Applied) > 0 {
		s.events.publish(ctx, models.KindPasswordReset, "", "CLEARED", s.now())
	}
	return result, err
}

type resetDecision func(current *models.PasswordResetRecord, now time.Time) (*workflow.PasswordResetChange, error)

func (s *PasswordResetService) transition(ctx context.Context, actor models.IdentityFacts, id, action string, decide resetDecision) (*models.PasswordResetRecord, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, notFoundOr(err, "password reset")
		}
		if !workflow.PasswordResetInScope(actor, current) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "password reset not found")
		}
		now := s.now()
		change, err := decide(current, now)
		if err != nil {
			return nil, err
		}
		if change.Noop {
			return current, nil
		}

		err = s.repo.Update(ctx, change.Record, current.UpdatedAt)
		switch {
		case err == nil:
		case errors.Is(err, repository.ErrStaleRecord) && attempt < maxStaleRetries:
			continue
		case errors.Is(err, repository.ErrStaleRecord):
			return nil, appErrors.Clone(appErrors.ErrConflict, "password reset was changed by someone else, reload and try again")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "password reset not found")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save password reset")
		}

		s.events.emit(ctx, change.Event)
		s.events.publish(ctx, models.KindPasswordReset, id, action, now)
		return change.Record, nil
	}
}
