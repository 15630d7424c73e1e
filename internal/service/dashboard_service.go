package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

type dashboardRequestReader interface {
	GetByID(ctx context.Context, id string) (*models.RequestRecord, error)
	List(ctx context.Context, filter models.RequestFilter) ([]*models.RequestRecord, error)
}

type dashboardResetReader interface {
	GetByID(ctx context.Context, id string) (*models.PasswordResetRecord, error)
	List(ctx context.Context, filter models.PasswordResetFilter) ([]*models.PasswordResetRecord, error)
}

// DashboardService composes the per-viewer dashboard and its hide controls.
type DashboardService struct {
	requests    dashboardRequestReader
	resets      dashboardResetReader
	batches     batchApplier
	events      eventSink
	metrics     *MetricsService
	logger      *zap.Logger
	now         Clock
	recentLimit int
	batchSize   int
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(requests dashboardRequestReader, resets dashboardResetReader, batches batchApplier, publisher changePublisher, metrics *MetricsService, logger *zap.Logger, recentLimit, batchSize int) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recentLimit <= 0 {
		recentLimit = workflow.DefaultRecentLimit
	}
	return &DashboardService{
		requests:    requests,
		resets:      resets,
		batches:     batches,
		events:      eventSink{publisher: publisher, metrics: metrics, logger: logger},
		metrics:     metrics,
		logger:      logger,
		now:         systemClock,
		recentLimit: recentLimit,
		batchSize:   batchSize,
	}
}

// Get loads both record kinds concurrently and builds the actor's dashboard.
func (s *DashboardService) Get(ctx context.Context, actor models.IdentityFacts) (*workflow.Dashboard, error) {
	var (
		requests []*models.RequestRecord
		resets   []*models.PasswordResetRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		requests, err = s.requests.List(gctx, workflow.RequestFilterFor(actor))
		return err
	})
	if actor.Role.IsManager() {
		g.Go(func() error {
			var err error
			resets, err = s.resets.List(gctx, workflow.PasswordResetFilterFor(actor))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard")
	}

	dash := workflow.BuildDashboard(actor, requests, resets, s.recentLimit)
	return &dash, nil
}

// Hide removes one record from the actor's dashboard recent slice.
func (s *DashboardService) Hide(ctx context.Context, actor models.IdentityFacts, kind models.RecordKind, id string) error {
	if !actor.Role.IsManager() {
		return appErrors.Forbidden("students have no dashboard to clear")
	}
	var rec models.Manageable
	switch kind {
	case models.KindRequest:
		r, err := s.requests.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "request")
		}
		rec = r
	case models.KindPasswordReset:
		r, err := s.resets.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "password reset")
		}
		rec = r
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown record kind")
	}

	op, err := workflow.HideFromDashboard(actor, rec)
	if err != nil {
		return err
	}
	if err := s.batches.ApplyBatch(ctx, []models.BatchOp{op}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hide record")
	}
	s.publish(ctx, kind, id)
	return nil
}

// Clear hides every record currently in the actor's recent slice of kind.
func (s *DashboardService) Clear(ctx context.Context, actor models.IdentityFacts, kind models.RecordKind) (BulkResult, error) {
	if !actor.Role.IsManager() {
		return BulkResult{}, appErrors.Forbidden("students have no dashboard to clear")
	}
	dash, err := s.Get(ctx, actor)
	if err != nil {
		return BulkResult{}, err
	}

	var ops []models.BatchOp
	switch kind {
	case models.KindRequest:
		ops, err = workflow.ClearDashboard(actor, dash.RecentRequests)
	case models.KindPasswordReset:
		ops, err = workflow.ClearDashboard(actor, dash.RecentPasswordResets)
	default:
		return BulkResult{}, appErrors.Clone(appErrors.ErrValidation, "unknown record kind")
	}
	if err != nil {
		return BulkResult{}, err
	}

	result, err := commitBulk(ctx, s.metrics, "clear_dashboard", ops, s.batchSize, batchOpID, s.batches.ApplyBatch)
	if len(result.Applied) > 0 {
		s.publish(ctx, kind, "")
	}
	return result, err
}

func (s *DashboardService) publish(ctx context.Context, kind models.RecordKind, id string) {
	s.events.publish(ctx, kind, id, string(models.BatchOpDashboardHide), s.now())
}
