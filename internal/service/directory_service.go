package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

const (
	superAdminsCacheKey = "directory:super_admins"
	assigneesCacheKey   = "directory:assignees"
	directoryCachePat   = "directory:*"
)

type directoryUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListByRoles(ctx context.Context, roles []models.UserRole) ([]models.User, error)
}

// DirectoryEntry is a user that work can be routed to.
type DirectoryEntry struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
}

// DirectoryService answers who the super admins are and who may take an assignment.
// Lookups are cached because every transition that notifies needs them.
type DirectoryService struct {
	users  directoryUserRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(users directoryUserRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{users: users, cache: cache, ttl: ttl, logger: logger}
}

// SuperAdminIDs returns the ids of every active super admin.
func (s *DirectoryService) SuperAdminIDs(ctx context.Context) ([]string, error) {
	entries, err := s.cachedList(ctx, superAdminsCacheKey, []models.UserRole{models.RoleSuperAdmin})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

// Assignees lists every active user that can process records.
func (s *DirectoryService) Assignees(ctx context.Context) ([]DirectoryEntry, error) {
	return s.cachedList(ctx, assigneesCacheKey, []models.UserRole{models.RoleSuperAdmin, models.RoleAdmin, models.RoleStaff})
}

// ResolveAssignee validates that id names an active non-student user.
func (s *DirectoryService) ResolveAssignee(ctx context.Context, id string) (workflow.Assignee, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workflow.Assignee{}, appErrors.Clone(appErrors.ErrNotFound, "assignee not found")
		}
		return workflow.Assignee{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignee")
	}
	if !user.Active || !user.Role.IsManager() {
		return workflow.Assignee{}, appErrors.Clone(appErrors.ErrValidation, "assignee must be an active staff member")
	}
	return workflow.Assignee{ID: user.ID, Name: user.FullName()}, nil
}

// Invalidate drops cached directory lookups.
func (s *DirectoryService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, directoryCachePat); err != nil {
		s.logger.Warn("failed to invalidate directory cache", zap.Error(err))
	}
}

func (s *DirectoryService) cachedList(ctx context.Context, key string, roles []models.UserRole) ([]DirectoryEntry, error) {
	var entries []DirectoryEntry
	if hit, _ := s.cache.Get(ctx, key, &entries); hit {
		return entries, nil
	}
	users, err := s.users.ListByRoles(ctx, roles)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	entries = make([]DirectoryEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, DirectoryEntry{ID: u.ID, Name: u.FullName(), Email: u.Email, Role: u.Role})
	}
	_ = s.cache.Set(ctx, key, entries, s.ttl)
	return entries, nil
}
