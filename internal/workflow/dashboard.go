package workflow

import "github.com/noah-isme/edudocs-api/internal/models"

// DefaultRecentLimit is the size of the dashboard recent slices.
const DefaultRecentLimit = 5

// DashboardStats summarises the records a viewer can see.
type DashboardStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Assigned     int `json:"assigned"`
	Completed    int `json:"completed"`
	ActionNeeded int `json:"action_needed"`
}

// Dashboard is the per-viewer summary view.
type Dashboard struct {
	Stats                DashboardStats                `json:"stats"`
	RecentRequests       []*models.RequestRecord       `json:"recent_requests"`
	RecentPasswordResets []*models.PasswordResetRecord `json:"recent_password_resets"`
}

// Recent drops dashboard-hidden records and returns the newest limit items.
func Recent[T models.Manageable](items []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.IsDashboardHidden() {
			continue
		}
		out = append(out, item)
	}
	SortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BuildDashboard computes stats and recent slices from already loaded records.
// Pending password resets count as action needed for super admins.
func BuildDashboard(viewer models.IdentityFacts, requests []*models.RequestRecord, resets []*models.PasswordResetRecord, limit int) Dashboard {
	visibleRequests := ListRequests(viewer, requests, models.RequestListQuery{})
	var visibleResets []*models.PasswordResetRecord
	if viewer.Role.IsManager() {
		visibleResets = ListPasswordResets(viewer, resets)
	}

	var stats DashboardStats
	stats.Total = len(visibleRequests)
	for _, rec := range visibleRequests {
		switch rec.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusAssigned, models.StatusInProgress:
			stats.Assigned++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusActionNeeded:
			stats.ActionNeeded++
		}
	}
	if viewer.IsSuperAdmin() {
		for _, reset := range visibleResets {
			if reset.Status == models.StatusPending {
				stats.ActionNeeded++
			}
		}
	}

	return Dashboard{
		Stats:                stats,
		RecentRequests:       Recent(visibleRequests, limit),
		RecentPasswordResets: Recent(visibleResets, limit),
	}
}
