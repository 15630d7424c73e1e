package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
)

func TestRecentTakesNewestAndBreaksTiesByID(t *testing.T) {
	var records []*models.RequestRecord
	for i := 0; i < 8; i++ {
		records = append(records, &models.RequestRecord{
			ID:        fmt.Sprintf("R_%03d", i),
			CreatedAt: now.Add(time.Duration(i/2) * time.Hour),
		})
	}
	records[7].DashboardHidden = true

	recent := Recent(records, 5)
	require.Len(t, recent, 5)
	ids := make([]string, 0, len(recent))
	for _, r := range recent {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"R_006", "R_004", "R_005", "R_002", "R_003"}, ids)

	assert.Len(t, Recent(records, 0), DefaultRecentLimit)
	assert.Empty(t, Recent([]*models.RequestRecord{}, 5))
}

func TestBuildDashboardForSuperAdmin(t *testing.T) {
	assignee := staffT1.ID
	requests := []*models.RequestRecord{
		{ID: "r1", StudentID: "s1", Status: models.StatusPending, CreatedAt: now},
		{ID: "r2", StudentID: "s1", Status: models.StatusAssigned, AssignedToID: &assignee, CreatedAt: now.Add(time.Minute)},
		{ID: "r3", StudentID: "s2", Status: models.StatusInProgress, AssignedToID: &assignee, CreatedAt: now.Add(2 * time.Minute)},
		{ID: "r4", StudentID: "s2", Status: models.StatusCompleted, CreatedAt: now.Add(3 * time.Minute), DashboardHidden: true},
		{ID: "r5", StudentID: "s2", Status: models.StatusActionNeeded, CreatedAt: now.Add(4 * time.Minute), HiddenFromUsers: pq.StringArray{superAdmin.ID}},
	}
	resets := []*models.PasswordResetRecord{
		{ID: "p1", Email: "a@x.test", Status: models.StatusPending, CreatedAt: now},
		{ID: "p2", Email: "b@x.test", Status: models.StatusCompleted, CreatedAt: now.Add(time.Minute)},
	}

	dash := BuildDashboard(superAdmin, requests, resets, 5)
	assert.Equal(t, DashboardStats{Total: 4, Pending: 1, Assigned: 2, Completed: 1, ActionNeeded: 1}, dash.Stats)
	require.Len(t, dash.RecentRequests, 3)
	assert.Equal(t, "r3", dash.RecentRequests[0].ID)
	require.Len(t, dash.RecentPasswordResets, 2)
	assert.Equal(t, "p2", dash.RecentPasswordResets[0].ID)
}

func TestBuildDashboardScopesByViewer(t *testing.T) {
	assignee := staffT1.ID
	requests := []*models.RequestRecord{
		{ID: "r1", StudentID: "s1", Status: models.StatusPending, CreatedAt: now},
		{ID: "r2", StudentID: "s1", Status: models.StatusActionNeeded, AssignedToID: &assignee, CreatedAt: now},
	}
	resets := []*models.PasswordResetRecord{
		{ID: "p1", Status: models.StatusPending, AssignedToID: &assignee, CreatedAt: now},
		{ID: "p2", Status: models.StatusPending, CreatedAt: now},
	}

	staffDash := BuildDashboard(staffT1, requests, resets, 5)
	assert.Equal(t, DashboardStats{Total: 1, ActionNeeded: 1}, staffDash.Stats)
	require.Len(t, staffDash.RecentPasswordResets, 1)
	assert.Equal(t, "p1", staffDash.RecentPasswordResets[0].ID)

	studentDash := BuildDashboard(studentS1, requests, resets, 5)
	assert.Equal(t, 2, studentDash.Stats.Total)
	assert.Empty(t, studentDash.RecentPasswordResets)
}
