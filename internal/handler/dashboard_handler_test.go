package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/service"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

type dashboardServiceStub struct {
	kind    models.RecordKind
	hidden  string
	hideErr error
}

func (s *dashboardServiceStub) Get(context.Context, models.IdentityFacts) (*workflow.Dashboard, error) {
	return &workflow.Dashboard{
		Stats:          workflow.DashboardStats{Total: 3, Pending: 2, Completed: 1},
		RecentRequests: []*models.RequestRecord{{ID: "A123_001_0307"}},
	}, nil
}

func (s *dashboardServiceStub) Hide(_ context.Context, _ models.IdentityFacts, kind models.RecordKind, id string) error {
	s.kind = kind
	s.hidden = id
	return s.hideErr
}

func (s *dashboardServiceStub) Clear(_ context.Context, _ models.IdentityFacts, kind models.RecordKind) (service.BulkResult, error) {
	s.kind = kind
	return service.BulkResult{Applied: []string{"pr-1"}, Chunks: 1}, nil
}

func TestDashboardHandlerGet(t *testing.T) {
	router := newTestRouter(staffClaims, http.MethodGet, "/dashboard", NewDashboardHandler(&dashboardServiceStub{}).Get)

	rec := serve(router, http.MethodGet, "/dashboard", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var dash workflow.Dashboard
	decodeData(t, rec, &dash)
	assert.Equal(t, 3, dash.Stats.Total)
	assert.Equal(t, 2, dash.Stats.Pending)
	require.Len(t, dash.RecentRequests, 1)
}

func TestDashboardHandlerKindRoutes(t *testing.T) {
	svc := &dashboardServiceStub{}
	h := NewDashboardHandler(svc)

	router := newTestRouter(staffClaims, http.MethodDelete, "/dashboard/:kind/:id", h.Hide)
	rec := serve(router, http.MethodDelete, "/dashboard/requests/A123_001_0307", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, models.KindRequest, svc.kind)
	assert.Equal(t, "A123_001_0307", svc.hidden)

	rec = serve(router, http.MethodDelete, "/dashboard/grades/1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.hideErr = appErrors.Forbidden("students have no dashboard controls")
	rec = serve(router, http.MethodDelete, "/dashboard/requests/A123_001_0307", nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	router = newTestRouter(superClaims, http.MethodPost, "/dashboard/:kind/clear", h.Clear)
	rec = serve(router, http.MethodPost, "/dashboard/password-resets/clear", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.KindPasswordReset, svc.kind)
}
