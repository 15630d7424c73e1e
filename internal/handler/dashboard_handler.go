package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/service"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

type dashboardService interface {
	Get(ctx context.Context, actor models.IdentityFacts) (*workflow.Dashboard, error)
	Hide(ctx context.Context, actor models.IdentityFacts, kind models.RecordKind, id string) error
	Clear(ctx context.Context, actor models.IdentityFacts, kind models.RecordKind) (service.BulkResult, error)
}

// DashboardHandler exposes the per-viewer dashboard.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Get godoc
// @Summary Dashboard summary
// @Description Status counts and the most recent requests (and password resets for staff)
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	dash, err := h.service.Get(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}

// Hide godoc
// @Summary Remove a record from the dashboard
// @Tags Dashboard
// @Security BearerAuth
// @Param kind path string true "requests or password-resets"
// @Param id path string true "Record ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /dashboard/{kind}/{id} [delete]
func (h *DashboardHandler) Hide(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	if err := h.service.Hide(c.Request.Context(), actor, kind, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Clear the dashboard recent list
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param kind path string true "requests or password-resets"
// @Success 200 {object} response.Envelope
// @Router /dashboard/{kind}/clear [post]
func (h *DashboardHandler) Clear(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	kind, ok := recordKindParam(c)
	if !ok {
		return
	}
	result, err := h.service.Clear(c.Request.Context(), actor, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bulkResponse(result), nil)
}
