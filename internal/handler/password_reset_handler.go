package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/dto"
	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/service"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

type passwordResetService interface {
	Submit(ctx context.Context, sub models.PasswordResetSubmission) (*models.PasswordResetRecord, error)
	List(ctx context.Context, actor models.IdentityFacts) ([]*models.PasswordResetRecord, error)
	Assign(ctx context.Context, actor models.IdentityFacts, id, assigneeID string) (*models.PasswordResetRecord, error)
	SetStatus(ctx context.Context, actor models.IdentityFacts, id string, status models.RecordStatus) (*models.PasswordResetRecord, error)
	Delete(ctx context.Context, actor models.IdentityFacts, id string) error
	ClearDisplayed(ctx context.Context, actor models.IdentityFacts) (service.BulkResult, error)
}

// PasswordResetHandler exposes password reset request endpoints.
type PasswordResetHandler struct {
	service passwordResetService
}

// NewPasswordResetHandler constructs the handler.
func NewPasswordResetHandler(svc passwordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: svc}
}

// Submit godoc
// @Summary Request a password reset
// @Description Public endpoint for users locked out of their account
// @Tags Password Resets
// @Accept json
// @Produce json
// @Param payload body models.PasswordResetSubmission true "Submission"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /password-resets [post]
func (h *PasswordResetHandler) Submit(c *gin.Context) {
	var sub models.PasswordResetSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		bindError(c, err, "invalid password reset payload")
		return
	}
	rec, err := h.service.Submit(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"id": rec.ID, "status": rec.Status})
}

// List godoc
// @Summary List password reset requests
// @Tags Password Resets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /password-resets [get]
func (h *PasswordResetHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	records, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"count": len(records)})
}

// Assign godoc
// @Summary Assign password reset
// @Tags Password Resets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Password reset ID"
// @Param payload body dto.AssignPayload true "Assignee"
// @Success 200 {object} response.Envelope
// @Router /password-resets/{id}/assign [post]
func (h *PasswordResetHandler) Assign(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var payload dto.AssignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err, "invalid assign payload")
		return
	}
	rec, err := h.service.Assign(c.Request.Context(), actor, c.Param("id"), payload.AssigneeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// SetStatus godoc
// @Summary Change password reset status
// @Tags Password Resets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Password reset ID"
// @Param payload body dto.StatusPayload true "Status"
// @Success 200 {object} response.Envelope
// @Router /password-resets/{id}/status [patch]
func (h *PasswordResetHandler) SetStatus(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var payload dto.StatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err, "invalid status payload")
		return
	}
	rec, err := h.service.SetStatus(c.Request.Context(), actor, c.Param("id"), payload.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Delete godoc
// @Summary Delete password reset
// @Tags Password Resets
// @Security BearerAuth
// @Param id path string true "Password reset ID"
// @Success 204
// @Router /password-resets/{id} [delete]
func (h *PasswordResetHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Clear displayed password resets
// @Tags Password Resets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /password-resets/clear [post]
func (h *PasswordResetHandler) Clear(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	result, err := h.service.ClearDisplayed(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bulkResponse(result), nil)
}
