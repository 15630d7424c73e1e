package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/service"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

type directoryService interface {
	Assignees(ctx context.Context) ([]service.DirectoryEntry, error)
}

// DirectoryHandler lists the users work can be assigned to.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(svc directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: svc}
}

// Assignees godoc
// @Summary List assignable users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/assignees [get]
func (h *DirectoryHandler) Assignees(c *gin.Context) {
	entries, err := h.service.Assignees(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil, map[string]interface{}{"count": len(entries)})
}
