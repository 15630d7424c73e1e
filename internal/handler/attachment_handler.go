package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/dto"
	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/service"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

type attachmentService interface {
	UploadAttachment(ctx context.Context, actor models.IdentityFacts, id string, file *service.FileUpload) (*models.RequestRecord, error)
	ApproveAttachment(ctx context.Context, actor models.IdentityFacts, id, attachmentID string) (*models.RequestRecord, error)
	RejectAttachment(ctx context.Context, actor models.IdentityFacts, id, attachmentID, reason string) (*models.RequestRecord, error)
	AttachmentLink(ctx context.Context, actor models.IdentityFacts, id, attachmentID string) (*service.AttachmentLink, error)
	OpenAttachment(ctx context.Context, id, attachmentID, token string) (*models.Attachment, io.ReadCloser, error)
}

// AttachmentHandler exposes document upload, review and download endpoints.
type AttachmentHandler struct {
	service attachmentService
}

// NewAttachmentHandler constructs the handler.
func NewAttachmentHandler(svc attachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: svc}
}

// Upload godoc
// @Summary Upload a document
// @Description Staff attach the prepared document. It stays hidden from the student until approved.
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param file formData file true "Document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /requests/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		bindError(c, err, "file is required")
		return
	}
	file, closeFn, err := openUpload(header)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer closeFn()

	rec, err := h.service.UploadAttachment(c.Request.Context(), actor, c.Param("id"), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// Approve godoc
// @Summary Approve a document
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/attachments/{attachmentId}/approve [post]
func (h *AttachmentHandler) Approve(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	rec, err := h.service.ApproveAttachment(c.Request.Context(), actor, c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Reject godoc
// @Summary Reject a document
// @Tags Attachments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param attachmentId path string true "Attachment ID"
// @Param payload body dto.RejectPayload true "Reason"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/attachments/{attachmentId}/reject [post]
func (h *AttachmentHandler) Reject(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var payload dto.RejectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err, "a rejection reason is required")
		return
	}
	rec, err := h.service.RejectAttachment(c.Request.Context(), actor, c.Param("id"), c.Param("attachmentId"), payload.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Link godoc
// @Summary Issue a download link
// @Tags Attachments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id}/attachments/{attachmentId}/url [get]
func (h *AttachmentHandler) Link(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	link, err := h.service.AttachmentLink(c.Request.Context(), actor, c.Param("id"), c.Param("attachmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download a document
// @Description Streams the file behind a signed link
// @Tags Attachments
// @Produce octet-stream
// @Param id path string true "Request ID"
// @Param attachmentId path string true "Attachment ID"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /requests/{id}/attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "download token is required"))
		return
	}
	att, reader, err := h.service.OpenAttachment(c.Request.Context(), c.Param("id"), c.Param("attachmentId"), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	contentType := att.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, att.Size, contentType, reader, map[string]string{
		"Content-Disposition": "attachment; filename=\"" + att.Name + "\"",
	})
}
