package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edudocs-api/internal/dto"
	"github.com/noah-isme/edudocs-api/internal/models"
	"github.com/noah-isme/edudocs-api/internal/service"
	"github.com/noah-isme/edudocs-api/internal/workflow"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
	"github.com/noah-isme/edudocs-api/pkg/response"
)

const expectedDateLayout = "2006-01-02"

type requestService interface {
	Create(ctx context.Context, actor models.IdentityFacts, input service.CreateRequestInput) (*models.RequestRecord, error)
	Get(ctx context.Context, actor models.IdentityFacts, id string) (*models.RequestRecord, error)
	List(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) ([]*models.RequestRecord, error)
	Assign(ctx context.Context, actor models.IdentityFacts, id, assigneeID string) (*models.RequestRecord, error)
	SetStatus(ctx context.Context, actor models.IdentityFacts, id string, status models.RecordStatus) (*models.RequestRecord, error)
	SetExpectedDate(ctx context.Context, actor models.IdentityFacts, id string, date time.Time) (*models.RequestRecord, error)
	AddComment(ctx context.Context, actor models.IdentityFacts, id, content string, mode workflow.CommentMode) (*models.RequestRecord, error)
	Delete(ctx context.Context, actor models.IdentityFacts, id string) error
	ClearDisplayed(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery) (service.BulkResult, error)
}

type requestExporter interface {
	ExportRequests(ctx context.Context, actor models.IdentityFacts, query models.RequestListQuery, format service.ExportFormat) (*service.ExportFile, error)
}

// RequestHandler exposes document request endpoints.
type RequestHandler struct {
	service  requestService
	exporter requestExporter
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(svc requestService, exporter requestExporter) *RequestHandler {
	return &RequestHandler{service: svc, exporter: exporter}
}

// Create godoc
// @Summary Create document request
// @Description Students file a request for a school document with an optional supporting file
// @Tags Requests
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param document_type formData string true "Document type"
// @Param details formData string false "Details"
// @Param file formData file false "Supporting document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var form dto.CreateRequestForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err, "invalid request payload")
		return
	}

	input := service.CreateRequestInput{DocumentType: form.DocumentType, Details: form.Details}
	if header, err := c.FormFile("file"); err == nil {
		file, closeFn, err := openUpload(header)
		if err != nil {
			response.Error(c, err)
			return
		}
		defer closeFn()
		input.File = file
	}

	rec, err := h.service.Create(c.Request.Context(), actor, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// List godoc
// @Summary List document requests
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param tab query string false "all, new or history"
// @Param status query string false "Status filter"
// @Param search query string false "Search by id, student or document type"
// @Success 200 {object} response.Envelope
// @Router /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var query models.RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err, "invalid query parameters")
		return
	}

	records, err := h.service.List(c.Request.Context(), actor, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"count": len(records)})
}

// Get godoc
// @Summary Get document request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	rec, err := h.service.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Delete godoc
// @Summary Delete document request
// @Description Super admins purge the request, everyone else hides it from their own views
// @Tags Requests
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
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
// @Summary Clear displayed requests
// @Description Applies delete to every request currently shown under the given filters
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param tab query string false "all, new or history"
// @Param status query string false "Status filter"
// @Param search query string false "Search"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/clear [post]
func (h *RequestHandler) Clear(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var query models.RequestListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err, "invalid query parameters")
		return
	}
	result, err := h.service.ClearDisplayed(c.Request.Context(), actor, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bulkResponse(result), nil)
}

// Assign godoc
// @Summary Assign request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.AssignPayload true "Assignee"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /requests/{id}/assign [post]
func (h *RequestHandler) Assign(c *gin.Context) {
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
// @Summary Change request status
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.StatusPayload true "Status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /requests/{id}/status [patch]
func (h *RequestHandler) SetStatus(c *gin.Context) {
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

// SetExpectedDate godoc
// @Summary Set expected completion date
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.ExpectedDatePayload true "Date"
// @Success 200 {object} response.Envelope
// @Router /requests/{id}/expected-date [patch]
func (h *RequestHandler) SetExpectedDate(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var payload dto.ExpectedDatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err, "invalid expected date payload")
		return
	}
	date, err := time.ParseInLocation(expectedDateLayout, payload.Date, time.UTC)
	if err != nil {
		bindError(c, err, "date must be YYYY-MM-DD")
		return
	}
	rec, err := h.service.SetExpectedDate(c.Request.Context(), actor, c.Param("id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// AddComment godoc
// @Summary Comment on a request
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param payload body dto.CommentPayload true "Comment"
// @Success 201 {object} response.Envelope
// @Router /requests/{id}/comments [post]
func (h *RequestHandler) AddComment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var payload dto.CommentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		bindError(c, err, "invalid comment payload")
		return
	}
	mode := workflow.CommentMode(payload.Mode)
	if mode == "" {
		mode = workflow.CommentPlain
	}
	rec, err := h.service.AddComment(c.Request.Context(), actor, c.Param("id"), payload.Content, mode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rec)
}

// Export godoc
// @Summary Export requests
// @Description Downloads the filtered request list as CSV or PDF
// @Tags Requests
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Param tab query string false "all, new or history"
// @Param status query string false "Status filter"
// @Param search query string false "Search"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /requests/export [get]
func (h *RequestHandler) Export(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err, "invalid export parameters")
		return
	}
	file, err := h.exporter.ExportRequests(c.Request.Context(), actor, query.RequestListQuery, service.ExportFormat(query.Format))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Export-Rows", strconv.Itoa(file.Rows))
	response.File(c, file.Filename, file.ContentType, file.Data)
}

func openUpload(header *multipart.FileHeader) (*service.FileUpload, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unable to read uploaded file")
	}
	return &service.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}

func bulkResponse(result service.BulkResult) dto.BulkResponse {
	applied := result.Applied
	if applied == nil {
		applied = []string{}
	}
	return dto.BulkResponse{Applied: applied, Count: len(applied), Chunks: result.Chunks}
}
