package dto

import (
	"github.com/noah-isme/edudocs-api/internal/models"
)

// CreateRequestForm is the multipart form for POST /requests. The optional
// supporting document arrives in the "file" part.
type CreateRequestForm struct {
	DocumentType string `form:"document_type" binding:"required"`
	Details      string `form:"details" binding:"max=2000"`
}

// AssignPayload hands a record to a staff member.
type AssignPayload struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

// StatusPayload carries a manual status change.
type StatusPayload struct {
	Status models.RecordStatus `json:"status" binding:"required,oneof=PENDING ASSIGNED IN_PROGRESS ACTION_NEEDED COMPLETED"`
}

// ExpectedDatePayload records when the document can be collected (YYYY-MM-DD).
type ExpectedDatePayload struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

// CommentPayload appends to a request conversation. Mode is PLAIN for students and
// DIRECT or INTERNAL for staff.
type CommentPayload struct {
	Content string `json:"content" binding:"required,max=4000"`
	Mode    string `json:"mode" binding:"omitempty,oneof=PLAIN DIRECT INTERNAL"`
}

// RejectPayload declines an attachment.
type RejectPayload struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// ExportQuery selects the export format on top of the list filters.
type ExportQuery struct {
	models.RequestListQuery
	Format string `form:"format"`
}

// BulkResponse reports what a clear operation removed.
type BulkResponse struct {
	Applied []string `json:"applied"`
	Count   int      `json:"count"`
	Chunks  int      `json:"chunks"`
}
