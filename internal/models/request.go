package models

import (
	"time"

	"github.com/lib/pq"
)

// RecordStatus enumerates lifecycle states shared by requests and password resets.
type RecordStatus string

const (
	StatusPending      RecordStatus = "PENDING"
	StatusAssigned     RecordStatus = "ASSIGNED"
	StatusInProgress   RecordStatus = "IN_PROGRESS"
	StatusActionNeeded RecordStatus = "ACTION_NEEDED"
	StatusCompleted    RecordStatus = "COMPLETED"
)

// AttachmentStatus enumerates attachment review states.
type AttachmentStatus string

const (
	AttachmentPending  AttachmentStatus = "PENDING"
	AttachmentApproved AttachmentStatus = "APPROVED"
	AttachmentRejected AttachmentStatus = "REJECTED"
)

// DocumentTypes is the catalogue of documents a student may request.
var DocumentTypes = []string{
	"Predicted Grades",
	"Edexcel Certificate",
	"Edexcel Exam Papers",
	"Academic Report Card",
	"Reference Letter",
	"School Leaving Certificate",
	"Awards Ceremony Certificate",
	"Other",
}

// IsDocumentType reports whether value belongs to the catalogue.
func IsDocumentType(value string) bool {
	for _, t := range DocumentTypes {
		if t == value {
			return true
		}
	}
	return false
}

// Comment is an entry in a request conversation.
type Comment struct {
	ID              string    `db:"id" json:"id"`
	RequestID       string    `db:"request_id" json:"request_id"`
	AuthorID        string    `db:"author_id" json:"author_id"`
	AuthorName      string    `db:"author_name" json:"author_name"`
	AuthorRole      string    `db:"author_role" json:"author_role,omitempty"`
	Content         string    `db:"content" json:"content"`
	IsInternal      bool      `db:"is_internal" json:"is_internal"`
	IsDirectMessage bool      `db:"is_direct_message" json:"is_direct_message"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Attachment is an uploaded document reference on a request.
type Attachment struct {
	ID              string           `db:"id" json:"id"`
	RequestID       string           `db:"request_id" json:"request_id"`
	Name            string           `db:"name" json:"name"`
	StorageKey      string           `db:"storage_key" json:"-"`
	MimeType        string           `db:"content_type" json:"mime_type"`
	Size            int64            `db:"size_bytes" json:"size"`
	UploadedByID    string           `db:"uploaded_by_id" json:"uploaded_by_id,omitempty"`
	UploadedBy      string           `db:"uploaded_by" json:"uploaded_by"`
	Status          AttachmentStatus `db:"status" json:"status"`
	RejectionReason *string          `db:"rejection_reason" json:"rejection_reason,omitempty"`
	ReviewedBy      *string          `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time       `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

// RequestRecord is the document-request aggregate.
type RequestRecord struct {
	ID                     string         `db:"id" json:"id"`
	StudentID              string         `db:"student_id" json:"student_id"`
	StudentName            string         `db:"student_name" json:"student_name"`
	StudentEmail           string         `db:"student_email" json:"student_email,omitempty"`
	AdmissionNo            string         `db:"admission_no" json:"admission_no"`
	DocumentType           string         `db:"document_type" json:"document_type"`
	Details                string         `db:"details" json:"details"`
	Status                 RecordStatus   `db:"status" json:"status"`
	AssignedToID           *string        `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	AssignedToName         *string        `db:"assigned_to_name" json:"assigned_to_name,omitempty"`
	ExpectedCompletionDate *time.Time     `db:"expected_completion_at" json:"expected_completion_date,omitempty"`
	HiddenFromUsers        pq.StringArray `db:"hidden_from_users" json:"-"`
	DashboardHidden        bool           `db:"dashboard_hidden" json:"dashboard_hidden"`
	CreatedAt              time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at" json:"updated_at"`
	Comments               []Comment      `db:"-" json:"comments"`
	Attachments            []Attachment   `db:"-" json:"attachments"`
}

// Kind implements Manageable.
func (r *RequestRecord) Kind() RecordKind { return KindRequest }

// RecordID implements Manageable.
func (r *RequestRecord) RecordID() string { return r.ID }

// CurrentStatus implements Manageable.
func (r *RequestRecord) CurrentStatus() RecordStatus { return r.Status }

// AssigneeID implements Manageable.
func (r *RequestRecord) AssigneeID() string { return derefString(r.AssignedToID) }

// HiddenFor implements Manageable.
func (r *RequestRecord) HiddenFor(userID string) bool { return containsString(r.HiddenFromUsers, userID) }

// IsDashboardHidden implements Manageable.
func (r *RequestRecord) IsDashboardHidden() bool { return r.DashboardHidden }

// Created implements Manageable.
func (r *RequestRecord) Created() time.Time { return r.CreatedAt }

// FindAttachment returns the attachment with id or nil.
func (r *RequestRecord) FindAttachment(id string) *Attachment {
	for i := range r.Attachments {
		if r.Attachments[i].ID == id {
			return &r.Attachments[i]
		}
	}
	return nil
}

// HasApprovedAttachment reports whether any attachment was approved.
func (r *RequestRecord) HasApprovedAttachment() bool {
	for _, a := range r.Attachments {
		if a.Status == AttachmentApproved {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so workflow decisions never alias the caller's slices.
func (r *RequestRecord) Clone() *RequestRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.HiddenFromUsers = append(pq.StringArray(nil), r.HiddenFromUsers...)
	out.Comments = append([]Comment(nil), r.Comments...)
	out.Attachments = append([]Attachment(nil), r.Attachments...)
	if r.AssignedToID != nil {
		v := *r.AssignedToID
		out.AssignedToID = &v
	}
	if r.AssignedToName != nil {
		v := *r.AssignedToName
		out.AssignedToName = &v
	}
	if r.ExpectedCompletionDate != nil {
		v := *r.ExpectedCompletionDate
		out.ExpectedCompletionDate = &v
	}
	return &out
}

// RequestFilter scopes store queries by ownership or assignment.
type RequestFilter struct {
	StudentID    string
	AssignedToID string
}

// RequestListQuery mirrors the list page filters.
type RequestListQuery struct {
	Tab    string `form:"tab" binding:"omitempty,oneof=all new history" validate:"omitempty,oneof=all new history"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING ASSIGNED IN_PROGRESS ACTION_NEEDED COMPLETED" validate:"omitempty,oneof=PENDING ASSIGNED IN_PROGRESS ACTION_NEEDED COMPLETED"`
	Search string `form:"search" binding:"omitempty,max=100" validate:"omitempty,max=100"`
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func containsString(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, item := range values {
		if item == v {
			return true
		}
	}
	return false
}
