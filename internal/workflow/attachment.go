package workflow

import (
	"strings"
	"time"

	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

// NewAttachment describes a blob that has already been written to storage.
type NewAttachment struct {
	ID         string
	Name       string
	MimeType   string
	Size       int64
	StorageKey string
}

func (n NewAttachment) build(requestID string, uploader models.IdentityFacts, status models.AttachmentStatus, now time.Time) (*models.Attachment, error) {
	if n.ID == "" || strings.TrimSpace(n.StorageKey) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attachment reference is required")
	}
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "attachment name is required")
	}
	return &models.Attachment{
		ID:           n.ID,
		RequestID:    requestID,
		Name:         name,
		StorageKey:   n.StorageKey,
		MimeType:     n.MimeType,
		Size:         n.Size,
		UploadedByID: uploader.ID,
		UploadedBy:   uploader.Name,
		Status:       status,
		CreatedAt:    now,
	}, nil
}

// Upload appends a staff document. A super admin upload is approved on the spot and
// completes the request; anything else waits for review.
func Upload(actor models.IdentityFacts, current *models.RequestRecord, att NewAttachment, now time.Time) (*RequestChange, error) {
	if !actor.Role.IsManager() {
		return nil, appErrors.Forbidden("only staff can upload documents to a request")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}

	record := current.Clone()
	if actor.IsSuperAdmin() {
		built, err := att.build(record.ID, actor, models.AttachmentApproved, now)
		if err != nil {
			return nil, err
		}
		reviewer := actor.Name
		built.ReviewedBy = &reviewer
		built.ReviewedAt = &now
		record.Attachments = append(record.Attachments, *built)
		record.Status = models.StatusCompleted
		record.UpdatedAt = now
		return &RequestChange{
			Record:     record,
			Attachment: built,
			Event: &Event{
				Type:       EventAttachmentApproved,
				Actor:      actor,
				RecordID:   record.ID,
				StudentID:  record.StudentID,
				AssigneeID: record.AssigneeID(),
				Status:     record.Status,
			},
		}, nil
	}

	if current.Status == models.StatusCompleted {
		return nil, appErrors.InvalidTransition("request %s is already COMPLETED", current.ID)
	}
	built, err := att.build(record.ID, actor, models.AttachmentPending, now)
	if err != nil {
		return nil, err
	}
	record.Attachments = append(record.Attachments, *built)
	return &RequestChange{
		Record:     record,
		Attachment: built,
		Event: &Event{
			Type:       EventStaffUpload,
			Actor:      actor,
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			AssigneeID: record.AssigneeID(),
			Status:     record.Status,
		},
	}, nil
}

// Approve accepts a pending attachment and completes the request. Approving an already
// approved attachment is a no-op.
func Approve(actor models.IdentityFacts, current *models.RequestRecord, attachmentID string, now time.Time) (*RequestChange, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can approve documents")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	target := current.FindAttachment(attachmentID)
	if target == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
	}
	switch target.Status {
	case models.AttachmentApproved:
		return &RequestChange{Record: current.Clone(), Noop: true}, nil
	case models.AttachmentRejected:
		return nil, appErrors.InvalidTransition("attachment %s was already rejected", attachmentID)
	}

	record := current.Clone()
	att := record.FindAttachment(attachmentID)
	reviewer := actor.Name
	att.Status = models.AttachmentApproved
	att.ReviewedBy = &reviewer
	att.ReviewedAt = &now
	record.Status = models.StatusCompleted
	record.UpdatedAt = now

	reviewed := *att
	return &RequestChange{
		Record:     record,
		Attachment: &reviewed,
		Event: &Event{
			Type:       EventAttachmentApproved,
			Actor:      actor,
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			AssigneeID: record.AssigneeID(),
			Status:     record.Status,
		},
	}, nil
}

// Reject declines a pending attachment, flags the request ACTION_NEEDED and appends a
// system comment carrying the reason. Rejecting an already rejected attachment is a no-op.
func Reject(actor models.IdentityFacts, current *models.RequestRecord, attachmentID, reason, commentID string, now time.Time) (*RequestChange, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can reject documents")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	target := current.FindAttachment(attachmentID)
	if target == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
	}
	switch target.Status {
	case models.AttachmentRejected:
		return &RequestChange{Record: current.Clone(), Noop: true}, nil
	case models.AttachmentApproved:
		return nil, appErrors.InvalidTransition("attachment %s was already approved", attachmentID)
	}
	if current.Status == models.StatusCompleted {
		return nil, appErrors.InvalidTransition("request %s is already COMPLETED", current.ID)
	}
	if commentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment id required")
	}

	record := current.Clone()
	att := record.FindAttachment(attachmentID)
	reviewer := actor.Name
	att.Status = models.AttachmentRejected
	att.RejectionReason = &reason
	att.ReviewedBy = &reviewer
	att.ReviewedAt = &now
	record.Status = models.StatusActionNeeded
	record.UpdatedAt = now

	comment := models.Comment{
		ID:         commentID,
		RequestID:  record.ID,
		AuthorID:   "system",
		AuthorName: SystemAuthorName,
		Content:    "Document Rejected: " + reason,
		IsInternal: true,
		CreatedAt:  now,
	}
	record.Comments = append(record.Comments, comment)

	reviewed := *att
	return &RequestChange{
		Record:     record,
		Comment:    &comment,
		Attachment: &reviewed,
		Event: &Event{
			Type:       EventAttachmentRejected,
			Actor:      actor,
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			AssigneeID: record.AssigneeID(),
			Status:     record.Status,
		},
	}, nil
}
