// Package workflow holds the request lifecycle rules: which transitions are legal for
// which actor, what each record looks like to a given viewer, and who is notified.
// Every function here is pure; callers load the freshest record, pass the clock and
// generated ids in, and persist the returned state.
package workflow

import (
	"strings"
	"time"

	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

// CommentMode selects how a comment is flagged.
type CommentMode string

const (
	CommentPlain    CommentMode = "PLAIN"
	CommentDirect   CommentMode = "DIRECT"
	CommentInternal CommentMode = "INTERNAL"
)

// SystemAuthorName authors comments generated by the engine itself.
const SystemAuthorName = "System Alert"

// Assignee identifies the user a record is assigned to.
type Assignee struct {
	ID   string
	Name string
}

// RequestChange is the outcome of a request transition. Noop is set when the call
// would not change anything, in which case Event is nil and nothing must be written.
type RequestChange struct {
	Record     *models.RequestRecord
	Comment    *models.Comment
	Attachment *models.Attachment
	Event      *Event
	Noop       bool
}

// NewRequestParams carries the caller-generated values for a new request.
type NewRequestParams struct {
	ID           string
	DocumentType string
	Details      string
	Attachment   *NewAttachment
}

// CommentParams carries a new comment.
type CommentParams struct {
	ID      string
	Content string
	Mode    CommentMode
}

var manualRequestStatuses = map[models.RecordStatus]struct{}{
	models.StatusPending:      {},
	models.StatusAssigned:     {},
	models.StatusInProgress:   {},
	models.StatusActionNeeded: {},
}

// NewRequest builds a PENDING request for a student.
func NewRequest(actor models.IdentityFacts, params NewRequestParams, now time.Time) (*RequestChange, error) {
	if !actor.IsStudent() {
		return nil, appErrors.Forbidden("only students can create document requests")
	}
	if strings.TrimSpace(actor.AdmissionNo) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student has no admission number")
	}
	if !models.IsDocumentType(params.DocumentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown document type")
	}
	if params.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "request id required")
	}

	record := &models.RequestRecord{
		ID:           params.ID,
		StudentID:    actor.ID,
		StudentName:  actor.Name,
		StudentEmail: actor.Email,
		AdmissionNo:  strings.TrimSpace(actor.AdmissionNo),
		DocumentType: params.DocumentType,
		Details:      strings.TrimSpace(params.Details),
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Comments:     []models.Comment{},
		Attachments:  []models.Attachment{},
	}

	change := &RequestChange{Record: record}
	if params.Attachment != nil {
		att, err := params.Attachment.build(record.ID, actor, models.AttachmentPending, now)
		if err != nil {
			return nil, err
		}
		record.Attachments = append(record.Attachments, *att)
		change.Attachment = att
	}

	change.Event = &Event{
		Type:        EventRequestCreated,
		Actor:       actor,
		RecordID:    record.ID,
		StudentID:   record.StudentID,
		StudentName: record.StudentName,
	}
	return change, nil
}

// Assign hands the request to assignee and resets it to ASSIGNED whatever its prior state.
func Assign(actor models.IdentityFacts, current *models.RequestRecord, assignee Assignee, now time.Time) (*RequestChange, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can assign requests")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if strings.TrimSpace(assignee.ID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignee is required")
	}
	if current.AssigneeID() == assignee.ID && current.Status == models.StatusAssigned {
		return &RequestChange{Record: current.Clone(), Noop: true}, nil
	}

	record := current.Clone()
	id, name := assignee.ID, assignee.Name
	record.AssignedToID = &id
	record.AssignedToName = &name
	record.Status = models.StatusAssigned
	record.UpdatedAt = now

	return &RequestChange{
		Record: record,
		Event: &Event{
			Type:       EventRequestAssigned,
			Actor:      actor,
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			AssigneeID: assignee.ID,
			Status:     record.Status,
		},
	}, nil
}

// SetStatus applies a manual status edit. COMPLETED is never reachable this way and a
// COMPLETED request cannot be moved out of it.
func SetStatus(actor models.IdentityFacts, current *models.RequestRecord, next models.RecordStatus, now time.Time) (*RequestChange, error) {
	if !actor.Role.IsManager() {
		return nil, appErrors.Forbidden("students cannot change request status")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if next == models.StatusCompleted {
		return nil, appErrors.InvalidTransition("COMPLETED is set only by approving a document")
	}
	if _, ok := manualRequestStatuses[next]; !ok {
		return nil, appErrors.InvalidTransition("unknown status %q", next)
	}
	if current.Status == models.StatusCompleted {
		return nil, appErrors.InvalidTransition("request %s is COMPLETED and cannot move to %s", current.ID, next)
	}
	if current.Status == next {
		return &RequestChange{Record: current.Clone(), Noop: true}, nil
	}

	record := current.Clone()
	record.Status = next
	record.UpdatedAt = now
	return &RequestChange{
		Record: record,
		Event: &Event{
			Type:       EventStatusChanged,
			Actor:      actor,
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			AssigneeID: record.AssigneeID(),
			Status:     next,
		},
	}, nil
}

// SetExpectedDate records when the document should be ready for collection.
func SetExpectedDate(actor models.IdentityFacts, current *models.RequestRecord, date time.Time, now time.Time) (*RequestChange, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can set the expected collection date")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	if date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "expected date is required")
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if current.ExpectedCompletionDate != nil && current.ExpectedCompletionDate.Equal(day) {
		return &RequestChange{Record: current.Clone(), Noop: true}, nil
	}

	record := current.Clone()
	record.ExpectedCompletionDate = &day
	record.UpdatedAt = now
	return &RequestChange{
		Record: record,
		Event: &Event{
			Type:         EventExpectedDateSet,
			Actor:        actor,
			RecordID:     record.ID,
			StudentID:    record.StudentID,
			ExpectedDate: &day,
		},
	}, nil
}

// AddComment appends a comment. Students always post plain comments on their own
// requests; every other role must pick DIRECT or INTERNAL.
func AddComment(actor models.IdentityFacts, current *models.RequestRecord, params CommentParams, now time.Time) (*RequestChange, error) {
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment content is required")
	}
	if params.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comment id required")
	}

	comment := models.Comment{
		ID:         params.ID,
		RequestID:  current.ID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		AuthorRole: string(actor.Role),
		Content:    content,
		CreatedAt:  now,
	}

	switch {
	case actor.IsStudent():
		if current.StudentID != actor.ID {
			return nil, appErrors.Forbidden("students can only comment on their own requests")
		}
	case actor.Role.IsManager():
		switch params.Mode {
		case CommentDirect:
			comment.IsDirectMessage = true
		case CommentInternal:
			comment.IsInternal = true
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "comment type must be DIRECT or INTERNAL")
		}
	default:
		return nil, appErrors.Forbidden("role %s cannot comment", actor.Role)
	}

	record := current.Clone()
	record.Comments = append(record.Comments, comment)
	return &RequestChange{
		Record:  record,
		Comment: &comment,
		Event: &Event{
			Type:       EventCommentAdded,
			Actor:      actor,
			RecordID:   record.ID,
			StudentID:  record.StudentID,
			AssigneeID: record.AssigneeID(),
			Comment:    &comment,
		},
	}, nil
}
