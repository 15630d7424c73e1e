package workflow

import (
	"fmt"
	"time"

	"github.com/noah-isme/edudocs-api/internal/models"
)

// EventType names a state change that may fan out notifications.
type EventType string

const (
	EventRequestCreated         EventType = "REQUEST_CREATED"
	EventRequestAssigned        EventType = "REQUEST_ASSIGNED"
	EventStatusChanged          EventType = "STATUS_CHANGED"
	EventExpectedDateSet        EventType = "EXPECTED_DATE_SET"
	EventAttachmentApproved     EventType = "ATTACHMENT_APPROVED"
	EventAttachmentRejected     EventType = "ATTACHMENT_REJECTED"
	EventStaffUpload            EventType = "STAFF_UPLOAD"
	EventCommentAdded           EventType = "COMMENT_ADDED"
	EventPasswordResetSubmitted EventType = "PASSWORD_RESET_SUBMITTED"
	EventPasswordResetAssigned  EventType = "PASSWORD_RESET_ASSIGNED"
)

// ReadyForCollectionMessage is sent to students once a document is approved.
const ReadyForCollectionMessage = "Your document is ready for collection. You can collect it from the school or download the attached copy."

// UsersLink is where password reset notifications point.
const UsersLink = "/users"

// DateLayout renders expected collection dates in notifications.
const DateLayout = "2 Jan 2006"

// Event captures everything the router needs about a completed transition.
type Event struct {
	Type         EventType
	Actor        models.IdentityFacts
	RecordID     string
	StudentID    string
	StudentName  string
	AssigneeID   string
	Status       models.RecordStatus
	Comment      *models.Comment
	ExpectedDate *time.Time
	ResetName    string
}

// Intent is one notification to persist for a recipient.
type Intent struct {
	RecipientID string
	Message     string
	Link        string
}

// RequestLink is the deep link for a request.
func RequestLink(id string) string {
	return "/requests/" + id
}

// Route computes the notifications for ev. Recipients are deduplicated per event
// and the acting user is never notified about their own action.
func Route(ev Event, superAdminIDs []string) []Intent {
	b := intentBuilder{actorID: ev.Actor.ID, seen: map[string]struct{}{}}
	link := RequestLink(ev.RecordID)

	switch ev.Type {
	case EventRequestCreated:
		msg := fmt.Sprintf("New request %s from %s", ev.RecordID, ev.StudentName)
		b.addAll(superAdminIDs, msg, link)
	case EventRequestAssigned:
		b.add(ev.AssigneeID, fmt.Sprintf("You have been assigned request #%s", ev.RecordID), link)
	case EventStatusChanged:
		if ev.Status == models.StatusInProgress {
			b.add(ev.StudentID, fmt.Sprintf("Your request #%s is now In-Progress.", ev.RecordID), link)
		}
	case EventExpectedDateSet:
		if ev.ExpectedDate != nil {
			b.add(ev.StudentID, fmt.Sprintf("Expected collection date for #%s updated to %s", ev.RecordID, ev.ExpectedDate.Format(DateLayout)), link)
		}
	case EventAttachmentApproved:
		b.add(ev.StudentID, ReadyForCollectionMessage, link)
	case EventAttachmentRejected:
		b.add(ev.AssigneeID, fmt.Sprintf("Action Needed: Document rejected for request #%s", ev.RecordID), link)
	case EventStaffUpload:
		b.addAll(superAdminIDs, fmt.Sprintf("Document uploaded by staff for #%s. Review needed.", ev.RecordID), link)
	case EventCommentAdded:
		routeComment(&b, ev, superAdminIDs, link)
	case EventPasswordResetSubmitted:
		b.addAll(superAdminIDs, fmt.Sprintf("New Password Reset Request from %s", ev.ResetName), UsersLink)
	case EventPasswordResetAssigned:
		b.add(ev.AssigneeID, "Password Reset Request assigned to you", UsersLink)
	}
	return b.intents
}

func routeComment(b *intentBuilder, ev Event, superAdminIDs []string, link string) {
	if ev.Comment == nil {
		return
	}
	switch {
	case ev.Comment.IsInternal:
		msg := fmt.Sprintf("New internal comment on #%s", ev.RecordID)
		b.add(ev.AssigneeID, msg, link)
		b.addAll(superAdminIDs, msg, link)
	case ev.Comment.IsDirectMessage:
		b.add(ev.StudentID, fmt.Sprintf("New message on request #%s", ev.RecordID), link)
	default:
		msg := fmt.Sprintf("New message from student on #%s", ev.RecordID)
		b.addAll(superAdminIDs, msg, link)
		b.add(ev.AssigneeID, msg, link)
	}
}

type intentBuilder struct {
	actorID string
	seen    map[string]struct{}
	intents []Intent
}

func (b *intentBuilder) add(recipient, message, link string) {
	if recipient == "" || recipient == b.actorID {
		return
	}
	if _, ok := b.seen[recipient]; ok {
		return
	}
	b.seen[recipient] = struct{}{}
	b.intents = append(b.intents, Intent{RecipientID: recipient, Message: message, Link: link})
}

func (b *intentBuilder) addAll(recipients []string, message, link string) {
	for _, r := range recipients {
		b.add(r, message, link)
	}
}
