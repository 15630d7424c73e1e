package workflow

import (
	"strings"
	"time"

	"github.com/noah-isme/edudocs-api/internal/models"
	appErrors "github.com/noah-isme/edudocs-api/pkg/errors"
)

// PasswordResetChange is the outcome of a password reset transition.
type PasswordResetChange struct {
	Record *models.PasswordResetRecord
	Event  *Event
	Noop   bool
}

var passwordResetStatuses = map[models.RecordStatus]struct{}{
	models.StatusPending:    {},
	models.StatusAssigned:   {},
	models.StatusInProgress: {},
	models.StatusCompleted:  {},
}

// SubmitPasswordReset builds a PENDING password reset from a public submission.
func SubmitPasswordReset(sub models.PasswordResetSubmission, id string, now time.Time) (*PasswordResetChange, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password reset id required")
	}
	if !sub.Role.Valid() || sub.Role == models.RoleSuperAdmin {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
	record := &models.PasswordResetRecord{
		ID:          id,
		Role:        sub.Role,
		Email:       strings.ToLower(strings.TrimSpace(sub.Email)),
		FirstName:   strings.TrimSpace(sub.FirstName),
		LastName:    strings.TrimSpace(sub.LastName),
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
		Designation: strings.TrimSpace(sub.Designation),
	}
	if sub.Role == models.RoleStudent {
		record.AdmissionNo = strings.TrimSpace(sub.AdmissionNo)
		record.Gender = strings.TrimSpace(sub.Gender)
	} else {
		record.Phone = strings.TrimSpace(sub.Phone)
	}
	if sub.Role != models.RoleStaff {
		record.Designation = ""
	}

	return &PasswordResetChange{
		Record: record,
		Event: &Event{
			Type:      EventPasswordResetSubmitted,
			RecordID:  record.ID,
			ResetName: record.FullName(),
		},
	}, nil
}

// AssignPasswordReset hands a password reset to assignee and forces ASSIGNED.
func AssignPasswordReset(actor models.IdentityFacts, current *models.PasswordResetRecord, assignee Assignee, now time.Time) (*PasswordResetChange, error) {
	if !actor.IsSuperAdmin() {
		return nil, appErrors.Forbidden("only super admins can assign password resets")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "password reset request not found")
	}
	if strings.TrimSpace(assignee.ID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignee is required")
	}
	if current.AssigneeID() == assignee.ID && current.Status == models.StatusAssigned {
		return &PasswordResetChange{Record: current.Clone(), Noop: true}, nil
	}

	record := current.Clone()
	id, name := assignee.ID, assignee.Name
	record.AssignedToID = &id
	record.AssignedToName = &name
	record.Status = models.StatusAssigned
	record.UpdatedAt = now
	return &PasswordResetChange{
		Record: record,
		Event: &Event{
			Type:       EventPasswordResetAssigned,
			Actor:      actor,
			RecordID:   record.ID,
			AssigneeID: assignee.ID,
			Status:     record.Status,
			ResetName:  record.FullName(),
		},
	}, nil
}

// SetPasswordResetStatus applies a manual status edit; every state is reachable by hand.
func SetPasswordResetStatus(actor models.IdentityFacts, current *models.PasswordResetRecord, next models.RecordStatus, now time.Time) (*PasswordResetChange, error) {
	if !actor.Role.IsManager() {
		return nil, appErrors.Forbidden("students cannot change password reset status")
	}
	if current == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "password reset request not found")
	}
	if _, ok := passwordResetStatuses[next]; !ok {
		return nil, appErrors.InvalidTransition("password resets cannot move to %s", next)
	}
	if current.Status == next {
		return &PasswordResetChange{Record: current.Clone(), Noop: true}, nil
	}
	record := current.Clone()
	record.Status = next
	record.UpdatedAt = now
	return &PasswordResetChange{Record: record}, nil
}
