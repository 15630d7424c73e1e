package workflow

import (
	"sort"
	"strings"

	"github.com/noah-isme/edudocs-api/internal/models"
)

// List tabs.
const (
	TabAll     = "all"
	TabNew     = "new"
	TabHistory = "history"
)

// RequestInScope reports whether viewer may see rec at all: students their own
// requests, staff and admins what is assigned to them, super admins everything.
func RequestInScope(viewer models.IdentityFacts, rec *models.RequestRecord) bool {
	if rec == nil {
		return false
	}
	switch viewer.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleAdmin, models.RoleStaff:
		return viewer.ID != "" && rec.AssigneeID() == viewer.ID
	case models.RoleStudent:
		return viewer.ID != "" && rec.StudentID == viewer.ID
	}
	return false
}

// PasswordResetInScope applies the same rule to password resets, matching students by email.
func PasswordResetInScope(viewer models.IdentityFacts, rec *models.PasswordResetRecord) bool {
	if rec == nil {
		return false
	}
	switch viewer.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleAdmin, models.RoleStaff:
		return viewer.ID != "" && rec.AssigneeID() == viewer.ID
	case models.RoleStudent:
		return viewer.SameEmail(rec.Email)
	}
	return false
}

// InScope dispatches on the record kind.
func InScope(viewer models.IdentityFacts, rec models.Manageable) bool {
	switch r := rec.(type) {
	case *models.RequestRecord:
		return RequestInScope(viewer, r)
	case *models.PasswordResetRecord:
		return PasswordResetInScope(viewer, r)
	}
	return false
}

// RequestFilterFor translates the scope rule into a store query filter so that the
// store only returns candidate rows; RequestInScope is still applied to the result.
func RequestFilterFor(viewer models.IdentityFacts) models.RequestFilter {
	switch viewer.Role {
	case models.RoleStudent:
		return models.RequestFilter{StudentID: viewer.ID}
	case models.RoleAdmin, models.RoleStaff:
		return models.RequestFilter{AssignedToID: viewer.ID}
	}
	return models.RequestFilter{}
}

// PasswordResetFilterFor is the password reset counterpart of RequestFilterFor.
func PasswordResetFilterFor(viewer models.IdentityFacts) models.PasswordResetFilter {
	switch viewer.Role {
	case models.RoleStudent:
		return models.PasswordResetFilter{Email: strings.ToLower(strings.TrimSpace(viewer.Email))}
	case models.RoleAdmin, models.RoleStaff:
		return models.PasswordResetFilter{AssignedToID: viewer.ID}
	}
	return models.PasswordResetFilter{}
}

// AttachmentVisible reports whether viewer can see att. Managers see every upload;
// others see approved documents and their own uploads.
func AttachmentVisible(viewer models.IdentityFacts, att models.Attachment) bool {
	if viewer.Role.IsManager() {
		return true
	}
	if att.Status == models.AttachmentApproved {
		return true
	}
	return uploadedBy(viewer, att)
}

// uploadedBy matches on uploader id; rows written before ids were stored fall back to
// an exact display name comparison.
func uploadedBy(viewer models.IdentityFacts, att models.Attachment) bool {
	if att.UploadedByID != "" {
		return att.UploadedByID == viewer.ID
	}
	return viewer.Name != "" && att.UploadedBy == viewer.Name
}

// CommentVisible reports whether viewer can read c.
func CommentVisible(viewer models.IdentityFacts, c models.Comment) bool {
	switch viewer.Role {
	case models.RoleSuperAdmin:
		return true
	case models.RoleStudent:
		return !c.IsInternal
	case models.RoleAdmin, models.RoleStaff:
		return !c.IsDirectMessage || c.AuthorID == viewer.ID
	}
	return false
}

// FilterRequest returns a copy of rec carrying only what viewer may see.
func FilterRequest(viewer models.IdentityFacts, rec *models.RequestRecord) *models.RequestRecord {
	if rec == nil {
		return nil
	}
	out := rec.Clone()
	out.Comments = make([]models.Comment, 0, len(rec.Comments))
	for _, c := range rec.Comments {
		if CommentVisible(viewer, c) {
			out.Comments = append(out.Comments, c)
		}
	}
	out.Attachments = make([]models.Attachment, 0, len(rec.Attachments))
	for _, a := range rec.Attachments {
		if AttachmentVisible(viewer, a) {
			out.Attachments = append(out.Attachments, a)
		}
	}
	return out
}

// ListRequests applies scope, per-user hiding and the list page filters, newest first.
func ListRequests(viewer models.IdentityFacts, records []*models.RequestRecord, query models.RequestListQuery) []*models.RequestRecord {
	search := strings.ToLower(strings.TrimSpace(query.Search))
	out := make([]*models.RequestRecord, 0, len(records))
	for _, rec := range records {
		if !RequestInScope(viewer, rec) || rec.HiddenFor(viewer.ID) {
			continue
		}
		switch query.Tab {
		case TabNew:
			if rec.Status == models.StatusCompleted {
				continue
			}
		case TabHistory:
			if rec.Status != models.StatusCompleted {
				continue
			}
		}
		if query.Status != "" && string(rec.Status) != query.Status {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		out = append(out, FilterRequest(viewer, rec))
	}
	SortNewestFirst(out)
	return out
}

// ListPasswordResets applies scope and per-user hiding, newest first.
func ListPasswordResets(viewer models.IdentityFacts, records []*models.PasswordResetRecord) []*models.PasswordResetRecord {
	out := make([]*models.PasswordResetRecord, 0, len(records))
	for _, rec := range records {
		if !PasswordResetInScope(viewer, rec) || rec.HiddenFor(viewer.ID) {
			continue
		}
		out = append(out, rec)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders by creation time descending, breaking ties by id ascending.
func SortNewestFirst[T models.Manageable](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := items[i].Created(), items[j].Created()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return items[i].RecordID() < items[j].RecordID()
	})
}

func matchesSearch(rec *models.RequestRecord, needle string) bool {
	return strings.Contains(strings.ToLower(rec.ID), needle) ||
		strings.Contains(strings.ToLower(rec.StudentName), needle) ||
		strings.Contains(strings.ToLower(rec.DocumentType), needle)
}
