package models

import "strings"

// IdentityFacts is the read-only snapshot of the acting user.
type IdentityFacts struct {
	ID          string
	Role        UserRole
	Name        string
	Email       string
	AdmissionNo string
}

// IsSuperAdmin reports whether the actor holds SUPER_ADMIN.
func (i IdentityFacts) IsSuperAdmin() bool { return i.Role == RoleSuperAdmin }

// IsStudent reports whether the actor holds STUDENT.
func (i IdentityFacts) IsStudent() bool { return i.Role == RoleStudent }

// IsStaffOrAdmin reports whether the actor is one of the peer processing roles.
func (i IdentityFacts) IsStaffOrAdmin() bool { return i.Role == RoleAdmin || i.Role == RoleStaff }

// SameEmail compares emails case-insensitively.
func (i IdentityFacts) SameEmail(email string) bool {
	return i.Email != "" && strings.EqualFold(strings.TrimSpace(i.Email), strings.TrimSpace(email))
}
