package models

import (
	"time"

	"github.com/lib/pq"
)

// PasswordResetRecord is a student or staff request to have their password reset.
type PasswordResetRecord struct {
	ID              string         `db:"id" json:"id"`
	Role            UserRole       `db:"role" json:"role"`
	Email           string         `db:"email" json:"email"`
	FirstName       string         `db:"first_name" json:"first_name"`
	LastName        string         `db:"last_name" json:"last_name"`
	AdmissionNo     string         `db:"admission_no" json:"admission_no,omitempty"`
	Gender          string         `db:"gender" json:"gender,omitempty"`
	Phone           string         `db:"phone" json:"phone,omitempty"`
	Designation     string         `db:"designation" json:"designation,omitempty"`
	Status          RecordStatus   `db:"status" json:"status"`
	AssignedToID    *string        `db:"assigned_to_id" json:"assigned_to_id,omitempty"`
	AssignedToName  *string        `db:"assigned_to_name" json:"assigned_to_name,omitempty"`
	HiddenFromUsers pq.StringArray `db:"hidden_from_users" json:"-"`
	DashboardHidden bool           `db:"dashboard_hidden" json:"dashboard_hidden"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (p *PasswordResetRecord) FullName() string { return joinName(p.FirstName, p.LastName) }

// Kind implements Manageable.
func (p *PasswordResetRecord) Kind() RecordKind { return KindPasswordReset }

// RecordID implements Manageable.
func (p *PasswordResetRecord) RecordID() string { return p.ID }

// CurrentStatus implements Manageable.
func (p *PasswordResetRecord) CurrentStatus() RecordStatus { return p.Status }

// AssigneeID implements Manageable.
func (p *PasswordResetRecord) AssigneeID() string { return derefString(p.AssignedToID) }

// HiddenFor implements Manageable.
func (p *PasswordResetRecord) HiddenFor(userID string) bool {
	return containsString(p.HiddenFromUsers, userID)
}

// IsDashboardHidden implements Manageable.
func (p *PasswordResetRecord) IsDashboardHidden() bool { return p.DashboardHidden }

// Created implements Manageable.
func (p *PasswordResetRecord) Created() time.Time { return p.CreatedAt }

// Clone returns a deep copy.
func (p *PasswordResetRecord) Clone() *PasswordResetRecord {
	if p == nil {
		return nil
	}
	out := *p
	out.HiddenFromUsers = append(pq.StringArray(nil), p.HiddenFromUsers...)
	if p.AssignedToID != nil {
		v := *p.AssignedToID
		out.AssignedToID = &v
	}
	if p.AssignedToName != nil {
		v := *p.AssignedToName
		out.AssignedToName = &v
	}
	return &out
}

// PasswordResetSubmission is the public payload for requesting a reset.
type PasswordResetSubmission struct {
	Role        UserRole `json:"role" validate:"required,oneof=ADMIN STAFF STUDENT"`
	FirstName   string   `json:"first_name" validate:"required,max=100"`
	LastName    string   `json:"last_name" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	AdmissionNo string   `json:"admission_no" validate:"required_if=Role STUDENT,max=50"`
	Gender      string   `json:"gender" validate:"required_if=Role STUDENT,max=20"`
	Phone       string   `json:"phone" validate:"required_unless=Role STUDENT,max=30"`
	Designation string   `json:"designation" validate:"required_if=Role STAFF,max=100"`
}

// PasswordResetFilter scopes store queries for password resets.
type PasswordResetFilter struct {
	AssignedToID string
	Email        string
}
