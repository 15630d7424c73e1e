package models

import "time"

// RecordKind tags the two manageable record variants.
type RecordKind string

const (
	KindRequest       RecordKind = "request"
	KindPasswordReset RecordKind = "password_reset"
)

// ParseRecordKind accepts the route form of a record kind.
func ParseRecordKind(raw string) (RecordKind, bool) {
	switch raw {
	case "request", "requests":
		return KindRequest, true
	case "password_reset", "password-resets", "password_resets":
		return KindPasswordReset, true
	}
	return "", false
}

// Manageable is the capability shared by document requests and password resets.
type Manageable interface {
	Kind() RecordKind
	RecordID() string
	CurrentStatus() RecordStatus
	AssigneeID() string
	HiddenFor(userID string) bool
	IsDashboardHidden() bool
	Created() time.Time
}

// RecordChange is published whenever a record is created, mutated or removed.
type RecordChange struct {
	Kind     RecordKind `json:"kind"`
	RecordID string     `json:"record_id"`
	Action   string     `json:"action"`
	At       time.Time  `json:"at"`
}

// BatchOpType enumerates bulk mutation kinds.
type BatchOpType string

const (
	BatchOpDelete        BatchOpType = "DELETE"
	BatchOpHide          BatchOpType = "HIDE"
	BatchOpDashboardHide BatchOpType = "DASHBOARD_HIDE"
)

// BatchOp is one mutation inside a chunked bulk commit.
type BatchOp struct {
	Kind     RecordKind
	Type     BatchOpType
	RecordID string
	UserID   string
}
