package models

import "time"

// Notification is an inbox entry consumed only by its recipient.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	Link      string    `db:"link" json:"link,omitempty"`
	Read      bool      `db:"read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
