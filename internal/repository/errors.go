package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateKey is returned when an insert collides with an existing primary key.
	ErrDuplicateKey = errors.New("repository: duplicate key")
	// ErrStaleRecord is returned when a guarded write finds the row changed since it was read.
	ErrStaleRecord = errors.New("repository: record changed since it was read")
)

const pqUniqueViolation = "23505"

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
