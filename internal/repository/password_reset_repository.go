package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edudocs-api/internal/models"
)

const passwordResetColumns = `id, role, email, first_name, last_name, admission_no, gender, phone, designation, status, assigned_to_id, assigned_to_name, hidden_from_users, dashboard_hidden, created_at, updated_at`

// PasswordResetRepository persists password reset requests.
type PasswordResetRepository struct {
	db *sqlx.DB
}

// NewPasswordResetRepository constructs a PasswordResetRepository.
func NewPasswordResetRepository(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create inserts a new password reset.
func (r *PasswordResetRepository) Create(ctx context.Context, rec *models.PasswordResetRecord) error {
	if rec.HiddenFromUsers == nil {
		rec.HiddenFromUsers = []string{}
	}
	const query = `INSERT INTO password_resets (` + passwordResetColumns + `) VALUES (:id, :role, :email, :first_name, :last_name, :admission_no, :gender, :phone, :designation, :status, :assigned_to_id, :assigned_to_name, :hidden_from_users, :dashboard_hidden, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

// GetByID returns a password reset by id.
func (r *PasswordResetRepository) GetByID(ctx context.Context, id string) (*models.PasswordResetRecord, error) {
	var rec models.PasswordResetRecord
	if err := r.db.GetContext(ctx, &rec, `SELECT `+passwordResetColumns+` FROM password_resets WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get password reset: %w", err)
	}
	return &rec, nil
}

// List returns password resets matching filter, newest first.
func (r *PasswordResetRepository) List(ctx context.Context, filter models.PasswordResetFilter) ([]*models.PasswordResetRecord, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.AssignedToID != "" {
		args = append(args, filter.AssignedToID)
		conditions = append(conditions, fmt.Sprintf("assigned_to_id = $%d", len(args)))
	}
	if filter.Email != "" {
		args = append(args, strings.ToLower(filter.Email))
		conditions = append(conditions, fmt.Sprintf("LOWER(email) = $%d", len(args)))
	}
	query := `SELECT ` + passwordResetColumns + ` FROM password_resets`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	var records []*models.PasswordResetRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list password resets: %w", err)
	}
	return records, nil
}

// Update writes status and assignment guarded by the updated_at value the caller read.
func (r *PasswordResetRepository) Update(ctx context.Context, rec *models.PasswordResetRecord, version time.Time) error {
	const query = `UPDATE password_resets SET status = $1, assigned_to_id = $2, assigned_to_name = $3, updated_at = $4 WHERE id = $5 AND updated_at = $6`
	res, err := r.db.ExecContext(ctx, query, rec.Status, rec.AssignedToID, rec.AssignedToName, rec.UpdatedAt, rec.ID, version)
	if err != nil {
		return fmt.Errorf("update password reset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password reset: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM password_resets WHERE id = $1)`, rec.ID); err != nil {
			return fmt.Errorf("check password reset: %w", err)
		}
		if !exists {
			return sql.ErrNoRows
		}
		return ErrStaleRecord
	}
	return nil
}
