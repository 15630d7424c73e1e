package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edudocs-api/internal/models"
)

const (
	requestColumns    = `id, student_id, student_name, student_email, admission_no, document_type, details, status, assigned_to_id, assigned_to_name, expected_completion_at, hidden_from_users, dashboard_hidden, created_at, updated_at`
	commentColumns    = `id, request_id, author_id, author_name, author_role, content, is_internal, is_direct_message, created_at`
	attachmentColumns = `id, request_id, name, storage_key, content_type, size_bytes, uploaded_by_id, uploaded_by, status, rejection_reason, reviewed_by, reviewed_at, created_at`

	insertCommentQuery = `INSERT INTO request_comments (` + commentColumns + `) VALUES (:id, :request_id, :author_id, :author_name, :author_role, :content, :is_internal, :is_direct_message, :created_at)`
	insertAttachment   = `INSERT INTO request_attachments (` + attachmentColumns + `) VALUES (:id, :request_id, :name, :storage_key, :content_type, :size_bytes, :uploaded_by_id, :uploaded_by, :status, :rejection_reason, :reviewed_by, :reviewed_at, :created_at)`
)

// RequestWrite is one persisted transition. Version is the updated_at value the caller
// read; when it is zero the header is left alone and only the children are appended.
type RequestWrite struct {
	Record             *models.RequestRecord
	Version            time.Time
	Comment            *models.Comment
	NewAttachment      *models.Attachment
	ReviewedAttachment *models.Attachment
}

// RequestRepository persists document requests with their comments and attachments.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs a RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// CountByAdmissionNo returns how many requests already exist for an admission number.
func (r *RequestRepository) CountByAdmissionNo(ctx context.Context, admissionNo string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM requests WHERE admission_no = $1`, admissionNo); err != nil {
		return 0, fmt.Errorf("count requests: %w", err)
	}
	return count, nil
}

// Create inserts a new request together with any attachment submitted with it.
func (r *RequestRepository) Create(ctx context.Context, rec *models.RequestRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	const query = `INSERT INTO requests (` + requestColumns + `) VALUES (:id, :student_id, :student_name, :student_email, :admission_no, :document_type, :details, :status, :assigned_to_id, :assigned_to_name, :expected_completion_at, :hidden_from_users, :dashboard_hidden, :created_at, :updated_at)`
	if rec.HiddenFromUsers == nil {
		rec.HiddenFromUsers = []string{}
	}
	if _, err := tx.NamedExecContext(ctx, query, rec); err != nil {
		tx.Rollback() //nolint:errcheck
		if pqCode(err) == pqUniqueViolation {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create request: %w", err)
	}
	for i := range rec.Attachments {
		if _, err := tx.NamedExecContext(ctx, insertAttachment, rec.Attachments[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create request attachment: %w", err)
		}
	}
	for i := range rec.Comments {
		if _, err := tx.NamedExecContext(ctx, insertCommentQuery, rec.Comments[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("create request comment: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit request: %w", err)
	}
	return nil
}

// GetByID loads a request with its comments and attachments in insertion order.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*models.RequestRecord, error) {
	var rec models.RequestRecord
	if err := r.db.GetContext(ctx, &rec, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get request: %w", err)
	}
	rec.Comments = []models.Comment{}
	if err := r.db.SelectContext(ctx, &rec.Comments, `SELECT `+commentColumns+` FROM request_comments WHERE request_id = $1 ORDER BY seq`, id); err != nil {
		return nil, fmt.Errorf("list request comments: %w", err)
	}
	rec.Attachments = []models.Attachment{}
	if err := r.db.SelectContext(ctx, &rec.Attachments, `SELECT `+attachmentColumns+` FROM request_attachments WHERE request_id = $1 ORDER BY seq`, id); err != nil {
		return nil, fmt.Errorf("list request attachments: %w", err)
	}
	return &rec, nil
}

// List returns request headers matching filter, newest first. Children are not loaded.
func (r *RequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.RequestRecord, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.AssignedToID != "" {
		args = append(args, filter.AssignedToID)
		conditions = append(conditions, fmt.Sprintf("assigned_to_id = $%d", len(args)))
	}
	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	var records []*models.RequestRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return records, nil
}

// StorageKeys maps each of requestIDs to the blob keys of its attachments. Requests
// without attachments are absent from the result.
func (r *RequestRepository) StorageKeys(ctx context.Context, requestIDs []string) (map[string][]string, error) {
	keys := make(map[string][]string)
	if len(requestIDs) == 0 {
		return keys, nil
	}
	var rows []struct {
		RequestID  string `db:"request_id"`
		StorageKey string `db:"storage_key"`
	}
	const query = `SELECT request_id, storage_key FROM request_attachments WHERE request_id = ANY($1) ORDER BY request_id, seq`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(requestIDs)); err != nil {
		return nil, fmt.Errorf("list attachment storage keys: %w", err)
	}
	for _, row := range rows {
		keys[row.RequestID] = append(keys[row.RequestID], row.StorageKey)
	}
	return keys, nil
}

// Apply persists a transition atomically. The request row is locked first; a missing
// row yields sql.ErrNoRows and a version mismatch yields ErrStaleRecord.
func (r *RequestRepository) Apply(ctx context.Context, w RequestWrite) error {
	if w.Record == nil {
		return fmt.Errorf("apply request write: record is required")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	var version time.Time
	if err := tx.GetContext(ctx, &version, `SELECT updated_at FROM requests WHERE id = $1 FOR UPDATE`, w.Record.ID); err != nil {
		tx.Rollback() //nolint:errcheck
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("lock request: %w", err)
	}

	if !w.Version.IsZero() {
		if !version.Equal(w.Version) {
			tx.Rollback() //nolint:errcheck
			return ErrStaleRecord
		}
		const update = `UPDATE requests SET status = :status, assigned_to_id = :assigned_to_id, assigned_to_name = :assigned_to_name, expected_completion_at = :expected_completion_at, updated_at = :updated_at WHERE id = :id`
		if _, err := tx.NamedExecContext(ctx, update, w.Record); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("update request: %w", err)
		}
	}

	if w.ReviewedAttachment != nil {
		const review = `UPDATE request_attachments SET status = :status, rejection_reason = :rejection_reason, reviewed_by = :reviewed_by, reviewed_at = :reviewed_at WHERE id = :id AND request_id = :request_id AND status = 'PENDING'`
		res, err := tx.NamedExecContext(ctx, review, w.ReviewedAttachment)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("review attachment: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			tx.Rollback() //nolint:errcheck
			return ErrStaleRecord
		}
	}

	if w.NewAttachment != nil {
		if _, err := tx.NamedExecContext(ctx, insertAttachment, w.NewAttachment); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert attachment: %w", err)
		}
	}

	if w.Comment != nil {
		if _, err := tx.NamedExecContext(ctx, insertCommentQuery, w.Comment); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert comment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit request write: %w", err)
	}
	return nil
}
