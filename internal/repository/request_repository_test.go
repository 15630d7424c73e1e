package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
)

func requestHeaderRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "student_name", "student_email", "admission_no", "document_type", "details", "status", "assigned_to_id", "assigned_to_name", "expected_completion_at", "hidden_from_users", "dashboard_hidden", "created_at", "updated_at"}).
		AddRow("A123_001_0307", "s1", "Sara Student", "sara@school.test", "A123", "Reference Letter", "", "ASSIGNED", "t1", "Tom One", nil, "{s1}", false, now, now)
}

func TestRequestCreateWithAttachment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	now := time.Now()
	rec := &models.RequestRecord{
		ID: "A123_001_0307", StudentID: "s1", AdmissionNo: "A123", Status: models.StatusPending, CreatedAt: now, UpdatedAt: now,
		Attachments: []models.Attachment{{ID: "att-1", RequestID: "A123_001_0307", Name: "id.pdf", StorageKey: "k", Status: models.AttachmentPending}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO requests").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO request_attachments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NotNil(t, rec.HiddenFromUsers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCreateDuplicateKey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO requests").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.RequestRecord{ID: "A123_001_0307"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCountByAdmissionNo(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM requests WHERE admission_no = $1")).
		WithArgs("A123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByAdmissionNo(context.Background(), "A123")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestStorageKeysGroupsByRequest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT request_id, storage_key FROM request_attachments WHERE request_id = ANY($1) ORDER BY request_id, seq")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"request_id", "storage_key"}).
			AddRow("A123_001_0307", "requests/a1/form.pdf").
			AddRow("A123_001_0307", "requests/a2/cert.pdf").
			AddRow("A123_002_0307", "requests/a3/letter.pdf"))

	keys, err := repo.StorageKeys(context.Background(), []string{"A123_001_0307", "A123_002_0307", "A123_003_0307"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"A123_001_0307": {"requests/a1/form.pdf", "requests/a2/cert.pdf"},
		"A123_002_0307": {"requests/a3/letter.pdf"},
	}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := repo.StorageKeys(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRequestGetByIDLoadsChildren(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	now := time.Now()
	mock.ExpectQuery("FROM requests WHERE id = \\$1").WithArgs("A123_001_0307").WillReturnRows(requestHeaderRows(now))
	mock.ExpectQuery("FROM request_comments WHERE request_id = \\$1 ORDER BY seq").
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "author_id", "author_name", "author_role", "content", "is_internal", "is_direct_message", "created_at"}).
			AddRow("c1", "A123_001_0307", "s1", "Sara Student", "STUDENT", "hello", false, false, now).
			AddRow("c2", "A123_001_0307", "t1", "Tom One", "STAFF", "note", true, false, now))
	mock.ExpectQuery("FROM request_attachments WHERE request_id = \\$1 ORDER BY seq").
		WillReturnRows(sqlmock.NewRows([]string{"id", "request_id", "name", "storage_key", "content_type", "size_bytes", "uploaded_by_id", "uploaded_by", "status", "rejection_reason", "reviewed_by", "reviewed_at", "created_at"}))

	rec, err := repo.GetByID(context.Background(), "A123_001_0307")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, rec.Status)
	assert.Equal(t, "t1", rec.AssigneeID())
	assert.True(t, rec.HiddenFor("s1"))
	require.Len(t, rec.Comments, 2)
	assert.Equal(t, "c1", rec.Comments[0].ID)
	assert.NotNil(t, rec.Attachments)
	assert.Empty(t, rec.Attachments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery("FROM requests WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestRequestListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery("FROM requests WHERE assigned_to_id = \\$1 ORDER BY created_at DESC, id").
		WithArgs("t1").
		WillReturnRows(requestHeaderRows(time.Now()))

	records, err := repo.List(context.Background(), models.RequestFilter{AssignedToID: "t1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A123_001_0307", records[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApplyReviewWithComment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	version := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
	now := version.Add(time.Hour)
	reason := "blurry"
	write := RequestWrite{
		Record:             &models.RequestRecord{ID: "A123_001_0307", Status: models.StatusActionNeeded, UpdatedAt: now},
		Version:            version,
		ReviewedAttachment: &models.Attachment{ID: "att-1", RequestID: "A123_001_0307", Status: models.AttachmentRejected, RejectionReason: &reason},
		Comment:            &models.Comment{ID: "c9", RequestID: "A123_001_0307", Content: "Document Rejected: blurry", IsInternal: true},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT updated_at FROM requests WHERE id = \\$1 FOR UPDATE").
		WithArgs("A123_001_0307").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(version))
	mock.ExpectExec("UPDATE requests SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE request_attachments SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO request_comments").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Apply(context.Background(), write))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApplyStaleVersion(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	version := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT updated_at FROM requests").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(version.Add(time.Second)))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), RequestWrite{Record: &models.RequestRecord{ID: "A123_001_0307"}, Version: version})
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApplyReviewLostRace(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	version := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT updated_at FROM requests").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(version))
	mock.ExpectExec("UPDATE requests SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE request_attachments SET status").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), RequestWrite{
		Record:             &models.RequestRecord{ID: "A123_001_0307"},
		Version:            version,
		ReviewedAttachment: &models.Attachment{ID: "att-1", RequestID: "A123_001_0307"},
	})
	assert.ErrorIs(t, err, ErrStaleRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApplyCommentOnMissingRequest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT updated_at FROM requests").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), RequestWrite{
		Record:  &models.RequestRecord{ID: "gone"},
		Comment: &models.Comment{ID: "c1", RequestID: "gone"},
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
