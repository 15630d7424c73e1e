package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
)

func TestPasswordResetCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPasswordResetRepository(db)

	mock.ExpectExec("INSERT INTO password_resets").WillReturnResult(sqlmock.NewResult(1, 1))

	rec := &models.PasswordResetRecord{ID: "pr-1", Role: models.RoleStudent, Email: "sara@school.test", Status: models.StatusPending}
	require.NoError(t, repo.Create(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetListByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPasswordResetRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "role", "email", "first_name", "last_name", "admission_no", "gender", "phone", "designation", "status", "assigned_to_id", "assigned_to_name", "hidden_from_users", "dashboard_hidden", "created_at", "updated_at"}).
		AddRow("pr-1", "STUDENT", "sara@school.test", "Sara", "Student", "A123", "FEMALE", "", "", "PENDING", nil, nil, "{}", false, now, now)
	mock.ExpectQuery("FROM password_resets WHERE LOWER\\(email\\) = \\$1").
		WithArgs("sara@school.test").
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), models.PasswordResetFilter{Email: "Sara@School.test"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Sara Student", records[0].FullName())
	assert.Empty(t, records[0].AssigneeID())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetUpdateOutcomes(t *testing.T) {
	version := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
	rec := &models.PasswordResetRecord{ID: "pr-1", Status: models.StatusInProgress, UpdatedAt: version.Add(time.Minute)}

	t.Run("applied", func(t *testing.T) {
		db, mock, cleanup := newMock(t)
		defer cleanup()
		mock.ExpectExec("UPDATE password_resets SET status").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, NewPasswordResetRepository(db).Update(context.Background(), rec, version))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale", func(t *testing.T) {
		db, mock, cleanup := newMock(t)
		defer cleanup()
		mock.ExpectExec("UPDATE password_resets SET status").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		assert.ErrorIs(t, NewPasswordResetRepository(db).Update(context.Background(), rec, version), ErrStaleRecord)
	})

	t.Run("deleted", func(t *testing.T) {
		db, mock, cleanup := newMock(t)
		defer cleanup()
		mock.ExpectExec("UPDATE password_resets SET status").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		assert.ErrorIs(t, NewPasswordResetRepository(db).Update(context.Background(), rec, version), sql.ErrNoRows)
	})
}
