package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edudocs-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var userRowColumns = []string{"id", "email", "password_hash", "first_name", "last_name", "role", "admission_no", "active", "created_at", "updated_at"}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("1", "sara@school.test", "hash", "Sara", "Student", string(models.RoleStudent), "A123", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE LOWER(email) = $1 LIMIT 1")).
		WithArgs("sara@school.test").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), " Sara@School.test ")
	require.NoError(t, err)
	assert.Equal(t, "Sara Student", user.FullName())
	require.NotNil(t, user.AdmissionNo)
	assert.Equal(t, "A123", *user.AdmissionNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id = \\$1").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByRoles(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow("sa-1", "head@school.test", "hash", "Head", "Teacher", string(models.RoleSuperAdmin), nil, true, now, now).
		AddRow("sa-2", "deputy@school.test", "hash", "Deputy", "Head", string(models.RoleSuperAdmin), nil, true, now, now)
	mock.ExpectQuery("FROM users WHERE active = TRUE AND role = ANY\\(\\$1\\)").
		WillReturnRows(rows)

	users, err := repo.ListByRoles(context.Background(), []models.UserRole{models.RoleSuperAdmin})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Nil(t, users[0].AdmissionNo)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := repo.ListByRoles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{Action: models.AuditActionRequestDelete, Resource: "request"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
