package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func studentColumns() []string {
	return []string{
		"id", "username", "first_name", "last_name", "email", "password", "status",
		"reset_code", "reset_code_expires_at", "last_login_at", "created_at", "updated_at",
	}
}

func TestStudentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO students`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Student{
		ID:        "s-1",
		Username:  "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "hashed",
		Status:    models.StatusActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO students`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Student{ID: "s-1", Email: "dup@example.com"})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateAccount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(studentColumns()).
		AddRow("s-1", "jdoe", "Jane", "Doe", "jane@example.com", "hashed", "ACTIVE",
			nil, nil, nil, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM students WHERE email = $1`)).
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	student, err := repo.GetByEmail(context.Background(), "jane@example.com")

	require.NoError(t, err)
	assert.Equal(t, "s-1", student.ID)
	assert.Equal(t, models.StatusActive, student.Status)
	assert.False(t, student.ResetCode.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM students WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(studentColumns()))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_SetResetCode(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	expires := time.Now().Add(time.Hour)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE students`)).
		WithArgs("s-1", "code-123", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetResetCode(context.Background(), "s-1", "code-123", expires)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
