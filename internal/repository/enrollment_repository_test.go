package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

func enrollmentColumns() []string {
	return []string{
		"id", "student_id", "course_id", "status", "progress", "total_lessons",
		"completed_lessons", "lesson_progress", "quiz_stats", "grade",
		"time_spent_minutes", "current_streak", "last_activity_at",
		"enrolled_at", "completed_at", "certificate_id", "updated_at",
	}
}

func TestEnrollmentRepository_GetByStudentAndCourse(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	lessonProgress := []byte(`[{"lessonId":"l-1","completed":true,"quizScore":80,"bestQuizScore":80,"quizAttempts":1,"timeSpentMinutes":20}]`)
	quizStats := []byte(`{"quizzesTaken":1,"totalAttempts":1,"averageScore":80,"bestScore":80}`)

	rows := sqlmock.NewRows(enrollmentColumns()).
		AddRow("e-1", "s-1", "c-1", "ACTIVE", 50, 2, 1, lessonProgress, quizStats, "B",
			20, 1, now, now, nil, nil, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM enrollments WHERE student_id = $1 AND course_id = $2`)).
		WithArgs("s-1", "c-1").
		WillReturnRows(rows)

	e, err := repo.GetByStudentAndCourse(context.Background(), "s-1", "c-1")

	require.NoError(t, err)
	assert.Equal(t, 50, e.Progress)
	require.Len(t, e.LessonProgress, 1)
	assert.Equal(t, "l-1", e.LessonProgress[0].LessonID)
	assert.True(t, e.LessonProgress[0].Completed)
	assert.Equal(t, 80, e.QuizStats.AverageScore)
	assert.Equal(t, "B", e.GradeOrEmpty())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Create_AlreadyEnrolled(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO enrollments`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Enrollment{
		ID: "e-1", StudentID: "s-1", CourseID: "c-1",
		Status: models.EnrollmentActive, EnrolledAt: time.Now(), UpdatedAt: time.Now(),
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict.Code))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.Enrollment{
		ID:             "e-1",
		Status:         models.EnrollmentCompleted,
		Progress:       100,
		TotalLessons:   2,
		LessonProgress: models.LessonProgressList{{LessonID: "l-1", Completed: true}},
		UpdatedAt:      time.Now(),
	}

	assert.NoError(t, repo.Update(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepository_SyncTotalLessons(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE enrollments SET total_lessons = $2`)).
		WithArgs("c-1", 7).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.SyncTotalLessons(context.Background(), "c-1", 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
