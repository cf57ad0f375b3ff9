package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type EnrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_id, course_id, status, progress, total_lessons,
		                         completed_lessons, lesson_progress, quiz_stats, grade,
		                         time_spent_minutes, current_streak, last_activity_at,
		                         enrolled_at, completed_at, certificate_id, updated_at)
		VALUES (:id, :student_id, :course_id, :status, :progress, :total_lessons,
		        :completed_lessons, :lesson_progress, :quiz_stats, :grade,
		        :time_spent_minutes, :current_streak, :last_activity_at,
		        :enrolled_at, :completed_at, :certificate_id, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Clone(apperrors.ErrConflict, "already enrolled in this course")
		}
		return err
	}

	return nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	if err := r.db.GetContext(ctx, e, `SELECT * FROM enrollments WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return e, nil
}

func (r *EnrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	e := &models.Enrollment{}
	err := r.db.GetContext(ctx, e,
		`SELECT * FROM enrollments WHERE student_id = $1 AND course_id = $2`, studentID, courseID)
	if err != nil {
		return nil, mapGetErr(err)
	}
	return e, nil
}

// Update writes the full enrollment back, embedded documents included. The
// whole row is replaced so the last writer wins per enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, e *models.Enrollment) error {
	query := `
		UPDATE enrollments
		SET status = :status, progress = :progress, total_lessons = :total_lessons,
		    completed_lessons = :completed_lessons, lesson_progress = :lesson_progress,
		    quiz_stats = :quiz_stats, grade = :grade, time_spent_minutes = :time_spent_minutes,
		    current_streak = :current_streak, last_activity_at = :last_activity_at,
		    completed_at = :completed_at, certificate_id = :certificate_id, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, e)
	return err
}

func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	enrollments := []models.Enrollment{}
	err := r.db.SelectContext(ctx, &enrollments,
		`SELECT * FROM enrollments WHERE student_id = $1 ORDER BY enrolled_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Enrollment, error) {
	enrollments := []models.Enrollment{}
	err := r.db.SelectContext(ctx, &enrollments,
		`SELECT * FROM enrollments WHERE course_id = $1 ORDER BY enrolled_at DESC`, courseID)
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

// ListByTeacher returns every enrollment into any of the teacher's courses.
func (r *EnrollmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Enrollment, error) {
	enrollments := []models.Enrollment{}
	query := `
		SELECT e.* FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE c.teacher_id = $1
		ORDER BY e.enrolled_at DESC`

	if err := r.db.SelectContext(ctx, &enrollments, query, teacherID); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// SyncTotalLessons refreshes the lesson total snapshot for every enrollment
// of a course after its published lesson count changes.
func (r *EnrollmentRepository) SyncTotalLessons(ctx context.Context, courseID string, totalLessons int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE enrollments SET total_lessons = $2, updated_at = NOW() WHERE course_id = $1`,
		courseID, totalLessons)
	return err
}

func (r *EnrollmentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments`); err != nil {
		return 0, err
	}
	return count, nil
}
