package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type CourseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, c *models.Course) error {
	query := `
		INSERT INTO courses (id, teacher_id, title, description, category, level, thumbnail_url,
		                     published, total_modules, total_lessons, created_at, updated_at)
		VALUES (:id, :teacher_id, :title, :description, :category, :level, :thumbnail_url,
		        :published, :total_modules, :total_lessons, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	c := &models.Course{}
	if err := r.db.GetContext(ctx, c, `SELECT * FROM courses WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return c, nil
}

func (r *CourseRepository) Update(ctx context.Context, c *models.Course) error {
	query := `
		UPDATE courses
		SET title = :title, description = :description, category = :category, level = :level,
		    thumbnail_url = :thumbnail_url, published = :published, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

// Delete removes the course. Modules, lessons and enrollments cascade via
// foreign keys.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	courses := []models.Course{}
	err := r.db.SelectContext(ctx, &courses,
		`SELECT * FROM courses WHERE teacher_id = $1 ORDER BY created_at DESC`, teacherID)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// ListPublished returns the public catalog, optionally narrowed by a search
// term, category and level.
func (r *CourseRepository) ListPublished(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	clauses := []string{"published = TRUE"}
	args := []interface{}{}

	if filter.Term != "" {
		args = append(args, "%"+strings.ToLower(filter.Term)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", n, n))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Level != "" {
		args = append(args, filter.Level)
		clauses = append(clauses, fmt.Sprintf("level = $%d", len(args)))
	}

	query := `SELECT * FROM courses WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY created_at DESC`

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CourseRepository) SetPublished(ctx context.Context, id string, published bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	return err
}

func (r *CourseRepository) AdjustModuleCount(ctx context.Context, id string, delta int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses SET total_modules = total_modules + $2, updated_at = NOW() WHERE id = $1`, id, delta)
	return err
}

func (r *CourseRepository) AdjustLessonCount(ctx context.Context, id string, delta int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses SET total_lessons = total_lessons + $2, updated_at = NOW() WHERE id = $1`, id, delta)
	return err
}

// SetTotalLessons overwrites the published-lesson snapshot for a course.
func (r *CourseRepository) SetTotalLessons(ctx context.Context, id string, total int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE courses SET total_lessons = $2, updated_at = NOW() WHERE id = $1`, id, total)
	return err
}

func (r *CourseRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CourseRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM courses WHERE published = TRUE`); err != nil {
		return 0, err
	}
	return count, nil
}
