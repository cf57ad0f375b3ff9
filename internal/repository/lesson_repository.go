package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type LessonRepository struct {
	db *sqlx.DB
}

func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

func (r *LessonRepository) Create(ctx context.Context, l *models.Lesson) error {
	query := `
		INSERT INTO lessons (id, module_id, course_id, title, content, video_url, duration_minutes,
		                     position, status, views, quiz, created_at, updated_at)
		VALUES (:id, :module_id, :course_id, :title, :content, :video_url, :duration_minutes,
		        :position, :status, :views, :quiz, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Clone(apperrors.ErrConflict, "lesson title or position already taken in this module")
		}
		return err
	}

	return nil
}

func (r *LessonRepository) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	l := &models.Lesson{}
	if err := r.db.GetContext(ctx, l, `SELECT * FROM lessons WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return l, nil
}

func (r *LessonRepository) Update(ctx context.Context, l *models.Lesson) error {
	query := `
		UPDATE lessons
		SET title = :title, content = :content, video_url = :video_url,
		    duration_minutes = :duration_minutes, status = :status, quiz = :quiz,
		    updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Clone(apperrors.ErrConflict, "lesson title already taken in this module")
		}
		return err
	}

	return nil
}

func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
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

func (r *LessonRepository) ListByModule(ctx context.Context, moduleID string) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	err := r.db.SelectContext(ctx, &lessons,
		`SELECT * FROM lessons WHERE module_id = $1 ORDER BY position ASC`, moduleID)
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonRepository) ListPublishedByModule(ctx context.Context, moduleID string) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	err := r.db.SelectContext(ctx, &lessons,
		`SELECT * FROM lessons WHERE module_id = $1 AND status = $2 ORDER BY position ASC`,
		moduleID, models.LessonPublished)
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonRepository) ListByStatus(ctx context.Context, status models.LessonStatus) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	err := r.db.SelectContext(ctx, &lessons,
		`SELECT * FROM lessons WHERE status = $1 ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *LessonRepository) UpdateStatus(ctx context.Context, id string, status models.LessonStatus, note string) error {
	reviewNote := sql.NullString{String: note, Valid: note != ""}

	res, err := r.db.ExecContext(ctx,
		`UPDATE lessons SET status = $2, review_note = $3, updated_at = NOW() WHERE id = $1`,
		id, status, reviewNote)
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

func (r *LessonRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE lessons SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (r *LessonRepository) CountPublishedByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM lessons WHERE course_id = $1 AND status = $2`,
		courseID, models.LessonPublished)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LessonRepository) CountByStatus(ctx context.Context, status models.LessonStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lessons WHERE status = $1`, status); err != nil {
		return 0, err
	}
	return count, nil
}
