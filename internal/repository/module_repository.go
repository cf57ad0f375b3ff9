package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type ModuleRepository struct {
	db *sqlx.DB
}

func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{db: db}
}

func (r *ModuleRepository) Create(ctx context.Context, m *models.Module) error {
	query := `
		INSERT INTO modules (id, course_id, title, description, position, total_lessons, created_at, updated_at)
		VALUES (:id, :course_id, :title, :description, :position, :total_lessons, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Clone(apperrors.ErrConflict, "module position already taken in this course")
		}
		return err
	}

	return nil
}

func (r *ModuleRepository) GetByID(ctx context.Context, id string) (*models.Module, error) {
	m := &models.Module{}
	if err := r.db.GetContext(ctx, m, `SELECT * FROM modules WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return m, nil
}

func (r *ModuleRepository) Update(ctx context.Context, m *models.Module) error {
	query := `
		UPDATE modules
		SET title = :title, description = :description, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, m)
	return err
}

func (r *ModuleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
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

func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Module, error) {
	modules := []models.Module{}
	err := r.db.SelectContext(ctx, &modules,
		`SELECT * FROM modules WHERE course_id = $1 ORDER BY position ASC`, courseID)
	if err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *ModuleRepository) NextPosition(ctx context.Context, courseID string) (int, error) {
	var max int
	err := r.db.GetContext(ctx, &max,
		`SELECT COALESCE(MAX(position), 0) FROM modules WHERE course_id = $1`, courseID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Reorder rewrites positions in a single transaction. The two-phase update
// avoids tripping the per-course position uniqueness while rows shuffle.
func (r *ModuleRepository) Reorder(ctx context.Context, courseID string, moduleIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, id := range moduleIDs {
		_, err := tx.ExecContext(ctx,
			`UPDATE modules SET position = $3, updated_at = NOW() WHERE id = $1 AND course_id = $2`,
			id, courseID, -(i + 1))
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE modules SET position = -position WHERE course_id = $1 AND position < 0`, courseID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ModuleRepository) AdjustLessonCount(ctx context.Context, id string, delta int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE modules SET total_lessons = total_lessons + $2, updated_at = NOW() WHERE id = $1`, id, delta)
	return err
}
