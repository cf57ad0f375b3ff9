package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type TeacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func (r *TeacherRepository) Create(ctx context.Context, t *models.Teacher) error {
	query := `
		INSERT INTO teachers (id, first_name, last_name, email, password, specialization, bio,
		                      years_experience, status, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :password, :specialization, :bio,
		        :years_experience, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateAccount
		}
		return err
	}

	return nil
}

func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	t := &models.Teacher{}
	if err := r.db.GetContext(ctx, t, `SELECT * FROM teachers WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return t, nil
}

func (r *TeacherRepository) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	t := &models.Teacher{}
	if err := r.db.GetContext(ctx, t, `SELECT * FROM teachers WHERE email = $1`, email); err != nil {
		return nil, mapGetErr(err)
	}
	return t, nil
}

func (r *TeacherRepository) GetByResetCode(ctx context.Context, code string) (*models.Teacher, error) {
	t := &models.Teacher{}
	if err := r.db.GetContext(ctx, t, `SELECT * FROM teachers WHERE reset_code = $1`, code); err != nil {
		return nil, mapGetErr(err)
	}
	return t, nil
}

func (r *TeacherRepository) Update(ctx context.Context, t *models.Teacher) error {
	query := `
		UPDATE teachers
		SET first_name = :first_name, last_name = :last_name, specialization = :specialization,
		    bio = :bio, years_experience = :years_experience, status = :status, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, t)
	return err
}

func (r *TeacherRepository) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teachers SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
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

func (r *TeacherRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	query := `
		UPDATE teachers
		SET password = $2, reset_code = NULL, reset_code_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, hash)
	return err
}

func (r *TeacherRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE teachers
		SET reset_code = $2, reset_code_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, code, expiresAt)
	return err
}

func (r *TeacherRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE teachers SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *TeacherRepository) ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	err := r.db.SelectContext(ctx, &teachers,
		`SELECT * FROM teachers WHERE status = $1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	if err := r.db.SelectContext(ctx, &teachers, `SELECT * FROM teachers ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *TeacherRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM teachers`); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TeacherRepository) CountByStatus(ctx context.Context, status models.AccountStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM teachers WHERE status = $1`, status); err != nil {
		return 0, err
	}
	return count, nil
}
