package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (id, username, first_name, last_name, email, password, status, created_at, updated_at)
		VALUES (:id, :username, :first_name, :last_name, :email, :password, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateAccount
		}
		return err
	}

	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	s := &models.Student{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM students WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s := &models.Student{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM students WHERE email = $1`, email); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *StudentRepository) GetByUsername(ctx context.Context, username string) (*models.Student, error) {
	s := &models.Student{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM students WHERE username = $1`, username); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *StudentRepository) GetByResetCode(ctx context.Context, code string) (*models.Student, error) {
	s := &models.Student{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM students WHERE reset_code = $1`, code); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE students
		SET username = :username, first_name = :first_name, last_name = :last_name,
		    status = :status, updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateAccount
		}
		return err
	}

	return nil
}

func (r *StudentRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	query := `
		UPDATE students
		SET password = $2, reset_code = NULL, reset_code_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, hash)
	return err
}

func (r *StudentRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE students
		SET reset_code = $2, reset_code_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, code, expiresAt)
	return err
}

func (r *StudentRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}

func (r *StudentRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, err
	}
	return count, nil
}
