package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type SupervisorRepository struct {
	db *sqlx.DB
}

func NewSupervisorRepository(db *sqlx.DB) *SupervisorRepository {
	return &SupervisorRepository{db: db}
}

func (r *SupervisorRepository) Create(ctx context.Context, s *models.Supervisor) error {
	query := `
		INSERT INTO supervisors (id, first_name, last_name, email, password, department,
		                         status, active, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :password, :department,
		        :status, :active, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateAccount
		}
		return err
	}

	return nil
}

func (r *SupervisorRepository) GetByID(ctx context.Context, id string) (*models.Supervisor, error) {
	s := &models.Supervisor{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM supervisors WHERE id = $1`, id); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *SupervisorRepository) GetByEmail(ctx context.Context, email string) (*models.Supervisor, error) {
	s := &models.Supervisor{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM supervisors WHERE email = $1`, email); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *SupervisorRepository) GetByResetCode(ctx context.Context, code string) (*models.Supervisor, error) {
	s := &models.Supervisor{}
	if err := r.db.GetContext(ctx, s, `SELECT * FROM supervisors WHERE reset_code = $1`, code); err != nil {
		return nil, mapGetErr(err)
	}
	return s, nil
}

func (r *SupervisorRepository) Update(ctx context.Context, s *models.Supervisor) error {
	query := `
		UPDATE supervisors
		SET first_name = :first_name, last_name = :last_name, department = :department,
		    status = :status, active = :active, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, s)
	return err
}

func (r *SupervisorRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	query := `
		UPDATE supervisors
		SET password = $2, reset_code = NULL, reset_code_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, hash)
	return err
}

func (r *SupervisorRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE supervisors
		SET reset_code = $2, reset_code_expires_at = $3, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, code, expiresAt)
	return err
}

func (r *SupervisorRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE supervisors SET last_login_at = $2 WHERE id = $1`, id, at)
	return err
}
