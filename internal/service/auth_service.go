package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/token"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type studentStore interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id string) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	GetByUsername(ctx context.Context, username string) (*models.Student, error)
	GetByResetCode(ctx context.Context, code string) (*models.Student, error)
	Update(ctx context.Context, s *models.Student) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// AuthService handles student accounts: registration, login, password
// recovery and profile access.
type AuthService struct {
	students studentStore
	codec    *token.Codec
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthService(students studentStore, codec *token.Codec, notifier Notifier, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &AuthService{
		students: students,
		codec:    codec,
		notifier: notifier,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterStudentRequest) (*models.Student, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	if _, err := s.students.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Clone(apperrors.ErrDuplicateAccount, "email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if _, err := s.students.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperrors.Clone(apperrors.ErrDuplicateAccount, "username is already taken")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	student := &models.Student{
		ID:        uuid.NewString(),
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hash,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.notifier.Welcome(student.Email, student.FirstName)
	s.logger.Info("student registered", zap.String("student_id", student.ID))

	return student, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	student, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := gateAccountStatus(student.Status); err != nil {
		return nil, err
	}

	if !checkPassword(student.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.students.TouchLastLogin(ctx, student.ID, time.Now()); err != nil {
		s.logger.Warn("update last login failed", zap.String("student_id", student.ID), zap.Error(err))
	}

	signed, err := s.codec.Issue(token.Claims{
		Subject:       student.Email,
		PrincipalID:   student.ID,
		PrincipalType: "STUDENT",
		FirstName:     student.FirstName,
		LastName:      student.LastName,
	})
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: signed, Profile: student}, nil
}

// ForgotPassword issues a reset code. The response never reveals whether the
// account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	student, err := s.students.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	code := uuid.NewString()
	if err := s.students.SetResetCode(ctx, student.ID, code, time.Now().Add(resetCodeTTL)); err != nil {
		return err
	}

	s.notifier.PasswordReset(student.Email, student.FirstName, code)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	student, err := s.students.GetByResetCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrResetCodeInvalid
		}
		return err
	}

	if !student.ResetCodeExpiresAt.Valid || student.ResetCodeExpiresAt.Time.Before(time.Now()) {
		return apperrors.ErrResetCodeInvalid
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	return s.students.UpdatePassword(ctx, student.ID, hash)
}

func (s *AuthService) ChangePassword(ctx context.Context, studentID string, req models.ChangePasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	if !checkPassword(student.Password, req.CurrentPassword) {
		return apperrors.Clone(apperrors.ErrInvalidCredentials, "current password is incorrect")
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.students.UpdatePassword(ctx, student.ID, hash)
}

func (s *AuthService) Profile(ctx context.Context, studentID string) (*models.Student, error) {
	return s.students.GetByID(ctx, studentID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, studentID string, req models.UpdateStudentProfileRequest) (*models.Student, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.Username != student.Username {
		if existing, err := s.students.GetByUsername(ctx, req.Username); err == nil && existing.ID != student.ID {
			return nil, apperrors.Clone(apperrors.ErrDuplicateAccount, "username is already taken")
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	student.Username = req.Username
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.UpdatedAt = time.Now()

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}
