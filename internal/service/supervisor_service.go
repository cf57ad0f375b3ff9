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

type supervisorStore interface {
	Create(ctx context.Context, s *models.Supervisor) error
	GetByID(ctx context.Context, id string) (*models.Supervisor, error)
	GetByEmail(ctx context.Context, email string) (*models.Supervisor, error)
	GetByResetCode(ctx context.Context, code string) (*models.Supervisor, error)
	Update(ctx context.Context, s *models.Supervisor) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type reviewTeacherStore interface {
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error
	ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Teacher, error)
	ListAll(ctx context.Context) ([]models.Teacher, error)
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.AccountStatus) (int, error)
}

type reviewLessonStore interface {
	GetByID(ctx context.Context, id string) (*models.Lesson, error)
	ListByStatus(ctx context.Context, status models.LessonStatus) ([]models.Lesson, error)
	UpdateStatus(ctx context.Context, id string, status models.LessonStatus, note string) error
	CountByStatus(ctx context.Context, status models.LessonStatus) (int, error)
	CountPublishedByCourse(ctx context.Context, courseID string) (int, error)
}

type statsStudentStore interface {
	CountAll(ctx context.Context) (int, error)
}

type statsCourseStore interface {
	CountAll(ctx context.Context) (int, error)
	CountPublished(ctx context.Context) (int, error)
	SetTotalLessons(ctx context.Context, id string, total int) error
}

type statsEnrollmentStore interface {
	CountAll(ctx context.Context) (int, error)
	SyncTotalLessons(ctx context.Context, courseID string, totalLessons int) error
}

// catalogInvalidator drops cached catalog entries after publish-affecting
// mutations.
type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// SupervisorService covers the supervisor account plus the review queues for
// teachers and lessons, and platform-wide statistics.
type SupervisorService struct {
	supervisors supervisorStore
	teachers    reviewTeacherStore
	lessons     reviewLessonStore
	students    statsStudentStore
	courses     statsCourseStore
	enrollments statsEnrollmentStore
	catalog     catalogInvalidator
	codec       *token.Codec
	notifier    Notifier
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewSupervisorService(
	supervisors supervisorStore,
	teachers reviewTeacherStore,
	lessons reviewLessonStore,
	students statsStudentStore,
	courses statsCourseStore,
	enrollments statsEnrollmentStore,
	catalog catalogInvalidator,
	codec *token.Codec,
	notifier Notifier,
	logger *zap.Logger,
) *SupervisorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &SupervisorService{
		supervisors: supervisors,
		teachers:    teachers,
		lessons:     lessons,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		catalog:     catalog,
		codec:       codec,
		notifier:    notifier,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Register creates a supervisor account. Supervisors are provisioned
// approved and active; access control happens upstream of this endpoint.
func (s *SupervisorService) Register(ctx context.Context, req models.RegisterSupervisorRequest) (*models.Supervisor, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	if _, err := s.supervisors.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Clone(apperrors.ErrDuplicateAccount, "email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	supervisor := &models.Supervisor{
		ID:         uuid.NewString(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   hash,
		Department: req.Department,
		Status:     models.StatusApproved,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.supervisors.Create(ctx, supervisor); err != nil {
		return nil, err
	}

	s.notifier.Welcome(supervisor.Email, supervisor.FirstName)
	s.logger.Info("supervisor registered", zap.String("supervisor_id", supervisor.ID))

	return supervisor, nil
}

func (s *SupervisorService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	supervisor, err := s.supervisors.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := gateAccountStatus(supervisor.Status); err != nil {
		return nil, err
	}
	if !supervisor.Active {
		return nil, apperrors.Clone(apperrors.ErrAccountNotActive, "account is deactivated")
	}

	if !checkPassword(supervisor.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.supervisors.TouchLastLogin(ctx, supervisor.ID, time.Now()); err != nil {
		s.logger.Warn("update last login failed", zap.String("supervisor_id", supervisor.ID), zap.Error(err))
	}

	signed, err := s.codec.Issue(token.Claims{
		Subject:       supervisor.Email,
		PrincipalID:   supervisor.ID,
		PrincipalType: "SUPERVISOR",
		FirstName:     supervisor.FirstName,
		LastName:      supervisor.LastName,
	})
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: signed, Profile: supervisor}, nil
}

func (s *SupervisorService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	supervisor, err := s.supervisors.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	code := uuid.NewString()
	if err := s.supervisors.SetResetCode(ctx, supervisor.ID, code, time.Now().Add(resetCodeTTL)); err != nil {
		return err
	}

	s.notifier.PasswordReset(supervisor.Email, supervisor.FirstName, code)
	return nil
}

func (s *SupervisorService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	supervisor, err := s.supervisors.GetByResetCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrResetCodeInvalid
		}
		return err
	}

	if !supervisor.ResetCodeExpiresAt.Valid || supervisor.ResetCodeExpiresAt.Time.Before(time.Now()) {
		return apperrors.ErrResetCodeInvalid
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	return s.supervisors.UpdatePassword(ctx, supervisor.ID, hash)
}

func (s *SupervisorService) Profile(ctx context.Context, supervisorID string) (*models.Supervisor, error) {
	return s.supervisors.GetByID(ctx, supervisorID)
}

func (s *SupervisorService) UpdateProfile(ctx context.Context, supervisorID string, req models.UpdateSupervisorProfileRequest) (*models.Supervisor, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	supervisor, err := s.supervisors.GetByID(ctx, supervisorID)
	if err != nil {
		return nil, err
	}

	supervisor.FirstName = req.FirstName
	supervisor.LastName = req.LastName
	supervisor.Department = req.Department
	supervisor.UpdatedAt = time.Now()

	if err := s.supervisors.Update(ctx, supervisor); err != nil {
		return nil, err
	}

	return supervisor, nil
}

// ListTeachers returns teachers, optionally filtered by account status.
func (s *SupervisorService) ListTeachers(ctx context.Context, status string) ([]models.Teacher, error) {
	if status == "" {
		return s.teachers.ListAll(ctx)
	}
	return s.teachers.ListByStatus(ctx, models.AccountStatus(status))
}

// ApproveTeacher moves a pending teacher to APPROVED and notifies them.
func (s *SupervisorService) ApproveTeacher(ctx context.Context, teacherID string) (*models.Teacher, error) {
	return s.decideTeacher(ctx, teacherID, models.StatusApproved, "")
}

// RejectTeacher moves a pending teacher to REJECTED and notifies them.
func (s *SupervisorService) RejectTeacher(ctx context.Context, teacherID, note string) (*models.Teacher, error) {
	return s.decideTeacher(ctx, teacherID, models.StatusRejected, note)
}

func (s *SupervisorService) decideTeacher(ctx context.Context, teacherID string, status models.AccountStatus, note string) (*models.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if teacher.Status != models.StatusPending {
		return nil, apperrors.Clone(apperrors.ErrConflict, "teacher is not awaiting review")
	}

	if err := s.teachers.UpdateStatus(ctx, teacherID, status); err != nil {
		return nil, err
	}
	teacher.Status = status

	s.notifier.TeacherDecision(teacher.Email, teacher.FirstName, status == models.StatusApproved, note)
	s.logger.Info("teacher reviewed",
		zap.String("teacher_id", teacherID),
		zap.String("status", string(status)),
	)

	return teacher, nil
}

// PendingLessons is the review queue of lessons submitted by teachers.
func (s *SupervisorService) PendingLessons(ctx context.Context) ([]models.Lesson, error) {
	return s.lessons.ListByStatus(ctx, models.LessonUnderReview)
}

// ApproveLesson publishes a lesson and rolls the course lesson totals
// forward into existing enrollments.
func (s *SupervisorService) ApproveLesson(ctx context.Context, lessonID, note string) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status != models.LessonUnderReview {
		return nil, apperrors.Clone(apperrors.ErrConflict, "lesson is not awaiting review")
	}

	if err := s.lessons.UpdateStatus(ctx, lessonID, models.LessonPublished, note); err != nil {
		return nil, err
	}
	lesson.Status = models.LessonPublished

	if err := s.syncCourseTotals(ctx, lesson.CourseID); err != nil {
		s.logger.Error("sync course totals after publish failed",
			zap.String("course_id", lesson.CourseID), zap.Error(err))
	}

	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}

	return lesson, nil
}

// RejectLesson sends a lesson back to its author with a review note.
func (s *SupervisorService) RejectLesson(ctx context.Context, lessonID, note string) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status != models.LessonUnderReview {
		return nil, apperrors.Clone(apperrors.ErrConflict, "lesson is not awaiting review")
	}

	if err := s.lessons.UpdateStatus(ctx, lessonID, models.LessonRejected, note); err != nil {
		return nil, err
	}
	lesson.Status = models.LessonRejected

	return lesson, nil
}

// Stats assembles the supervisor dashboard numbers.
func (s *SupervisorService) Stats(ctx context.Context) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{}

	var err error
	if stats.TotalStudents, err = s.students.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.TotalTeachers, err = s.teachers.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PendingTeachers, err = s.teachers.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if stats.TotalCourses, err = s.courses.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PublishedCourses, err = s.courses.CountPublished(ctx); err != nil {
		return nil, err
	}
	if stats.TotalEnrollments, err = s.enrollments.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.PendingLessons, err = s.lessons.CountByStatus(ctx, models.LessonUnderReview); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *SupervisorService) syncCourseTotals(ctx context.Context, courseID string) error {
	total, err := s.lessons.CountPublishedByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.courses.SetTotalLessons(ctx, courseID, total); err != nil {
		return err
	}

	return s.enrollments.SyncTotalLessons(ctx, courseID, total)
}
