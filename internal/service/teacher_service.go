package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/token"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
	"github.com/qualityeducation/eduplatform-api/pkg/export"
)

type teacherStore interface {
	Create(ctx context.Context, t *models.Teacher) error
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (*models.Teacher, error)
	GetByResetCode(ctx context.Context, code string) (*models.Teacher, error)
	Update(ctx context.Context, t *models.Teacher) error
	UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

type rosterEnrollmentStore interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Enrollment, error)
}

type rosterStudentStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
}

type rosterCourseStore interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
}

// TeacherService covers the teacher account lifecycle and the roster views
// over students enrolled in the teacher's courses.
type TeacherService struct {
	teachers    teacherStore
	enrollments rosterEnrollmentStore
	students    rosterStudentStore
	courses     rosterCourseStore
	codec       *token.Codec
	notifier    Notifier
	csv         *export.CSVExporter
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewTeacherService(
	teachers teacherStore,
	enrollments rosterEnrollmentStore,
	students rosterStudentStore,
	courses rosterCourseStore,
	codec *token.Codec,
	notifier Notifier,
	logger *zap.Logger,
) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &TeacherService{
		teachers:    teachers,
		enrollments: enrollments,
		students:    students,
		courses:     courses,
		codec:       codec,
		notifier:    notifier,
		csv:         export.NewCSVExporter(),
		validate:    validator.New(),
		logger:      logger,
	}
}

// Register creates a teacher account in PENDING state awaiting supervisor
// review.
func (s *TeacherService) Register(ctx context.Context, req models.RegisterTeacherRequest) (*models.Teacher, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	if _, err := s.teachers.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Clone(apperrors.ErrDuplicateAccount, "email is already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	teacher := &models.Teacher{
		ID:              uuid.NewString(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        hash,
		Specialization:  req.Specialization,
		Bio:             req.Bio,
		YearsExperience: req.YearsExperience,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.notifier.Welcome(teacher.Email, teacher.FirstName)
	s.logger.Info("teacher registered", zap.String("teacher_id", teacher.ID))

	return teacher, nil
}

func (s *TeacherService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	teacher, err := s.teachers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := gateAccountStatus(teacher.Status); err != nil {
		return nil, err
	}

	if !checkPassword(teacher.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	// first login after approval activates the account
	if teacher.Status == models.StatusApproved {
		if err := s.teachers.UpdateStatus(ctx, teacher.ID, models.StatusActive); err != nil {
			return nil, err
		}
		teacher.Status = models.StatusActive
	}

	if err := s.teachers.TouchLastLogin(ctx, teacher.ID, time.Now()); err != nil {
		s.logger.Warn("update last login failed", zap.String("teacher_id", teacher.ID), zap.Error(err))
	}

	signed, err := s.codec.Issue(token.Claims{
		Subject:       teacher.Email,
		PrincipalID:   teacher.ID,
		PrincipalType: "TEACHER",
		FirstName:     teacher.FirstName,
		LastName:      teacher.LastName,
	})
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{Token: signed, Profile: teacher}, nil
}

func (s *TeacherService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}

	teacher, err := s.teachers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	code := uuid.NewString()
	if err := s.teachers.SetResetCode(ctx, teacher.ID, code, time.Now().Add(resetCodeTTL)); err != nil {
		return err
	}

	s.notifier.PasswordReset(teacher.Email, teacher.FirstName, code)
	return nil
}

func (s *TeacherService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}
	if req.Password != req.ConfirmPassword {
		return apperrors.ErrPasswordMismatch
	}

	teacher, err := s.teachers.GetByResetCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrResetCodeInvalid
		}
		return err
	}

	if !teacher.ResetCodeExpiresAt.Valid || teacher.ResetCodeExpiresAt.Time.Before(time.Now()) {
		return apperrors.ErrResetCodeInvalid
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}

	return s.teachers.UpdatePassword(ctx, teacher.ID, hash)
}

func (s *TeacherService) Profile(ctx context.Context, teacherID string) (*models.Teacher, error) {
	return s.teachers.GetByID(ctx, teacherID)
}

func (s *TeacherService) UpdateProfile(ctx context.Context, teacherID string, req models.UpdateTeacherProfileRequest) (*models.Teacher, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	teacher.FirstName = req.FirstName
	teacher.LastName = req.LastName
	teacher.Specialization = req.Specialization
	teacher.Bio = req.Bio
	teacher.YearsExperience = req.YearsExperience
	teacher.UpdatedAt = time.Now()

	if err := s.teachers.Update(ctx, teacher); err != nil {
		return nil, err
	}

	return teacher, nil
}

// Roster groups every enrollment into the teacher's courses per student.
func (s *TeacherService) Roster(ctx context.Context, teacherID string) ([]models.RosterEntry, error) {
	enrollments, err := s.enrollments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	courseTitles, err := s.courseTitles(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	byStudent := map[string][]models.RosterEnrollment{}
	order := []string{}

	for _, e := range enrollments {
		if _, seen := byStudent[e.StudentID]; !seen {
			order = append(order, e.StudentID)
		}

		byStudent[e.StudentID] = append(byStudent[e.StudentID], models.RosterEnrollment{
			CourseID:    e.CourseID,
			CourseTitle: courseTitles[e.CourseID],
			Status:      e.Status,
			Progress:    e.Progress,
			Grade:       e.GradeOrEmpty(),
			EnrolledAt:  e.EnrolledAt,
		})
	}

	roster := make([]models.RosterEntry, 0, len(order))
	for _, studentID := range order {
		student, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}

		roster = append(roster, models.RosterEntry{
			Student:     *student,
			Enrollments: byStudent[studentID],
		})
	}

	return roster, nil
}

// StudentDetail returns one student's enrollments limited to the teacher's
// own courses, with full per-lesson progress.
func (s *TeacherService) StudentDetail(ctx context.Context, teacherID, studentID string) (*models.RosterEntry, []models.Enrollment, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}

	enrollments, err := s.enrollments.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, nil, err
	}

	courseTitles, err := s.courseTitles(ctx, teacherID)
	if err != nil {
		return nil, nil, err
	}

	entry := &models.RosterEntry{Student: *student}
	detail := []models.Enrollment{}

	for _, e := range enrollments {
		if e.StudentID != studentID {
			continue
		}

		entry.Enrollments = append(entry.Enrollments, models.RosterEnrollment{
			CourseID:    e.CourseID,
			CourseTitle: courseTitles[e.CourseID],
			Status:      e.Status,
			Progress:    e.Progress,
			Grade:       e.GradeOrEmpty(),
			EnrolledAt:  e.EnrolledAt,
		})
		detail = append(detail, e)
	}

	if len(detail) == 0 {
		return nil, nil, apperrors.Clone(apperrors.ErrNotFound, "student is not enrolled in any of your courses")
	}

	return entry, detail, nil
}

// ExportRoster renders the roster as CSV, one row per enrollment.
func (s *TeacherService) ExportRoster(ctx context.Context, teacherID string) ([]byte, error) {
	roster, err := s.Roster(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	headers := []string{"Student", "Email", "Course", "Status", "Progress", "Grade", "Enrolled At"}
	rows := [][]string{}

	for _, entry := range roster {
		for _, e := range entry.Enrollments {
			rows = append(rows, []string{
				entry.Student.FullName(),
				entry.Student.Email,
				e.CourseTitle,
				string(e.Status),
				fmt.Sprintf("%d%%", e.Progress),
				e.Grade,
				e.EnrolledAt.Format("2006-01-02"),
			})
		}
	}

	return s.csv.Export(headers, rows)
}

func (s *TeacherService) courseTitles(ctx context.Context, teacherID string) (map[string]string, error) {
	courses, err := s.courses.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	return titles, nil
}
