package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
	"github.com/qualityeducation/eduplatform-api/pkg/export"
)

const quizPassScore = 60

type enrollmentStore interface {
	Create(ctx context.Context, e *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	Update(ctx context.Context, e *models.Enrollment) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

type enrollmentCourseStore interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
}

type enrollmentLessonStore interface {
	GetByID(ctx context.Context, id string) (*models.Lesson, error)
}

type enrollmentStudentStore interface {
	GetByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentTeacherStore interface {
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
}

// EnrollmentService drives the student learning loop: enrolling, recording
// lesson and quiz activity, and issuing completion certificates.
type EnrollmentService struct {
	enrollments enrollmentStore
	courses     enrollmentCourseStore
	lessons     enrollmentLessonStore
	students    enrollmentStudentStore
	teachers    enrollmentTeacherStore
	certs       *export.CertificateExporter
	metrics     *MetricsService
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewEnrollmentService(
	enrollments enrollmentStore,
	courses enrollmentCourseStore,
	lessons enrollmentLessonStore,
	students enrollmentStudentStore,
	teachers enrollmentTeacherStore,
	metrics *MetricsService,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EnrollmentService{
		enrollments: enrollments,
		courses:     courses,
		lessons:     lessons,
		students:    students,
		teachers:    teachers,
		certs:       export.NewCertificateExporter(),
		metrics:     metrics,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Enroll signs the student up for a published course. The course's published
// lesson count is snapshotted onto the enrollment.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "course is not available for enrollment")
	}

	now := time.Now()
	enrollment := &models.Enrollment{
		ID:             uuid.NewString(),
		StudentID:      studentID,
		CourseID:       courseID,
		Status:         models.EnrollmentActive,
		TotalLessons:   course.TotalLessons,
		LessonProgress: models.LessonProgressList{},
		EnrolledAt:     now,
		UpdatedAt:      now,
	}

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EnrollmentCreated()
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID),
	)

	return enrollment, nil
}

// MyCourses lists the student's enrollments with their courses.
func (s *EnrollmentService) MyCourses(ctx context.Context, studentID string) ([]models.EnrolledCourse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := make([]models.EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.courses.GetByID(ctx, e.CourseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}

		result = append(result, models.EnrolledCourse{Course: *course, Enrollment: e})
	}

	return result, nil
}

// CompleteLesson records a lesson completion event and persists the updated
// enrollment document.
func (s *EnrollmentService) CompleteLesson(ctx context.Context, studentID, courseID, lessonID string, req models.CompleteLessonRequest) (*models.Enrollment, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrForbidden, "not enrolled in this course")
		}
		return nil, err
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID || lesson.Status != models.LessonPublished {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "lesson not found in this course")
	}

	quizScore := -1
	if req.QuizScore != nil {
		quizScore = *req.QuizScore
	}

	wasCompleted := enrollment.Status == models.EnrollmentCompleted
	transitioned := enrollment.RecordLessonCompletion(lessonID, quizScore, req.TimeSpentMinutes, time.Now())
	enrollment.UpdatedAt = time.Now()

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		if transitioned {
			s.metrics.LessonCompleted()
		}
		if !wasCompleted && enrollment.Status == models.EnrollmentCompleted {
			s.metrics.CourseCompleted()
		}
	}

	return enrollment, nil
}

// SubmitQuiz grades a quiz submission against the lesson's answer key and
// records the attempt without completing the lesson.
func (s *EnrollmentService) SubmitQuiz(ctx context.Context, studentID, courseID, lessonID string, req models.SubmitQuizRequest) (*models.QuizResult, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Clone(apperrors.ErrForbidden, "not enrolled in this course")
		}
		return nil, err
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.CourseID != courseID || lesson.Status != models.LessonPublished {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "lesson not found in this course")
	}
	if !lesson.HasQuiz() {
		return nil, apperrors.Clone(apperrors.ErrValidation, "lesson has no quiz")
	}
	if len(req.Answers) != len(lesson.Quiz.Questions) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "answer count does not match question count")
	}

	score, correct := gradeQuiz(lesson.Quiz, req.Answers)

	enrollment.RecordQuizAttempt(lessonID, score, time.Now())
	enrollment.UpdatedAt = time.Now()

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}

	var entry models.LessonProgress
	for _, lp := range enrollment.LessonProgress {
		if lp.LessonID == lessonID {
			entry = lp
			break
		}
	}

	return &models.QuizResult{
		Score:        score,
		Correct:      correct,
		Total:        len(lesson.Quiz.Questions),
		BestScore:    entry.BestQuizScore,
		AttemptCount: entry.QuizAttempts,
		Passed:       score >= quizPassScore,
	}, nil
}

// Stats aggregates the student's activity across all enrollments.
func (s *EnrollmentService) Stats(ctx context.Context, studentID string) (*models.StudentStats, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	stats := &models.StudentStats{EnrolledCourses: len(enrollments)}
	progressSum := 0
	bestGradeRank := -1

	for _, e := range enrollments {
		progressSum += e.Progress
		stats.CompletedLessons += e.CompletedLessons
		stats.TotalTimeMinutes += e.TimeSpentMinutes

		if e.Status == models.EnrollmentCompleted {
			stats.CompletedCourses++
		}
		if e.CurrentStreak > stats.CurrentStreak {
			stats.CurrentStreak = e.CurrentStreak
		}
		if rank := gradeRank(e.GradeOrEmpty()); rank > bestGradeRank {
			bestGradeRank = rank
			stats.BestGrade = e.GradeOrEmpty()
		}
	}

	if len(enrollments) > 0 {
		stats.AverageProgress = progressSum / len(enrollments)
	}

	return stats, nil
}

// Certificate renders the completion certificate PDF. The certificate id is
// assigned on first request and stable afterwards.
func (s *EnrollmentService) Certificate(ctx context.Context, studentID, courseID string) ([]byte, error) {
	enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	if enrollment.Status != models.EnrollmentCompleted {
		return nil, apperrors.Clone(apperrors.ErrConflict, "course is not completed yet")
	}

	if !enrollment.CertificateID.Valid {
		enrollment.CertificateID = sql.NullString{String: uuid.NewString(), Valid: true}
		enrollment.UpdatedAt = time.Now()
		if err := s.enrollments.Update(ctx, enrollment); err != nil {
			return nil, err
		}
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	teacherName := ""
	if teacher, err := s.teachers.GetByID(ctx, course.TeacherID); err == nil {
		teacherName = teacher.FullName()
	}

	completed := time.Now()
	if enrollment.CompletedAt.Valid {
		completed = enrollment.CompletedAt.Time
	}

	return s.certs.Render(export.Certificate{
		ID:            enrollment.CertificateID.String,
		StudentName:   student.FullName(),
		CourseTitle:   course.Title,
		TeacherName:   teacherName,
		CompletedDate: completed,
	})
}

func gradeQuiz(quiz models.Quiz, answers []int) (score, correct int) {
	totalPoints := 0
	earned := 0

	for i, q := range quiz.Questions {
		points := q.Points
		if points <= 0 {
			points = 1
		}
		totalPoints += points

		if answers[i] == q.AnswerIndex {
			earned += points
			correct++
		}
	}

	if totalPoints == 0 {
		return 0, 0
	}

	return earned * 100 / totalPoints, correct
}

func gradeRank(grade string) int {
	order := []string{"F", "D", "D+", "C", "C+", "B", "B+", "A", "A+"}
	for i, g := range order {
		if g == grade {
			return i
		}
	}
	return -1
}
