package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type lessonStore interface {
	Create(ctx context.Context, l *models.Lesson) error
	GetByID(ctx context.Context, id string) (*models.Lesson, error)
	Update(ctx context.Context, l *models.Lesson) error
	Delete(ctx context.Context, id string) error
	ListByModule(ctx context.Context, moduleID string) ([]models.Lesson, error)
	ListPublishedByModule(ctx context.Context, moduleID string) ([]models.Lesson, error)
	UpdateStatus(ctx context.Context, id string, status models.LessonStatus, note string) error
	IncrementViews(ctx context.Context, id string) error
	CountPublishedByCourse(ctx context.Context, courseID string) (int, error)
}

type lessonModuleStore interface {
	GetByID(ctx context.Context, id string) (*models.Module, error)
	AdjustLessonCount(ctx context.Context, id string, delta int) error
}

type lessonCourseStore interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
	SetTotalLessons(ctx context.Context, id string, total int) error
}

type lessonEnrollmentStore interface {
	SyncTotalLessons(ctx context.Context, courseID string, totalLessons int) error
}

// LessonService manages lesson content and its review workflow. Lessons are
// always created through the owning teacher's course, never standalone.
type LessonService struct {
	lessons     lessonStore
	modules     lessonModuleStore
	courses     lessonCourseStore
	enrollments lessonEnrollmentStore
	cache       *CacheService
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewLessonService(
	lessons lessonStore,
	modules lessonModuleStore,
	courses lessonCourseStore,
	enrollments lessonEnrollmentStore,
	cache *CacheService,
	logger *zap.Logger,
) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LessonService{
		lessons:     lessons,
		modules:     modules,
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (s *LessonService) Create(ctx context.Context, teacherID, courseID, moduleID string, req models.CreateLessonRequest) (*models.Lesson, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if _, err := s.ownedModule(ctx, teacherID, courseID, moduleID); err != nil {
		return nil, err
	}

	position := req.Position
	if position == 0 {
		existing, err := s.lessons.ListByModule(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		for _, l := range existing {
			if l.Position >= position {
				position = l.Position + 1
			}
		}
		if position == 0 {
			position = 1
		}
	}

	now := time.Now()
	lesson := &models.Lesson{
		ID:              uuid.NewString(),
		ModuleID:        moduleID,
		CourseID:        courseID,
		Title:           req.Title,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		Position:        position,
		Status:          models.LessonDraft,
		Quiz:            req.Quiz,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, err
	}

	if err := s.modules.AdjustLessonCount(ctx, moduleID, 1); err != nil {
		s.logger.Error("lesson count update failed", zap.String("module_id", moduleID), zap.Error(err))
	}

	return lesson, nil
}

// Update edits lesson content. Published lessons are immutable; a rejected
// lesson goes back to draft when edited.
func (s *LessonService) Update(ctx context.Context, teacherID, courseID, moduleID, lessonID string, req models.UpdateLessonRequest) (*models.Lesson, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	lesson, err := s.ownedLesson(ctx, teacherID, courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status == models.LessonPublished || lesson.Status == models.LessonUnderReview {
		return nil, apperrors.Clone(apperrors.ErrConflict, "lesson cannot be edited while published or under review")
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.VideoURL = req.VideoURL
	lesson.DurationMinutes = req.DurationMinutes
	lesson.Quiz = req.Quiz
	lesson.Status = models.LessonDraft
	lesson.UpdatedAt = time.Now()

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, err
	}

	return lesson, nil
}

// SubmitForReview queues a draft or rejected lesson for supervisor review.
func (s *LessonService) SubmitForReview(ctx context.Context, teacherID, courseID, moduleID, lessonID string) (*models.Lesson, error) {
	lesson, err := s.ownedLesson(ctx, teacherID, courseID, moduleID, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status != models.LessonDraft && lesson.Status != models.LessonRejected {
		return nil, apperrors.Clone(apperrors.ErrConflict, "only draft or rejected lessons can be submitted for review")
	}

	if err := s.lessons.UpdateStatus(ctx, lessonID, models.LessonUnderReview, ""); err != nil {
		return nil, err
	}
	lesson.Status = models.LessonUnderReview

	return lesson, nil
}

func (s *LessonService) Delete(ctx context.Context, teacherID, courseID, moduleID, lessonID string) error {
	lesson, err := s.ownedLesson(ctx, teacherID, courseID, moduleID, lessonID)
	if err != nil {
		return err
	}

	if err := s.lessons.Delete(ctx, lessonID); err != nil {
		return err
	}

	if err := s.modules.AdjustLessonCount(ctx, moduleID, -1); err != nil {
		s.logger.Error("lesson count update failed", zap.String("module_id", moduleID), zap.Error(err))
	}

	// removing a published lesson shrinks every enrollment's denominator
	if lesson.Status == models.LessonPublished {
		if err := s.syncCourseTotals(ctx, courseID); err != nil {
			s.logger.Error("sync course totals after delete failed", zap.String("course_id", courseID), zap.Error(err))
		}
		if s.cache != nil {
			s.cache.InvalidateCatalog(ctx)
		}
	}

	return nil
}

// ListByModule is the teacher view including drafts and rejected lessons.
func (s *LessonService) ListByModule(ctx context.Context, teacherID, courseID, moduleID string) ([]models.Lesson, error) {
	if _, err := s.ownedModule(ctx, teacherID, courseID, moduleID); err != nil {
		return nil, err
	}
	return s.lessons.ListByModule(ctx, moduleID)
}

// PublicListByModule returns only published lessons.
func (s *LessonService) PublicListByModule(ctx context.Context, moduleID string) ([]models.Lesson, error) {
	return s.lessons.ListPublishedByModule(ctx, moduleID)
}

// PublicGet returns a published lesson and bumps its view counter.
func (s *LessonService) PublicGet(ctx context.Context, lessonID string) (*models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	if lesson.Status != models.LessonPublished {
		return nil, apperrors.ErrNotFound
	}

	if err := s.lessons.IncrementViews(ctx, lessonID); err != nil {
		s.logger.Warn("view counter update failed", zap.String("lesson_id", lessonID), zap.Error(err))
	}
	lesson.Views++

	return lesson, nil
}

func (s *LessonService) ownedModule(ctx context.Context, teacherID, courseID, moduleID string) (*models.Module, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, apperrors.Clone(apperrors.ErrForbidden, "course belongs to another teacher")
	}

	module, err := s.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if module.CourseID != courseID {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "module not found in this course")
	}

	return module, nil
}

func (s *LessonService) ownedLesson(ctx context.Context, teacherID, courseID, moduleID, lessonID string) (*models.Lesson, error) {
	if _, err := s.ownedModule(ctx, teacherID, courseID, moduleID); err != nil {
		return nil, err
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.ModuleID != moduleID {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "lesson not found in this module")
	}

	return lesson, nil
}

func (s *LessonService) syncCourseTotals(ctx context.Context, courseID string) error {
	total, err := s.lessons.CountPublishedByCourse(ctx, courseID)
	if err != nil {
		return err
	}

	if err := s.courses.SetTotalLessons(ctx, courseID, total); err != nil {
		return err
	}

	return s.enrollments.SyncTotalLessons(ctx, courseID, total)
}
