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

type courseStore interface {
	Create(ctx context.Context, c *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id string) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	ListPublished(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	SetPublished(ctx context.Context, id string, published bool) error
}

// CourseService owns the course lifecycle and the public catalog.
type CourseService struct {
	courses  courseStore
	cache    *CacheService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCourseService(courses courseStore, cache *CacheService, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CourseService{
		courses:  courses,
		cache:    cache,
		validate: validator.New(),
		logger:   logger,
	}
}

// Create adds an unpublished course owned by the teacher.
func (s *CourseService) Create(ctx context.Context, teacherID string, req models.CreateCourseRequest) (*models.Course, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	now := time.Now()
	course := &models.Course{
		ID:           uuid.NewString(),
		TeacherID:    teacherID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		ThumbnailURL: req.ThumbnailURL,
		Published:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("teacher_id", teacherID))
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, teacherID, courseID string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	course, err := s.ownedCourse(ctx, teacherID, courseID)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	course.Level = req.Level
	course.ThumbnailURL = req.ThumbnailURL
	course.UpdatedAt = time.Now()

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}

	if course.Published && s.cache != nil {
		s.cache.InvalidateCatalog(ctx)
	}

	return course, nil
}

// Delete removes the course and everything under it.
func (s *CourseService) Delete(ctx context.Context, teacherID, courseID string) error {
	course, err := s.ownedCourse(ctx, teacherID, courseID)
	if err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}

	if course.Published && s.cache != nil {
		s.cache.InvalidateCatalog(ctx)
	}

	s.logger.Info("course deleted", zap.String("course_id", courseID))
	return nil
}

// Publish exposes the course in the public catalog.
func (s *CourseService) Publish(ctx context.Context, teacherID, courseID string) (*models.Course, error) {
	return s.setPublished(ctx, teacherID, courseID, true)
}

// Unpublish withdraws the course from the public catalog. Existing
// enrollments keep working.
func (s *CourseService) Unpublish(ctx context.Context, teacherID, courseID string) (*models.Course, error) {
	return s.setPublished(ctx, teacherID, courseID, false)
}

func (s *CourseService) setPublished(ctx context.Context, teacherID, courseID string, published bool) (*models.Course, error) {
	course, err := s.ownedCourse(ctx, teacherID, courseID)
	if err != nil {
		return nil, err
	}

	if course.Published == published {
		return course, nil
	}

	if err := s.courses.SetPublished(ctx, courseID, published); err != nil {
		return nil, err
	}
	course.Published = published

	if s.cache != nil {
		s.cache.InvalidateCatalog(ctx)
	}

	return course, nil
}

func (s *CourseService) ListMine(ctx context.Context, teacherID string) ([]models.Course, error) {
	return s.courses.ListByTeacher(ctx, teacherID)
}

// Catalog serves the public course list, cache first.
func (s *CourseService) Catalog(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetCatalog(ctx, filter); ok {
			return cached, nil
		}
	}

	courses, err := s.courses.ListPublished(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetCatalog(ctx, filter, courses)
	}

	return courses, nil
}

// GetPublic returns a course for the public catalog detail page.
func (s *CourseService) GetPublic(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.Published {
		return nil, apperrors.ErrNotFound
	}

	return course, nil
}

// GetOwned returns a course for its owning teacher, published or not.
func (s *CourseService) GetOwned(ctx context.Context, teacherID, courseID string) (*models.Course, error) {
	return s.ownedCourse(ctx, teacherID, courseID)
}

func (s *CourseService) ownedCourse(ctx context.Context, teacherID, courseID string) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.TeacherID != teacherID {
		return nil, apperrors.Clone(apperrors.ErrForbidden, "course belongs to another teacher")
	}

	return course, nil
}
