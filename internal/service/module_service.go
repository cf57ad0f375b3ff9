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

type moduleStore interface {
	Create(ctx context.Context, m *models.Module) error
	GetByID(ctx context.Context, id string) (*models.Module, error)
	Update(ctx context.Context, m *models.Module) error
	Delete(ctx context.Context, id string) error
	ListByCourse(ctx context.Context, courseID string) ([]models.Module, error)
	NextPosition(ctx context.Context, courseID string) (int, error)
	Reorder(ctx context.Context, courseID string, moduleIDs []string) error
}

type moduleCourseStore interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
	AdjustModuleCount(ctx context.Context, id string, delta int) error
}

// ModuleService manages the ordered modules inside a teacher's courses.
type ModuleService struct {
	modules  moduleStore
	courses  moduleCourseStore
	validate *validator.Validate
	logger   *zap.Logger
}

func NewModuleService(modules moduleStore, courses moduleCourseStore, logger *zap.Logger) *ModuleService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ModuleService{
		modules:  modules,
		courses:  courses,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *ModuleService) Create(ctx context.Context, teacherID, courseID string, req models.CreateModuleRequest) (*models.Module, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if _, err := s.ownedCourse(ctx, teacherID, courseID); err != nil {
		return nil, err
	}

	position := req.Position
	if position == 0 {
		next, err := s.modules.NextPosition(ctx, courseID)
		if err != nil {
			return nil, err
		}
		position = next
	}

	now := time.Now()
	module := &models.Module{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.modules.Create(ctx, module); err != nil {
		return nil, err
	}

	if err := s.courses.AdjustModuleCount(ctx, courseID, 1); err != nil {
		s.logger.Error("module count update failed", zap.String("course_id", courseID), zap.Error(err))
	}

	return module, nil
}

func (s *ModuleService) Update(ctx context.Context, teacherID, courseID, moduleID string, req models.UpdateModuleRequest) (*models.Module, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	module, err := s.ownedModule(ctx, teacherID, courseID, moduleID)
	if err != nil {
		return nil, err
	}

	module.Title = req.Title
	module.Description = req.Description
	module.UpdatedAt = time.Now()

	if err := s.modules.Update(ctx, module); err != nil {
		return nil, err
	}

	return module, nil
}

func (s *ModuleService) Delete(ctx context.Context, teacherID, courseID, moduleID string) error {
	if _, err := s.ownedModule(ctx, teacherID, courseID, moduleID); err != nil {
		return err
	}

	if err := s.modules.Delete(ctx, moduleID); err != nil {
		return err
	}

	if err := s.courses.AdjustModuleCount(ctx, courseID, -1); err != nil {
		s.logger.Error("module count update failed", zap.String("course_id", courseID), zap.Error(err))
	}

	return nil
}

func (s *ModuleService) List(ctx context.Context, courseID string) ([]models.Module, error) {
	return s.modules.ListByCourse(ctx, courseID)
}

// Reorder rewrites module positions to match the given order. Every module
// of the course must appear exactly once.
func (s *ModuleService) Reorder(ctx context.Context, teacherID, courseID string, req models.ReorderModulesRequest) ([]models.Module, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	if _, err := s.ownedCourse(ctx, teacherID, courseID); err != nil {
		return nil, err
	}

	existing, err := s.modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if len(existing) != len(req.ModuleIDs) {
		return nil, apperrors.Clone(apperrors.ErrValidation, "reorder must list every module of the course exactly once")
	}

	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.ID] = true
	}
	for _, id := range req.ModuleIDs {
		if !known[id] {
			return nil, apperrors.Clone(apperrors.ErrValidation, "unknown module id in reorder list")
		}
		known[id] = false
	}

	if err := s.modules.Reorder(ctx, courseID, req.ModuleIDs); err != nil {
		return nil, err
	}

	return s.modules.ListByCourse(ctx, courseID)
}

func (s *ModuleService) ownedCourse(ctx context.Context, teacherID, courseID string) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if course.TeacherID != teacherID {
		return nil, apperrors.Clone(apperrors.ErrForbidden, "course belongs to another teacher")
	}

	return course, nil
}

func (s *ModuleService) ownedModule(ctx context.Context, teacherID, courseID, moduleID string) (*models.Module, error) {
	if _, err := s.ownedCourse(ctx, teacherID, courseID); err != nil {
		return nil, err
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
