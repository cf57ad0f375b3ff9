package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type mockReviewTeachers struct {
	getByIDFn       func(ctx context.Context, id string) (*models.Teacher, error)
	updateStatusFn  func(ctx context.Context, id string, status models.AccountStatus) error
	listByStatusFn  func(ctx context.Context, status models.AccountStatus) ([]models.Teacher, error)
	listAllFn       func(ctx context.Context) ([]models.Teacher, error)
	countAllFn      func(ctx context.Context) (int, error)
	countByStatusFn func(ctx context.Context, status models.AccountStatus) (int, error)
}

func (m *mockReviewTeachers) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockReviewTeachers) UpdateStatus(ctx context.Context, id string, status models.AccountStatus) error {
	return m.updateStatusFn(ctx, id, status)
}

func (m *mockReviewTeachers) ListByStatus(ctx context.Context, status models.AccountStatus) ([]models.Teacher, error) {
	return m.listByStatusFn(ctx, status)
}

func (m *mockReviewTeachers) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return m.listAllFn(ctx)
}

func (m *mockReviewTeachers) CountAll(ctx context.Context) (int, error) {
	return m.countAllFn(ctx)
}

func (m *mockReviewTeachers) CountByStatus(ctx context.Context, status models.AccountStatus) (int, error) {
	return m.countByStatusFn(ctx, status)
}

type mockReviewLessons struct {
	getByIDFn                func(ctx context.Context, id string) (*models.Lesson, error)
	listByStatusFn           func(ctx context.Context, status models.LessonStatus) ([]models.Lesson, error)
	updateStatusFn           func(ctx context.Context, id string, status models.LessonStatus, note string) error
	countByStatusFn          func(ctx context.Context, status models.LessonStatus) (int, error)
	countPublishedByCourseFn func(ctx context.Context, courseID string) (int, error)
}

func (m *mockReviewLessons) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockReviewLessons) ListByStatus(ctx context.Context, status models.LessonStatus) ([]models.Lesson, error) {
	return m.listByStatusFn(ctx, status)
}

func (m *mockReviewLessons) UpdateStatus(ctx context.Context, id string, status models.LessonStatus, note string) error {
	return m.updateStatusFn(ctx, id, status, note)
}

func (m *mockReviewLessons) CountByStatus(ctx context.Context, status models.LessonStatus) (int, error) {
	return m.countByStatusFn(ctx, status)
}

func (m *mockReviewLessons) CountPublishedByCourse(ctx context.Context, courseID string) (int, error) {
	return m.countPublishedByCourseFn(ctx, courseID)
}

type mockStatsCourses struct {
	countAllFn        func(ctx context.Context) (int, error)
	countPublishedFn  func(ctx context.Context) (int, error)
	setTotalLessonsFn func(ctx context.Context, id string, total int) error
}

func (m *mockStatsCourses) CountAll(ctx context.Context) (int, error) {
	return m.countAllFn(ctx)
}

func (m *mockStatsCourses) CountPublished(ctx context.Context) (int, error) {
	return m.countPublishedFn(ctx)
}

func (m *mockStatsCourses) SetTotalLessons(ctx context.Context, id string, total int) error {
	return m.setTotalLessonsFn(ctx, id, total)
}

type mockStatsStudents struct {
	countAllFn func(ctx context.Context) (int, error)
}

func (m *mockStatsStudents) CountAll(ctx context.Context) (int, error) {
	return m.countAllFn(ctx)
}

type mockStatsEnrollments struct {
	countAllFn         func(ctx context.Context) (int, error)
	syncTotalLessonsFn func(ctx context.Context, courseID string, totalLessons int) error
}

func (m *mockStatsEnrollments) CountAll(ctx context.Context) (int, error) {
	return m.countAllFn(ctx)
}

func (m *mockStatsEnrollments) SyncTotalLessons(ctx context.Context, courseID string, totalLessons int) error {
	return m.syncTotalLessonsFn(ctx, courseID, totalLessons)
}

type recordingNotifier struct {
	decisions []bool
}

func (n *recordingNotifier) Welcome(string, string)               {}
func (n *recordingNotifier) PasswordReset(string, string, string) {}
func (n *recordingNotifier) TeacherDecision(_, _ string, approved bool, _ string) {
	n.decisions = append(n.decisions, approved)
}

func newSupervisorService(t *testing.T, teachers *mockReviewTeachers, lessons *mockReviewLessons, courses *mockStatsCourses, enrollments *mockStatsEnrollments, notifier Notifier) *SupervisorService {
	t.Helper()

	if lessons == nil {
		lessons = &mockReviewLessons{}
	}
	if courses == nil {
		courses = &mockStatsCourses{}
	}
	if enrollments == nil {
		enrollments = &mockStatsEnrollments{}
	}

	return NewSupervisorService(
		&mockSupervisorStore{}, teachers, lessons,
		&mockStatsStudents{}, courses, enrollments,
		nil, newTestCodec(t), notifier, nil,
	)
}

type mockSupervisorStore struct{}

func (m *mockSupervisorStore) Create(context.Context, *models.Supervisor) error { return nil }
func (m *mockSupervisorStore) GetByID(context.Context, string) (*models.Supervisor, error) {
	return nil, apperrors.ErrNotFound
}
func (m *mockSupervisorStore) GetByEmail(context.Context, string) (*models.Supervisor, error) {
	return nil, apperrors.ErrNotFound
}
func (m *mockSupervisorStore) GetByResetCode(context.Context, string) (*models.Supervisor, error) {
	return nil, apperrors.ErrNotFound
}
func (m *mockSupervisorStore) Update(context.Context, *models.Supervisor) error { return nil }
func (m *mockSupervisorStore) UpdatePassword(context.Context, string, string) error {
	return nil
}
func (m *mockSupervisorStore) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	return nil
}
func (m *mockSupervisorStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return nil
}

func TestSupervisorService_ApproveTeacher(t *testing.T) {
	notifier := &recordingNotifier{}

	var written models.AccountStatus
	teachers := &mockReviewTeachers{
		getByIDFn: func(ctx context.Context, id string) (*models.Teacher, error) {
			return &models.Teacher{ID: id, Status: models.StatusPending, Email: "ada@example.com", FirstName: "Ada"}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status models.AccountStatus) error {
			written = status
			return nil
		},
	}

	svc := newSupervisorService(t, teachers, nil, nil, nil, notifier)

	teacher, err := svc.ApproveTeacher(context.Background(), "t-1")

	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, written)
	assert.Equal(t, models.StatusApproved, teacher.Status)
	require.Len(t, notifier.decisions, 1)
	assert.True(t, notifier.decisions[0])
}

func TestSupervisorService_ApproveTeacher_NotPending(t *testing.T) {
	teachers := &mockReviewTeachers{
		getByIDFn: func(ctx context.Context, id string) (*models.Teacher, error) {
			return &models.Teacher{ID: id, Status: models.StatusActive}, nil
		},
	}

	svc := newSupervisorService(t, teachers, nil, nil, nil, nil)

	_, err := svc.ApproveTeacher(context.Background(), "t-1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict.Code))
}

func TestSupervisorService_ApproveLesson_SyncsTotals(t *testing.T) {
	lessons := &mockReviewLessons{
		getByIDFn: func(ctx context.Context, id string) (*models.Lesson, error) {
			return &models.Lesson{ID: id, CourseID: "c-1", Status: models.LessonUnderReview}, nil
		},
		updateStatusFn: func(ctx context.Context, id string, status models.LessonStatus, note string) error {
			assert.Equal(t, models.LessonPublished, status)
			return nil
		},
		countPublishedByCourseFn: func(ctx context.Context, courseID string) (int, error) {
			return 5, nil
		},
	}

	var courseTotal, enrollmentTotal int
	courses := &mockStatsCourses{
		setTotalLessonsFn: func(ctx context.Context, id string, total int) error {
			courseTotal = total
			return nil
		},
	}
	enrollments := &mockStatsEnrollments{
		syncTotalLessonsFn: func(ctx context.Context, courseID string, totalLessons int) error {
			enrollmentTotal = totalLessons
			return nil
		},
	}

	svc := newSupervisorService(t, &mockReviewTeachers{}, lessons, courses, enrollments, nil)

	lesson, err := svc.ApproveLesson(context.Background(), "l-1", "looks good")

	require.NoError(t, err)
	assert.Equal(t, models.LessonPublished, lesson.Status)
	assert.Equal(t, 5, courseTotal)
	assert.Equal(t, 5, enrollmentTotal)
}

func TestSupervisorService_RejectLesson_RequiresReviewState(t *testing.T) {
	lessons := &mockReviewLessons{
		getByIDFn: func(ctx context.Context, id string) (*models.Lesson, error) {
			return &models.Lesson{ID: id, Status: models.LessonDraft}, nil
		},
	}

	svc := newSupervisorService(t, &mockReviewTeachers{}, lessons, nil, nil, nil)

	_, err := svc.RejectLesson(context.Background(), "l-1", "not yet")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict.Code))
}

func TestSupervisorService_Stats(t *testing.T) {
	teachers := &mockReviewTeachers{
		countAllFn: func(ctx context.Context) (int, error) { return 8, nil },
		countByStatusFn: func(ctx context.Context, status models.AccountStatus) (int, error) {
			assert.Equal(t, models.StatusPending, status)
			return 2, nil
		},
	}
	lessons := &mockReviewLessons{
		countByStatusFn: func(ctx context.Context, status models.LessonStatus) (int, error) {
			return 3, nil
		},
	}
	courses := &mockStatsCourses{
		countAllFn:       func(ctx context.Context) (int, error) { return 20, nil },
		countPublishedFn: func(ctx context.Context) (int, error) { return 15, nil },
	}
	enrollments := &mockStatsEnrollments{
		countAllFn: func(ctx context.Context) (int, error) { return 400, nil },
	}

	svc := NewSupervisorService(
		&mockSupervisorStore{}, teachers, lessons,
		&mockStatsStudents{countAllFn: func(ctx context.Context) (int, error) { return 100, nil }},
		courses, enrollments, nil, newTestCodec(t), nil, nil,
	)

	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalStudents)
	assert.Equal(t, 8, stats.TotalTeachers)
	assert.Equal(t, 2, stats.PendingTeachers)
	assert.Equal(t, 20, stats.TotalCourses)
	assert.Equal(t, 15, stats.PublishedCourses)
	assert.Equal(t, 400, stats.TotalEnrollments)
	assert.Equal(t, 3, stats.PendingLessons)
}
