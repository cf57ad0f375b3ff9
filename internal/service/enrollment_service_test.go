package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qualityeducation/eduplatform-api/internal/models"
	apperrors "github.com/qualityeducation/eduplatform-api/pkg/errors"
)

type mockEnrollmentStore struct {
	createFn              func(ctx context.Context, e *models.Enrollment) error
	getByStudentAndCourse func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	updateFn              func(ctx context.Context, e *models.Enrollment) error
	listByStudentFn       func(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

func (m *mockEnrollmentStore) Create(ctx context.Context, e *models.Enrollment) error {
	return m.createFn(ctx, e)
}

func (m *mockEnrollmentStore) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	return m.getByStudentAndCourse(ctx, studentID, courseID)
}

func (m *mockEnrollmentStore) Update(ctx context.Context, e *models.Enrollment) error {
	return m.updateFn(ctx, e)
}

func (m *mockEnrollmentStore) ListByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return m.listByStudentFn(ctx, studentID)
}

type mockCourseGetter struct {
	getByIDFn func(ctx context.Context, id string) (*models.Course, error)
}

func (m *mockCourseGetter) GetByID(ctx context.Context, id string) (*models.Course, error) {
	return m.getByIDFn(ctx, id)
}

type mockLessonGetter struct {
	getByIDFn func(ctx context.Context, id string) (*models.Lesson, error)
}

func (m *mockLessonGetter) GetByID(ctx context.Context, id string) (*models.Lesson, error) {
	return m.getByIDFn(ctx, id)
}

type mockStudentGetter struct {
	getByIDFn func(ctx context.Context, id string) (*models.Student, error)
}

func (m *mockStudentGetter) GetByID(ctx context.Context, id string) (*models.Student, error) {
	return m.getByIDFn(ctx, id)
}

type mockTeacherGetter struct {
	getByIDFn func(ctx context.Context, id string) (*models.Teacher, error)
}

func (m *mockTeacherGetter) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	return m.getByIDFn(ctx, id)
}

func publishedLesson(id, courseID string) *models.Lesson {
	return &models.Lesson{ID: id, CourseID: courseID, ModuleID: "m-1", Status: models.LessonPublished}
}

func TestEnrollmentService_Enroll_SnapshotsLessonTotal(t *testing.T) {
	var created *models.Enrollment
	enrollments := &mockEnrollmentStore{
		createFn: func(ctx context.Context, e *models.Enrollment) error {
			created = e
			return nil
		},
	}
	courses := &mockCourseGetter{
		getByIDFn: func(ctx context.Context, id string) (*models.Course, error) {
			return &models.Course{ID: id, Published: true, TotalLessons: 12}, nil
		},
	}

	svc := NewEnrollmentService(enrollments, courses, &mockLessonGetter{}, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	enrollment, err := svc.Enroll(context.Background(), "s-1", "c-1")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 12, enrollment.TotalLessons)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)
}

func TestEnrollmentService_Enroll_UnpublishedCourse(t *testing.T) {
	courses := &mockCourseGetter{
		getByIDFn: func(ctx context.Context, id string) (*models.Course, error) {
			return &models.Course{ID: id, Published: false}, nil
		},
	}

	svc := NewEnrollmentService(&mockEnrollmentStore{}, courses, &mockLessonGetter{}, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	_, err := svc.Enroll(context.Background(), "s-1", "c-1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound.Code))
}

func TestEnrollmentService_CompleteLesson_PersistsDerivedState(t *testing.T) {
	var saved *models.Enrollment
	enrollments := &mockEnrollmentStore{
		getByStudentAndCourse: func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
			return &models.Enrollment{
				ID: "e-1", StudentID: studentID, CourseID: courseID,
				Status: models.EnrollmentActive, TotalLessons: 2,
			}, nil
		},
		updateFn: func(ctx context.Context, e *models.Enrollment) error {
			saved = e
			return nil
		},
	}
	lessons := &mockLessonGetter{
		getByIDFn: func(ctx context.Context, id string) (*models.Lesson, error) {
			return publishedLesson(id, "c-1"), nil
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, lessons, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	score := 88
	enrollment, err := svc.CompleteLesson(context.Background(), "s-1", "c-1", "l-1", models.CompleteLessonRequest{
		QuizScore:        &score,
		TimeSpentMinutes: 30,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 50, enrollment.Progress)
	assert.Equal(t, 1, enrollment.CompletedLessons)
	assert.Equal(t, 88, enrollment.QuizStats.BestScore)
	assert.Equal(t, "B+", enrollment.GradeOrEmpty())
	assert.Equal(t, 30, enrollment.TimeSpentMinutes)
}

func TestEnrollmentService_CompleteLesson_NotEnrolled(t *testing.T) {
	enrollments := &mockEnrollmentStore{
		getByStudentAndCourse: func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
			return nil, apperrors.ErrNotFound
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, &mockLessonGetter{}, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	_, err := svc.CompleteLesson(context.Background(), "s-1", "c-1", "l-1", models.CompleteLessonRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrForbidden.Code))
}

func TestEnrollmentService_CompleteLesson_LessonFromOtherCourse(t *testing.T) {
	enrollments := &mockEnrollmentStore{
		getByStudentAndCourse: func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
			return &models.Enrollment{ID: "e-1", TotalLessons: 2}, nil
		},
	}
	lessons := &mockLessonGetter{
		getByIDFn: func(ctx context.Context, id string) (*models.Lesson, error) {
			return publishedLesson(id, "other-course"), nil
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, lessons, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	_, err := svc.CompleteLesson(context.Background(), "s-1", "c-1", "l-1", models.CompleteLessonRequest{})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound.Code))
}

func TestEnrollmentService_SubmitQuiz(t *testing.T) {
	var saved *models.Enrollment
	enrollments := &mockEnrollmentStore{
		getByStudentAndCourse: func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
			return &models.Enrollment{ID: "e-1", TotalLessons: 3}, nil
		},
		updateFn: func(ctx context.Context, e *models.Enrollment) error {
			saved = e
			return nil
		},
	}
	lessons := &mockLessonGetter{
		getByIDFn: func(ctx context.Context, id string) (*models.Lesson, error) {
			l := publishedLesson(id, "c-1")
			l.Quiz = models.Quiz{Questions: []models.QuizQuestion{
				{Prompt: "q1", AnswerIndex: 0, Points: 1},
				{Prompt: "q2", AnswerIndex: 1, Points: 1},
			}}
			return l, nil
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, lessons, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	result, err := svc.SubmitQuiz(context.Background(), "s-1", "c-1", "l-1", models.SubmitQuizRequest{
		Answers: []int{0, 0},
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.AttemptCount)
	assert.False(t, result.Passed)

	// the lesson stays incomplete after a quiz-only submission
	assert.Equal(t, 0, saved.CompletedLessons)
}

func TestEnrollmentService_SubmitQuiz_AnswerCountMismatch(t *testing.T) {
	enrollments := &mockEnrollmentStore{
		getByStudentAndCourse: func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
			return &models.Enrollment{ID: "e-1"}, nil
		},
	}
	lessons := &mockLessonGetter{
		getByIDFn: func(ctx context.Context, id string) (*models.Lesson, error) {
			l := publishedLesson(id, "c-1")
			l.Quiz = models.Quiz{Questions: []models.QuizQuestion{{Prompt: "q1", AnswerIndex: 0}}}
			return l, nil
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, lessons, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	_, err := svc.SubmitQuiz(context.Background(), "s-1", "c-1", "l-1", models.SubmitQuizRequest{
		Answers: []int{0, 1},
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrValidation.Code))
}

func TestEnrollmentService_Certificate_RequiresCompletion(t *testing.T) {
	enrollments := &mockEnrollmentStore{
		getByStudentAndCourse: func(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
			return &models.Enrollment{ID: "e-1", Status: models.EnrollmentActive, Progress: 60}, nil
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, &mockLessonGetter{}, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	_, err := svc.Certificate(context.Background(), "s-1", "c-1")

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict.Code))
}

func TestEnrollmentService_Stats(t *testing.T) {
	enrollments := &mockEnrollmentStore{
		listByStudentFn: func(ctx context.Context, studentID string) ([]models.Enrollment, error) {
			return []models.Enrollment{
				{Progress: 100, CompletedLessons: 4, TimeSpentMinutes: 120, Status: models.EnrollmentCompleted, CurrentStreak: 3, Grade: nullString("A")},
				{Progress: 50, CompletedLessons: 2, TimeSpentMinutes: 60, Status: models.EnrollmentActive, CurrentStreak: 1, Grade: nullString("C")},
			}, nil
		},
	}

	svc := NewEnrollmentService(enrollments, &mockCourseGetter{}, &mockLessonGetter{}, &mockStudentGetter{}, &mockTeacherGetter{}, nil, nil)

	stats, err := svc.Stats(context.Background(), "s-1")

	require.NoError(t, err)
	assert.Equal(t, 2, stats.EnrolledCourses)
	assert.Equal(t, 1, stats.CompletedCourses)
	assert.Equal(t, 6, stats.CompletedLessons)
	assert.Equal(t, 75, stats.AverageProgress)
	assert.Equal(t, 180, stats.TotalTimeMinutes)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, "A", stats.BestGrade)
}
