package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLessonCompletion_FirstCompletion(t *testing.T) {
	e := &Enrollment{TotalLessons: 4, Status: EnrollmentActive}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	transitioned := e.RecordLessonCompletion("lesson-1", 80, 15, now)

	assert.True(t, transitioned)
	assert.Equal(t, 1, e.CompletedLessons)
	assert.Equal(t, 25, e.Progress)
	assert.Equal(t, 15, e.TimeSpentMinutes)
	assert.Equal(t, EnrollmentActive, e.Status)

	require.Len(t, e.LessonProgress, 1)
	assert.True(t, e.LessonProgress[0].Completed)
	assert.Equal(t, 80, e.LessonProgress[0].QuizScore)
	assert.Equal(t, 1, e.LessonProgress[0].QuizAttempts)
}

func TestRecordLessonCompletion_Idempotent(t *testing.T) {
	e := &Enrollment{TotalLessons: 4, Status: EnrollmentActive}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	first := e.RecordLessonCompletion("lesson-1", 70, 10, now)
	second := e.RecordLessonCompletion("lesson-1", 90, 5, now.Add(time.Hour))

	assert.True(t, first)
	assert.False(t, second)

	// completed count moves once, quiz and time keep accumulating
	assert.Equal(t, 1, e.CompletedLessons)
	assert.Equal(t, 25, e.Progress)
	assert.Equal(t, 15, e.TimeSpentMinutes)

	require.Len(t, e.LessonProgress, 1)
	assert.Equal(t, 2, e.LessonProgress[0].QuizAttempts)
	assert.Equal(t, 90, e.LessonProgress[0].QuizScore)
	assert.Equal(t, 90, e.LessonProgress[0].BestQuizScore)
}

func TestRecordLessonCompletion_ZeroTotalLessons(t *testing.T) {
	e := &Enrollment{TotalLessons: 0, Status: EnrollmentActive}

	e.RecordLessonCompletion("lesson-1", -1, 0, time.Now())

	assert.Equal(t, 0, e.Progress)
	assert.Equal(t, EnrollmentActive, e.Status)
	assert.False(t, e.CompletedAt.Valid)
}

func TestRecordLessonCompletion_CompletesCourse(t *testing.T) {
	e := &Enrollment{TotalLessons: 2, Status: EnrollmentActive}
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	e.RecordLessonCompletion("lesson-1", -1, 0, now)
	e.RecordLessonCompletion("lesson-2", -1, 0, now.Add(time.Minute))

	assert.Equal(t, 100, e.Progress)
	assert.Equal(t, EnrollmentCompleted, e.Status)
	require.True(t, e.CompletedAt.Valid)

	firstCompleted := e.CompletedAt.Time

	// repeat completions never move the completion date
	e.RecordLessonCompletion("lesson-2", -1, 0, now.Add(time.Hour))
	assert.Equal(t, firstCompleted, e.CompletedAt.Time)
	assert.Equal(t, EnrollmentCompleted, e.Status)
}

func TestRecalculateQuizStats_SkipsUnattempted(t *testing.T) {
	e := &Enrollment{
		TotalLessons: 3,
		LessonProgress: LessonProgressList{
			{LessonID: "a", QuizAttempts: 2, QuizScore: 70, BestQuizScore: 85},
			{LessonID: "b", QuizAttempts: 0},
			{LessonID: "c", QuizAttempts: 1, QuizScore: 95, BestQuizScore: 95},
		},
	}

	e.RecalculateQuizStats()

	assert.Equal(t, 2, e.QuizStats.QuizzesTaken)
	assert.Equal(t, 3, e.QuizStats.TotalAttempts)
	assert.Equal(t, 90, e.QuizStats.AverageScore)
	assert.Equal(t, 95, e.QuizStats.BestScore)
	assert.Equal(t, "A", e.GradeOrEmpty())
}

func TestRecalculateQuizStats_NoAttemptsZeroesStats(t *testing.T) {
	e := &Enrollment{
		LessonProgress: LessonProgressList{
			{LessonID: "a", Completed: true},
		},
		QuizStats: QuizStats{QuizzesTaken: 1, AverageScore: 80, BestScore: 80, TotalAttempts: 1},
	}

	e.RecalculateQuizStats()

	assert.Equal(t, QuizStats{}, e.QuizStats)
	// grade stays whatever it was, recomputation never clears it
	assert.False(t, e.Grade.Valid)
}

func TestRecalculateQuizStats_ZeroAverageLeavesGradeUnset(t *testing.T) {
	e := &Enrollment{
		LessonProgress: LessonProgressList{
			{LessonID: "a", QuizAttempts: 1, QuizScore: 0, BestQuizScore: 0},
		},
	}

	e.RecalculateQuizStats()

	assert.Equal(t, 1, e.QuizStats.QuizzesTaken)
	assert.Equal(t, 0, e.QuizStats.AverageScore)
	assert.False(t, e.Grade.Valid)
}

func TestGradeForScore(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "A+"}, {95, "A+"},
		{94, "A"}, {90, "A"},
		{89, "B+"}, {85, "B+"},
		{84, "B"}, {80, "B"},
		{79, "C+"}, {75, "C+"},
		{74, "C"}, {70, "C"},
		{69, "D+"}, {65, "D+"},
		{64, "D"}, {60, "D"},
		{59, "F"}, {1, "F"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, GradeForScore(tc.score), "score %d", tc.score)
	}
}

func TestRecordQuizAttempt_DoesNotComplete(t *testing.T) {
	e := &Enrollment{TotalLessons: 2}
	now := time.Now()

	e.RecordQuizAttempt("lesson-1", 60, now)
	e.RecordQuizAttempt("lesson-1", 40, now.Add(time.Minute))

	assert.Equal(t, 0, e.CompletedLessons)
	assert.Equal(t, 0, e.Progress)

	require.Len(t, e.LessonProgress, 1)
	assert.False(t, e.LessonProgress[0].Completed)
	assert.Equal(t, 2, e.LessonProgress[0].QuizAttempts)
	assert.Equal(t, 40, e.LessonProgress[0].QuizScore)
	assert.Equal(t, 60, e.LessonProgress[0].BestQuizScore)
}

func TestTouchActivity_Streak(t *testing.T) {
	e := &Enrollment{TotalLessons: 10}

	day1 := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	e.RecordLessonCompletion("l1", -1, 0, day1)
	assert.Equal(t, 1, e.CurrentStreak)

	// same day does not extend the streak
	e.RecordLessonCompletion("l2", -1, 0, day1.Add(2*time.Hour))
	assert.Equal(t, 1, e.CurrentStreak)

	// next day extends it
	e.RecordLessonCompletion("l3", -1, 0, day1.AddDate(0, 0, 1))
	assert.Equal(t, 2, e.CurrentStreak)

	// a gap resets it
	e.RecordLessonCompletion("l4", -1, 0, day1.AddDate(0, 0, 5))
	assert.Equal(t, 1, e.CurrentStreak)
}

func TestMarkAtRisk(t *testing.T) {
	e := &Enrollment{TotalLessons: 2, Status: EnrollmentActive}
	e.MarkAtRisk()
	assert.Equal(t, EnrollmentAtRisk, e.Status)

	done := &Enrollment{Status: EnrollmentCompleted}
	done.MarkAtRisk()
	assert.Equal(t, EnrollmentCompleted, done.Status)
}

func TestRoleFromPrincipalType(t *testing.T) {
	assert.Equal(t, RoleSupervisor, RoleFromPrincipalType("SUPERVISOR"))
	assert.Equal(t, RoleSupervisor, RoleFromPrincipalType("supervisor"))
	assert.Equal(t, RoleTeacher, RoleFromPrincipalType("Teacher"))
	assert.Equal(t, RoleStudent, RoleFromPrincipalType("USER"))
	assert.Equal(t, RoleStudent, RoleFromPrincipalType("student"))
	assert.Equal(t, RoleStudent, RoleFromPrincipalType(""))
	assert.Equal(t, RoleStudent, RoleFromPrincipalType("something-else"))
}
