package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EnrollmentStatus tracks a student's standing inside a course.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentAtRisk    EnrollmentStatus = "AT_RISK"
)

// LessonProgress is one per-lesson progress record embedded in an enrollment.
type LessonProgress struct {
	LessonID         string     `json:"lessonId"`
	Completed        bool       `json:"completed"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	QuizScore        int        `json:"quizScore"`
	BestQuizScore    int        `json:"bestQuizScore"`
	QuizAttempts     int        `json:"quizAttempts"`
	TimeSpentMinutes int        `json:"timeSpentMinutes"`
}

// LessonProgressList is stored as a single JSONB column. The whole list is
// written back on every update, so the last writer wins per enrollment.
type LessonProgressList []LessonProgress

func (l LessonProgressList) Value() (driver.Value, error) {
	if l == nil {
		l = LessonProgressList{}
	}
	return json.Marshal(l)
}

func (l *LessonProgressList) Scan(src interface{}) error {
	if src == nil {
		*l = LessonProgressList{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported lesson_progress column type %T", src)
	}
}

// find returns the index of the entry for lessonID, or -1.
func (l LessonProgressList) find(lessonID string) int {
	for i := range l {
		if l[i].LessonID == lessonID {
			return i
		}
	}
	return -1
}

// QuizStats is the aggregate quiz summary embedded in an enrollment.
type QuizStats struct {
	QuizzesTaken  int `json:"quizzesTaken"`
	TotalAttempts int `json:"totalAttempts"`
	AverageScore  int `json:"averageScore"`
	BestScore     int `json:"bestScore"`
}

func (q QuizStats) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *QuizStats) Scan(src interface{}) error {
	if src == nil {
		*q = QuizStats{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("unsupported quiz_stats column type %T", src)
	}
}

type Enrollment struct {
	ID               string             `db:"id" json:"id"`
	StudentID        string             `db:"student_id" json:"studentId"`
	CourseID         string             `db:"course_id" json:"courseId"`
	Status           EnrollmentStatus   `db:"status" json:"status"`
	Progress         int                `db:"progress" json:"progress"`
	TotalLessons     int                `db:"total_lessons" json:"totalLessons"`
	CompletedLessons int                `db:"completed_lessons" json:"completedLessons"`
	LessonProgress   LessonProgressList `db:"lesson_progress" json:"lessonProgress"`
	QuizStats        QuizStats          `db:"quiz_stats" json:"quizStats"`
	Grade            sql.NullString     `db:"grade" json:"-"`
	TimeSpentMinutes int                `db:"time_spent_minutes" json:"timeSpentMinutes"`
	CurrentStreak    int                `db:"current_streak" json:"currentStreak"`
	LastActivityAt   sql.NullTime       `db:"last_activity_at" json:"-"`
	EnrolledAt       time.Time          `db:"enrolled_at" json:"enrolledAt"`
	CompletedAt      sql.NullTime       `db:"completed_at" json:"-"`
	CertificateID    sql.NullString     `db:"certificate_id" json:"certificateId,omitempty"`
	UpdatedAt        time.Time          `db:"updated_at" json:"updatedAt"`
}

// GradeOrEmpty exposes the nullable grade for API payloads.
func (e *Enrollment) GradeOrEmpty() string {
	if e.Grade.Valid {
		return e.Grade.String
	}
	return ""
}

// RecordLessonCompletion marks lessonID complete and rolls every derived
// field forward. The operation is idempotent per lesson: completed_lessons
// moves only on the first incomplete-to-complete transition, while quiz and
// time accounting still accumulate on repeat calls. It reports whether the
// lesson transitioned to complete on this call.
func (e *Enrollment) RecordLessonCompletion(lessonID string, quizScore, timeSpent int, now time.Time) bool {
	idx := e.LessonProgress.find(lessonID)
	if idx < 0 {
		e.LessonProgress = append(e.LessonProgress, LessonProgress{LessonID: lessonID})
		idx = len(e.LessonProgress) - 1
	}

	entry := &e.LessonProgress[idx]

	transitioned := false
	if !entry.Completed {
		entry.Completed = true
		completedAt := now
		entry.CompletedAt = &completedAt
		e.CompletedLessons++
		transitioned = true
	}

	if quizScore >= 0 {
		entry.QuizAttempts++
		entry.QuizScore = quizScore
		if quizScore > entry.BestQuizScore {
			entry.BestQuizScore = quizScore
		}
	}

	if timeSpent > 0 {
		entry.TimeSpentMinutes += timeSpent
		e.TimeSpentMinutes += timeSpent
	}

	e.touchActivity(now)
	e.recomputeProgress()
	e.RecalculateQuizStats()
	e.RefreshStatus(now)

	return transitioned
}

// RecordQuizAttempt stores a quiz attempt without completing the lesson.
func (e *Enrollment) RecordQuizAttempt(lessonID string, score int, now time.Time) {
	idx := e.LessonProgress.find(lessonID)
	if idx < 0 {
		e.LessonProgress = append(e.LessonProgress, LessonProgress{LessonID: lessonID})
		idx = len(e.LessonProgress) - 1
	}

	entry := &e.LessonProgress[idx]
	entry.QuizAttempts++
	entry.QuizScore = score
	if score > entry.BestQuizScore {
		entry.BestQuizScore = score
	}

	e.touchActivity(now)
	e.RecalculateQuizStats()
}

// recomputeProgress derives the integer completion percentage. A course with
// no lessons reports zero rather than dividing by zero.
func (e *Enrollment) recomputeProgress() {
	if e.TotalLessons <= 0 {
		e.Progress = 0
		return
	}

	e.Progress = e.CompletedLessons * 100 / e.TotalLessons
	if e.Progress > 100 {
		e.Progress = 100
	}
}

// RecalculateQuizStats rebuilds the aggregate from the per-lesson entries.
// Only lessons with at least one attempt count; with none, the stats zero out
// and the grade is left untouched.
func (e *Enrollment) RecalculateQuizStats() {
	taken := 0
	totalAttempts := 0
	scoreSum := 0
	best := 0

	for i := range e.LessonProgress {
		entry := &e.LessonProgress[i]
		if entry.QuizAttempts == 0 {
			continue
		}

		taken++
		totalAttempts += entry.QuizAttempts
		scoreSum += entry.BestQuizScore
		if entry.BestQuizScore > best {
			best = entry.BestQuizScore
		}
	}

	if taken == 0 {
		e.QuizStats = QuizStats{}
		return
	}

	e.QuizStats = QuizStats{
		QuizzesTaken:  taken,
		TotalAttempts: totalAttempts,
		AverageScore:  scoreSum / taken,
		BestScore:     best,
	}

	if e.QuizStats.AverageScore > 0 {
		e.Grade = sql.NullString{String: GradeForScore(e.QuizStats.AverageScore), Valid: true}
	}
}

// RefreshStatus derives the enrollment status from progress. Completion is
// sticky: completed_at is written once and never cleared.
func (e *Enrollment) RefreshStatus(now time.Time) {
	if e.Progress >= 100 && e.TotalLessons > 0 {
		e.Status = EnrollmentCompleted
		if !e.CompletedAt.Valid {
			e.CompletedAt = sql.NullTime{Time: now, Valid: true}
		}
		return
	}

	if e.Status != EnrollmentAtRisk {
		e.Status = EnrollmentActive
	}
}

// MarkAtRisk flags the enrollment unless it is already completed.
func (e *Enrollment) MarkAtRisk() {
	if e.Status != EnrollmentCompleted {
		e.Status = EnrollmentAtRisk
	}
}

func (e *Enrollment) touchActivity(now time.Time) {
	if e.LastActivityAt.Valid {
		last := e.LastActivityAt.Time
		switch {
		case sameDay(last, now):
			// streak unchanged
		case sameDay(last.AddDate(0, 0, 1), now):
			e.CurrentStreak++
		default:
			e.CurrentStreak = 1
		}
	} else {
		e.CurrentStreak = 1
	}

	e.LastActivityAt = sql.NullTime{Time: now, Valid: true}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// GradeForScore maps an average quiz score to a letter grade.
func GradeForScore(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 75:
		return "C+"
	case score >= 70:
		return "C"
	case score >= 65:
		return "D+"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
