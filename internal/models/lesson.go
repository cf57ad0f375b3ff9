package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LessonStatus tracks a lesson through the review workflow.
type LessonStatus string

const (
	LessonDraft       LessonStatus = "DRAFT"
	LessonUnderReview LessonStatus = "UNDER_REVIEW"
	LessonPublished   LessonStatus = "PUBLISHED"
	LessonRejected    LessonStatus = "REJECTED"
)

type Lesson struct {
	ID              string         `db:"id" json:"id"`
	ModuleID        string         `db:"module_id" json:"moduleId"`
	CourseID        string         `db:"course_id" json:"courseId"`
	Title           string         `db:"title" json:"title"`
	Content         string         `db:"content" json:"content"`
	VideoURL        string         `db:"video_url" json:"videoUrl,omitempty"`
	DurationMinutes int            `db:"duration_minutes" json:"durationMinutes"`
	Position        int            `db:"position" json:"position"`
	Status          LessonStatus   `db:"status" json:"status"`
	Views           int            `db:"views" json:"views"`
	Quiz            Quiz           `db:"quiz" json:"quiz"`
	ReviewNote      sql.NullString `db:"review_note" json:"-"`
	CreatedAt       time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updatedAt"`
}

// HasQuiz reports whether the lesson carries at least one quiz question.
func (l *Lesson) HasQuiz() bool {
	return len(l.Quiz.Questions) > 0
}

// Quiz is the embedded quiz document stored as JSONB.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Points      int      `json:"points"`
}

func (q Quiz) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *Quiz) Scan(src interface{}) error {
	if src == nil {
		*q = Quiz{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("unsupported quiz column type %T", src)
	}
}
