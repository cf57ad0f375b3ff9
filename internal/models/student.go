package models

import (
	"database/sql"
	"time"
)

type Student struct {
	ID                 string         `db:"id" json:"id"`
	Username           string         `db:"username" json:"username"`
	FirstName          string         `db:"first_name" json:"firstName"`
	LastName           string         `db:"last_name" json:"lastName"`
	Email              string         `db:"email" json:"email"`
	Password           string         `db:"password" json:"-"`
	Status             AccountStatus  `db:"status" json:"status"`
	ResetCode          sql.NullString `db:"reset_code" json:"-"`
	ResetCodeExpiresAt sql.NullTime   `db:"reset_code_expires_at" json:"-"`
	LastLoginAt        sql.NullTime   `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentStats aggregates a student's learning activity across enrollments.
type StudentStats struct {
	EnrolledCourses  int    `json:"enrolledCourses"`
	CompletedCourses int    `json:"completedCourses"`
	CompletedLessons int    `json:"completedLessons"`
	AverageProgress  int    `json:"averageProgress"`
	TotalTimeMinutes int    `json:"totalTimeMinutes"`
	CurrentStreak    int    `json:"currentStreak"`
	BestGrade        string `json:"bestGrade,omitempty"`
}
