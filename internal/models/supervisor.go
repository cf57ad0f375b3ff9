package models

import (
	"database/sql"
	"time"
)

type Supervisor struct {
	ID                 string         `db:"id" json:"id"`
	FirstName          string         `db:"first_name" json:"firstName"`
	LastName           string         `db:"last_name" json:"lastName"`
	Email              string         `db:"email" json:"email"`
	Password           string         `db:"password" json:"-"`
	Department         string         `db:"department" json:"department"`
	Status             AccountStatus  `db:"status" json:"status"`
	Active             bool           `db:"active" json:"active"`
	ResetCode          sql.NullString `db:"reset_code" json:"-"`
	ResetCodeExpiresAt sql.NullTime   `db:"reset_code_expires_at" json:"-"`
	LastLoginAt        sql.NullTime   `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

func (s *Supervisor) FullName() string {
	return s.FirstName + " " + s.LastName
}

// PlatformStats is the supervisor dashboard summary.
type PlatformStats struct {
	TotalStudents    int `json:"totalStudents"`
	TotalTeachers    int `json:"totalTeachers"`
	PendingTeachers  int `json:"pendingTeachers"`
	TotalCourses     int `json:"totalCourses"`
	PublishedCourses int `json:"publishedCourses"`
	TotalEnrollments int `json:"totalEnrollments"`
	PendingLessons   int `json:"pendingLessons"`
}
