package models

import (
	"database/sql"
	"time"
)

type Teacher struct {
	ID                 string         `db:"id" json:"id"`
	FirstName          string         `db:"first_name" json:"firstName"`
	LastName           string         `db:"last_name" json:"lastName"`
	Email              string         `db:"email" json:"email"`
	Password           string         `db:"password" json:"-"`
	Specialization     string         `db:"specialization" json:"specialization"`
	Bio                string         `db:"bio" json:"bio"`
	YearsExperience    int            `db:"years_experience" json:"yearsExperience"`
	Status             AccountStatus  `db:"status" json:"status"`
	ResetCode          sql.NullString `db:"reset_code" json:"-"`
	ResetCodeExpiresAt sql.NullTime   `db:"reset_code_expires_at" json:"-"`
	LastLoginAt        sql.NullTime   `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}

// RosterEntry is one student row in a teacher's roster view, grouped per
// student with that student's enrollments into the teacher's courses.
type RosterEntry struct {
	Student     Student            `json:"student"`
	Enrollments []RosterEnrollment `json:"enrollments"`
}

type RosterEnrollment struct {
	CourseID    string           `json:"courseId"`
	CourseTitle string           `json:"courseTitle"`
	Status      EnrollmentStatus `json:"status"`
	Progress    int              `json:"progress"`
	Grade       string           `json:"grade,omitempty"`
	EnrolledAt  time.Time        `json:"enrolledAt"`
}
