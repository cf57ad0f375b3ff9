package models

import "time"

// Module is an ordered group of lessons inside a course. Position is unique
// within the owning course.
type Module struct {
	ID           string    `db:"id" json:"id"`
	CourseID     string    `db:"course_id" json:"courseId"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Position     int       `db:"position" json:"position"`
	TotalLessons int       `db:"total_lessons" json:"totalLessons"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
