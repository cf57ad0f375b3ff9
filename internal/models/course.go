package models

import "time"

type Course struct {
	ID           string    `db:"id" json:"id"`
	TeacherID    string    `db:"teacher_id" json:"teacherId"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Category     string    `db:"category" json:"category"`
	Level        string    `db:"level" json:"level"`
	ThumbnailURL string    `db:"thumbnail_url" json:"thumbnailUrl,omitempty"`
	Published    bool      `db:"published" json:"published"`
	TotalModules int       `db:"total_modules" json:"totalModules"`
	TotalLessons int       `db:"total_lessons" json:"totalLessons"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// CourseFilter narrows public catalog queries.
type CourseFilter struct {
	Term     string
	Category string
	Level    string
}

// IsZero reports whether the filter would match the full catalog.
func (f CourseFilter) IsZero() bool {
	return f.Term == "" && f.Category == "" && f.Level == ""
}
