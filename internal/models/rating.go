package models

import "time"

// Rating is one user's submitted scores for a course. Resubmission
// overwrites the previous row: last submission wins per course per user.
type Rating struct {
	ID        string    `db:"id" json:"id"`
	CourseKey string    `db:"course_key" json:"course_key"`
	UserID    string    `db:"user_id" json:"user_id"`
	Relevance float64   `db:"relevance" json:"relevance"`
	Discovery float64   `db:"discovery" json:"discovery"`
	Building  float64   `db:"building" json:"building"`
	Venture   float64   `db:"venture" json:"venture"`
	Intro     float64   `db:"intro" json:"intro"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
