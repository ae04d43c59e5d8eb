package models

import "time"

// Course represents a normalized coursebook row. Rows are rebuilt on every
// fetch and never mutated in place; a re-fetch replaces the whole list.
type Course struct {
	ID        string   `db:"id" json:"id"`
	CourseKey string   `db:"course_key" json:"course_key"`
	Code      string   `db:"code" json:"code"`
	Name      string   `db:"name" json:"name"`
	Section   string   `db:"section" json:"section"`
	URL       string   `db:"url" json:"url"`
	Language  string   `db:"language" json:"language"`
	Credits   *float64 `db:"credits" json:"credits,omitempty"`
	Workload  *float64 `db:"workload" json:"workload,omitempty"`
	Type      string   `db:"course_type" json:"type,omitempty"`
	Semester  string   `db:"semester" json:"semester,omitempty"`
	Schedule  string   `db:"schedule" json:"schedule,omitempty"`
	ExamForm  string   `db:"exam_form" json:"exam_form,omitempty"`

	ScoreRelevance *float64 `db:"score_relevance" json:"score_relevance,omitempty"`
	ScoreDiscovery *float64 `db:"score_discovery" json:"score_discovery,omitempty"`
	ScoreBuilding  *float64 `db:"score_building" json:"score_building,omitempty"`
	ScoreVenture   *float64 `db:"score_venture" json:"score_venture,omitempty"`
	ScoreIntro     *float64 `db:"score_intro" json:"score_intro,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Teachers []Teacher           `db:"-" json:"teachers,omitempty"`
	Programs []ProgramMembership `db:"-" json:"programs,omitempty"`

	// Rank is the Pareto front index attached in grid view. Nil in list view.
	Rank *int `db:"-" json:"rank,omitempty"`
}

// Teacher is a course instructor, deduplicated by (name, url) per course.
type Teacher struct {
	ID        string `db:"id" json:"id"`
	CourseKey string `db:"course_key" json:"course_key"`
	Name      string `db:"name" json:"name"`
	URL       string `db:"url" json:"url,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
