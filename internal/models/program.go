package models

// ProgramTree maps degree → level → program (major) names. It is derived
// once from the coursebook_programs rows and treated as immutable afterwards.
type ProgramTree map[string]map[string][]string

// LevelsByDegree maps an uppercased degree code to its sorted raw level labels.
type LevelsByDegree map[string][]string

// Degree and level bucket names shared between the tree builder and the
// option derivation engine. The PhD and MA minor buckets are special-cased
// the same way the coursebook data is.
const (
	DegreeBA  = "BA"
	DegreeMA  = "MA"
	DegreePhD = "PhD"

	LevelDoctoralSchool  = "Doctoral School"
	LevelMAProjectFall   = "MA Project Fall"
	LevelMAProjectSpring = "MA Project Spring"
	LevelMinorFall       = "Minor Fall Semester"
	LevelMinorSpring     = "Minor Spring Semester"
)

// ProgramMembership is one study-plan row a course can satisfy.
type ProgramMembership struct {
	ID          string `db:"id" json:"id"`
	CourseKey   string `db:"course_key" json:"course_key"`
	ProgramName string `db:"program_name" json:"program_name"`
	Level       string `db:"level" json:"level"`
	Semester    string `db:"semester" json:"semester"`
	ExamForm    string `db:"exam_form" json:"exam_form"`
	ProgramType string `db:"program_type" json:"program_type"`
}
