package catalog

import (
	"strings"
	"unicode"
)

// CourseType narrows results to mandatory or optional study-plan roles.
type CourseType string

const (
	CourseTypeAny       CourseType = ""
	CourseTypeOptional  CourseType = "optional"
	CourseTypeMandatory CourseType = "mandatory"
)

// Semester is the teaching semester filter.
type Semester string

const (
	SemesterAny    Semester = ""
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
)

// ScoreThresholds holds the five minimum-score filters. Each value is a
// member of ScoreSteps; the zero value means "no filter".
type ScoreThresholds struct {
	Relevance float64 `json:"relevance"`
	Discovery float64 `json:"discovery"`
	Building  float64 `json:"building"`
	Venture   float64 `json:"venture"`
	Intro     float64 `json:"intro"`
}

// FilterSet is the complete filter state driving a course search. The zero
// value is the all-defaults ("unset") state for every field.
type FilterSet struct {
	Query      string          `json:"q,omitempty"`
	Type       CourseType      `json:"type,omitempty"`
	Semester   Semester        `json:"semester,omitempty"`
	CreditsMin *float64        `json:"min_credits,omitempty"`
	CreditsMax *float64        `json:"max_credits,omitempty"`
	MinScores  ScoreThresholds `json:"min_scores"`
	Degree     string          `json:"degree,omitempty"`
	Level      string          `json:"level,omitempty"`
	Major      string          `json:"major,omitempty"`
	Minor      string          `json:"minor,omitempty"`
}

// Equal reports field-wise equality, comparing optional numerics by value.
func (f FilterSet) Equal(other FilterSet) bool {
	return f.Query == other.Query &&
		f.Type == other.Type &&
		f.Semester == other.Semester &&
		floatPtrEqual(f.CreditsMin, other.CreditsMin) &&
		floatPtrEqual(f.CreditsMax, other.CreditsMax) &&
		f.MinScores == other.MinScores &&
		f.Degree == other.Degree &&
		f.Level == other.Level &&
		f.Major == other.Major &&
		f.Minor == other.Minor
}

// IsZero reports whether every field is at its default.
func (f FilterSet) IsZero() bool {
	return f.Equal(FilterSet{})
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// State is the two-slot filter machine: Draft holds pending edits, Applied
// drives the remote query and the URL. Text edits stay in the draft until
// explicitly applied; every other control applies instantly to both slots.
type State struct {
	Draft   FilterSet
	Applied FilterSet
}

// NewState returns a state with both slots at defaults.
func NewState() State {
	return State{}
}

// SeedDraft re-seeds the draft from the applied slot, used on navigation.
func (s *State) SeedDraft() {
	s.Draft = s.Applied
}

// EditDraftQuery updates the free-text query on the draft only.
func (s *State) EditDraftQuery(q string) {
	s.Draft.Query = q
}

// QueryDirty reports whether the draft query differs from the applied one.
func (s *State) QueryDirty() bool {
	return s.Draft.Query != s.Applied.Query
}

// ApplyQuery promotes the draft query into the applied slot.
func (s *State) ApplyQuery() {
	s.Applied.Query = s.Draft.Query
}

// SetType applies a course type filter to both slots.
func (s *State) SetType(t CourseType) {
	s.Draft.Type = t
	s.Applied.Type = t
}

// SetSemester applies a semester filter to both slots.
func (s *State) SetSemester(sem Semester) {
	s.Draft.Semester = sem
	s.Applied.Semester = sem
}

// SetCredits applies the credits range to both slots.
func (s *State) SetCredits(min, max *float64) {
	s.Draft.CreditsMin = copyFloat(min)
	s.Draft.CreditsMax = copyFloat(max)
	s.Applied.CreditsMin = copyFloat(min)
	s.Applied.CreditsMax = copyFloat(max)
}

// SetMinScores snaps each threshold to the step set and applies to both slots.
func (s *State) SetMinScores(t ScoreThresholds) {
	snapped := ScoreThresholds{
		Relevance: SnapToStep(t.Relevance),
		Discovery: SnapToStep(t.Discovery),
		Building:  SnapToStep(t.Building),
		Venture:   SnapToStep(t.Venture),
		Intro:     SnapToStep(t.Intro),
	}
	s.Draft.MinScores = snapped
	s.Applied.MinScores = snapped
}

// SetDegree applies a degree selection and cascades: level, major and minor
// are cleared in both slots.
func (s *State) SetDegree(degree string) {
	for _, f := range []*FilterSet{&s.Draft, &s.Applied} {
		f.Degree = degree
		f.Level = ""
		f.Major = ""
		f.Minor = ""
	}
}

// SetLevel applies a level selection, clears major/minor, and infers the
// semester from the level label when the new value is non-empty.
func (s *State) SetLevel(level string) {
	inferred := SemesterForLevel(level)
	for _, f := range []*FilterSet{&s.Draft, &s.Applied} {
		f.Level = level
		f.Major = ""
		f.Minor = ""
		if level != "" && inferred != SemesterAny {
			f.Semester = inferred
		}
	}
}

// SetMajor applies a major selection to both slots.
func (s *State) SetMajor(major string) {
	s.Draft.Major = major
	s.Applied.Major = major
}

// SetMinor applies a minor selection to both slots. Project levels carry no
// minor, so the selection is dropped there to keep the URL codec lossless.
func (s *State) SetMinor(minor string) {
	if strings.Contains(strings.ToLower(s.Applied.Level), "project") {
		minor = ""
	}
	s.Draft.Minor = minor
	s.Applied.Minor = minor
}

// Reset returns both slots to all-defaults.
func (s *State) Reset() {
	s.Draft = FilterSet{}
	s.Applied = FilterSet{}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// SemesterForLevel maps a level label to its teaching semester: an odd
// numeric suffix means Fall, an even one Spring. Labels without a numeric
// suffix are matched on explicit autumn/fall/spring substrings.
func SemesterForLevel(level string) Semester {
	level = strings.TrimSpace(level)
	if level == "" {
		return SemesterAny
	}
	if n, ok := trailingNumber(level); ok {
		if n%2 == 1 {
			return SemesterFall
		}
		return SemesterSpring
	}
	lower := strings.ToLower(level)
	if strings.Contains(lower, "autumn") || strings.Contains(lower, "fall") {
		return SemesterFall
	}
	if strings.Contains(lower, "spring") {
		return SemesterSpring
	}
	return SemesterAny
}

func trailingNumber(s string) (int, bool) {
	end := len(s)
	start := end
	for start > 0 && unicode.IsDigit(rune(s[start-1])) {
		start--
	}
	if start == end {
		return 0, false
	}
	n := 0
	for _, r := range s[start:end] {
		n = n*10 + int(r-'0')
	}
	return n, true
}
