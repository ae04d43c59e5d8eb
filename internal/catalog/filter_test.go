package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateDraftQueryLifecycle(t *testing.T) {
	s := NewState()

	s.EditDraftQuery("entrepreneurship")
	assert.True(t, s.QueryDirty())
	assert.Empty(t, s.Applied.Query, "text edits must not touch the applied slot")

	s.ApplyQuery()
	assert.False(t, s.QueryDirty())
	assert.Equal(t, "entrepreneurship", s.Applied.Query)

	s.EditDraftQuery("venture")
	s.SeedDraft()
	assert.Equal(t, "entrepreneurship", s.Draft.Query, "seeding restores the applied value")
}

func TestStateInstantEditsApplyBothSlots(t *testing.T) {
	s := NewState()

	s.SetType(CourseTypeOptional)
	assert.Equal(t, CourseTypeOptional, s.Draft.Type)
	assert.Equal(t, CourseTypeOptional, s.Applied.Type)

	min, max := 2.0, 6.0
	s.SetCredits(&min, &max)
	assert.Equal(t, 2.0, *s.Applied.CreditsMin)
	assert.Equal(t, 6.0, *s.Applied.CreditsMax)

	min = 99 // the state must hold its own copy
	assert.Equal(t, 2.0, *s.Applied.CreditsMin)
}

func TestStateSetMinScoresSnaps(t *testing.T) {
	s := NewState()
	s.SetMinScores(ScoreThresholds{Relevance: 60, Discovery: 12.6, Intro: 130})
	assert.Equal(t, 50.0, s.Applied.MinScores.Relevance)
	assert.Equal(t, 25.0, s.Applied.MinScores.Discovery)
	assert.Equal(t, 0.0, s.Applied.MinScores.Building)
	assert.Equal(t, 100.0, s.Applied.MinScores.Intro)
}

func TestStateDegreeCascadeClearsDependents(t *testing.T) {
	s := NewState()
	s.SetDegree("MA")
	s.SetLevel("MA1")
	s.SetMajor("Management, Technology and Entrepreneurship")
	s.SetMinor("Minor in Entrepreneurship")

	s.SetDegree("BA")
	assert.Equal(t, "BA", s.Applied.Degree)
	assert.Empty(t, s.Applied.Level)
	assert.Empty(t, s.Applied.Major)
	assert.Empty(t, s.Applied.Minor)
	assert.Empty(t, s.Draft.Level)
}

func TestStateLevelInfersSemester(t *testing.T) {
	s := NewState()
	s.SetDegree("MA")

	s.SetLevel("MA1")
	assert.Equal(t, SemesterFall, s.Applied.Semester, "odd suffix means Fall")

	s.SetLevel("MA2")
	assert.Equal(t, SemesterSpring, s.Applied.Semester, "even suffix means Spring")

	s.SetLevel("MA Project Fall")
	assert.Equal(t, SemesterFall, s.Applied.Semester)

	s.SetSemester(SemesterFall)
	s.SetLevel("")
	assert.Equal(t, SemesterFall, s.Applied.Semester, "clearing the level keeps the semester")
}

func TestStateLevelClearsMajorAndMinor(t *testing.T) {
	s := NewState()
	s.SetDegree("MA")
	s.SetLevel("MA1")
	s.SetMajor("Data Science")
	s.SetMinor("Minor in Entrepreneurship")

	s.SetLevel("MA3")
	assert.Empty(t, s.Applied.Major)
	assert.Empty(t, s.Applied.Minor)
	assert.Equal(t, "MA3", s.Applied.Level)
}

func TestStateMinorDroppedOnProjectLevel(t *testing.T) {
	s := NewState()
	s.SetDegree("MA")
	s.SetLevel("MA Project Spring")
	s.SetMinor("Minor in Entrepreneurship")
	assert.Empty(t, s.Applied.Minor, "project levels carry no minor")
}

func TestStateReset(t *testing.T) {
	s := NewState()
	s.SetDegree("MA")
	s.SetLevel("MA1")
	s.EditDraftQuery("x")
	s.Reset()
	assert.True(t, s.Applied.IsZero())
	assert.True(t, s.Draft.IsZero())
}

func TestSemesterForLevel(t *testing.T) {
	cases := []struct {
		level string
		want  Semester
	}{
		{"BA1", SemesterFall},
		{"BA2", SemesterSpring},
		{"BA6", SemesterSpring},
		{"MA3", SemesterFall},
		{"MA Project Fall", SemesterFall},
		{"MA Project Spring", SemesterSpring},
		{"Autumn semester", SemesterFall},
		{"Spring semester", SemesterSpring},
		{"Doctoral School", SemesterAny},
		{"", SemesterAny},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SemesterForLevel(tc.level), "level %q", tc.level)
	}
}

func TestFilterSetEqual(t *testing.T) {
	min := 2.0
	a := FilterSet{Query: "x", CreditsMin: &min}
	minCopy := 2.0
	b := FilterSet{Query: "x", CreditsMin: &minCopy}
	assert.True(t, a.Equal(b), "pointer fields compare by value")

	b.Query = "y"
	assert.False(t, a.Equal(b))
}
