package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

func f(v float64) *float64 { return &v }

func course(key, name string, fields map[string]*float64) models.Course {
	c := models.Course{CourseKey: key, Code: key, Name: name}
	c.Credits = fields[FieldCredits]
	c.Workload = fields[FieldWorkload]
	c.ScoreRelevance = fields[FieldScoreRelevance]
	c.ScoreDiscovery = fields[FieldScoreDiscovery]
	c.ScoreBuilding = fields[FieldScoreBuilding]
	c.ScoreVenture = fields[FieldScoreVenture]
	c.ScoreIntro = fields[FieldScoreIntro]
	return c
}

func TestPriorityListNoSelection(t *testing.T) {
	keys := PriorityList(SortSpec{})
	require.Len(t, keys, 5)
	assert.Equal(t, SortKey{Field: FieldScoreRelevance, Descending: true}, keys[0])
	assert.Equal(t, SortKey{Field: FieldScoreIntro, Descending: true}, keys[4])
}

func TestPriorityListCredits(t *testing.T) {
	keys := PriorityList(SortSpec{Field: FieldCredits, Order: OrderAsc})
	require.Len(t, keys, 6)
	assert.Equal(t, SortKey{Field: FieldCredits, Descending: false}, keys[0])
	assert.Equal(t, SortKey{Field: FieldScoreRelevance, Descending: true}, keys[1])
}

func TestPriorityListScoreField(t *testing.T) {
	keys := PriorityList(SortSpec{Field: FieldScoreVenture, Order: OrderDesc})
	require.Len(t, keys, 5)
	assert.Equal(t, SortKey{Field: FieldScoreVenture, Descending: true}, keys[0])
	for _, k := range keys[1:] {
		assert.NotEqual(t, FieldScoreVenture, k.Field, "the chosen score must not repeat")
	}
}

func TestSortCoursesTieBreaksThroughScores(t *testing.T) {
	// both have 4 credits; the second relevance decides
	a := course("CS-101", "Alpha", map[string]*float64{FieldCredits: f(4), FieldScoreRelevance: f(50)})
	b := course("CS-102", "Beta", map[string]*float64{FieldCredits: f(4), FieldScoreRelevance: f(75)})

	courses := []models.Course{a, b}
	SortCourses(courses, SortSpec{Field: FieldCredits, Order: OrderDesc})
	assert.Equal(t, "CS-102", courses[0].CourseKey)
}

func TestSortCoursesMissingValuesSortLast(t *testing.T) {
	withScore := course("A", "A", map[string]*float64{FieldScoreRelevance: f(10)})
	missing := course("B", "B", nil)

	courses := []models.Course{missing, withScore}
	SortCourses(courses, SortSpec{Field: FieldScoreRelevance, Order: OrderDesc})
	assert.Equal(t, "A", courses[0].CourseKey, "a present low score still beats a missing one")
}

func TestSortCoursesNameCodeFallback(t *testing.T) {
	a := course("Z-900", "gamma", nil)
	b := course("A-100", "Gamma", nil)
	c := course("M-500", "alpha", nil)

	courses := []models.Course{a, b, c}
	SortCourses(courses, SortSpec{})
	assert.Equal(t, "M-500", courses[0].CourseKey, "name decides case-insensitively")
	assert.Equal(t, "A-100", courses[1].CourseKey, "equal names fall back to code")
	assert.Equal(t, "Z-900", courses[2].CourseKey)
}

func TestSortCoursesDeterministic(t *testing.T) {
	courses := []models.Course{
		course("C", "Same", nil),
		course("A", "Same", nil),
		course("B", "Same", nil),
	}
	SortCourses(courses, SortSpec{Field: FieldWorkload, Order: OrderAsc})
	assert.Equal(t, "A", courses[0].CourseKey)
	assert.Equal(t, "B", courses[1].CourseKey)
	assert.Equal(t, "C", courses[2].CourseKey)
}

func TestIsSortableField(t *testing.T) {
	assert.True(t, IsSortableField(FieldCredits))
	assert.True(t, IsSortableField(FieldScoreIntro))
	assert.False(t, IsSortableField("name"))
	assert.False(t, IsSortableField(""))
}
