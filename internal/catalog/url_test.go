package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryRoundTrip(t *testing.T) {
	min, max := 2.0, 8.0
	original := FilterSet{
		Query:      "startup",
		Type:       CourseTypeOptional,
		Semester:   SemesterFall,
		CreditsMin: &min,
		CreditsMax: &max,
		MinScores:  ScoreThresholds{Relevance: 50, Intro: 25},
		Degree:     "MA",
		Level:      "MA1",
		Major:      "Management, Technology and Entrepreneurship",
	}

	decoded := ParseQueryString(original.EncodeQuery())
	assert.True(t, original.Equal(decoded), "encode/decode must be lossless")
}

func TestQueryRoundTripDefaultsOmitted(t *testing.T) {
	encoded := FilterSet{}.EncodeQuery()
	assert.Empty(t, encoded, "the zero filter encodes to an empty query string")

	encoded = FilterSet{MinScores: ScoreThresholds{Relevance: 0}}.EncodeQuery()
	assert.Empty(t, encoded, "zero thresholds are omitted")

	encoded = FilterSet{MinScores: ScoreThresholds{Relevance: 10}}.EncodeQuery()
	assert.Empty(t, encoded, "thresholds snapping to the lowest step are omitted")
}

func TestParseQueryLegacySemesterAliases(t *testing.T) {
	f := ParseQueryString("semester=winter")
	assert.Equal(t, SemesterFall, f.Semester)

	f = ParseQueryString("semester=summer")
	assert.Equal(t, SemesterSpring, f.Semester)

	f = ParseQueryString("semester=autumn")
	assert.Equal(t, SemesterFall, f.Semester)
}

func TestParseQuerySemesterInferredFromLevel(t *testing.T) {
	f := ParseQueryString("degree=MA&level=MA1")
	assert.Equal(t, SemesterFall, f.Semester)

	// an explicit semester wins over the inference
	f = ParseQueryString("degree=MA&level=MA1&semester=Spring")
	assert.Equal(t, SemesterSpring, f.Semester)
}

func TestParseQueryMalformedNumericsIgnored(t *testing.T) {
	f := ParseQueryString("min_credits=abc&max_credits=&min_relevance=zzz")
	assert.Nil(t, f.CreditsMin)
	assert.Nil(t, f.CreditsMax)
	assert.Equal(t, 0.0, f.MinScores.Relevance)
}

func TestParseQueryThresholdsSnapped(t *testing.T) {
	f := ParseQueryString("min_relevance=60&min_intro=130")
	assert.Equal(t, 50.0, f.MinScores.Relevance)
	assert.Equal(t, 100.0, f.MinScores.Intro)
}

func TestParseQueryProjectLevelDropsMinor(t *testing.T) {
	values := url.Values{}
	values.Set(ParamDegree, "MA")
	values.Set(ParamLevel, "MA Project Fall")
	values.Set(ParamMinor, "Minor in Entrepreneurship")

	f := ParseQuery(values)
	assert.Empty(t, f.Minor)
	assert.Equal(t, "MA Project Fall", f.Level)
}

func TestParseQueryStringMalformedEncoding(t *testing.T) {
	f := ParseQueryString("%zz=broken")
	assert.True(t, f.IsZero())
}

func TestParseQueryUnknownKeysIgnored(t *testing.T) {
	f := ParseQueryString("degree=BA&utm_source=newsletter&page=3")
	assert.Equal(t, "BA", f.Degree)
	assert.True(t, FilterSet{Degree: "BA"}.Equal(f))
}
