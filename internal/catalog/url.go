package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Query string keys. The URL is the single durable client-side state, so the
// codec below must round-trip every FilterSet reachable through State.
const (
	ParamQuery        = "q"
	ParamType         = "type"
	ParamSemester     = "semester"
	ParamMinCredits   = "min_credits"
	ParamMaxCredits   = "max_credits"
	ParamDegree       = "degree"
	ParamLevel        = "level"
	ParamMajor        = "major"
	ParamMinor        = "minor"
	ParamMinRelevance = "min_relevance"
	ParamMinDiscovery = "min_discovery"
	ParamMinBuilding  = "min_building"
	ParamMinVenture   = "min_venture"
	ParamMinIntro     = "min_intro"
)

// QueryValues serializes the filter set, emitting only non-default fields.
// Score thresholds snapping to the minimum step are omitted entirely.
func (f FilterSet) QueryValues() url.Values {
	values := url.Values{}
	if f.Query != "" {
		values.Set(ParamQuery, f.Query)
	}
	if f.Type != CourseTypeAny {
		values.Set(ParamType, string(f.Type))
	}
	if f.Semester != SemesterAny {
		values.Set(ParamSemester, string(f.Semester))
	}
	if f.CreditsMin != nil {
		values.Set(ParamMinCredits, formatFloat(*f.CreditsMin))
	}
	if f.CreditsMax != nil {
		values.Set(ParamMaxCredits, formatFloat(*f.CreditsMax))
	}
	if f.Degree != "" {
		values.Set(ParamDegree, f.Degree)
	}
	if f.Level != "" {
		values.Set(ParamLevel, f.Level)
	}
	if f.Major != "" {
		values.Set(ParamMajor, f.Major)
	}
	if f.Minor != "" {
		values.Set(ParamMinor, f.Minor)
	}
	setThreshold(values, ParamMinRelevance, f.MinScores.Relevance)
	setThreshold(values, ParamMinDiscovery, f.MinScores.Discovery)
	setThreshold(values, ParamMinBuilding, f.MinScores.Building)
	setThreshold(values, ParamMinVenture, f.MinScores.Venture)
	setThreshold(values, ParamMinIntro, f.MinScores.Intro)
	return values
}

// EncodeQuery returns the filter set as an encoded query string.
func (f FilterSet) EncodeQuery() string {
	return f.QueryValues().Encode()
}

// ParseQuery reads recognized keys into a fresh FilterSet. Malformed numeric
// values are silently ignored, keeping the field default. Legacy winter and
// summer aliases map to Fall and Spring. When the level implies a semester
// and none is given explicitly, the inferred one wins. A level containing
// "project" forces the minor empty regardless of the supplied value.
func ParseQuery(values url.Values) FilterSet {
	var f FilterSet

	f.Query = values.Get(ParamQuery)
	f.Type = parseCourseType(values.Get(ParamType))
	f.Degree = strings.TrimSpace(values.Get(ParamDegree))
	f.Level = strings.TrimSpace(values.Get(ParamLevel))
	f.Major = strings.TrimSpace(values.Get(ParamMajor))
	f.Minor = strings.TrimSpace(values.Get(ParamMinor))

	if v, err := strconv.ParseFloat(values.Get(ParamMinCredits), 64); err == nil {
		f.CreditsMin = &v
	}
	if v, err := strconv.ParseFloat(values.Get(ParamMaxCredits), 64); err == nil {
		f.CreditsMax = &v
	}

	f.MinScores.Relevance = parseThreshold(values.Get(ParamMinRelevance))
	f.MinScores.Discovery = parseThreshold(values.Get(ParamMinDiscovery))
	f.MinScores.Building = parseThreshold(values.Get(ParamMinBuilding))
	f.MinScores.Venture = parseThreshold(values.Get(ParamMinVenture))
	f.MinScores.Intro = parseThreshold(values.Get(ParamMinIntro))

	f.Semester = parseSemester(values.Get(ParamSemester))
	if f.Semester == SemesterAny && f.Level != "" {
		f.Semester = SemesterForLevel(f.Level)
	}

	if strings.Contains(strings.ToLower(f.Level), "project") {
		f.Minor = ""
	}

	return f
}

// ParseQueryString parses a raw query string; malformed encodings yield the
// default filter set rather than an error.
func ParseQueryString(raw string) FilterSet {
	raw = strings.TrimPrefix(raw, "?")
	values, err := url.ParseQuery(raw)
	if err != nil {
		return FilterSet{}
	}
	return ParseQuery(values)
}

func parseCourseType(raw string) CourseType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "optional":
		return CourseTypeOptional
	case "mandatory":
		return CourseTypeMandatory
	default:
		return CourseTypeAny
	}
}

func parseSemester(raw string) Semester {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fall", "autumn", "winter":
		return SemesterFall
	case "spring", "summer":
		return SemesterSpring
	default:
		return SemesterAny
	}
}

func parseThreshold(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ScoreSteps[0]
	}
	return SnapToStep(v)
}

func setThreshold(values url.Values, key string, v float64) {
	if StepIndex(v) == 0 {
		return
	}
	values.Set(key, formatFloat(v))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
