package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// Sortable field names, matching the JSON/URL surface.
const (
	FieldCredits        = "credits"
	FieldWorkload       = "workload"
	FieldScoreRelevance = "score_relevance"
	FieldScoreDiscovery = "score_discovery"
	FieldScoreBuilding  = "score_building"
	FieldScoreVenture   = "score_venture"
	FieldScoreIntro     = "score_intro"
)

// scoreFields is the fixed fallback order for the five score columns.
var scoreFields = [5]string{
	FieldScoreRelevance,
	FieldScoreDiscovery,
	FieldScoreBuilding,
	FieldScoreVenture,
	FieldScoreIntro,
}

// SortOrder is the direction of the user-selected primary field.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// SortSpec is the user's primary sort choice. An empty Field means no
// explicit selection.
type SortSpec struct {
	Field string
	Order SortOrder
}

// SortKey is one entry in a comparator priority list.
type SortKey struct {
	Field      string
	Descending bool
}

// IsScoreField reports whether the field is one of the five score columns.
func IsScoreField(field string) bool {
	for _, f := range scoreFields {
		if f == field {
			return true
		}
	}
	return false
}

// IsSortableField reports whether the field can drive the primary sort.
func IsSortableField(field string) bool {
	return field == FieldCredits || field == FieldWorkload || IsScoreField(field)
}

// PriorityList builds the ordered comparator keys for a sort spec: no field
// chosen yields all five scores descending; credits or workload prepends the
// chosen direction before the five scores; a score field prepends itself
// before the remaining four.
func PriorityList(spec SortSpec) []SortKey {
	descending := spec.Order != OrderAsc

	switch {
	case spec.Field == "":
		keys := make([]SortKey, 0, len(scoreFields))
		for _, f := range scoreFields {
			keys = append(keys, SortKey{Field: f, Descending: true})
		}
		return keys
	case spec.Field == FieldCredits || spec.Field == FieldWorkload:
		keys := make([]SortKey, 0, len(scoreFields)+1)
		keys = append(keys, SortKey{Field: spec.Field, Descending: descending})
		for _, f := range scoreFields {
			keys = append(keys, SortKey{Field: f, Descending: true})
		}
		return keys
	default:
		keys := make([]SortKey, 0, len(scoreFields))
		keys = append(keys, SortKey{Field: spec.Field, Descending: descending})
		for _, f := range scoreFields {
			if f != spec.Field {
				keys = append(keys, SortKey{Field: f, Descending: true})
			}
		}
		return keys
	}
}

// SortCourses orders courses in place by the priority list, deciding on the
// first unequal field. Missing or non-finite values compare as negative
// infinity. Exhausting all priorities falls back to case-insensitive name,
// then code, which makes the order total and deterministic.
func SortCourses(courses []models.Course, spec SortSpec) {
	keys := PriorityList(spec)
	sort.SliceStable(courses, func(i, j int) bool {
		return lessCourses(courses[i], courses[j], keys)
	})
}

func lessCourses(a, b models.Course, keys []SortKey) bool {
	for _, key := range keys {
		av := numericField(a, key.Field)
		bv := numericField(b, key.Field)
		if av == bv {
			continue
		}
		if key.Descending {
			return av > bv
		}
		return av < bv
	}

	an := strings.ToLower(a.Name)
	bn := strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.Code < b.Code
}

func numericField(c models.Course, field string) float64 {
	var v *float64
	switch field {
	case FieldCredits:
		v = c.Credits
	case FieldWorkload:
		v = c.Workload
	case FieldScoreRelevance:
		v = c.ScoreRelevance
	case FieldScoreDiscovery:
		v = c.ScoreDiscovery
	case FieldScoreBuilding:
		v = c.ScoreBuilding
	case FieldScoreVenture:
		v = c.ScoreVenture
	case FieldScoreIntro:
		v = c.ScoreIntro
	}
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return math.Inf(-1)
	}
	return *v
}
