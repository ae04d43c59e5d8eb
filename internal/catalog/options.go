package catalog

import (
	"sort"
	"strings"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// Option derivation for the guided-search selects. Every function is a pure
// derivation over (tree, levels map, current selections), recomputed on each
// render; nothing here caches state that could desync. A selected value is
// never silently dropped from its option list, even when the underlying data
// no longer lists it.

// maProjectLevels are appended to the MA level list in this canonical order.
var maProjectLevels = []string{models.LevelMAProjectFall, models.LevelMAProjectSpring}

// DegreeOptions returns the tree's top-level degrees plus the current
// selection when it is not among them.
func DegreeOptions(tree models.ProgramTree, selected string) []string {
	degrees := make([]string, 0, len(tree)+1)
	for degree := range tree {
		degrees = append(degrees, degree)
	}
	sort.Strings(degrees)
	return withSelected(degrees, selected)
}

// LevelOptions derives the level list for a degree. A non-empty entry in the
// levels-by-degree map (keyed by uppercased degree) overrides the
// tree-derived list; MA additionally gains the project pseudo-levels.
func LevelOptions(tree models.ProgramTree, levels models.LevelsByDegree, degree, selected string) []string {
	if degree == "" {
		return withSelected(nil, selected)
	}

	var options []string
	if override := levels[strings.ToUpper(degree)]; len(override) > 0 {
		options = append(options, override...)
	} else {
		for level := range tree[degree] {
			if levelRe.MatchString(level) {
				options = append(options, level)
			}
		}
		sort.Strings(options)
	}

	if degree == models.DegreeMA {
		for _, project := range maProjectLevels {
			if !containsString(options, project) {
				options = append(options, project)
			}
		}
	}

	return withSelected(options, selected)
}

// MajorOptions derives the major list. PhD always resolves to the Doctoral
// School bucket. With degree and level set, the exact level bucket wins,
// falling back to the degree-wide union when that bucket is empty; with only
// a degree, the degree-wide union; with neither, the union over the whole
// tree.
func MajorOptions(tree models.ProgramTree, degree, level, selected string) []string {
	var majors []string

	switch {
	case degree == models.DegreePhD:
		majors = append(majors, tree[models.DegreePhD][models.LevelDoctoralSchool]...)
	case degree != "" && level != "":
		majors = append(majors, tree[degree][level]...)
		if len(majors) == 0 {
			majors = degreeUnion(tree, degree)
		}
	case degree != "":
		majors = degreeUnion(tree, degree)
	default:
		for d := range tree {
			majors = append(majors, degreeUnion(tree, d)...)
		}
		majors = dedupe(majors)
	}

	sort.Strings(majors)
	return withSelected(majors, selected)
}

// MinorOptions derives the minor list: empty unless the degree is MA and the
// level is not a project pseudo-level. A numbered level picks the season
// bucket by parity (odd → Fall, even → Spring), textual season labels
// disambiguate otherwise, and no level yields the union of both buckets.
func MinorOptions(tree models.ProgramTree, degree, level, selected string) []string {
	if ShouldSkipMinor(degree, level) {
		return nil
	}

	var minors []string
	switch SemesterForLevel(level) {
	case SemesterFall:
		minors = append(minors, tree[models.DegreeMA][models.LevelMinorFall]...)
	case SemesterSpring:
		minors = append(minors, tree[models.DegreeMA][models.LevelMinorSpring]...)
	default:
		minors = append(minors, tree[models.DegreeMA][models.LevelMinorFall]...)
		minors = append(minors, tree[models.DegreeMA][models.LevelMinorSpring]...)
		minors = dedupe(minors)
	}

	sort.Strings(minors)
	return withSelected(minors, selected)
}

// ShouldSkipMinor reports whether the minor question does not apply: the
// degree is not MA, or the level is a master-project pseudo-level.
func ShouldSkipMinor(degree, level string) bool {
	if degree != models.DegreeMA {
		return true
	}
	return strings.Contains(strings.ToLower(level), "project")
}

// LevelDisabled reports whether the level select should be disabled.
func LevelDisabled(tree models.ProgramTree, levels models.LevelsByDegree, degree string) bool {
	if degree == "" || degree == models.DegreePhD {
		return true
	}
	return len(LevelOptions(tree, levels, degree, "")) == 0
}

// MajorDisabled reports whether the major select should be disabled.
func MajorDisabled(tree models.ProgramTree, degree, level string) bool {
	return len(MajorOptions(tree, degree, level, "")) == 0
}

// MinorDisabled reports whether the minor select should be disabled.
func MinorDisabled(tree models.ProgramTree, degree, level string) bool {
	if ShouldSkipMinor(degree, level) {
		return true
	}
	return len(MinorOptions(tree, degree, level, "")) == 0
}

func degreeUnion(tree models.ProgramTree, degree string) []string {
	var all []string
	for _, majors := range tree[degree] {
		all = append(all, majors...)
	}
	return dedupe(all)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func withSelected(options []string, selected string) []string {
	if selected == "" || containsString(options, selected) {
		return options
	}
	return append(options, selected)
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
