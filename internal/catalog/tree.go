package catalog

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

var levelRe = regexp.MustCompile(`^(?i)(ba|ma)(\d+)$`)

// BuildProgramTree groups program membership rows into the degree → level →
// majors tree driving the cascading selects. Master-project and minor rows
// land in their MA pseudo-buckets, doctoral rows under the PhD bucket, and
// admission rows are skipped.
func BuildProgramTree(rows []models.ProgramMembership) models.ProgramTree {
	buckets := make(map[string]map[string]map[string]struct{})
	add := func(degree, level, program string) {
		if buckets[degree] == nil {
			buckets[degree] = make(map[string]map[string]struct{})
		}
		if buckets[degree][level] == nil {
			buckets[degree][level] = make(map[string]struct{})
		}
		buckets[degree][level][program] = struct{}{}
	}

	for _, row := range rows {
		program := strings.TrimSpace(row.ProgramName)
		level := strings.TrimSpace(row.Level)
		if program == "" || level == "" {
			continue
		}
		degree, bucket, ok := determineBucket(level, program)
		if !ok {
			continue
		}
		add(degree, bucket, program)
	}

	tree := make(models.ProgramTree, len(buckets))
	for degree, levels := range buckets {
		tree[degree] = make(map[string][]string, len(levels))
		for level, programs := range levels {
			names := make([]string, 0, len(programs))
			for name := range programs {
				names = append(names, name)
			}
			sort.Strings(names)
			tree[degree][level] = names
		}
	}
	return tree
}

func determineBucket(level, program string) (degree, bucket string, ok bool) {
	lowerLevel := strings.ToLower(level)

	if m := levelRe.FindStringSubmatch(level); m != nil {
		degree = strings.ToUpper(m[1])
		return degree, degree + m[2], true
	}

	if strings.Contains(lowerLevel, "master project") {
		if projectSeason(lowerLevel) == "Fall" {
			return models.DegreeMA, models.LevelMAProjectFall, true
		}
		return models.DegreeMA, models.LevelMAProjectSpring, true
	}

	if level == models.LevelDoctoralSchool {
		return models.DegreePhD, models.LevelDoctoralSchool, true
	}

	if strings.Contains(lowerLevel, "semester") && hasSeason(lowerLevel) {
		if strings.Contains(strings.ToLower(program), "minor") {
			if projectSeason(lowerLevel) == "Fall" {
				return models.DegreeMA, models.LevelMinorFall, true
			}
			return models.DegreeMA, models.LevelMinorSpring, true
		}
		return "", "", false
	}

	return "", "", false
}

func projectSeason(lowerLevel string) string {
	if strings.Contains(lowerLevel, "fall") || strings.Contains(lowerLevel, "autumn") {
		return "Fall"
	}
	return "Spring"
}

func hasSeason(lowerLevel string) bool {
	return strings.Contains(lowerLevel, "spring") ||
		strings.Contains(lowerLevel, "autumn") ||
		strings.Contains(lowerLevel, "fall")
}

// GroupLevelsByDegree groups raw level labels by their leading alphabetic
// prefix, uppercased, yielding the degree-code → sorted labels map that
// supplements tree-derived level lists.
func GroupLevelsByDegree(labels []string) models.LevelsByDegree {
	grouped := make(map[string]map[string]struct{})
	for _, label := range labels {
		label = strings.TrimSpace(label)
		prefix := leadingAlpha(label)
		if prefix == "" {
			continue
		}
		key := strings.ToUpper(prefix)
		if grouped[key] == nil {
			grouped[key] = make(map[string]struct{})
		}
		grouped[key][label] = struct{}{}
	}

	result := make(models.LevelsByDegree, len(grouped))
	for key, labelSet := range grouped {
		labels := make([]string, 0, len(labelSet))
		for label := range labelSet {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		result[key] = labels
	}
	return result
}

func leadingAlpha(s string) string {
	end := 0
	for end < len(s) && unicode.IsLetter(rune(s[end])) {
		end++
	}
	return s[:end]
}
