package catalog

import (
	"math"

	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

// Direction states whether higher or lower values are preferred.
type Direction string

const (
	PreferMax Direction = "max"
	PreferMin Direction = "min"
)

// Preference holds the per-objective direction for Pareto ranking.
type Preference struct {
	Credits  Direction `json:"credits"`
	Workload Direction `json:"workload"`
}

// DefaultPreference favors more credits for less workload.
var DefaultPreference = Preference{Credits: PreferMax, Workload: PreferMin}

// ParseDirection normalises a raw direction string, falling back for
// anything that is not "min" or "max".
func ParseDirection(raw string, fallback Direction) Direction {
	switch Direction(raw) {
	case PreferMin:
		return PreferMin
	case PreferMax:
		return PreferMax
	default:
		return fallback
	}
}

// ParetoItem is the transient per-render projection of a course onto the two
// ranking objectives. A missing credits value counts as 0 and a missing
// workload as +infinity: missing data is penalized under the "good"
// direction rather than arbitrarily favoring incomplete records.
type ParetoItem struct {
	Key      string
	Credits  float64
	Workload float64
}

// NewParetoItem projects a course row onto the ranking objectives.
func NewParetoItem(c models.Course) ParetoItem {
	item := ParetoItem{Key: c.CourseKey, Credits: 0, Workload: math.Inf(1)}
	if c.Credits != nil && !math.IsNaN(*c.Credits) {
		item.Credits = *c.Credits
	}
	if c.Workload != nil && !math.IsNaN(*c.Workload) {
		item.Workload = *c.Workload
	}
	return item
}

// Dominates reports whether a is weakly better than b on both objectives and
// strictly better on at least one, under the stated preference directions.
func Dominates(a, b ParetoItem, pref Preference) bool {
	creditsBetterEq := betterOrEqual(a.Credits, b.Credits, pref.Credits)
	workloadBetterEq := betterOrEqual(a.Workload, b.Workload, pref.Workload)
	if !creditsBetterEq || !workloadBetterEq {
		return false
	}
	return strictlyBetter(a.Credits, b.Credits, pref.Credits) ||
		strictlyBetter(a.Workload, b.Workload, pref.Workload)
}

func betterOrEqual(a, b float64, dir Direction) bool {
	if dir == PreferMin {
		return a <= b
	}
	return a >= b
}

func strictlyBetter(a, b float64, dir Direction) bool {
	if dir == PreferMin {
		return a < b
	}
	return a > b
}

// RankFronts assigns every item its dominance-front rank by iterative
// peeling: items with no remaining dominators form the next front, starting
// at rank 0, and their dominance influence is removed before the next round.
// Strict dominance over finite reals is acyclic, so this terminates in at
// most n rounds with a total assignment.
func RankFronts(items []ParetoItem, pref Preference) []int {
	n := len(items)
	ranks := make([]int, n)
	if n == 0 {
		return ranks
	}

	dominators := make([]int, n)
	dominated := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if Dominates(items[i], items[j], pref) {
				dominated[i] = append(dominated[i], j)
				dominators[j]++
			}
		}
	}

	assigned := make([]bool, n)
	remaining := n
	for rank := 0; remaining > 0; rank++ {
		var front []int
		for i := 0; i < n; i++ {
			if !assigned[i] && dominators[i] == 0 {
				front = append(front, i)
			}
		}
		if len(front) == 0 {
			// Cannot happen while strict dominance is acyclic; rank the
			// remainder together rather than spin.
			for i := 0; i < n; i++ {
				if !assigned[i] {
					ranks[i] = rank
					assigned[i] = true
					remaining--
				}
			}
			break
		}
		for _, i := range front {
			ranks[i] = rank
			assigned[i] = true
			remaining--
		}
		for _, i := range front {
			for _, j := range dominated[i] {
				dominators[j]--
			}
		}
	}
	return ranks
}

// RankCourses computes Pareto ranks for a course page and attaches them to
// the returned copy of the slice.
func RankCourses(courses []models.Course, pref Preference) []models.Course {
	items := make([]ParetoItem, len(courses))
	for i, c := range courses {
		items[i] = NewParetoItem(c)
	}
	ranks := RankFronts(items, pref)
	ranked := make([]models.Course, len(courses))
	for i, c := range courses {
		rank := ranks[i]
		c.Rank = &rank
		ranked[i] = c
	}
	return ranked
}
