// Package catalog implements the in-memory filtering and ranking core of the
// course explorer: the score model, the draft/applied filter state machine and
// its URL codec, dependent option derivation, multi-key sorting, and Pareto
// dominance ranking.
package catalog

import "math"

// Scores are canonically 0–100. Values arriving on the fractional 0–1 schema
// are scaled at this boundary so everything downstream sees one scale.
const (
	ScoreMin = 0.0
	ScoreMax = 100.0
)

// ScoreSteps is the fixed ascending set user-facing thresholds snap to.
var ScoreSteps = [5]float64{0, 25, 50, 75, 100}

// NormalizeScore clamps a raw score into [ScoreMin, ScoreMax]. Inputs in
// (0, 1] are treated as fractional-schema values and scaled by 100.
// Non-finite input yields nil; nil scores never participate in ranking as
// real values and sort as the range's lower bound.
func NormalizeScore(raw float64) *float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return nil
	}
	if raw > 0 && raw <= 1 {
		raw *= 100
	}
	if raw < ScoreMin {
		raw = ScoreMin
	}
	if raw > ScoreMax {
		raw = ScoreMax
	}
	return &raw
}

// SnapToStep returns the step value with minimum absolute distance to the
// clamped input. Exact ties resolve to the first match in ascending order,
// so the function is deterministic and idempotent.
func SnapToStep(v float64) float64 {
	if math.IsNaN(v) {
		return ScoreSteps[0]
	}
	if v < ScoreMin {
		v = ScoreMin
	}
	if v > ScoreMax {
		v = ScoreMax
	}
	best := ScoreSteps[0]
	bestDist := math.Abs(v - best)
	for _, step := range ScoreSteps[1:] {
		if d := math.Abs(v - step); d < bestDist {
			best = step
			bestDist = d
		}
	}
	return best
}

// StepIndex returns the index of the nearest step, in [0, len(ScoreSteps)-1].
func StepIndex(v float64) int {
	snapped := SnapToStep(v)
	for i, step := range ScoreSteps {
		if step == snapped {
			return i
		}
	}
	return 0
}
