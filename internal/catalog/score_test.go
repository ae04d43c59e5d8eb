package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScore(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"canonical value passes through", 62.5, 62.5},
		{"fractional schema scales", 0.75, 75},
		{"one is fractional full score", 1, 100},
		{"just above one stays canonical", 1.5, 1.5},
		{"negative clamps to min", -3, 0},
		{"above max clamps", 140, 100},
		{"zero stays zero", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeScore(tc.in)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, *got)
		})
	}

	assert.Nil(t, NormalizeScore(math.NaN()))
	assert.Nil(t, NormalizeScore(math.Inf(1)))
	assert.Nil(t, NormalizeScore(math.Inf(-1)))
}

func TestSnapToStep(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{10, 0},
		{12.5, 0},  // tie resolves to the lower step
		{12.6, 25},
		{25, 25},
		{37.5, 25},
		{40, 50},
		{62.5, 50},
		{80, 75},
		{87.5, 75},
		{99, 100},
		{-10, 0},
		{130, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SnapToStep(tc.in), "SnapToStep(%v)", tc.in)
	}
}

func TestSnapToStepIdempotent(t *testing.T) {
	for _, step := range ScoreSteps {
		assert.Equal(t, step, SnapToStep(step))
	}
	for v := 0.0; v <= 100; v += 3.7 {
		once := SnapToStep(v)
		assert.Equal(t, once, SnapToStep(once))
	}
}

func TestStepIndex(t *testing.T) {
	assert.Equal(t, 0, StepIndex(0))
	assert.Equal(t, 1, StepIndex(25))
	assert.Equal(t, 2, StepIndex(60))
	assert.Equal(t, 4, StepIndex(100))
	assert.Equal(t, 0, StepIndex(math.NaN()))
}
