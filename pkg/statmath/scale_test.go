package statmath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/statmath"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		value        float64
		referenceMax float64
		want         float64
	}{
		{name: "at reference", value: 35, referenceMax: 35, want: 100},
		{name: "half reference", value: 17.5, referenceMax: 35, want: 50},
		{name: "zero", value: 0, referenceMax: 15, want: 0},
		{name: "above reference clamps", value: 41, referenceMax: 35, want: 100},
		{name: "games played", value: 800, referenceMax: 1600, want: 50},
		{name: "championship impact", value: 6 * 25, referenceMax: 100, want: 100},
		{name: "negative passes through", value: -3, referenceMax: 3, want: -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, statmath.Normalize(tt.value, tt.referenceMax), 1e-9)
		})
	}
}

func TestNormalize_BoundedForNonNegativeInput(t *testing.T) {
	maxima := []float64{3, 12, 15, 35, 82, 100, 1600, 2500}

	for _, ref := range maxima {
		for v := 0.0; v <= ref*3; v += ref / 7 {
			got := statmath.Normalize(v, ref)
			if got < 0 || got > 100 {
				t.Fatalf("Normalize(%v, %v) = %v, want within [0, 100]", v, ref, got)
			}
		}
		assert.Equal(t, 100.0, statmath.Normalize(ref, ref))
	}
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 47.3, statmath.Percent(0.473), 1e-9)
	assert.Equal(t, 0.0, statmath.Percent(0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 27.13, statmath.Round(27.1289, 2))
	assert.False(t, math.IsNaN(statmath.Round(0, 1)))
}
