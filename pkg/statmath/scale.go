package statmath

import "math"

// MaxScale is the top of the bounded comparison scale
const MaxScale = 100.0

// Normalize maps a raw stat onto the 0-100 comparison scale
//
// Formula:
// bounded = min(100, (value / referenceMax) * 100)
//
// Example:
// 17.5 PPG against a 35 PPG reference -> 50
// 41.0 PPG against a 35 PPG reference -> 100 (clamped)
//
// Only the upper bound is clamped. Stat inputs are never negative, so a
// negative value passes through as a negative score.
func Normalize(value, referenceMax float64) float64 {
	return math.Min(MaxScale, (value/referenceMax)*MaxScale)
}

// Percent converts a 0.0-1.0 shooting fraction to the percentage convention
// used by both radar axes and bar rows
func Percent(fraction float64) float64 {
	return fraction * 100
}

// Round rounds a value to the given number of decimal places
func Round(value float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(value*p) / p
}
