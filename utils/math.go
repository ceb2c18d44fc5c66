package utils

import (
	"math"
)

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// RadsToDegs converts every element of a slice of radians to degrees, returning a new slice.
func RadsToDegs(radians []float64) []float64 {
	out := make([]float64, len(radians))
	for i, r := range radians {
		out[i] = RadToDeg(r)
	}
	return out
}

// Clamp limits v to [lo, hi]. NaN is passed through unchanged so callers can detect it.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less
// than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// IsFinite returns whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
