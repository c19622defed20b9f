package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FMax returns the larger of a and b. A NaN operand loses to a number,
// unlike math.Max which propagates NaN.
func FMax(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}

	if math.IsNaN(b) {
		return a
	}

	if a > b {
		return a
	}

	return b
}

// FMin returns the smaller of a and b with the same NaN rule as FMax.
func FMin(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}

	if math.IsNaN(b) {
		return a
	}

	if a < b {
		return a
	}

	return b
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
// Non-finite input maps to 0.
func DBToLinear(db float64) float64 {
	if !IsFinite(db) {
		return 0
	}

	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}
