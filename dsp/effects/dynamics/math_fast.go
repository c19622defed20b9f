//go:build fastmath

package dynamics

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

const (
	ln10Over20     = math.Ln10 / 20
	twentyOverLn10 = 20 / math.Ln10
)

// mulToDB converts a linear amplitude to dB using fast approximation.
func mulToDB(x float64) float64 {
	switch {
	case x < 0:
		return math.NaN()
	case x == 0:
		return math.Inf(-1)
	}

	return approx.FastLog(x) * twentyOverLn10
}

// dbToMul converts dB to a linear amplitude using fast approximation.
// Non-finite input maps to 0.
func dbToMul(db float64) float64 {
	if math.IsNaN(db) || math.IsInf(db, 0) {
		return 0
	}

	return approx.FastExp(db * ln10Over20)
}

// mathSqrt computes sqrt(x) using fast approximation.
func mathSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}

	return approx.FastSqrt(x)
}
