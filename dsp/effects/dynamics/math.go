//go:build !fastmath

package dynamics

import (
	"math"

	"github.com/cwbudde/algo-capture/dsp/core"
)

// mulToDB converts a linear amplitude to dB; 0 maps to -Inf.
func mulToDB(x float64) float64 {
	return core.LinearToDB(x)
}

// dbToMul converts dB to a linear amplitude; non-finite input maps to 0.
func dbToMul(db float64) float64 {
	return core.DBToLinear(db)
}

// mathSqrt computes sqrt(x) using standard library math.
func mathSqrt(x float64) float64 {
	return math.Sqrt(x)
}
