package dynamics

import (
	"math"

	"github.com/cwbudde/algo-capture/dsp/core"
)

// stillwellWeight scales the feedback term of the Stillwell RMS detector.
// The value is empirically tuned and has no closed-form derivation; it is
// kept exactly. With the weight above 1 the running mean is not contractive
// and grows without bound on sustained input.
const stillwellWeight = 2.08136898

const (
	// rmsWindowExp is the 10 ms RMS window expressed as the exponent
	// numerator of exp2(-100/sampleRate).
	rmsWindowExp = -100.0
	// peakWindowExp and peakWindowScale give the 2.5 µs peak window,
	// exp2(-1000 / (0.0025 * sampleRate)).
	peakWindowExp   = -1000.0
	peakWindowScale = 0.0025
)

// timeCoeff returns the one-pole smoothing coefficient exp(-1/(sr*ms/1000)).
func timeCoeff(sampleRate, ms float64) float64 {
	return math.Exp(-1 / (sampleRate * ms / 1000))
}

func rmsCoeff(sampleRate float64) float64 {
	return math.Exp2(rmsWindowExp / sampleRate)
}

func peakCoeff(sampleRate float64) float64 {
	return math.Exp2(peakWindowExp / (peakWindowScale * sampleRate))
}

// detector advances a per-channel running average one sample at a time.
type detector struct {
	mode      DetectorMode
	rmsCoeff  float64
	peakCoeff float64
	peak      float64
}

func newDetector(mode DetectorMode, sampleRate float64) detector {
	return detector{
		mode:      mode,
		rmsCoeff:  rmsCoeff(sampleRate),
		peakCoeff: peakCoeff(sampleRate),
	}
}

// start seeds the peak-hold state with the first sample of a block.
func (d *detector) start(x0 float64) {
	d.peak = math.Abs(x0)
}

// step returns the running average after feeding x, given the previous one.
func (d *detector) step(prev, x float64) float64 {
	switch d.mode {
	case DetectorModeRMSStillwell:
		return stillwellWeight*d.rmsCoeff*prev + (1-d.rmsCoeff)*x*x
	case DetectorModePeak:
		held := core.FMax(math.Abs(d.peak), math.Abs(x))
		d.peak = held * held
		return d.peakCoeff*prev + (1-d.peakCoeff)*d.peak
	case DetectorModeNone:
		return x * x
	default:
		return d.rmsCoeff*prev + (1-d.rmsCoeff)*x*x
	}
}

// level converts a running average into the detector's amplitude.
func level(runningAverage float64) float64 {
	return mathSqrt(core.FMax(runningAverage, 0))
}

// smooth blends env toward in with the attack coefficient when rising and the
// release coefficient otherwise.
func smooth(env, in, attack, release float64) float64 {
	if env < in {
		return in + attack*(env-in)
	}

	return in + release*(env-in)
}
