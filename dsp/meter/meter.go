// Package meter accumulates peak and RMS levels of planar multi-channel audio
// across blocks.
package meter

import (
	"math"

	"github.com/cwbudde/algo-capture/dsp/core"
)

// Levels holds the accumulated levels of one channel or of all channels.
//
//nolint:revive
type Levels struct {
	Frames  int
	Peak    float64 // max |x|
	Peak_dB float64
	RMS     float64
	RMS_dB  float64
}

// Meter tracks per-channel peak and energy. Nil or missing channels in a
// block contribute silence.
type Meter struct {
	frames int
	sumSq  []float64
	peak   []float64
}

// New creates a Meter for channels channels.
func New(channels int) *Meter {
	channels = max(channels, 0)
	return &Meter{
		sumSq: make([]float64, channels),
		peak:  make([]float64, channels),
	}
}

// Channels returns the number of metered channels.
func (m *Meter) Channels() int { return len(m.peak) }

// Update adds the first n samples of each channel in samples.
func (m *Meter) Update(samples [][]float64, n int) {
	if n <= 0 {
		return
	}

	for c := range m.peak {
		if c >= len(samples) || samples[c] == nil {
			continue
		}
		x := samples[c][:min(n, len(samples[c]))]
		for _, v := range x {
			m.sumSq[c] += v * v
			if a := math.Abs(v); a > m.peak[c] {
				m.peak[c] = a
			}
		}
	}
	m.frames += n
}

// Channel returns the levels of channel c.
func (m *Meter) Channel(c int) Levels {
	if c < 0 || c >= len(m.peak) {
		return levels(0, 0, 0)
	}
	return levels(m.frames, m.peak[c], m.sumSq[c])
}

// Total returns the levels over every channel: the largest peak and the RMS
// of all samples.
func (m *Meter) Total() Levels {
	if len(m.peak) == 0 {
		return levels(0, 0, 0)
	}

	var peak, sumSq float64
	for c := range m.peak {
		peak = math.Max(peak, m.peak[c])
		sumSq += m.sumSq[c]
	}

	l := levels(m.frames*len(m.peak), peak, sumSq)
	l.Frames = m.frames
	return l
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	m.frames = 0
	clear(m.sumSq)
	clear(m.peak)
}

func levels(samples int, peak, sumSq float64) Levels {
	if samples == 0 {
		return Levels{Peak_dB: math.Inf(-1), RMS_dB: math.Inf(-1)}
	}

	rms := math.Sqrt(sumSq / float64(samples))
	return Levels{
		Frames:  samples,
		Peak:    peak,
		Peak_dB: core.LinearToDB(peak),
		RMS:     rms,
		RMS_dB:  core.LinearToDB(rms),
	}
}
