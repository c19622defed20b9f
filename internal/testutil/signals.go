package testutil

import (
	"encoding/binary"
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Burst generates value for the first on samples followed by off samples of silence.
func Burst(value float64, on, off int) []float64 {
	out := make([]float64, on+off)
	for i := range on {
		out[i] = value
	}
	return out
}

// SlotFrames builds a little-endian slot-interleaved capture buffer with
// frames frames of slots slots each. Every sample encodes its slot in the
// high byte and its frame index in the low bits so reordering is visible.
func SlotFrames(frames, slots, width int) []byte {
	out := make([]byte, frames*slots*width)
	for f := range frames {
		for s := range slots {
			off := (f*slots + s) * width
			switch width {
			case 2:
				binary.LittleEndian.PutUint16(out[off:], uint16(s+1)<<8|uint16(f&0xff))
			case 4:
				binary.LittleEndian.PutUint32(out[off:], uint32(s+1)<<24|uint32(f&0xffffff))
			}
		}
	}
	return out
}

// SlotOf extracts the 1-based slot tag written by SlotFrames; 0 means silence.
func SlotOf(sample []byte, width int) int {
	switch width {
	case 2:
		return int(binary.LittleEndian.Uint16(sample) >> 8)
	case 4:
		return int(binary.LittleEndian.Uint32(sample) >> 24)
	}
	return -1
}
