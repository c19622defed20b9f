//go:build amd64 && !purego

package sse2

import (
	"github.com/cwbudde/algo-capture/dsp/repack/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

const laneBytes = 16

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "sse2",
		SIMDLevel: cpu.SIMDSSE2,
		Priority:  10,
		Squash:    squash,
	})
}

// squash is plain Go that copies 16-byte arrays. It has no assembly and
// relies on the compiler lowering each array copy to one 128-bit load and
// store, which SSE2 guarantees on amd64.
//
// It moves whole 128-bit lanes (8 x 16-bit or 4 x 32-bit samples) and
// advances the destination by dstStride, so each frame's unused tail is
// overwritten by the next frame. Frames whose lanes would run past the end
// of dst are finished with an exact copy.
func squash(dst, src []byte, frames, srcStride, dstStride int) {
	lanes := (dstStride + laneBytes - 1) / laneBytes
	span := lanes * laneBytes

	d, s, f := 0, 0, 0
	for ; f < frames && d+span <= len(dst); f++ {
		for o := 0; o < span; o += laneBytes {
			*(*[laneBytes]byte)(dst[d+o : d+o+laneBytes]) = *(*[laneBytes]byte)(src[s+o : s+o+laneBytes])
		}
		d += dstStride
		s += srcStride
	}

	for ; f < frames; f++ {
		copy(dst[d:d+dstStride], src[s:s+dstStride])
		d += dstStride
		s += srcStride
	}
}
