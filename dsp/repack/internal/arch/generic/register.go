package generic

import (
	"github.com/cwbudde/algo-capture/dsp/repack/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:      "generic",
		SIMDLevel: cpu.SIMDNone,
		Priority:  0,
		Squash:    Squash,
	})
}

// Squash is the reference kernel: one exact copy per frame.
func Squash(dst, src []byte, frames, srcStride, dstStride int) {
	d, s := 0, 0
	for range frames {
		copy(dst[d:d+dstStride], src[s:s+dstStride])
		d += dstStride
		s += srcStride
	}
}
