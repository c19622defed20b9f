package repack

import "github.com/cwbudde/algo-capture/dsp/repack/internal/arch/registry"

// strategy rewrites frames source frames into dst. It is chosen once in New.
type strategy interface {
	repack(dst, src []byte, frames int)
	name() string
}

// singleGroup handles 1..8 channels delivered in 8-slot frames.
type singleGroup struct {
	width     int
	srcStride int
	dstStride int
	order     []int // source slot per destination channel; nil keeps slot order
	squash    registry.SquashFn
}

func (g *singleGroup) name() string {
	if g.order != nil {
		return "single-group-reorder"
	}
	return "single-group"
}

func (g *singleGroup) repack(dst, src []byte, frames int) {
	if g.order == nil {
		g.squash(dst, src, frames, g.srcStride, g.dstStride)
		return
	}

	w := g.width
	d, s := 0, 0
	for range frames {
		for ch, slot := range g.order {
			copy(dst[d+ch*w:d+ch*w+w], src[s+slot*w:s+slot*w+w])
		}
		d += g.dstStride
		s += g.srcStride
	}
}

// splitGroup handles 9..16 channels delivered as two 8-slot halves. The low
// half is kept whole and the empty tail of the high half is dropped, which
// is the leading dstStride bytes of each 16-slot frame.
type splitGroup struct {
	srcStride int
	dstStride int
	squash    registry.SquashFn
}

func (g *splitGroup) name() string { return "split-group" }

func (g *splitGroup) repack(dst, src []byte, frames int) {
	g.squash(dst, src, frames, g.srcStride, g.dstStride)
}
