package repack

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-capture/dsp/buffer"
	"github.com/cwbudde/algo-capture/dsp/repack/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/sirupsen/logrus"
)

// Config describes one capture stream.
type Config struct {
	// Channels is the number of meaningful channels, 1..16.
	Channels int
	// Format is the sample encoding shared by source and destination.
	Format SampleFormat
	// SampleRate is copied into every Frame. 0 means unknown; negative
	// rates are rejected.
	SampleRate int
	// Order optionally names the source slot of each destination channel.
	// Only valid for 1..8 channels; see DeckLinkOrder.
	Order []int
	// MaxFrames bounds scratch growth; 0 means unbounded. Larger blocks fail
	// with ErrOutOfMemory.
	MaxFrames int
	// ReserveFrames pre-sizes the scratch buffer so steady-state callbacks
	// never allocate.
	ReserveFrames int
}

// Repacker squashes slot-interleaved frames into packed frames.
type Repacker struct {
	cfg        Config
	width      int
	srcStride  int
	dstStride  int
	emptySlots int
	kernel     string
	strategy   strategy
	scratch    *buffer.Buffer[byte]
	closed     bool
}

// New validates cfg and prepares a Repacker for it.
func New(cfg Config) (*Repacker, error) {
	if err := cfg.validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "repack.New",
			"channels": cfg.Channels,
			"format":   cfg.Format.String(),
			"error":    err,
		}).Warn("Rejected repack configuration")
		return nil, err
	}

	entry := registry.Global.Lookup(cpu.DetectFeatures())
	if entry == nil || entry.Squash == nil {
		return nil, fmt.Errorf("%w: no squash kernel registered", ErrConfiguration)
	}

	r := &Repacker{
		cfg:     cfg,
		width:   cfg.Format.Width(),
		kernel:  entry.Name,
		scratch: buffer.New[byte](0),
	}
	r.dstStride = cfg.Channels * r.width

	if cfg.Channels <= groupSlots {
		r.srcStride = groupSlots * r.width
		r.emptySlots = groupSlots - cfg.Channels

		var order []int
		if cfg.Order != nil {
			order = append([]int(nil), cfg.Order...)
		}
		r.strategy = &singleGroup{
			width:     r.width,
			srcStride: r.srcStride,
			dstStride: r.dstStride,
			order:     order,
			squash:    entry.Squash,
		}
	} else {
		r.srcStride = splitSlots * r.width
		r.emptySlots = splitSlots - cfg.Channels
		r.strategy = &splitGroup{
			srcStride: r.srcStride,
			dstStride: r.dstStride,
			squash:    entry.Squash,
		}
	}

	if cfg.MaxFrames > 0 {
		r.scratch.SetLimit(cfg.MaxFrames * r.dstStride)
	}

	if cfg.ReserveFrames > 0 {
		if err := r.scratch.Grow(cfg.ReserveFrames * r.dstStride); err != nil {
			return nil, fmt.Errorf("%w: reserve %d frames: %w", ErrOutOfMemory, cfg.ReserveFrames, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "repack.New",
		"channels":    cfg.Channels,
		"format":      cfg.Format.String(),
		"strategy":    r.strategy.name(),
		"kernel":      r.kernel,
		"src_stride":  r.srcStride,
		"dst_stride":  r.dstStride,
		"empty_slots": r.emptySlots,
	}).Debug("Created repacker")

	return r, nil
}

func (c Config) validate() error {
	if c.Channels < 1 || c.Channels > MaxChannels {
		return fmt.Errorf("%w: %d channels (must be 1..%d)", ErrConfiguration, c.Channels, MaxChannels)
	}

	if c.Format.Width() == 0 {
		return fmt.Errorf("%w: sample format %d", ErrConfiguration, int(c.Format))
	}

	if c.SampleRate < 0 {
		return fmt.Errorf("%w: negative sample rate %d", ErrConfiguration, c.SampleRate)
	}

	if c.MaxFrames < 0 || c.ReserveFrames < 0 {
		return fmt.Errorf("%w: negative frame limits", ErrConfiguration)
	}

	if c.MaxFrames > 0 && c.ReserveFrames > c.MaxFrames {
		return fmt.Errorf("%w: reserve %d frames above limit %d", ErrConfiguration, c.ReserveFrames, c.MaxFrames)
	}

	if c.MaxFrames > math.MaxInt/(MaxChannels*4) || c.ReserveFrames > math.MaxInt/(MaxChannels*4) {
		return fmt.Errorf("%w: frame limits overflow", ErrConfiguration)
	}

	if c.Order == nil {
		return nil
	}

	if c.Channels > groupSlots {
		return fmt.Errorf("%w: slot order needs at most %d channels, got %d", ErrConfiguration, groupSlots, c.Channels)
	}

	if len(c.Order) != c.Channels {
		return fmt.Errorf("%w: slot order has %d entries for %d channels", ErrConfiguration, len(c.Order), c.Channels)
	}

	var seen [groupSlots]bool
	for ch, slot := range c.Order {
		if slot < 0 || slot >= groupSlots {
			return fmt.Errorf("%w: channel %d maps to slot %d", ErrConfiguration, ch, slot)
		}
		if seen[slot] {
			return fmt.Errorf("%w: slot %d used twice", ErrConfiguration, slot)
		}
		seen[slot] = true
	}

	return nil
}

// Repack squashes frames source frames from src and returns the packed
// bytes, frames*DestStride() long. The result aliases the scratch buffer.
//
// frames == 0 succeeds with an empty result. On ErrOutOfMemory nothing is
// written and the caller should drop the block.
func (r *Repacker) Repack(src []byte, frames int) ([]byte, error) {
	if r.closed {
		return nil, ErrClosed
	}

	if frames < 0 {
		return nil, fmt.Errorf("%w: negative frame count %d", ErrInvalidInput, frames)
	}

	if frames == 0 {
		return r.scratch.Samples()[:0], nil
	}

	if len(src)/r.srcStride < frames {
		return nil, fmt.Errorf("%w: %d bytes hold fewer than %d frames of %d bytes",
			ErrInvalidInput, len(src), frames, r.srcStride)
	}

	if err := r.scratch.Resize(frames * r.dstStride); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Repacker.Repack",
			"frames":   frames,
			"capacity": r.scratch.Cap(),
			"error":    err,
		}).Warn("Dropping block, scratch buffer cannot grow")
		return nil, fmt.Errorf("%w: %d frames: %w", ErrOutOfMemory, frames, err)
	}

	dst := r.scratch.Samples()
	r.strategy.repack(dst, src, frames)

	return dst, nil
}

// RepackFrame repacks src and describes the result as a host Frame.
func (r *Repacker) RepackFrame(src []byte, frames int, timestamp uint64) (Frame, error) {
	packed, err := r.Repack(src, frames)
	if err != nil {
		return Frame{}, err
	}

	f := Frame{
		Format:     r.cfg.Format,
		Layout:     LayoutForChannels(r.cfg.Channels),
		Channels:   r.cfg.Channels,
		SampleRate: r.cfg.SampleRate,
		Frames:     frames,
		Timestamp:  timestamp,
		Stride:     r.dstStride,
	}

	if frames > 0 {
		for c := range r.cfg.Channels {
			f.Data[c] = packed[c*r.width:]
		}
	}

	return f, nil
}

// Close releases the scratch buffer. Repack fails with ErrClosed afterwards.
func (r *Repacker) Close() {
	if r.closed {
		return
	}
	r.scratch.Release()
	r.closed = true
}

// Channels returns the number of meaningful channels.
func (r *Repacker) Channels() int { return r.cfg.Channels }

// Format returns the sample format.
func (r *Repacker) Format() SampleFormat { return r.cfg.Format }

// SourceStride returns the source frame size in bytes.
func (r *Repacker) SourceStride() int { return r.srcStride }

// DestStride returns the packed frame size in bytes.
func (r *Repacker) DestStride() int { return r.dstStride }

// EmptySlots returns the number of discarded slots per source frame.
func (r *Repacker) EmptySlots() int { return r.emptySlots }

// Kernel returns the name of the selected copy kernel.
func (r *Repacker) Kernel() string { return r.kernel }

// Strategy returns the name of the selected repack strategy.
func (r *Repacker) Strategy() string { return r.strategy.name() }

// Capacity returns the scratch capacity in bytes.
func (r *Repacker) Capacity() int { return r.scratch.Cap() }
