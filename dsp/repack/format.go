package repack

import "fmt"

// MaxChannels is the largest supported number of meaningful channels.
const MaxChannels = 16

const (
	groupSlots = 8
	splitSlots = 16
)

// SampleFormat identifies the encoding of one sample.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	// FormatS16 is signed 16-bit little-endian PCM.
	FormatS16
	// FormatS32 is signed 32-bit little-endian PCM.
	FormatS32
	// FormatFloat32 is 32-bit little-endian IEEE float.
	FormatFloat32
)

// Width returns the sample size in bytes, or 0 for unsupported formats.
func (f SampleFormat) Width() int {
	switch f {
	case FormatS16:
		return 2
	case FormatS32, FormatFloat32:
		return 4
	default:
		return 0
	}
}

func (f SampleFormat) String() string {
	switch f {
	case FormatS16:
		return "s16"
	case FormatS32:
		return "s32"
	case FormatFloat32:
		return "f32"
	default:
		return "unknown"
	}
}

// FormatForBits maps a bit depth to a sample format. Only 16 and 32 bits
// are accepted; float selects the IEEE encoding for 32 bits.
func FormatForBits(bits int, float bool) (SampleFormat, error) {
	switch {
	case bits == 16 && !float:
		return FormatS16, nil
	case bits == 32 && float:
		return FormatFloat32, nil
	case bits == 32:
		return FormatS32, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %d-bit samples (float=%t)", ErrConfiguration, bits, float)
	}
}

// Layout is the host speaker layout of a packed frame.
type Layout int

const (
	// LayoutUnknown covers channel counts without a named layout (7, 9..16).
	LayoutUnknown Layout = iota
	LayoutMono
	LayoutStereo
	Layout2Point1
	Layout4Point0
	Layout4Point1
	Layout5Point1
	Layout7Point1
)

// Channels returns the number of channels in l, 0 for LayoutUnknown.
func (l Layout) Channels() int {
	switch l {
	case LayoutMono:
		return 1
	case LayoutStereo:
		return 2
	case Layout2Point1:
		return 3
	case Layout4Point0:
		return 4
	case Layout4Point1:
		return 5
	case Layout5Point1:
		return 6
	case Layout7Point1:
		return 8
	default:
		return 0
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutMono:
		return "mono"
	case LayoutStereo:
		return "stereo"
	case Layout2Point1:
		return "2.1"
	case Layout4Point0:
		return "4.0"
	case Layout4Point1:
		return "4.1"
	case Layout5Point1:
		return "5.1"
	case Layout7Point1:
		return "7.1"
	default:
		return "unknown"
	}
}

// LayoutForChannels returns the named layout with n channels.
func LayoutForChannels(n int) Layout {
	switch n {
	case 1:
		return LayoutMono
	case 2:
		return LayoutStereo
	case 3:
		return Layout2Point1
	case 4:
		return Layout4Point0
	case 5:
		return Layout4Point1
	case 6:
		return Layout5Point1
	case 8:
		return Layout7Point1
	default:
		return LayoutUnknown
	}
}

// DeckLinkOrder returns the source slot for every destination channel of l
// when the card delivers LFE before FC and the rear pair in slots 6-7:
//
//	4.1  | FL | FR | LFE | FC | BC |                  -> FL FR FC LFE BC
//	5.1  | FL | FR | LFE | FC | emp | emp | BL | BR | -> FL FR FC LFE BL BR
//	7.1  | FL | FR | LFE | FC | SL | SR | BL | BR |   -> FL FR FC LFE BL BR SL SR
//
// Other layouts need no reordering and yield nil.
func DeckLinkOrder(l Layout) []int {
	switch l {
	case Layout4Point1:
		return []int{0, 1, 3, 2, 4}
	case Layout5Point1:
		return []int{0, 1, 3, 2, 6, 7}
	case Layout7Point1:
		return []int{0, 1, 3, 2, 6, 7, 4, 5}
	default:
		return nil
	}
}
