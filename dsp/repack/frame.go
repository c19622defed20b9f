package repack

import (
	"encoding/binary"
	"fmt"

	"github.com/go-audio/audio"
)

// Frame is a packed block handed to the host pipeline.
//
// Samples stay interleaved: Data[c] begins at channel c's first sample and
// successive samples of the channel are Stride bytes apart. Data entries
// alias the Repacker scratch buffer and are invalidated by the next call.
type Frame struct {
	Data       [MaxChannels][]byte
	Format     SampleFormat
	Layout     Layout
	Channels   int
	SampleRate int
	Frames     int
	Stride     int
	// Timestamp is the capture time in nanoseconds on a monotonic clock.
	Timestamp uint64
}

// Packed returns the whole interleaved block.
func (f Frame) Packed() []byte {
	if f.Frames == 0 || f.Data[0] == nil {
		return nil
	}
	return f.Data[0][:f.Frames*f.Stride]
}

// Sample returns the raw bytes of channel ch in frame i.
func (f Frame) Sample(ch, i int) []byte {
	w := f.Format.Width()
	off := i * f.Stride
	return f.Data[ch][off : off+w]
}

// IntBuffer decodes the integer samples of f into dst, reusing its Data
// capacity. A nil dst allocates a new buffer. Float frames are rejected.
func (f Frame) IntBuffer(dst *audio.IntBuffer) (*audio.IntBuffer, error) {
	if f.Format != FormatS16 && f.Format != FormatS32 {
		return nil, fmt.Errorf("%w: cannot decode %s frames as integers", ErrConfiguration, f.Format)
	}

	if dst == nil {
		dst = &audio.IntBuffer{}
	}

	n := f.Frames * f.Channels
	if cap(dst.Data) < n {
		dst.Data = make([]int, n)
	}
	dst.Data = dst.Data[:n]
	dst.Format = &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate}

	packed := f.Packed()
	switch f.Format {
	case FormatS16:
		dst.SourceBitDepth = 16
		for i := range dst.Data {
			dst.Data[i] = int(int16(binary.LittleEndian.Uint16(packed[2*i:])))
		}
	case FormatS32:
		dst.SourceBitDepth = 32
		for i := range dst.Data {
			dst.Data[i] = int(int32(binary.LittleEndian.Uint32(packed[4*i:])))
		}
	}

	return dst, nil
}
