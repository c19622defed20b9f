// Package wavio reads and writes integer PCM WAV files for the command-line
// tools and converts between interleaved integer and planar float samples.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-capture/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcmFormat = 1

var (
	// ErrNotWAV is returned when the stream has no RIFF/WAVE header.
	ErrNotWAV = errors.New("wavio: not a WAV stream")
	// ErrUnsupported is returned for non-PCM encodings and bit depths other
	// than 16, 24 or 32.
	ErrUnsupported = errors.New("wavio: unsupported WAV encoding")
)

// Read decodes the whole PCM stream in r.
func Read(r io.ReadSeeker) (*audio.IntBuffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWAV
	}

	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupported, dec.WavAudioFormat)
	}
	if FullScale(int(dec.BitDepth)) == 0 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	buf.SourceBitDepth = int(dec.BitDepth)

	return buf, nil
}

// Write encodes buf as PCM at its SourceBitDepth.
func Write(w io.WriteSeeker, buf *audio.IntBuffer) error {
	if buf == nil || buf.Format == nil {
		return fmt.Errorf("%w: buffer has no format", ErrUnsupported)
	}

	enc, err := NewEncoder(w, buf.Format.SampleRate, buf.SourceBitDepth, buf.Format.NumChannels)
	if err != nil {
		return err
	}
	if err := enc.Write(buf); err != nil {
		return err
	}

	return enc.Close()
}

// Encoder streams interleaved blocks into a PCM WAV file. The header sizes
// are patched on Close.
type Encoder struct {
	enc *wav.Encoder
}

// NewEncoder starts a PCM WAV stream on w.
func NewEncoder(w io.WriteSeeker, sampleRate, bitDepth, channels int) (*Encoder, error) {
	if FullScale(bitDepth) == 0 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, bitDepth)
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupported, sampleRate, channels)
	}

	return &Encoder{enc: wav.NewEncoder(w, sampleRate, bitDepth, channels, pcmFormat)}, nil
}

// Write appends buf to the stream.
func (e *Encoder) Write(buf *audio.IntBuffer) error {
	if err := e.enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	return nil
}

// Close finalises the WAV header. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("finalising wav: %w", err)
	}
	return nil
}

// FullScale returns the magnitude of the most negative sample at bitDepth,
// or 0 for unsupported depths.
func FullScale(bitDepth int) float64 {
	switch bitDepth {
	case 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1))
	default:
		return 0
	}
}

// Deinterleave splits frames starting at frame offset of buf into per-channel
// samples normalised to [-1, 1). dst is reused when it has enough capacity.
func Deinterleave(buf *audio.IntBuffer, offset, frames int, dst [][]float64) [][]float64 {
	channels := buf.Format.NumChannels
	scale := FullScale(buf.SourceBitDepth)

	if len(dst) < channels {
		dst = make([][]float64, channels)
	}
	dst = dst[:channels]
	for c := range dst {
		if cap(dst[c]) < frames {
			dst[c] = make([]float64, frames)
		}
		dst[c] = dst[c][:frames]
	}

	data := buf.Data[offset*channels:]
	for i := range frames {
		for c := range channels {
			dst[c][i] = float64(data[i*channels+c]) / scale
		}
	}

	return dst
}

// Interleave writes frames of planar samples into buf starting at frame
// offset, scaling to buf's bit depth, rounding to the nearest step and
// clipping to its integer range.
func Interleave(src [][]float64, offset, frames int, buf *audio.IntBuffer) {
	channels := buf.Format.NumChannels
	scale := FullScale(buf.SourceBitDepth)
	hi, lo := scale-1, -scale

	data := buf.Data[offset*channels:]
	for i := range frames {
		for c := range channels {
			data[i*channels+c] = int(core.Clamp(math.Round(src[c][i]*scale), lo, hi))
		}
	}
}
