package repack

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cwbudde/algo-capture/internal/testutil"
)

func TestRepackFramePopulatesChannelPointers(t *testing.T) {
	const frames = 16
	r := mustNew(t, Config{
		Channels:   6,
		Format:     FormatS16,
		SampleRate: 48000,
		Order:      DeckLinkOrder(Layout5Point1),
	})

	f, err := r.RepackFrame(testutil.SlotFrames(frames, groupSlots, 2), frames, 123456789)
	if err != nil {
		t.Fatalf("RepackFrame() error = %v", err)
	}

	if f.Layout != Layout5Point1 || f.Channels != 6 || f.SampleRate != 48000 ||
		f.Frames != frames || f.Timestamp != 123456789 || f.Stride != 12 {
		t.Fatalf("unexpected frame header: %+v", f)
	}

	packed := f.Packed()
	if len(packed) != frames*12 {
		t.Fatalf("len(Packed()) = %d, want %d", len(packed), frames*12)
	}

	want := []int{1, 2, 4, 3, 7, 8}
	for c := range 6 {
		if &f.Data[c][0] != &packed[c*2] {
			t.Fatalf("Data[%d] does not start at offset %d", c, c*2)
		}
		for i := range frames {
			if got := testutil.SlotOf(f.Sample(c, i), 2); got != want[c] {
				t.Fatalf("channel %d frame %d: slot %d, want %d", c, i, got, want[c])
			}
		}
	}
	for c := 6; c < MaxChannels; c++ {
		if f.Data[c] != nil {
			t.Fatalf("Data[%d] should be nil", c)
		}
	}
}

func TestRepackFrameZeroFrames(t *testing.T) {
	r := mustNew(t, Config{Channels: 2, Format: FormatS16})
	f, err := r.RepackFrame(nil, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.Packed() != nil || f.Data[0] != nil {
		t.Fatalf("zero-frame Frame should carry no data: %+v", f)
	}
}

func TestFrameIntBuffer(t *testing.T) {
	src16 := make([]byte, 2*groupSlots*2)
	values16 := []int16{-32768, 32767, 100, -1}
	for i, v := range values16 {
		f, s := i/2, i%2
		binary.LittleEndian.PutUint16(src16[(f*groupSlots+s)*2:], uint16(v))
	}

	r := mustNew(t, Config{Channels: 2, Format: FormatS16, SampleRate: 44100})
	f, err := r.RepackFrame(src16, 2, 0)
	if err != nil {
		t.Fatal(err)
	}

	buf, err := f.IntBuffer(nil)
	if err != nil {
		t.Fatalf("IntBuffer() error = %v", err)
	}
	if buf.Format.NumChannels != 2 || buf.Format.SampleRate != 44100 || buf.SourceBitDepth != 16 {
		t.Fatalf("unexpected format: %+v depth %d", buf.Format, buf.SourceBitDepth)
	}
	for i, v := range values16 {
		if buf.Data[i] != int(v) {
			t.Fatalf("Data[%d] = %d, want %d", i, buf.Data[i], v)
		}
	}

	src32 := make([]byte, groupSlots*4)
	binary.LittleEndian.PutUint32(src32, uint32(0x80000000))
	r32 := mustNew(t, Config{Channels: 1, Format: FormatS32})
	f32, err := r32.RepackFrame(src32, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	buf, err = f32.IntBuffer(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf.Data) != 1 || buf.Data[0] != -2147483648 || buf.SourceBitDepth != 32 {
		t.Fatalf("unexpected 32-bit decode: %v depth %d", buf.Data, buf.SourceBitDepth)
	}
}

func TestFrameIntBufferRejectsFloat(t *testing.T) {
	r := mustNew(t, Config{Channels: 2, Format: FormatFloat32})
	f, err := r.RepackFrame(make([]byte, groupSlots*4), 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.IntBuffer(nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("IntBuffer() error = %v, want ErrConfiguration", err)
	}
}

func TestLayoutForChannels(t *testing.T) {
	for _, l := range []Layout{LayoutMono, LayoutStereo, Layout2Point1, Layout4Point0, Layout4Point1, Layout5Point1, Layout7Point1} {
		if got := LayoutForChannels(l.Channels()); got != l {
			t.Fatalf("LayoutForChannels(%d) = %s, want %s", l.Channels(), got, l)
		}
	}
	for _, n := range []int{0, 7, 9, 16} {
		if got := LayoutForChannels(n); got != LayoutUnknown {
			t.Fatalf("LayoutForChannels(%d) = %s, want unknown", n, got)
		}
	}
}
