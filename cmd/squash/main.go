// Command squash repacks a raw slot-interleaved capture dump into a WAV file
// holding only the meaningful channels.
//
// Usage:
//
//	squash [flags] -in capture.raw -out capture.wav
//
// The dump is a sequence of frames as delivered by the capture card: 8 slots
// per frame for up to 8 channels, 16 slots per frame above that.
//
// Examples:
//
//	squash -channels 2 -in cap.raw -out cap.wav
//	squash -channels 6 -decklink -in cap.raw -out cap51.wav
//	squash -channels 12 -bits 32 -in cap.raw -out cap.wav
//	squash -list
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-capture/dsp/repack"
	"github.com/cwbudde/algo-capture/internal/wavio"
	"github.com/go-audio/audio"
	"github.com/sirupsen/logrus"
)

type options struct {
	in        string
	out       string
	channels  int
	bits      int
	rate      int
	block     int
	maxFrames int
	decklink  bool
}

type summary struct {
	frames   int
	blocks   int
	kernel   string
	strategy string
	dropped  int
}

func main() {
	var opts options
	flag.StringVar(&opts.in, "in", "", "raw capture dump to read")
	flag.StringVar(&opts.out, "out", "", "WAV file to write")
	flag.IntVar(&opts.channels, "channels", 2, "meaningful channels in the dump (1-16)")
	flag.IntVar(&opts.bits, "bits", 16, "sample width in bits (16 or 32)")
	flag.IntVar(&opts.rate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&opts.block, "block", 1024, "frames per repack call")
	flag.IntVar(&opts.maxFrames, "max-frames", 0, "scratch growth limit in frames (0 = unbounded)")
	flag.BoolVar(&opts.decklink, "decklink", false, "reorder 4.1/5.1/7.1 slots into FL FR FC LFE order")
	list := flag.Bool("list", false, "list supported layouts and slot orders")
	logLevel := flag.String("log-level", "warning", "log level (debug, info, warning, error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: squash [flags] -in capture.raw -out capture.wav\n\n")
		fmt.Fprintf(os.Stderr, "Repacks a slot-interleaved capture dump into a packed WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  squash -channels 2 -in cap.raw -out cap.wav\n")
		fmt.Fprintf(os.Stderr, "  squash -channels 6 -decklink -in cap.raw -out cap51.wav\n")
		fmt.Fprintf(os.Stderr, "  squash -list\n")
	}
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logrus.SetLevel(level)

	if *list {
		if err := printLayouts(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if opts.in == "" || opts.out == "" {
		flag.Usage()
		os.Exit(2)
	}

	s, err := run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d frames in %d blocks, kernel %s, %s path\n",
		opts.out, s.frames, s.blocks, s.kernel, s.strategy)
	if s.dropped > 0 {
		fmt.Printf("dropped %d trailing bytes (partial frame)\n", s.dropped)
	}
}

func run(opts options) (summary, error) {
	var s summary

	if opts.block <= 0 {
		return s, fmt.Errorf("block size must be positive: %d", opts.block)
	}

	format, err := repack.FormatForBits(opts.bits, false)
	if err != nil {
		return s, err
	}

	cfg := repack.Config{
		Channels:      opts.channels,
		Format:        format,
		SampleRate:    opts.rate,
		MaxFrames:     opts.maxFrames,
		ReserveFrames: opts.block,
	}
	if opts.decklink {
		cfg.Order = repack.DeckLinkOrder(repack.LayoutForChannels(opts.channels))
	}

	r, err := repack.New(cfg)
	if err != nil {
		return s, err
	}
	defer r.Close()
	s.kernel, s.strategy = r.Kernel(), r.Strategy()

	in, err := os.Open(opts.in)
	if err != nil {
		return s, err
	}
	defer in.Close()

	out, err := os.Create(opts.out)
	if err != nil {
		return s, err
	}
	defer out.Close()

	enc, err := wavio.NewEncoder(out, opts.rate, opts.bits, opts.channels)
	if err != nil {
		return s, err
	}

	src := make([]byte, opts.block*r.SourceStride())
	var buf *audio.IntBuffer
	for {
		n, readErr := io.ReadFull(in, src)
		frames := n / r.SourceStride()
		if frames > 0 {
			timestamp := uint64(s.frames) * 1_000_000_000 / uint64(opts.rate)
			frame, err := r.RepackFrame(src[:n], frames, timestamp)
			if err != nil {
				return s, err
			}
			if buf, err = frame.IntBuffer(buf); err != nil {
				return s, err
			}
			if err := enc.Write(buf); err != nil {
				return s, err
			}
			s.frames += frames
			s.blocks++
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			s.dropped = n - frames*r.SourceStride()
			break
		}
		if readErr != nil {
			return s, readErr
		}
	}

	if s.dropped > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "squash.run",
			"bytes":    s.dropped,
			"stride":   r.SourceStride(),
		}).Warn("Dropping partial trailing frame")
	}

	if err := enc.Close(); err != nil {
		return s, err
	}

	return s, out.Close()
}

func printLayouts(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Channels\tLayout\tSource Slots\tDeckLink Order\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "--------\t------\t------------\t--------------\n"); err != nil {
		return err
	}

	for ch := 1; ch <= repack.MaxChannels; ch++ {
		layout := repack.LayoutForChannels(ch)
		slots := 8
		if ch > 8 {
			slots = 16
		}
		order := "-"
		if o := repack.DeckLinkOrder(layout); o != nil {
			order = fmt.Sprint(o)
		}
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", ch, layout, slots, order); err != nil {
			return err
		}
	}

	return tw.Flush()
}
