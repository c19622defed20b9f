// Command expand runs the downward expander/gate over a PCM WAV file.
//
// Usage:
//
//	expand [flags] -in input.wav -out output.wav
//
// Start from the preset's defaults. Only flags given on the command line
// override them, so an explicit -threshold 0 counts as an override.
//
// Examples:
//
//	expand -in voice.wav -out voice-exp.wav
//	expand -preset gate -threshold -45 -in voice.wav -out voice-gated.wav
//	expand -detector peak -attack 1 -release 200 -in drums.wav -out out.wav
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-capture/dsp/core"
	"github.com/cwbudde/algo-capture/dsp/effects/dynamics"
	"github.com/cwbudde/algo-capture/dsp/meter"
	"github.com/cwbudde/algo-capture/internal/wavio"
	"github.com/sirupsen/logrus"
)

type options struct {
	in       string
	out      string
	block    int
	settings dynamics.Settings
}

type summary struct {
	frames     int
	channels   int
	sampleRate int
	minGainDB  float64
	input      *meter.Meter
	output     *meter.Meter
}

func main() {
	var (
		opts     options
		in, out  string
		preset   = flag.String("preset", "expander", "preset: expander or gate")
		detector = flag.String("detector", "", "detector: RMS, \"RMS Stillwell\", peak or none")
		ratio    = flag.Float64("ratio", 0, "expansion ratio (1-20)")
		thresh   = flag.Float64("threshold", 0, "threshold in dB (-60-0)")
		attack   = flag.Float64("attack", 0, "attack time in ms (1-1000)")
		release  = flag.Float64("release", 0, "release time in ms (1-1000)")
		outGain  = flag.Float64("output-gain", 0, "output gain in dB (-32-32)")
		block    = flag.Int("block", core.DefaultStreamConfig().BlockSize, "frames per processing call")
		logLevel = flag.String("log-level", "warning", "log level (debug, info, warning, error)")
	)
	flag.StringVar(&in, "in", "", "WAV file to read")
	flag.StringVar(&out, "out", "", "WAV file to write")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: expand [flags] -in input.wav -out output.wav\n\n")
		fmt.Fprintf(os.Stderr, "Applies a downward expander or gate to a PCM WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  expand -in voice.wav -out voice-exp.wav\n")
		fmt.Fprintf(os.Stderr, "  expand -preset gate -threshold -45 -in voice.wav -out voice-gated.wav\n")
	}
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	logrus.SetLevel(level)

	if in == "" || out == "" {
		flag.Usage()
		os.Exit(2)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	s, err := resolveSettings(*preset, tuning{
		detector:   *detector,
		ratio:      *ratio,
		threshold:  *thresh,
		attack:     *attack,
		release:    *release,
		outputGain: *outGain,
	}, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	opts.in, opts.out, opts.block, opts.settings = in, out, *block, s

	sum, err := run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d frames, %d channels at %d Hz, %s preset, deepest gain %.1f dB\n\n",
		out, sum.frames, sum.channels, sum.sampleRate, s.Preset, sum.minGainDB)
	if err := printLevels(os.Stdout, sum); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

// tuning holds the raw parameter flag values.
type tuning struct {
	detector   string
	ratio      float64
	threshold  float64
	attack     float64
	release    float64
	outputGain float64
}

// resolveSettings starts from the named preset's defaults and applies the
// tuning fields whose flag names are in set.
func resolveSettings(preset string, t tuning, set map[string]bool) (dynamics.Settings, error) {
	p, err := dynamics.ParsePreset(preset)
	if err != nil {
		return dynamics.Settings{}, err
	}

	s := dynamics.DefaultSettings(p)
	if set["detector"] {
		if s.Detector, err = dynamics.ParseDetectorMode(t.detector); err != nil {
			return dynamics.Settings{}, err
		}
	}

	overrides := []struct {
		name  string
		value float64
		dst   *float64
	}{
		{"ratio", t.ratio, &s.Ratio},
		{"threshold", t.threshold, &s.ThresholdDB},
		{"attack", t.attack, &s.AttackMs},
		{"release", t.release, &s.ReleaseMs},
		{"output-gain", t.outputGain, &s.OutputGainDB},
	}
	for _, o := range overrides {
		if set[o.name] {
			*o.dst = o.value
		}
	}

	return s, nil
}

func run(opts options) (summary, error) {
	var s summary

	if opts.block <= 0 {
		return s, fmt.Errorf("block size must be positive: %d", opts.block)
	}

	in, err := os.Open(opts.in)
	if err != nil {
		return s, err
	}
	defer in.Close()

	buf, err := wavio.Read(in)
	if err != nil {
		return s, err
	}

	s.channels = buf.Format.NumChannels
	s.sampleRate = buf.Format.SampleRate
	s.frames = len(buf.Data) / max(s.channels, 1)

	host := core.ApplyStreamOptions(
		core.WithSampleRate(float64(s.sampleRate)),
		core.WithChannels(s.channels),
		core.WithBlockSize(opts.block),
	)
	if host.SampleRate() != float64(s.sampleRate) || host.Channels() != s.channels {
		return s, fmt.Errorf("unusable stream: %d Hz, %d channels", s.sampleRate, s.channels)
	}

	exp, err := dynamics.New(host, opts.settings, dynamics.WithReserveFrames(host.BlockSize))
	if err != nil {
		return s, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "expand.run",
		"frames":   s.frames,
		"channels": s.channels,
		"rate":     s.sampleRate,
		"preset":   opts.settings.Preset.String(),
		"detector": opts.settings.Detector.String(),
	}).Info("Processing file")

	s.input, s.output = meter.New(s.channels), meter.New(s.channels)
	minGain := 1.0
	var planar [][]float64
	for off := 0; off < s.frames; off += host.BlockSize {
		n := min(host.BlockSize, s.frames-off)
		planar = wavio.Deinterleave(buf, off, n, planar)
		s.input.Update(planar, n)
		if err := exp.Process(planar, n); err != nil {
			return s, err
		}
		s.output.Update(planar, n)
		for _, g := range exp.GainCurve() {
			minGain = min(minGain, g)
		}
		wavio.Interleave(planar, off, n, buf)
	}
	s.minGainDB = core.LinearToDB(minGain)

	out, err := os.Create(opts.out)
	if err != nil {
		return s, err
	}
	defer out.Close()

	if err := wavio.Write(out, buf); err != nil {
		return s, err
	}

	return s, out.Close()
}

func printLevels(w io.Writer, s summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Channel\tIn Peak [dB]\tIn RMS [dB]\tOut Peak [dB]\tOut RMS [dB]\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tw, "-------\t------------\t-----------\t-------------\t------------\n"); err != nil {
		return err
	}

	row := func(label string, in, out meter.Levels) error {
		_, err := fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n", label, in.Peak_dB, in.RMS_dB, out.Peak_dB, out.RMS_dB)
		return err
	}
	for c := range s.channels {
		if err := row(fmt.Sprint(c), s.input.Channel(c), s.output.Channel(c)); err != nil {
			return err
		}
	}
	if err := row("all", s.input.Total(), s.output.Total()); err != nil {
		return err
	}

	return tw.Flush()
}
