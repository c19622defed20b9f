package dynamics

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-capture/dsp/buffer"
	"github.com/cwbudde/algo-capture/dsp/core"
	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"
)

// defaultBufferMs sizes the envelope buffers before the first block arrives.
const defaultBufferMs = 10

// AudioOutput is the host stream an Expander runs in. It is read on every
// settings update so rate and channel changes take effect with the next
// accepted snapshot.
type AudioOutput interface {
	SampleRate() float64
	Channels() int
}

var _ AudioOutput = core.StreamConfig{}

// Option configures an Expander at construction time.
type Option func(*Expander)

// WithMaxFrames bounds the envelope buffers to n frames. Larger blocks fail
// with ErrOutOfMemory. n <= 0 means unbounded.
func WithMaxFrames(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.maxFrames = n
		}
	}
}

// WithReserveFrames pre-sizes the envelope buffers for blocks of up to n
// frames so the audio thread does not allocate in steady state.
func WithReserveFrames(n int) Option {
	return func(e *Expander) {
		if n > 0 {
			e.reserveFrames = n
		}
	}
}

// params is an immutable snapshot of everything the audio path derives from
// Settings and the host stream.
type params struct {
	settings     Settings
	sampleRate   float64
	channels     int
	slope        float64
	outputGain   float64
	attackCoeff  float64
	releaseCoeff float64
	detector     detector
}

// Expander is a multi-channel downward expander/gate driven by the loudest
// channel's envelope.
//
// Update may be called from any goroutine. AnalyzeEnvelope, ApplyGain,
// Process and Reset belong to the single audio thread.
type Expander struct {
	host          AudioOutput
	maxFrames     int
	reserveFrames int

	mu       sync.Mutex
	accepted Settings
	pending  atomic.Pointer[params]

	p              params
	envelope       float64
	runningAverage float64
	envBuf         *buffer.Buffer[float64]
	gainBuf        *buffer.Buffer[float64]
	analyzed       int
}

// New creates an Expander for host and applies settings as given, without
// preset-switch resolution.
func New(host AudioOutput, settings Settings, opts ...Option) (*Expander, error) {
	if host == nil {
		return nil, fmt.Errorf("%w: nil audio output", ErrConfiguration)
	}

	e := &Expander{
		host:    host,
		envBuf:  buffer.New[float64](0),
		gainBuf: buffer.New[float64](0),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.maxFrames > 0 && e.reserveFrames > e.maxFrames {
		return nil, fmt.Errorf("%w: reserve of %d frames exceeds limit of %d",
			ErrConfiguration, e.reserveFrames, e.maxFrames)
	}

	p, err := e.resolve(settings)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "dynamics.New",
			"preset":   settings.Preset.String(),
			"error":    err,
		}).Warn("Rejected expander settings")
		return nil, err
	}

	e.accepted = p.settings
	e.p = *p

	e.envBuf.SetLimit(e.maxFrames)
	e.gainBuf.SetLimit(e.maxFrames)

	initial := max(int(p.sampleRate*defaultBufferMs/1000), e.reserveFrames)
	if e.maxFrames > 0 {
		initial = min(initial, e.maxFrames)
	}
	if err := e.envBuf.Grow(initial); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	if err := e.gainBuf.Grow(initial); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "dynamics.New",
		"preset":      p.settings.Preset.String(),
		"detector":    p.settings.Detector.String(),
		"sample_rate": p.sampleRate,
		"channels":    p.channels,
		"frames":      initial,
	}).Debug("Created expander")

	return e, nil
}

// Update validates settings against the current host stream and publishes
// them to the audio thread. Switching Preset replaces every other field with
// that preset's defaults. On error the previous settings stay in effect.
func (e *Expander) Update(settings Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if settings.Preset != e.accepted.Preset && settings.Preset.valid() {
		logrus.WithFields(logrus.Fields{
			"function": "dynamics.Update",
			"from":     e.accepted.Preset.String(),
			"to":       settings.Preset.String(),
		}).Info("Switching expander preset")
		settings = DefaultSettings(settings.Preset)
	}

	p, err := e.resolve(settings)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "dynamics.Update",
			"preset":   settings.Preset.String(),
			"error":    err,
		}).Warn("Rejected expander settings")
		return err
	}

	e.accepted = p.settings
	e.pending.Store(p)

	return nil
}

// resolve validates settings and derives the audio-path snapshot from them
// and the host stream.
func (e *Expander) resolve(settings Settings) (*params, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	sampleRate := e.host.SampleRate()
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("%w: sample rate must be positive and finite: %f", ErrConfiguration, sampleRate)
	}

	channels := e.host.Channels()
	if channels < 1 {
		return nil, fmt.Errorf("%w: channel count must be positive: %d", ErrConfiguration, channels)
	}

	return &params{
		settings:     settings,
		sampleRate:   sampleRate,
		channels:     channels,
		slope:        1 - settings.Ratio,
		outputGain:   dbToMul(settings.OutputGainDB),
		attackCoeff:  timeCoeff(sampleRate, settings.AttackMs),
		releaseCoeff: timeCoeff(sampleRate, settings.ReleaseMs),
		detector:     newDetector(settings.Detector, sampleRate),
	}, nil
}

// drain installs the newest published snapshot, if any.
func (e *Expander) drain() {
	if p := e.pending.Swap(nil); p != nil {
		e.p = *p
	}
}

// AnalyzeEnvelope computes the shared envelope of the first n samples of
// every present channel. At most Channels() arrays are read and nil arrays are
// skipped. n == 0 is a no-op. On error the carried envelope and running
// average are left as they were and the next ApplyGain does nothing.
func (e *Expander) AnalyzeEnvelope(samples [][]float64, n int) error {
	e.drain()

	e.analyzed = 0
	if n < 0 {
		return fmt.Errorf("%w: negative sample count %d", ErrInvalidInput, n)
	}
	if n == 0 {
		return nil
	}

	channels := min(e.p.channels, len(samples))
	for c := range channels {
		if samples[c] != nil && len(samples[c]) < n {
			return fmt.Errorf("%w: channel %d has %d samples, need %d",
				ErrInvalidInput, c, len(samples[c]), n)
		}
	}

	if err := e.reserve(n); err != nil {
		return err
	}

	e.envBuf.Zero()
	env := e.envBuf.Samples()

	for c := range channels {
		if samples[c] == nil {
			continue
		}
		e.runningAverage = e.analyzeChannel(samples[c][:n], env)
	}

	e.envelope = env[n-1]
	e.analyzed = n

	return nil
}

// reserve sizes both envelope buffers to n frames.
func (e *Expander) reserve(n int) error {
	err := e.envBuf.Resize(n)
	if err == nil {
		err = e.gainBuf.Resize(n)
	}
	if err == nil {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "dynamics.AnalyzeEnvelope",
		"frames":   n,
		"limit":    e.envBuf.Limit(),
		"error":    err,
	}).Warn("Skipping block, envelope buffer growth failed")

	if errors.Is(err, buffer.ErrLimitExceeded) {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	return err
}

// analyzeChannel runs the detector and attack/release smoother over x,
// max-merging the smoothed envelope into env. It returns the channel's final
// running average.
func (e *Expander) analyzeChannel(x, env []float64) float64 {
	p := &e.p
	d := p.detector
	d.start(x[0])

	run := e.runningAverage
	envelope := smooth(e.envelope, level(run), p.attackCoeff, p.releaseCoeff)
	env[0] = core.FMax(env[0], envelope)

	for i := 1; i < len(x); i++ {
		run = d.step(run, x[i])
		envelope = smooth(envelope, level(run), p.attackCoeff, p.releaseCoeff)
		env[i] = core.FMax(env[i], envelope)
	}

	return run
}

// GainDB returns the attenuation in dB for an envelope amplitude: the
// ratio/threshold law clamped to [-60, 0].
func GainDB(envelope, thresholdDB, ratio float64) float64 {
	return gainDB(envelope, thresholdDB, 1-ratio)
}

func gainDB(envelope, thresholdDB, slope float64) float64 {
	return core.FMin(0, core.FMax(slope*(thresholdDB-mulToDB(envelope)), gainFloorDB))
}

// ApplyGain multiplies the first n samples of every present channel by the
// gain curve of the last analysed block. n is clamped to that block's length.
func (e *Expander) ApplyGain(samples [][]float64, n int) {
	n = min(n, e.analyzed)
	if n <= 0 {
		return
	}

	p := &e.p
	env := e.envBuf.Samples()[:n]
	gain := e.gainBuf.Samples()[:n]
	for i, v := range env {
		gain[i] = dbToMul(gainDB(v, p.settings.ThresholdDB, p.slope)) * p.outputGain
	}

	channels := min(p.channels, len(samples))
	for c := range channels {
		x := samples[c]
		if x == nil {
			continue
		}
		m := min(n, len(x))
		vecmath.MulBlockInPlace(x[:m], gain[:m])
	}
}

// Process analyses and applies gain to one host block in place.
func (e *Expander) Process(samples [][]float64, n int) error {
	if err := e.AnalyzeEnvelope(samples, n); err != nil {
		return err
	}

	e.ApplyGain(samples, n)

	return nil
}

// Reset clears envelope continuity so the next block starts from silence.
func (e *Expander) Reset() {
	e.envelope = 0
	e.runningAverage = 0
	e.analyzed = 0
}

// Settings returns the most recently accepted settings. They reach the audio
// path at the start of the next AnalyzeEnvelope or Process call.
func (e *Expander) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.accepted
}

// Envelope returns the envelope carried into the next block.
func (e *Expander) Envelope() float64 { return e.envelope }

// RunningAverage returns the detector state carried into the next block.
func (e *Expander) RunningAverage() float64 { return e.runningAverage }

// EnvelopeBuffer returns the shared envelope of the last analysed block.
// The slice is reused by the next call.
func (e *Expander) EnvelopeBuffer() []float64 { return e.envBuf.Samples()[:e.analyzed] }

// GainCurve returns the linear gain applied by the last ApplyGain call,
// output gain included. The slice is reused by the next call.
func (e *Expander) GainCurve() []float64 { return e.gainBuf.Samples()[:e.analyzed] }

// AttackCoeff returns the active attack coefficient.
func (e *Expander) AttackCoeff() float64 { return e.p.attackCoeff }

// ReleaseCoeff returns the active release coefficient.
func (e *Expander) ReleaseCoeff() float64 { return e.p.releaseCoeff }

// SampleRate returns the active sample rate.
func (e *Expander) SampleRate() float64 { return e.p.sampleRate }

// Channels returns the active channel count.
func (e *Expander) Channels() int { return e.p.channels }
