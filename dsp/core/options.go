package core

// StreamConfig describes the host audio stream a processor runs in.
// It satisfies the AudioOutput interfaces consumed by the processors,
// which read it on every settings update.
type StreamConfig struct {
	Rate        float64
	NumChannels int
	BlockSize   int
}

// StreamOption mutates a StreamConfig.
type StreamOption func(*StreamConfig)

// DefaultStreamConfig returns the host defaults: 48 kHz stereo, 1024-frame blocks.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Rate:        48000,
		NumChannels: 2,
		BlockSize:   1024,
	}
}

// WithSampleRate sets the stream sample rate.
func WithSampleRate(sampleRate float64) StreamOption {
	return func(cfg *StreamConfig) {
		if sampleRate > 0 {
			cfg.Rate = sampleRate
		}
	}
}

// WithChannels sets the stream channel count.
func WithChannels(channels int) StreamOption {
	return func(cfg *StreamConfig) {
		if channels > 0 {
			cfg.NumChannels = channels
		}
	}
}

// WithBlockSize sets the callback block size in frames.
func WithBlockSize(blockSize int) StreamOption {
	return func(cfg *StreamConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyStreamOptions applies zero or more options to the default config.
func ApplyStreamOptions(opts ...StreamOption) StreamConfig {
	cfg := DefaultStreamConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// SampleRate returns the stream sample rate in Hz.
func (c StreamConfig) SampleRate() float64 { return c.Rate }

// Channels returns the stream channel count.
func (c StreamConfig) Channels() int { return c.NumChannels }
