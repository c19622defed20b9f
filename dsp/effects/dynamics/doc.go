// Package dynamics provides the envelope-driven downward expander and noise
// gate used on capture sources.
//
// One Expander instance follows the loudest of its channels: every present
// channel feeds a detector (RMS, RMS Stillwell, peak or none), the detector
// output is smoothed with attack/release one-pole coefficients, and the
// per-sample maximum across channels becomes a shared envelope. The envelope
// drives a ratio/threshold gain law that only ever attenuates, floored at
// -60 dB, and the resulting gain curve multiplies every channel.
//
// Settings arrive through Update, which may run on any goroutine. The audio
// thread picks up the newest accepted snapshot at the start of the next
// AnalyzeEnvelope or Process call and never blocks on the configuration side.
package dynamics
