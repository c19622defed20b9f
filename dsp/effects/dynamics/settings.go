package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-capture/dsp/core"
)

// Preset selects a named parameter set.
type Preset int

const (
	// PresetExpander is a gentle 2:1 downward expander.
	PresetExpander Preset = iota
	// PresetGate is a 10:1 expander with a slower release, acting as a gate.
	PresetGate
)

// String returns the preset name used in persisted settings.
func (p Preset) String() string {
	switch p {
	case PresetExpander:
		return "expander"
	case PresetGate:
		return "gate"
	default:
		return fmt.Sprintf("Preset(%d)", int(p))
	}
}

func (p Preset) valid() bool {
	return p == PresetExpander || p == PresetGate
}

// ParsePreset maps a persisted preset name to a Preset.
func ParsePreset(name string) (Preset, error) {
	switch name {
	case "expander":
		return PresetExpander, nil
	case "gate":
		return PresetGate, nil
	default:
		return 0, fmt.Errorf("%w: unknown preset %q", ErrConfiguration, name)
	}
}

// DetectorMode controls how each channel's level is measured.
type DetectorMode int

const (
	// DetectorModeRMS is a one-pole running mean of x².
	DetectorModeRMS DetectorMode = iota
	// DetectorModeRMSStillwell weights the running mean's feedback term by
	// stillwellWeight.
	DetectorModeRMSStillwell
	// DetectorModePeak smooths a squared running maximum of |x|.
	DetectorModePeak
	// DetectorModeNone uses the instantaneous x².
	DetectorModeNone
)

// String returns the detector name used in persisted settings.
func (m DetectorMode) String() string {
	switch m {
	case DetectorModeRMS:
		return "RMS"
	case DetectorModeRMSStillwell:
		return "RMS Stillwell"
	case DetectorModePeak:
		return "peak"
	case DetectorModeNone:
		return "none"
	default:
		return fmt.Sprintf("DetectorMode(%d)", int(m))
	}
}

func (m DetectorMode) valid() bool {
	return m >= DetectorModeRMS && m <= DetectorModeNone
}

// ParseDetectorMode maps a persisted detector name to a DetectorMode.
func ParseDetectorMode(name string) (DetectorMode, error) {
	switch name {
	case "RMS":
		return DetectorModeRMS, nil
	case "RMS Stillwell":
		return DetectorModeRMSStillwell, nil
	case "peak":
		return DetectorModePeak, nil
	case "none":
		return DetectorModeNone, nil
	default:
		return 0, fmt.Errorf("%w: unknown detector %q", ErrConfiguration, name)
	}
}

const (
	minRatio        = 1.0
	maxRatio        = 20.0
	minThresholdDB  = -60.0
	maxThresholdDB  = 0.0
	minAttackMs     = 1.0
	maxAttackMs     = 1000.0
	minReleaseMs    = 1.0
	maxReleaseMs    = 1000.0
	minOutputGainDB = -32.0
	maxOutputGainDB = 32.0

	// gainFloorDB bounds attenuation regardless of ratio and envelope.
	gainFloorDB = -60.0
)

// Settings is the user-facing parameter set of an Expander.
type Settings struct {
	Preset       Preset
	Ratio        float64
	ThresholdDB  float64
	AttackMs     float64
	ReleaseMs    float64
	OutputGainDB float64
	Detector     DetectorMode
}

var presetDefaults = [...]Settings{
	PresetExpander: {
		Preset:      PresetExpander,
		Ratio:       2,
		ThresholdDB: -40,
		AttackMs:    10,
		ReleaseMs:   50,
		Detector:    DetectorModeRMS,
	},
	PresetGate: {
		Preset:      PresetGate,
		Ratio:       10,
		ThresholdDB: -40,
		AttackMs:    10,
		ReleaseMs:   125,
		Detector:    DetectorModeRMS,
	},
}

// DefaultSettings returns the parameter set of preset. Unknown presets fall
// back to the expander defaults.
func DefaultSettings(preset Preset) Settings {
	if !preset.valid() {
		return presetDefaults[PresetExpander]
	}

	return presetDefaults[preset]
}

// Validate checks the enums and every numeric range. Unknown enums wrap
// ErrConfiguration, out-of-range values wrap ErrValidation.
func (s Settings) Validate() error {
	if !s.Preset.valid() {
		return fmt.Errorf("%w: unknown preset %d", ErrConfiguration, int(s.Preset))
	}

	if !s.Detector.valid() {
		return fmt.Errorf("%w: unknown detector %d", ErrConfiguration, int(s.Detector))
	}

	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"ratio", s.Ratio, minRatio, maxRatio},
		{"threshold", s.ThresholdDB, minThresholdDB, maxThresholdDB},
		{"attack", s.AttackMs, minAttackMs, maxAttackMs},
		{"release", s.ReleaseMs, minReleaseMs, maxReleaseMs},
		{"output gain", s.OutputGainDB, minOutputGainDB, maxOutputGainDB},
	}
	for _, c := range checks {
		if !core.IsFinite(c.value) || c.value < c.min || c.value > c.max {
			return fmt.Errorf("%w: %s must be in [%g, %g]: %g", ErrValidation, c.name, c.min, c.max, c.value)
		}
	}

	return nil
}
