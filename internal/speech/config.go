package speech

import "math"

// Bounds and defaults of the numeric utterance settings
const (
	MinRate     = 0.1
	MaxRate     = 10.0
	DefaultRate = 1.0

	MinPitch     = 0.0
	MaxPitch     = 2.0
	DefaultPitch = 1.0

	MinVolume     = 0.0
	MaxVolume     = 1.0
	DefaultVolume = 1.0
)

// UtteranceConfig is what the user asks to be read and how.
// An empty Voice selects the engine default.
type UtteranceConfig struct {
	Text   string
	Voice  string
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultConfig returns a config with default rate, pitch and volume
func DefaultConfig(text string) UtteranceConfig {
	return UtteranceConfig{
		Text:   text,
		Rate:   DefaultRate,
		Pitch:  DefaultPitch,
		Volume: DefaultVolume,
	}
}

// Normalize clamps rate, pitch and volume into their bounds. NaN falls back
// to the default.
func (c UtteranceConfig) Normalize() UtteranceConfig {
	c.Rate = clamp(c.Rate, MinRate, MaxRate, DefaultRate)
	c.Pitch = clamp(c.Pitch, MinPitch, MaxPitch, DefaultPitch)
	c.Volume = clamp(c.Volume, MinVolume, MaxVolume, DefaultVolume)
	return c
}

func clamp(v, lo, hi, def float64) float64 {
	switch {
	case math.IsNaN(v):
		return def
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// Progress converts a character offset into a percentage of total,
// clamped to [0, 100].
func Progress(charIndex, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(charIndex) / float64(total) * 100
	return clamp(p, 0, 100, 0)
}
