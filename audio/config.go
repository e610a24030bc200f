package audio

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by Config.Validate failures
var ErrInvalidConfig = errors.New("invalid audio config")

// Config controls the reset cue
type Config struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	Volume     float64 `toml:"volume" yaml:"volume"` // 0.0-1.0
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
}

// DefaultConfig returns audio disabled at half volume
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Volume:     0.5,
		SampleRate: 44100,
	}
}

// Validate checks volume range and sample rate
func (c Config) Validate() error {
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume %v outside [0, 1]", ErrInvalidConfig, c.Volume)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}
	return nil
}
