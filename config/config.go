package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/flocking-geese/audio"
	"github.com/lixenwraith/flocking-geese/constant"
	"github.com/lixenwraith/flocking-geese/flock"
)

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalid       = errors.New("invalid config")
)

type Config struct {
	Flock   FlockConfig   `toml:"flock" yaml:"flock"`
	Goose   flock.Params  `toml:"goose" yaml:"goose"`
	Sim     SimConfig     `toml:"sim" yaml:"sim"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Audio   audio.Config  `toml:"audio" yaml:"audio"`
	Viz     VizConfig     `toml:"viz" yaml:"viz"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

type FlockConfig struct {
	Size         int    `toml:"size" yaml:"size"`
	Policy       string `toml:"policy" yaml:"policy"`               // "live" or "snapshot"
	SpatialIndex bool   `toml:"spatial_index" yaml:"spatial_index"` // snapshot policy only
	Seed         uint64 `toml:"seed" yaml:"seed"`                   // 0 seeds from the clock
}

type SimConfig struct {
	TickInterval  time.Duration `toml:"tick_interval" yaml:"tick_interval"`
	TicksPerFrame int           `toml:"ticks_per_frame" yaml:"ticks_per_frame"`
}

type RenderConfig struct {
	CellWidth  float64 `toml:"cell_width" yaml:"cell_width"`
	CellHeight float64 `toml:"cell_height" yaml:"cell_height"`
	Status     bool    `toml:"status" yaml:"status"`
}

type VizConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	File   string `toml:"file" yaml:"file"`     // empty: stderr headless, constant.LogFile interactive

	MaxSizeMB  int `toml:"max_size_mb" yaml:"max_size_mb"` // rotate the file past this size
	MaxBackups int `toml:"max_backups" yaml:"max_backups"` // rotated files kept, 0 keeps all
}

// Load reads path over the defaults, choosing the decoder by extension
// An empty path returns the defaults
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Flock: FlockConfig{
			Size:   constant.FlockSize,
			Policy: flock.NeighborsLive.String(),
		},
		Goose: flock.DefaultParams(),
		Sim: SimConfig{
			TickInterval:  constant.TickInterval,
			TicksPerFrame: constant.TicksPerFrame,
		},
		Render: RenderConfig{
			CellWidth:  constant.CellWidth,
			CellHeight: constant.CellHeight,
			Status:     true,
		},
		Audio: audio.DefaultConfig(),
		Viz: VizConfig{
			Addr: constant.VizAddr,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  constant.LogMaxSizeMB,
			MaxBackups: constant.LogMaxBackups,
		},
	}
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	if c.Flock.Size < 0 {
		return fmt.Errorf("%w: flock.size must be non-negative, got %d", ErrInvalid, c.Flock.Size)
	}
	if _, err := flock.ParseNeighborPolicy(c.Flock.Policy); err != nil {
		return fmt.Errorf("%w: flock.policy: %v", ErrInvalid, err)
	}
	if err := c.Goose.Validate(); err != nil {
		return fmt.Errorf("%w: goose: %v", ErrInvalid, err)
	}
	if c.Sim.TickInterval <= 0 {
		return fmt.Errorf("%w: sim.tick_interval must be positive, got %s", ErrInvalid, c.Sim.TickInterval)
	}
	if c.Sim.TicksPerFrame < 1 {
		return fmt.Errorf("%w: sim.ticks_per_frame must be at least 1, got %d", ErrInvalid, c.Sim.TicksPerFrame)
	}
	if c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0 {
		return fmt.Errorf("%w: render cell size must be positive", ErrInvalid)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Viz.Enabled && c.Viz.Addr == "" {
		return fmt.Errorf("%w: viz.addr required when viz is enabled", ErrInvalid)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging.format must be json or console, got %q", ErrInvalid, c.Logging.Format)
	}
	if c.Logging.MaxSizeMB < 1 {
		return fmt.Errorf("%w: logging.max_size_mb must be at least 1, got %d", ErrInvalid, c.Logging.MaxSizeMB)
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("%w: logging.max_backups must be non-negative, got %d", ErrInvalid, c.Logging.MaxBackups)
	}
	return nil
}

// NeighborPolicy returns the parsed flock policy
func (c *Config) NeighborPolicy() flock.NeighborPolicy {
	p, _ := flock.ParseNeighborPolicy(c.Flock.Policy)
	return p
}
