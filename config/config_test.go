package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/flocking-geese/flock"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 50, cfg.Flock.Size)
	assert.Equal(t, flock.NeighborsLive, cfg.NeighborPolicy())
	assert.Equal(t, flock.DefaultParams(), cfg.Goose)
	assert.Equal(t, 10*time.Millisecond, cfg.Sim.TickInterval)
	assert.False(t, cfg.Audio.Enabled)
	assert.False(t, cfg.Viz.Enabled)
	assert.Empty(t, cfg.Logging.File, "log destination follows the run mode")
	assert.Equal(t, 10, cfg.Logging.MaxSizeMB)
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "geese.toml", `
[flock]
size = 120
policy = "snapshot"
spatial_index = true
seed = 7

[goose]
max_speed = 4.5

[sim]
tick_interval = "20ms"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Flock.Size)
	assert.Equal(t, flock.NeighborsSnapshot, cfg.NeighborPolicy())
	assert.True(t, cfg.Flock.SpatialIndex)
	assert.Equal(t, uint64(7), cfg.Flock.Seed)
	assert.Equal(t, 4.5, cfg.Goose.MaxSpeed)
	assert.Equal(t, flock.DefaultParams().PersonalSpace, cfg.Goose.PersonalSpace, "unset keys keep defaults")
	assert.Equal(t, 20*time.Millisecond, cfg.Sim.TickInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "geese.yml", `
flock:
  size: 30
sim:
  tick_interval: 5ms
  ticks_per_frame: 3
viz:
  enabled: true
  addr: ":9000"
logging:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Flock.Size)
	assert.Equal(t, 5*time.Millisecond, cfg.Sim.TickInterval)
	assert.Equal(t, 3, cfg.Sim.TicksPerFrame)
	assert.True(t, cfg.Viz.Enabled)
	assert.Equal(t, ":9000", cfg.Viz.Addr)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadShippedConfigs(t *testing.T) {
	for _, name := range []string{"flocking-geese.toml", "flocking-geese.yaml"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(filepath.Join("..", "configs", name))
			require.NoError(t, err)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "geese.json", `{}`))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load(writeConfig(t, "bad.toml", `[flock`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "neg.toml", "[flock]\nsize = -1\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative size", func(c *Config) { c.Flock.Size = -5 }},
		{"unknown policy", func(c *Config) { c.Flock.Policy = "psychic" }},
		{"zero speed", func(c *Config) { c.Goose.MaxSpeed = 0 }},
		{"zero interval", func(c *Config) { c.Sim.TickInterval = 0 }},
		{"zero ticks per frame", func(c *Config) { c.Sim.TicksPerFrame = 0 }},
		{"zero cell", func(c *Config) { c.Render.CellHeight = 0 }},
		{"loud audio", func(c *Config) { c.Audio.Volume = 3 }},
		{"viz without addr", func(c *Config) { c.Viz.Enabled = true; c.Viz.Addr = "" }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }},
		{"negative log backups", func(c *Config) { c.Logging.MaxBackups = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}
