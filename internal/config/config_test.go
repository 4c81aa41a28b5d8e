package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		// An explicitly named missing file is an error; defaults come from
		// the no-path variant below.
		cfg, err = Load("")
	}
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Strip.NumLEDs)
	assert.Equal(t, 90, cfg.Strip.FrameRateHz)
	assert.Equal(t, "static", cfg.Strip.DefaultEffect)
	assert.Equal(t, 16, cfg.Channel.IntentCapacity)
	assert.Equal(t, "gpio_bitbang", cfg.Output.Driver)
	assert.True(t, cfg.Gamma.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
strip:
  num_leds: 144
  default_effect: aurora
timings:
  brightness_ms: 500
scenes:
  - name: night off
    cron: "30 23 * * *"
    power: false
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 144, cfg.Strip.NumLEDs)
	assert.Equal(t, "aurora", cfg.Strip.DefaultEffect)
	assert.Equal(t, int64(500), cfg.Timings.BrightnessMs)
	// Untouched sections keep their defaults.
	assert.Equal(t, int64(300), cfg.Timings.FadeOutMs)

	require.Len(t, cfg.Scenes, 1)
	assert.Equal(t, "night off", cfg.Scenes[0].Name)
	require.NotNil(t, cfg.Scenes[0].Power)
	assert.False(t, *cfg.Scenes[0].Power)
	assert.Nil(t, cfg.Scenes[0].Brightness)
}

func TestLoadProfileDefaults(t *testing.T) {
	for _, name := range []string{"minimal", "standard", "full"} {
		p, err := LoadProfile(name)
		require.NoError(t, err, name)
		require.NoError(t, ValidateProfile(p), name)
	}
}

func TestLoadProfileUnknown(t *testing.T) {
	_, err := LoadProfile("turbo")
	assert.Error(t, err)
}

func TestProfileDriverAssignments(t *testing.T) {
	minimal, err := LoadProfile("minimal")
	require.NoError(t, err)
	assert.Equal(t, DriverGPIOBitBang, minimal.Driver.Kind)
	assert.False(t, minimal.Features.CronScheduling)

	full, err := LoadProfile("full")
	require.NoError(t, err)
	assert.Equal(t, DriverSPI, full.Driver.Kind)
	assert.True(t, full.Features.ConfigHotReload)
}
