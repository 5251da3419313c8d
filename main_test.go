package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig()
	assert.Equal(t, 7.0, cfg.GetMinSpeedKMH())
	assert.Equal(t, 0.5, cfg.GetFreqMinHz())
	assert.Equal(t, 50.0, cfg.GetFreqMaxHz())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("min_speed_kmh: 12\nfreq_max_hz: 30\n"), 0644))

	old := *configFile
	*configFile = path
	defer func() { *configFile = old }()

	cfg := loadConfig()
	assert.Equal(t, 12.0, cfg.GetMinSpeedKMH())
	assert.Equal(t, 30.0, cfg.GetFreqMaxHz())
	assert.Equal(t, 0.5, cfg.GetFreqMinHz(), "unset fields keep defaults")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("RCI_MIN_SPEED_KMH", "15")

	cfg := loadConfig()
	assert.Equal(t, 15.0, cfg.GetMinSpeedKMH())
}
