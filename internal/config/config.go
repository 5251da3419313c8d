// Package config holds the typed pipeline configuration. All tuning values
// are optional pointers with documented defaults exposed through Get*
// accessors, so partial config files are safe and the zero value is usable.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognised by FromEnv. They override file
// values; the collaborator owns the environment, the core only consumes the
// resulting struct.
const (
	EnvMinSpeedKMH  = "RCI_MIN_SPEED_KMH"
	EnvFreqMinHz    = "RCI_FREQ_MIN_HZ"
	EnvFreqMaxHz    = "RCI_FREQ_MAX_HZ"
	EnvTargetRateHz = "RCI_TARGET_RATE_HZ"
)

// Config represents the roughness pipeline tuning parameters. The schema
// matches the /api/config endpoint so the same document can be used for both
// startup configuration and inspection.
type Config struct {
	// Eligibility gate: submissions slower than this are stored but not scored.
	MinSpeedKMH *float64 `json:"min_speed_kmh,omitempty" yaml:"min_speed_kmh,omitempty"`

	// Band-pass cutoffs in Hz.
	FreqMinHz *float64 `json:"freq_min_hz,omitempty" yaml:"freq_min_hz,omitempty"`
	FreqMaxHz *float64 `json:"freq_max_hz,omitempty" yaml:"freq_max_hz,omitempty"`

	// Uniform rate the burst is resampled to before filtering.
	TargetRateHz *float64 `json:"target_rate_hz,omitempty" yaml:"target_rate_hz,omitempty"`

	// Nominal capture interval assumed when a batch does not carry one.
	DefaultIntervalSec *float64 `json:"default_interval_sec,omitempty" yaml:"default_interval_sec,omitempty"`

	// Whether VDV and crest factor are computed alongside the RMS index.
	ComputeVDV *bool `json:"compute_vdv,omitempty" yaml:"compute_vdv,omitempty"`
}

// Default returns a Config with all fields nil; the Get* accessors supply
// the documented defaults.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON or YAML file, chosen by extension.
// Fields omitted from the file retain their defaults, so partial configs
// are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// FromEnv overlays recognised environment variables onto the config.
// Unparseable values are reported as errors rather than silently ignored.
func (c *Config) FromEnv() error {
	overlay := func(name string, dst **float64) error {
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, raw, err)
		}
		*dst = &v
		return nil
	}

	if err := overlay(EnvMinSpeedKMH, &c.MinSpeedKMH); err != nil {
		return err
	}
	if err := overlay(EnvFreqMinHz, &c.FreqMinHz); err != nil {
		return err
	}
	if err := overlay(EnvFreqMaxHz, &c.FreqMaxHz); err != nil {
		return err
	}
	if err := overlay(EnvTargetRateHz, &c.TargetRateHz); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks that the configuration values are consistent.
func (c *Config) Validate() error {
	if c.MinSpeedKMH != nil && *c.MinSpeedKMH < 0 {
		return fmt.Errorf("min_speed_kmh must be non-negative, got %f", *c.MinSpeedKMH)
	}
	if c.FreqMinHz != nil && *c.FreqMinHz <= 0 {
		return fmt.Errorf("freq_min_hz must be positive, got %f", *c.FreqMinHz)
	}
	if c.FreqMaxHz != nil && *c.FreqMaxHz <= 0 {
		return fmt.Errorf("freq_max_hz must be positive, got %f", *c.FreqMaxHz)
	}
	if c.FreqMinHz != nil && c.FreqMaxHz != nil && *c.FreqMinHz >= *c.FreqMaxHz {
		return fmt.Errorf("freq_min_hz (%f) must be below freq_max_hz (%f)", *c.FreqMinHz, *c.FreqMaxHz)
	}
	if c.TargetRateHz != nil && *c.TargetRateHz <= 0 {
		return fmt.Errorf("target_rate_hz must be positive, got %f", *c.TargetRateHz)
	}
	if c.DefaultIntervalSec != nil && *c.DefaultIntervalSec <= 0 {
		return fmt.Errorf("default_interval_sec must be positive, got %f", *c.DefaultIntervalSec)
	}
	return nil
}

// GetMinSpeedKMH returns the min_speed_kmh value or the default.
func (c *Config) GetMinSpeedKMH() float64 {
	if c.MinSpeedKMH == nil {
		return 7.0 // below this accelerometer noise dominates the road signal
	}
	return *c.MinSpeedKMH
}

// GetFreqMinHz returns the freq_min_hz value or the default.
func (c *Config) GetFreqMinHz() float64 {
	if c.FreqMinHz == nil {
		return 0.5
	}
	return *c.FreqMinHz
}

// GetFreqMaxHz returns the freq_max_hz value or the default.
func (c *Config) GetFreqMaxHz() float64 {
	if c.FreqMaxHz == nil {
		return 50.0
	}
	return *c.FreqMaxHz
}

// GetTargetRateHz returns the target_rate_hz value or the default.
func (c *Config) GetTargetRateHz() float64 {
	if c.TargetRateHz == nil {
		return 100.0
	}
	return *c.TargetRateHz
}

// GetDefaultIntervalSec returns the default_interval_sec value or the default.
func (c *Config) GetDefaultIntervalSec() float64 {
	if c.DefaultIntervalSec == nil {
		return 0.02 // 50 Hz nominal capture rate
	}
	return *c.DefaultIntervalSec
}

// GetComputeVDV returns the compute_vdv value or the default.
func (c *Config) GetComputeVDV() bool {
	if c.ComputeVDV == nil {
		return true
	}
	return *c.ComputeVDV
}

// Effective returns the resolved values as a plain map for the /api/config
// endpoint.
func (c *Config) Effective() map[string]interface{} {
	return map[string]interface{}{
		"min_speed_kmh":        c.GetMinSpeedKMH(),
		"freq_min_hz":          c.GetFreqMinHz(),
		"freq_max_hz":          c.GetFreqMaxHz(),
		"target_rate_hz":       c.GetTargetRateHz(),
		"default_interval_sec": c.GetDefaultIntervalSec(),
		"compute_vdv":          c.GetComputeVDV(),
	}
}
