// Package config loads and saves inkview.yml, the project configuration
// for the viewport engine and its dev tooling. The same structure carries
// JSON tags because the dev server injects it into the demo page as
// window.__INKVIEW_CONFIG__ for the WASM client to read at boot.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the canonical config file name at the project root.
const FileName = "inkview.yml"

// Config is the full inkview.yml structure.
type Config struct {
	Page        PageConfig        `yaml:"page" json:"page"`
	Constraints ConstraintsConfig `yaml:"constraints" json:"constraints"`
	Tuning      TuningConfig      `yaml:"tuning" json:"tuning"`
	Resolution  ResolutionConfig  `yaml:"resolution" json:"resolution"`
	Dev         DevConfig         `yaml:"dev" json:"-"`
}

// PageConfig is the fixed logical page geometry.
type PageConfig struct {
	Width   float64 `yaml:"width" json:"width"`
	Height  float64 `yaml:"height" json:"height"`
	Gutter  float64 `yaml:"gutter" json:"gutter"`
	Padding float64 `yaml:"padding" json:"padding"`
}

// ConstraintsConfig bounds the camera.
type ConstraintsConfig struct {
	MinScale   float64 `yaml:"minScale" json:"minScale"`
	MaxScale   float64 `yaml:"maxScale" json:"maxScale"`
	EnablePan  bool    `yaml:"enablePan" json:"enablePan"`
	EnableZoom bool    `yaml:"enableZoom" json:"enableZoom"`
}

// TuningConfig holds the empirically-chosen interaction constants. They
// ship as defaults, not invariants; `inkview tune` edits them.
type TuningConfig struct {
	DeviationEpsilon float64 `yaml:"deviationEpsilon" json:"deviationEpsilon"`
	NudgeThreshold   int     `yaml:"nudgeThreshold" json:"nudgeThreshold"`
	NudgeWindowMs    int     `yaml:"nudgeWindowMs" json:"nudgeWindowMs"`
	ScaleEpsilon     float64 `yaml:"scaleEpsilon" json:"scaleEpsilon"`
	ResizeDebounceMs int     `yaml:"resizeDebounceMs" json:"resizeDebounceMs"`
}

// ResolutionConfig is the backing-store ceiling set.
type ResolutionConfig struct {
	MaxWidth  int `yaml:"maxWidth" json:"maxWidth"`
	MaxHeight int `yaml:"maxHeight" json:"maxHeight"`
	MaxPixels int `yaml:"maxPixels" json:"maxPixels"`
}

// DevConfig configures the development server.
type DevConfig struct {
	Host string `yaml:"host" json:"-"`
	Port int    `yaml:"port" json:"-"`
}

// Default returns the shipped configuration.
func Default() *Config {
	return &Config{
		Page: PageConfig{
			Width:   1200,
			Height:  2200,
			Gutter:  0,
			Padding: 80,
		},
		Constraints: ConstraintsConfig{
			MinScale:   0.1,
			MaxScale:   8.0,
			EnablePan:  true,
			EnableZoom: true,
		},
		Tuning: TuningConfig{
			DeviationEpsilon: 0.02,
			NudgeThreshold:   3,
			NudgeWindowMs:    2000,
			ScaleEpsilon:     0.002,
			ResizeDebounceMs: 120,
		},
		Resolution: ResolutionConfig{
			MaxWidth:  16384,
			MaxHeight: 32768,
			MaxPixels: 256_000_000,
		},
		Dev: DevConfig{
			Host: "localhost",
			Port: 5173,
		},
	}
}

// Load reads inkview.yml from projectPath, filling omitted fields from
// the defaults. A missing file is not an error; the defaults are
// returned as-is.
func Load(projectPath string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(projectPath, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg.sanitized(), nil
}

// Save writes the configuration back to projectPath/inkview.yml.
func (c *Config) Save(projectPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(projectPath, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitized repairs values the engine could not work with.
func (c *Config) sanitized() *Config {
	d := Default()
	if c.Page.Width <= 0 {
		c.Page.Width = d.Page.Width
	}
	if c.Page.Height <= 0 {
		c.Page.Height = d.Page.Height
	}
	if c.Constraints.MinScale <= 0 {
		c.Constraints.MinScale = d.Constraints.MinScale
	}
	if c.Constraints.MaxScale <= 0 {
		c.Constraints.MaxScale = d.Constraints.MaxScale
	}
	if c.Constraints.MinScale > c.Constraints.MaxScale {
		c.Constraints.MinScale, c.Constraints.MaxScale = c.Constraints.MaxScale, c.Constraints.MinScale
	}
	if c.Tuning.NudgeThreshold <= 0 {
		c.Tuning.NudgeThreshold = d.Tuning.NudgeThreshold
	}
	if c.Tuning.NudgeWindowMs <= 0 {
		c.Tuning.NudgeWindowMs = d.Tuning.NudgeWindowMs
	}
	if c.Tuning.DeviationEpsilon <= 0 {
		c.Tuning.DeviationEpsilon = d.Tuning.DeviationEpsilon
	}
	if c.Tuning.ScaleEpsilon <= 0 {
		c.Tuning.ScaleEpsilon = d.Tuning.ScaleEpsilon
	}
	if c.Tuning.ResizeDebounceMs <= 0 {
		c.Tuning.ResizeDebounceMs = d.Tuning.ResizeDebounceMs
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = d.Dev.Port
	}
	if c.Dev.Host == "" {
		c.Dev.Host = d.Dev.Host
	}
	return c
}
