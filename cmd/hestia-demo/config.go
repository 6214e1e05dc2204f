package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig drives the demo scene. All intervals are in milliseconds or
// frames so the file stays plain scalars.
type RuntimeConfig struct {
	TickRateHz    int    `yaml:"tick_rate_hz"`
	SpawnEveryMS  int    `yaml:"spawn_every_ms"`
	InitialGlyphs int    `yaml:"initial_glyphs"`
	MaxGlyphs     int    `yaml:"max_glyphs"`
	LifetimeTicks int    `yaml:"lifetime_ticks"`
	RefreshEvery  int    `yaml:"refresh_every"`
	LogLevel      string `yaml:"log_level"`
	StatsFile     string `yaml:"stats_file"`
}

func DefaultConfig() *RuntimeConfig {
	return &RuntimeConfig{
		TickRateHz:    30,
		SpawnEveryMS:  700,
		InitialGlyphs: 12,
		MaxGlyphs:     64,
		LifetimeTicks: 150,
		RefreshEvery:  30,
		LogLevel:      "info",
		StatsFile:     "hestia-demo.ini",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults run as-is.
func LoadConfig(path string) (*RuntimeConfig, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *RuntimeConfig) validate() error {
	if c.TickRateHz < 1 || c.TickRateHz > 240 {
		return fmt.Errorf("tick_rate_hz %d out of range 1..240", c.TickRateHz)
	}
	if c.SpawnEveryMS < 1 {
		return fmt.Errorf("spawn_every_ms %d must be positive", c.SpawnEveryMS)
	}
	if c.InitialGlyphs < 0 {
		return fmt.Errorf("initial_glyphs %d must not be negative", c.InitialGlyphs)
	}
	if c.MaxGlyphs < c.InitialGlyphs {
		return fmt.Errorf("max_glyphs %d below initial_glyphs %d", c.MaxGlyphs, c.InitialGlyphs)
	}
	if c.LifetimeTicks < 1 {
		return fmt.Errorf("lifetime_ticks %d must be positive", c.LifetimeTicks)
	}
	if c.RefreshEvery < 1 {
		return fmt.Errorf("refresh_every %d must be positive", c.RefreshEvery)
	}
	return nil
}
