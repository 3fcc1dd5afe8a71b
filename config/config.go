// Package config loads simulator settings with precedence
// ENV > YAML file > defaults.
package config

import (
	"errors"
	"fmt"

	"github.com/milk9111/motionseq/motion"
	"github.com/milk9111/motionseq/prefabs"
)

var (
	ErrInvalidTickRate = errors.New("config: tick_rate must be between 1 and 1000")
	ErrInvalidMaxDelta = errors.New("config: max_delta_ms must be between 1 and 125")
	ErrInvalidTicks    = errors.New("config: ticks must not be negative")
	ErrInvalidLogLevel = errors.New("config: unknown log level")
)

const (
	DefaultTickRate   = 30
	DefaultMaxDeltaMs = int(motion.MaxDeltaMs)
	DefaultScenePath  = "scene.yaml"
)

// Config is the simulator configuration.
type Config struct {
	TickRate       int    `yaml:"tick_rate"`
	MaxDeltaMs     int    `yaml:"max_delta_ms"`
	DefsPath       string `yaml:"defs_path"`
	ClipsPath      string `yaml:"clips_path"`
	ScenePath      string `yaml:"scene_path"`
	InitialPosture string `yaml:"initial_posture"`

	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Watch reloads definitions when data files change.
	Watch bool `yaml:"watch"`
	// Script is a tengo script driving requests each tick.
	Script string `yaml:"script"`
	// Ticks stops the run after this many ticks; 0 runs until cancelled.
	Ticks int `yaml:"ticks"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type MetricsConfig struct {
	// Addr is the debug HTTP listen address; empty disables the server.
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TickRate:       DefaultTickRate,
		MaxDeltaMs:     DefaultMaxDeltaMs,
		DefsPath:       prefabs.DefaultDefsPath,
		ClipsPath:      prefabs.DefaultClipsPath,
		ScenePath:      DefaultScenePath,
		InitialPosture: "stand",
		Log:            LogConfig{Level: "info"},
	}
}

// TickDeltaMs is the simulated time per tick, capped at MaxDeltaMs.
func (c Config) TickDeltaMs() int32 {
	if c.TickRate <= 0 {
		return int32(c.MaxDeltaMs)
	}
	delta := 1000 / c.TickRate
	if delta < 1 {
		delta = 1
	}
	if c.MaxDeltaMs > 0 && delta > c.MaxDeltaMs {
		delta = c.MaxDeltaMs
	}
	return int32(delta)
}

// Posture returns the parsed initial posture.
func (c Config) Posture() (motion.Posture, error) {
	return motion.ParsePosture(c.InitialPosture)
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("%w: %d", ErrInvalidTickRate, c.TickRate)
	}
	if c.MaxDeltaMs < 1 || c.MaxDeltaMs > DefaultMaxDeltaMs {
		return fmt.Errorf("%w: %d", ErrInvalidMaxDelta, c.MaxDeltaMs)
	}
	if c.Ticks < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTicks, c.Ticks)
	}
	if _, err := c.Posture(); err != nil {
		return fmt.Errorf("config: initial_posture: %w", err)
	}
	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	if c.DefsPath == "" || c.ClipsPath == "" {
		return errors.New("config: defs_path and clips_path are required")
	}
	return nil
}
