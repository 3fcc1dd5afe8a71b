package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	// ConsumedEnvKeys records every environment key the loader looked at.
	ConsumedEnvKeys map[string]struct{}
}

func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath:      configPath,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

// Load applies defaults, then the file (strict), then the environment, and
// validates the result.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("config: load file: %w", err)
		}
	}

	l.mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg. Unknown fields are an error.
func (l *Loader) loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnv(cfg *Config) {
	cfg.TickRate = l.envInt(envPrefix+"TICK_RATE", cfg.TickRate)
	cfg.MaxDeltaMs = l.envInt(envPrefix+"MAX_DELTA_MS", cfg.MaxDeltaMs)
	cfg.DefsPath = l.envString(envPrefix+"DEFS_PATH", cfg.DefsPath)
	cfg.ClipsPath = l.envString(envPrefix+"CLIPS_PATH", cfg.ClipsPath)
	cfg.ScenePath = l.envString(envPrefix+"SCENE_PATH", cfg.ScenePath)
	cfg.InitialPosture = l.envString(envPrefix+"INITIAL_POSTURE", cfg.InitialPosture)
	cfg.Log.Level = l.envString(envPrefix+"LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Pretty = l.envBool(envPrefix+"LOG_PRETTY", cfg.Log.Pretty)
	cfg.Metrics.Addr = l.envString(envPrefix+"METRICS_ADDR", cfg.Metrics.Addr)
	cfg.Watch = l.envBool(envPrefix+"WATCH", cfg.Watch)
	cfg.Script = l.envString(envPrefix+"SCRIPT", cfg.Script)
	cfg.Ticks = l.envInt(envPrefix+"TICKS", cfg.Ticks)
}
