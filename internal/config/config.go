// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kmcq/reclip/internal/clip"
	"github.com/kmcq/reclip/internal/preset"
)

// Config is the root configuration structure.
type Config struct {
	Output    OutputConfig    `toml:"output"`
	Planner   PlannerConfig   `toml:"planner"`
	Dispatch  DispatchConfig  `toml:"dispatch"`
	Transform TransformConfig `toml:"transform"`
	Cache     CacheConfig     `toml:"cache"`
	Log       LogConfig       `toml:"log"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

type PlannerConfig struct {
	ClipLengthSec    float64 `toml:"clip_length_sec"`
	Overlap          float64 `toml:"overlap"`
	SceneDetection   bool    `toml:"scene_detection"`
	SceneThreshold   float64 `toml:"scene_threshold"`
	SnapToleranceSec float64 `toml:"snap_tolerance_sec"`
}

type DispatchConfig struct {
	Workers int `toml:"workers"`
	Retries int `toml:"retries"`
}

type TransformConfig struct {
	Vertical  bool    `toml:"vertical"`
	Mirror    bool    `toml:"mirror"`
	Speed     float64 `toml:"speed"`
	AudioOnly bool    `toml:"audio_only"`
	Enhance   string  `toml:"enhance"`
	Preset    string  `toml:"preset"`
}

// CacheConfig controls the scene detection cache. The cache is on by
// default; Disabled keeps the zero value meaningful in TOML.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.Dir == "" {
		c.Output.Dir = "./clips"
	}
	if c.Planner.ClipLengthSec == 0 {
		c.Planner.ClipLengthSec = 30
	}
	if c.Planner.SceneThreshold == 0 {
		c.Planner.SceneThreshold = 0.4
	}
	if c.Planner.SnapToleranceSec == 0 {
		c.Planner.SnapToleranceSec = 2
	}
	if c.Dispatch.Retries == 0 {
		c.Dispatch.Retries = 1
	}
	if c.Cache.Path == "" {
		c.Cache.Path = ".reclip-scenes.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ClipLength returns the planner clip length as a duration.
func (c *Config) ClipLength() time.Duration {
	return time.Duration(c.Planner.ClipLengthSec * float64(time.Second))
}

// SnapTolerance returns the scene snap tolerance as a duration.
func (c *Config) SnapTolerance() time.Duration {
	return time.Duration(c.Planner.SnapToleranceSec * float64(time.Second))
}

// TransformSet resolves the configured transforms, applying the
// formatting preset first and explicit flags on top.
func (c *Config) TransformSet() (clip.TransformSet, error) {
	var t clip.TransformSet

	if c.Transform.Preset != "" {
		f, err := preset.LookupFormat(c.Transform.Preset)
		if err != nil {
			return t, err
		}
		t.Vertical = f.Vertical
		t.Mirror = f.Mirror
		t.Speed = f.Speed
	}

	if c.Transform.Vertical {
		t.Vertical = true
	}
	if c.Transform.Mirror {
		t.Mirror = true
	}
	if c.Transform.Speed > 0 {
		t.Speed = c.Transform.Speed
	}
	t.AudioOnly = c.Transform.AudioOnly

	if c.Transform.Enhance != "" {
		e, err := preset.LookupEnhancement(c.Transform.Enhance)
		if err != nil {
			return t, err
		}
		t.Enhance = e
	}

	if err := t.Validate(); err != nil {
		return clip.TransformSet{}, err
	}
	return t, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
