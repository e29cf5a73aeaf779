package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reclip.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[output]
dir = "/data/clips"

[planner]
clip_length_sec = 45.0
overlap = 0.15
scene_detection = true
scene_threshold = 0.35

[dispatch]
workers = 4
retries = 2

[transform]
vertical = true
enhance = "standard"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/clips", cfg.Output.Dir)
	assert.Equal(t, 45*time.Second, cfg.ClipLength())
	assert.Equal(t, 0.15, cfg.Planner.Overlap)
	assert.True(t, cfg.Planner.SceneDetection)
	assert.Equal(t, 0.35, cfg.Planner.SceneThreshold)
	assert.Equal(t, 4, cfg.Dispatch.Workers)
	assert.Equal(t, 2, cfg.Dispatch.Retries)
	assert.True(t, cfg.Transform.Vertical)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "./clips", cfg.Output.Dir)
	assert.Equal(t, 30*time.Second, cfg.ClipLength())
	assert.Equal(t, 0.4, cfg.Planner.SceneThreshold)
	assert.Equal(t, 2*time.Second, cfg.SnapTolerance())
	assert.Equal(t, 1, cfg.Dispatch.Retries)
	assert.False(t, cfg.Cache.Disabled, "scene cache is on by default")
	assert.Equal(t, ".reclip-scenes.db", cfg.Cache.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Validate())
}

func TestLoad_CacheOptOut(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[cache]\ndisabled = true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Cache.Disabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[planner\nclip_length_sec = 30"))
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("RECLIP_TEST_DIR", "/mnt/output")
	cfg, err := Load(writeConfig(t, `
[output]
dir = "${RECLIP_TEST_DIR}/clips"

[cache]
path = "${RECLIP_TEST_UNSET}/scenes.db"
`))
	require.NoError(t, err)

	assert.Equal(t, "/mnt/output/clips", cfg.Output.Dir)
	// Unknown variables are left as written.
	assert.Equal(t, "${RECLIP_TEST_UNSET}/scenes.db", cfg.Cache.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative clip length", func(c *Config) { c.Planner.ClipLengthSec = -5 }, "planner.clip_length_sec"},
		{"overlap too high", func(c *Config) { c.Planner.Overlap = 1 }, "planner.overlap"},
		{"threshold above one", func(c *Config) { c.Planner.SceneThreshold = 1.5 }, "planner.scene_threshold"},
		{"negative tolerance", func(c *Config) { c.Planner.SnapToleranceSec = -1 }, "planner.snap_tolerance_sec"},
		{"negative workers", func(c *Config) { c.Dispatch.Workers = -2 }, "dispatch.workers"},
		{"negative retries", func(c *Config) { c.Dispatch.Retries = -1 }, "dispatch.retries"},
		{"negative speed", func(c *Config) { c.Transform.Speed = -1 }, "transform.speed"},
		{"unknown enhance", func(c *Config) { c.Transform.Enhance = "extreme" }, "transform.enhance"},
		{"unknown preset", func(c *Config) { c.Transform.Preset = "youtube_short" }, "transform.preset"},
		{"audio only with video ops", func(c *Config) {
			c.Transform.AudioOnly = true
			c.Transform.Mirror = true
		}, "transform.audio_only"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0], tt.want)
		})
	}
}

func TestValidate_SuggestsPresetName(t *testing.T) {
	cfg := Default()
	cfg.Transform.Enhance = "standrad"
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `did you mean "standard"?`)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Path: "reclip.toml", Errors: []string{"planner.overlap: bad", "log.level: bad"}}
	assert.True(t, err.HasErrors())

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "reclip.toml: validation failed:"))
	assert.Contains(t, msg, "  - planner.overlap: bad")
	assert.Contains(t, msg, "  - log.level: bad")

	assert.False(t, (&ConfigError{Path: "x"}).HasErrors())
}

func TestTransformSet_PresetLayering(t *testing.T) {
	cfg := Default()
	cfg.Transform.Preset = "vertical_tiktok"

	t.Run("preset alone", func(t *testing.T) {
		set, err := cfg.TransformSet()
		require.NoError(t, err)
		assert.True(t, set.Vertical)
		assert.False(t, set.Mirror)
		assert.Equal(t, 1.25, set.Speed)
	})

	t.Run("flags override preset", func(t *testing.T) {
		over := *cfg
		over.Transform.Mirror = true
		over.Transform.Speed = 2
		set, err := over.TransformSet()
		require.NoError(t, err)
		assert.True(t, set.Vertical, "preset value survives")
		assert.True(t, set.Mirror)
		assert.Equal(t, 2.0, set.Speed)
	})
}

func TestTransformSet_Enhance(t *testing.T) {
	cfg := Default()
	cfg.Transform.Enhance = "aggressive"

	set, err := cfg.TransformSet()
	require.NoError(t, err)
	assert.True(t, set.Enhance.Enabled())
}

func TestTransformSet_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Transform.AudioOnly = true
	cfg.Transform.Vertical = true

	_, err := cfg.TransformSet()
	assert.Error(t, err)
}
