package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))
	require.Equal(t, 2*time.Second, cfg.Caret.QueryTimeout)
	require.Equal(t, 80, cfg.Engine.ViewportWidth)
	require.Equal(t, IgnoreCaseSmart, cfg.Search.IgnoreCase)
	require.True(t, cfg.Search.Wrap)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative timeout", func(c *Config) { c.Caret.QueryTimeout = -time.Second }, "query_timeout"},
		{"negative width", func(c *Config) { c.Engine.ViewportWidth = -1 }, "viewport_width"},
		{"negative ttl", func(c *Config) { c.Engine.LayoutCacheTTL = -time.Minute }, "layout_cache_ttl"},
		{"unknown ignore_case", func(c *Config) { c.Search.IgnoreCase = "sometimes" }, "ignore_case"},
		{"unknown exporter", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "jaeger"
		}, "exporter"},
		{"bad sample rate", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.SampleRate = 2
		}, "sample_rate"},
		{"disabled tracing ignores exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, ""},
		{"zero width disables wrap", func(c *Config) { c.Engine.ViewportWidth = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultConfigTemplate_ParsesToDefaults(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &raw))

	engine, ok := raw["engine"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, Defaults().Engine.ViewportWidth, engine["viewport_width"])

	search, ok := raw["search"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, IgnoreCaseSmart, search["ignore_case"])
}

func TestWriteDefaultConfig_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".caret", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestSaveSetting_UpdatesExistingKeyAndKeepsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveSetting(path, "engine.viewport_width", "40"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "viewport_width: 40")
	require.Contains(t, string(data), "# Wrap width in terminal cells")
	require.Contains(t, string(data), "ignore_case: smart")
}

func TestSaveSetting_CreatesMissingSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveSetting(path, "search.ignore_case", "never"))

	var raw map[string]map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, &raw))
	require.Equal(t, "never", raw["search"]["ignore_case"])
}

func TestSaveSetting_RejectsSectionAsValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	err := SaveSetting(path, "engine", "1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "is a section")

	err = SaveSetting(path, "engine..width", "1")
	require.Error(t, err)
}
