// Package config provides configuration types, defaults and validation for caret.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/caret/internal/log"
)

// Config holds all configuration options for caret.
type Config struct {
	Caret   CaretConfig   `mapstructure:"caret"`
	Engine  EngineConfig  `mapstructure:"engine"`
	Search  SearchConfig  `mapstructure:"search"`
	UI      UIConfig      `mapstructure:"ui"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// CaretConfig configures the caret core.
type CaretConfig struct {
	// QueryTimeout bounds each engine round-trip when the caller's context
	// carries no deadline.
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
}

// EngineConfig configures the reference rendering engine.
type EngineConfig struct {
	// ViewportWidth is the wrap width in terminal cells. 0 disables wrapping.
	ViewportWidth  int           `mapstructure:"viewport_width"`
	LayoutCacheTTL time.Duration `mapstructure:"layout_cache_ttl"`
}

// Ignore-case policies for search.
const (
	IgnoreCaseSmart  = "smart"
	IgnoreCaseAlways = "always"
	IgnoreCaseNever  = "never"
)

// SearchConfig configures find-in-page.
type SearchConfig struct {
	IgnoreCase string `mapstructure:"ignore_case"` // smart (default), always, never
	Wrap       bool   `mapstructure:"wrap"`
}

// UIConfig holds viewer options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`
}

// TracingConfig holds OpenTelemetry options.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the backend: "none", "stdout", "otlp".
	Exporter string `mapstructure:"exporter"`

	// OTLPEndpoint is the collector for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate is the fraction of traces kept, 0 < rate <= 1.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Caret: CaretConfig{
			QueryTimeout: 2 * time.Second,
		},
		Engine: EngineConfig{
			ViewportWidth:  80,
			LayoutCacheTTL: 10 * time.Minute,
		},
		Search: SearchConfig{
			IgnoreCase: IgnoreCaseSmart,
			Wrap:       true,
		},
		UI: UIConfig{
			ShowStatusBar: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks every section and returns the first problem found.
func Validate(c Config) error {
	if c.Caret.QueryTimeout < 0 {
		return fmt.Errorf("caret.query_timeout must not be negative, got %s", c.Caret.QueryTimeout)
	}
	if c.Engine.ViewportWidth < 0 {
		return fmt.Errorf("engine.viewport_width must not be negative, got %d", c.Engine.ViewportWidth)
	}
	if c.Engine.LayoutCacheTTL < 0 {
		return fmt.Errorf("engine.layout_cache_ttl must not be negative, got %s", c.Engine.LayoutCacheTTL)
	}
	if err := ValidateSearch(c.Search); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidateSearch checks the search section.
func ValidateSearch(s SearchConfig) error {
	switch s.IgnoreCase {
	case "", IgnoreCaseSmart, IgnoreCaseAlways, IgnoreCaseNever:
		return nil
	default:
		return fmt.Errorf("search.ignore_case must be one of smart, always, never; got %q", s.IgnoreCase)
	}
}

// ValidateTracing checks the tracing section. Disabled tracing is always valid.
func ValidateTracing(t TracingConfig) error {
	if !t.Enabled {
		return nil
	}
	switch t.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be one of none, stdout, otlp; got %q", t.Exporter)
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1, got %v", t.SampleRate)
	}
	return nil
}

// DefaultConfigTemplate returns the commented YAML written on first run.
func DefaultConfigTemplate() string {
	return `# caret configuration
# Lookup order: .caret/config.yaml, then ~/.config/caret/config.yaml

caret:
  # Upper bound for a single engine round-trip.
  query_timeout: 2s

engine:
  # Wrap width in terminal cells; 0 disables wrapping.
  viewport_width: 80
  layout_cache_ttl: 10m

search:
  # smart: case-insensitive unless the query contains an upper-case letter
  ignore_case: smart
  wrap: true

ui:
  show_status_bar: true

tracing:
  enabled: false
  exporter: stdout   # none, stdout, otlp
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}

// WriteDefaultConfig writes the default template to configPath, creating
// parent directories as needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
