package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/caret/internal/config"
	"github.com/zjrosen/caret/internal/log"
	"github.com/zjrosen/caret/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race with the input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

// defaultConfigPath is where a missing config is created on first run.
const defaultConfigPath = ".caret/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	widthFlag int
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "caret",
	Short: "Keyboard caret browsing over text, Markdown and HTML documents",
	Long: `Caret moves a keyboard cursor through a document by character, word,
line, block and document boundaries, toggles a selection anchored at the
cursor, and finds text. Use "caret view" to browse interactively or
"caret run" to drive the same commands from a script.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .caret/config.yaml or ~/.config/caret/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also enabled by "+log.EnvDebug+")")
	rootCmd.PersistentFlags().IntVarP(&widthFlag, "width", "w", 0,
		"viewport width in cells, overriding engine.viewport_width")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("caret.query_timeout", defaults.Caret.QueryTimeout)
	viper.SetDefault("engine.viewport_width", defaults.Engine.ViewportWidth)
	viper.SetDefault("engine.layout_cache_ttl", defaults.Engine.LayoutCacheTTL)
	viper.SetDefault("search.ignore_case", defaults.Search.IgnoreCase)
	viper.SetDefault("search.wrap", defaults.Search.Wrap)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .caret/config.yaml (current directory)
		// 2. ~/.config/caret/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "caret"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// configPath is the file settings are written to.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return defaultConfigPath
}

// setup validates the config, applies global flags and starts logging and
// tracing. The returned func releases both.
func setup() (*tracing.Provider, func(), error) {
	if widthFlag > 0 {
		cfg.Engine.ViewportWidth = widthFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	closeLog := func() {}
	if debugFlag || log.EnabledFromEnv() {
		var err error
		closeLog, err = log.Init("debug.log")
		if err != nil {
			return nil, nil, err
		}
		log.Info(log.CatConfig, "caret starting", "version", version, "config", viper.ConfigFileUsed())
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("starting tracing: %w", err)
	}

	cleanup := func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatConfig, "tracing shutdown failed", err)
		}
		closeLog()
	}
	return provider, cleanup, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
