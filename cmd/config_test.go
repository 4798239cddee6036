package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/caret/internal/config"
	"github.com/zjrosen/caret/internal/log"
)

func TestConfigSet_WritesUsedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))
	viper.SetConfigFile(path)

	out := &bytes.Buffer{}
	configSetCmd.SetOut(out)
	t.Cleanup(func() { configSetCmd.SetOut(nil) })

	require.NoError(t, configSetCmd.RunE(configSetCmd, []string{"engine.viewport_width", "100"}))
	require.Contains(t, out.String(), "engine.viewport_width = 100")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "viewport_width: 100")
}

func TestConfigPath_DefaultsWithoutConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	require.Equal(t, defaultConfigPath, configPath())
}

func TestSetup_RejectsInvalidConfig(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	cfg = config.Defaults()
	cfg.Search.IgnoreCase = "sometimes"
	_, _, err := setup()
	require.ErrorContains(t, err, "invalid configuration")
}

func TestSetup_WidthFlagOverridesConfig(t *testing.T) {
	saved := cfg
	t.Cleanup(func() {
		cfg = saved
		widthFlag = 0
	})

	t.Setenv(log.EnvDebug, "")
	cfg = config.Defaults()
	widthFlag = 42
	_, cleanup, err := setup()
	require.NoError(t, err)
	cleanup()
	require.Equal(t, 42, cfg.Engine.ViewportWidth)
}
