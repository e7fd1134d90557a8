package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to execute cobra commands in tests. Flags are reset first
// because the command tree is shared between tests.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	resetFlags(root)
	viper.Reset()
	config.Set(nil)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func tempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func TestConfigInit(t *testing.T) {
	home := tempHome(t)
	configPath := filepath.Join(home, ".config", "nativewindow", "nativewindow.toml")

	t.Run("creates config file when it doesn't exist", func(t *testing.T) {
		out, err := executeCommand(rootCmd, "config", "init", "--defaults")
		require.NoError(t, err)
		assert.Contains(t, out, configPath)
		assert.FileExists(t, configPath)
	})

	t.Run("doesn't overwrite existing config without force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configPath, []byte("[window]\ntitle = \"kept\"\n"), 0600))
		_, err := executeCommand(rootCmd, "config", "init", "--defaults")
		require.NoError(t, err)

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "kept")
	})

	t.Run("overwrites with force flag", func(t *testing.T) {
		require.NoError(t, os.WriteFile(configPath, []byte("[window]\ntitle = \"old\"\n"), 0600))
		_, err := executeCommand(rootCmd, "config", "init", "--defaults", "--force", "--backend", "sim")
		require.NoError(t, err)

		content, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(content), "sim")
	})
}

func TestConfigShow(t *testing.T) {
	tempHome(t)

	out, err := executeCommand(rootCmd, "--backend", "sim", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend")
	assert.Contains(t, out, "sim")
	assert.Contains(t, out, "800x600")

	out, err = executeCommand(rootCmd, "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "nativewindow.toml"), out)
}

func TestConfigValidation(t *testing.T) {
	t.Run("validates TOML syntax", func(t *testing.T) {
		home := tempHome(t)
		configDir := filepath.Join(home, ".config", "nativewindow")
		require.NoError(t, os.MkdirAll(configDir, 0750))
		require.NoError(t, os.WriteFile(filepath.Join(configDir, "nativewindow.toml"), []byte("[window\nwidth = 1\n"), 0600))

		_, err := executeCommand(rootCmd, "config", "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing")
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		tempHome(t)
		_, err := executeCommand(rootCmd, "--backend", "metal", "config", "show")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid library.backend")
	})
}

func TestMonitors(t *testing.T) {
	tempHome(t)

	t.Run("json", func(t *testing.T) {
		out, err := executeCommand(rootCmd, "--backend", "sim", "monitors", "--json")
		require.NoError(t, err)

		var info DisplayInfo
		require.NoError(t, json.Unmarshal([]byte(out), &info))
		require.Len(t, info.Monitors, 1)
		assert.Equal(t, "SIM-1", info.Monitors[0].Name)
		assert.Equal(t, 1920, info.Monitors[0].Width)
		assert.True(t, info.Monitors[0].Primary)
		assert.Empty(t, info.Error)
	})

	t.Run("table", func(t *testing.T) {
		out, err := executeCommand(rootCmd, "--backend", "sim", "monitors")
		require.NoError(t, err)
		assert.Contains(t, out, "SIM-1")
		assert.Contains(t, out, "1920x1080")
		assert.Contains(t, out, "60Hz")
	})
}

func TestVersion(t *testing.T) {
	tempHome(t)
	out, err := executeCommand(rootCmd, "--backend", "sim", "version", "--native")
	require.NoError(t, err)
	assert.Contains(t, out, "nativewindow "+Version)
	assert.Contains(t, out, "3.4.0 sim")
}
