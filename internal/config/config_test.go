package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("initializes with defaults when no config exists", func(t *testing.T) {
		viper.Reset()
		SetConfigPath("")
		t.Setenv("HOME", t.TempDir())
		t.Chdir(t.TempDir())

		require.NoError(t, Init())

		c := Get()
		require.NotNil(t, c)
		assert.Equal(t, BackendGLFW, c.Library.Backend)
		assert.Equal(t, 800, c.Window.Width)
		assert.Equal(t, 50*time.Millisecond, c.Events.WaitTimeout)
	})

	t.Run("reads an explicit config file", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "nativewindow.toml")
		content := `[library]
backend = "sim"

[window]
width = 320
height = 240
title = "from file"

[events]
wait_timeout = "10ms"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		SetConfigPath(path)
		defer SetConfigPath("")

		require.NoError(t, Init())

		c := Get()
		assert.Equal(t, BackendSim, c.Library.Backend)
		assert.Equal(t, 320, c.Window.Width)
		assert.Equal(t, "from file", c.Window.Title)
		assert.Equal(t, 10*time.Millisecond, c.Events.WaitTimeout)
		// untouched keys keep defaults
		assert.True(t, c.Window.Resizable)
	})

	t.Run("rejects an unknown backend", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "nativewindow.toml")
		require.NoError(t, os.WriteFile(path, []byte("[library]\nbackend = \"x11\"\n"), 0644))
		SetConfigPath(path)
		defer SetConfigPath("")

		err := Init()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "library.backend")
	})

	t.Run("handles invalid TOML", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "nativewindow.toml")
		require.NoError(t, os.WriteFile(path, []byte("[window\nwidth = 1"), 0644))
		SetConfigPath(path)
		defer SetConfigPath("")

		assert.Error(t, Init())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"sim backend", func(c *Config) { c.Library.Backend = BackendSim }, false},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, true},
		{"negative timeout", func(c *Config) { c.Events.WaitTimeout = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

func TestUpdateAndSave(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "sub", "nativewindow.toml")
	SetConfigPath(path)
	defer SetConfigPath("")

	c := DefaultConfig
	c.Library.Backend = BackendSim
	c.Window.Title = "saved"
	require.NoError(t, Update(&c))
	require.NoError(t, Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "saved")

	viper.Reset()
	require.NoError(t, Init())
	assert.Equal(t, "saved", Get().Window.Title)
	assert.Equal(t, BackendSim, Get().Library.Backend)
}

func TestGetConfigPath(t *testing.T) {
	viper.Reset()
	SetConfigPath("")
	t.Setenv("HOME", "/home/testuser")

	assert.Equal(t, "/home/testuser/.config/nativewindow/nativewindow.toml", GetConfigPath())

	SetConfigPath("/tmp/custom.toml")
	defer SetConfigPath("")
	assert.Equal(t, "/tmp/custom.toml", GetConfigPath())
}
