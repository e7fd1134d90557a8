// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend names accepted by library.backend
const (
	BackendGLFW = "glfw"
	BackendSim  = "sim"
)

// Config represents the application configuration
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Window  WindowConfig  `mapstructure:"window"`
	Events  EventsConfig  `mapstructure:"events"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// LibraryConfig selects and locates the native windowing library
type LibraryConfig struct {
	Backend string `mapstructure:"backend"` // "glfw" or "sim"
	Path    string `mapstructure:"path"`    // Empty means search the default locations
}

// WindowConfig holds defaults for windows opened by the example commands
type WindowConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	Title     string `mapstructure:"title"`
	Resizable bool   `mapstructure:"resizable"`
	Visible   bool   `mapstructure:"visible"`
}

// EventsConfig controls the event pump and trace output
type EventsConfig struct {
	WaitTimeout time.Duration `mapstructure:"wait_timeout"` // Zero means poll without blocking
	TracePath   string        `mapstructure:"trace_path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Library: LibraryConfig{
			Backend: BackendGLFW,
			Path:    "",
		},
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Title:     "nativewindow",
			Resizable: true,
			Visible:   true,
		},
		Events: EventsConfig{
			WaitTimeout: 50 * time.Millisecond,
			TracePath:   "events.nwtrace",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("nativewindow")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		// Add config paths in order of precedence
		if home := os.Getenv("HOME"); home != "" {
			viper.AddConfigPath(filepath.Join(home, ".config", "nativewindow"))
		}
		viper.AddConfigPath("/etc/nativewindow")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("NATIVEWINDOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c
	return nil
}

func setDefaults() {
	viper.SetDefault("library.backend", DefaultConfig.Library.Backend)
	viper.SetDefault("library.path", DefaultConfig.Library.Path)

	viper.SetDefault("window.width", DefaultConfig.Window.Width)
	viper.SetDefault("window.height", DefaultConfig.Window.Height)
	viper.SetDefault("window.title", DefaultConfig.Window.Title)
	viper.SetDefault("window.resizable", DefaultConfig.Window.Resizable)
	viper.SetDefault("window.visible", DefaultConfig.Window.Visible)

	viper.SetDefault("events.wait_timeout", DefaultConfig.Events.WaitTimeout)
	viper.SetDefault("events.trace_path", DefaultConfig.Events.TracePath)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)
}

// Validate checks values that the native library would otherwise reject
func (c *Config) Validate() error {
	switch c.Library.Backend {
	case BackendGLFW, BackendSim:
	default:
		return fmt.Errorf("invalid library.backend %q (must be %s or %s)", c.Library.Backend, BackendGLFW, BackendSim)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Events.WaitTimeout < 0 {
		return fmt.Errorf("events.wait_timeout must not be negative")
	}
	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		d := DefaultConfig
		return &d
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Update replaces the current configuration and pushes every field into viper
// so a following Save writes it out
func Update(c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	viper.Set("library.backend", c.Library.Backend)
	viper.Set("library.path", c.Library.Path)
	viper.Set("window.width", c.Window.Width)
	viper.Set("window.height", c.Window.Height)
	viper.Set("window.title", c.Window.Title)
	viper.Set("window.resizable", c.Window.Resizable)
	viper.Set("window.visible", c.Window.Visible)
	viper.Set("events.wait_timeout", c.Events.WaitTimeout.String())
	viper.Set("events.trace_path", c.Events.TracePath)
	viper.Set("logging.log_level", c.Logging.LogLevel)

	cfg = c
	return nil
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		if os.IsPermission(err) && strings.Contains(configPath, "/etc/") {
			return fmt.Errorf("failed to create config directory %s: permission denied. Try running with sudo", dir)
		}
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/nativewindow/nativewindow.toml"
	}

	return filepath.Join(home, ".config", "nativewindow", "nativewindow.toml")
}
