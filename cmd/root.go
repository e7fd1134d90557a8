package cmd

import (
	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath  string
	backendFlag string
	libraryFlag string

	rootCmd = &cobra.Command{
		Use:   "nativewindow",
		Short: "nativewindow - GLFW windows with Go event dispatch",
		Long: `nativewindow loads the GLFW shared library at runtime, opens native windows
and turns the library's single-slot callbacks into Go events with any number
of subscribers. The commands below exercise the bindings: open a demo window,
inspect its events live, list monitors, and record or replay event traces.

Use --backend sim to run every command against the built-in simulator, which
needs no display server.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
	}
)

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $HOME/.config/nativewindow/nativewindow.toml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "windowing backend: glfw or sim (overrides library.backend)")
	rootCmd.PersistentFlags().StringVar(&libraryFlag, "library", "", "path to the GLFW shared library (overrides library.path)")
}

// loadConfig reads the config file, then applies command-line overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	config.SetConfigPath(configPath)
	if err := config.Init(); err != nil {
		return err
	}

	cfg := *config.Get()
	if backendFlag != "" {
		cfg.Library.Backend = backendFlag
	}
	if libraryFlag != "" {
		cfg.Library.Path = libraryFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	config.Set(&cfg)

	logger.SetLevel(cfg.Logging.LogLevel)
	logger.Debug("Configuration loaded", "path", config.GetConfigPath(), "backend", cfg.Library.Backend)
	return nil
}
