package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nativewindow configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, ui.FormatKeyValue("file", config.GetConfigPath()))

		fmt.Fprintln(out, ui.HeaderStyle.Render("\n[library]"))
		fmt.Fprintln(out, ui.FormatKeyValue("backend", cfg.Library.Backend))
		path := cfg.Library.Path
		if path == "" {
			path = "(search default locations)"
		}
		fmt.Fprintln(out, ui.FormatKeyValue("path", path))

		fmt.Fprintln(out, ui.HeaderStyle.Render("\n[window]"))
		fmt.Fprintln(out, ui.FormatKeyValue("size", fmt.Sprintf("%dx%d", cfg.Window.Width, cfg.Window.Height)))
		fmt.Fprintln(out, ui.FormatKeyValue("title", cfg.Window.Title))
		fmt.Fprintln(out, ui.FormatKeyValue("resizable", cfg.Window.Resizable))
		fmt.Fprintln(out, ui.FormatKeyValue("visible", cfg.Window.Visible))

		fmt.Fprintln(out, ui.HeaderStyle.Render("\n[events]"))
		fmt.Fprintln(out, ui.FormatKeyValue("wait_timeout", cfg.Events.WaitTimeout))
		fmt.Fprintln(out, ui.FormatKeyValue("trace_path", cfg.Events.TracePath))

		level := cfg.Logging.LogLevel
		if level == "" {
			level = "(LOG_LEVEL)"
		}
		fmt.Fprintln(out, ui.HeaderStyle.Render("\n[logging]"))
		fmt.Fprintln(out, ui.FormatKeyValue("log_level", level))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.GetConfigPath())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration file",
	Long: `Create the configuration file. An interactive form asks for the main
settings unless --defaults is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.GetConfigPath()
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(configPath); err == nil && !force {
			logger.Infof("Configuration file already exists at: %s", configPath)
			logger.Info("Use --force to overwrite")
			return nil
		}

		cfg := *config.Get()
		if useDefaults, _ := cmd.Flags().GetBool("defaults"); !useDefaults {
			form, apply := configForm(&cfg)
			if err := form.Run(); err != nil {
				return fmt.Errorf("configuration cancelled: %w", err)
			}
			apply()
		}
		if err := config.Update(&cfg); err != nil {
			return err
		}
		if err := config.Save(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, "Configuration written to "+configPath))
		return nil
	},
}

// configForm edits cfg when run. apply copies the numeric fields back once
// the form completes.
func configForm(cfg *config.Config) (form *huh.Form, apply func()) {
	width := strconv.Itoa(cfg.Window.Width)
	height := strconv.Itoa(cfg.Window.Height)
	positive := func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return fmt.Errorf("enter a positive number")
		}
		return nil
	}

	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Backend").
				Description("glfw loads the shared library; sim needs no display").
				Options(
					huh.NewOption("GLFW shared library", config.BackendGLFW),
					huh.NewOption("Simulator", config.BackendSim),
				).
				Value(&cfg.Library.Backend),
			huh.NewInput().
				Title("GLFW library path").
				Description("Leave empty to search the default locations").
				Value(&cfg.Library.Path),
		),
		huh.NewGroup(
			huh.NewInput().Title("Window title").Value(&cfg.Window.Title),
			huh.NewInput().Title("Window width").Validate(positive).Value(&width),
			huh.NewInput().Title("Window height").Validate(positive).Value(&height),
			huh.NewConfirm().Title("Resizable").Value(&cfg.Window.Resizable),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("from LOG_LEVEL", ""),
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&cfg.Logging.LogLevel),
		),
	).WithAccessible(os.Getenv("ACCESSIBLE") != "")

	apply = func() {
		cfg.Window.Width, _ = strconv.Atoi(width)
		cfg.Window.Height, _ = strconv.Atoi(height)
	}
	return form, apply
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")
	configInitCmd.Flags().Bool("defaults", false, "Write the current settings without asking")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
