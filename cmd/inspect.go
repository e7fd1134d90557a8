package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var inspectMaxEvents int

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show a live terminal view of a window's events",
	Long: `Open a window and show every event it receives in a terminal UI.

The window keeps running until it is closed or the inspector quits (q).`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectMaxEvents, "max-events", 1000, "number of events kept in the log")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWindow(cfg, cfg.Window.Title+" (inspect)")
	if err != nil {
		return err
	}

	// log lines would tear the alternate screen
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	model := ui.NewInspectorModel(inspectMaxEvents)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := program.Run()
		done <- err
		cancel()
		_ = s.rt.PostEmptyEvent()
	}()

	feed := ui.NewFeed(s.rt, w, program)
	defer feed.Stop()
	s.simulate(w)

	if err := s.pumpUntilClosed(ctx, cfg, w); err != nil {
		program.Quit()
		<-done
		return err
	}
	if w.State() == glfw.Active {
		if err := w.Destroy(); err != nil {
			logger.Warn("Failed to destroy window", "error", err)
		}
	}

	// the window is gone; keep the log on screen until the user quits
	if err := <-done; err != nil {
		return fmt.Errorf("inspector: %w", err)
	}
	return nil
}
