package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/trace"
	"github.com/spf13/cobra"
)

var (
	traceOutput string
	replaySpeed float64
	replayQuiet bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a window's events to a trace file",
	Long: `Open a window and write every input event it receives to a trace file
until the window is closed. Escape closes the window.`,
	RunE: runRecord,
}

var replayCmd = &cobra.Command{
	Use:   "replay [trace]",
	Short: "Replay a trace file into a simulated window",
	Long: `Feed a recorded trace into a window on the simulator backend and print
each event as the window's listeners receive it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	recordCmd.Flags().StringVarP(&traceOutput, "output", "o", "", "trace file (default events.trace_path)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 0, "playback speed relative to the recording; 0 replays without delays")
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "only print the summary")
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
}

func tracePath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if traceOutput != "" {
		return traceOutput
	}
	return cfg.Events.TracePath
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	path := tracePath(cfg, nil)

	f, err := os.Create(path) //nolint:gosec // user-chosen output path
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	defer f.Close()

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWindow(cfg, cfg.Window.Title+" (recording)")
	if err != nil {
		return err
	}

	rec := trace.NewRecorder(w, trace.NewWriter(f))
	w.Keys.Press.Subscribe(func(a glfw.KeyArgs) {
		if a.Key == input.KeyEscape {
			_ = a.Window.SetShouldClose(true)
		}
	})
	s.simulate(w)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	pumpErr := s.pumpUntilClosed(ctx, cfg, w)

	if err := rec.Stop(); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	if err := w.Destroy(); err != nil {
		logger.Warn("Failed to destroy window", "error", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %d events to %s\n", rec.Count(), path)
	return pumpErr
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg := *config.Get()
	path := tracePath(&cfg, args)

	f, err := os.Open(path) //nolint:gosec // user-chosen input path
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	if cfg.Library.Backend != config.BackendSim {
		logger.Debug("Replay always runs on the simulator", "configured", cfg.Library.Backend)
	}
	cfg.Library.Backend = config.BackendSim
	s, err := openSession(&cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWindow(&cfg, cfg.Window.Title+" (replay)")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !replayQuiet {
		printTo := func(kind trace.Kind, format string, a ...any) {
			fmt.Fprintf(out, "%-12s %s\n", kind, fmt.Sprintf(format, a...))
		}
		w.Keys.Any.Subscribe(func(a glfw.KeyArgs) { printTo(trace.KindKey, "%s %s mods=%s", a.Action, a.Key, a.Mods) })
		w.CharMods.Subscribe(func(a glfw.CharModsArgs) { printTo(trace.KindChar, "%q", a.Char) })
		w.MouseButtons.Any.Subscribe(func(a glfw.MouseButtonArgs) { printTo(trace.KindMouseButton, "%s %s", a.Action, a.Button) })
		w.CursorMoved.Subscribe(func(a glfw.CursorPosArgs) { printTo(trace.KindCursorPos, "%.1f,%.1f", a.X, a.Y) })
		w.CursorEnter.Subscribe(func(a glfw.CursorEnterArgs) { printTo(trace.KindCursorEnter, "%t", a.Entered) })
		w.Scroll.Subscribe(func(a glfw.ScrollArgs) { printTo(trace.KindScroll, "%+.1f %+.1f", a.DX, a.DY) })
		w.Drop.Subscribe(func(a glfw.DropArgs) { printTo(trace.KindDrop, "%v", a.Paths()) })
		w.FocusChanged.Subscribe(func(a glfw.FocusArgs) { printTo(trace.KindFocus, "%t", a.Focused) })
		w.Moved.Subscribe(func(a glfw.PosArgs) { printTo(trace.KindPos, "%d,%d", a.X, a.Y) })
		w.Resized.Subscribe(func(a glfw.SizeArgs) { printTo(trace.KindSize, "%dx%d", a.Width, a.Height) })
		w.MaximizeChanged.Subscribe(func(a glfw.MaximizeArgs) { printTo(trace.KindMaximize, "%t", a.Maximized) })
		w.IconifyChanged.Subscribe(func(a glfw.IconifyArgs) { printTo(trace.KindIconify, "%t", a.Iconified) })
		w.Closing.Subscribe(func(glfw.ClosingArgs) { printTo(trace.KindClose, "requested") })
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	rp := &trace.Replayer{Sim: s.sim, Runtime: s.rt, Window: w, Speed: replaySpeed}
	n, err := rp.Run(ctx, trace.NewReader(f))
	if err != nil {
		if ctx.Err() == nil {
			return fmt.Errorf("replay %s: %w", path, err)
		}
		logger.Info("Replay interrupted", "replayed", n)
	}
	fmt.Fprintf(out, "replayed %d records from %s\n", n, path)
	return nil
}
