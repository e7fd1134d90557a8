package cmd

import (
	"os"
	"os/signal"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open a window and log every event",
	Long: `Open a window and log every event it receives.

Escape closes the window and F toggles maximize. With --backend sim a short
scripted session is played into the window instead of waiting for input.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWindow(cfg, "")
	if err != nil {
		return err
	}
	defer func() {
		if w.State() == glfw.Active {
			if err := w.Destroy(); err != nil {
				logger.Warn("Failed to destroy window", "error", err)
			}
		}
	}()

	log := logger.With("window", w.Handle())
	w.Keys.Press.Subscribe(func(a glfw.KeyArgs) {
		switch a.Key {
		case input.KeyEscape:
			log.Info("Escape pressed, closing")
			_ = a.Window.SetShouldClose(true)
		case input.KeyF:
			toggleMaximize(a.Window)
		}
	})
	w.Keys.Any.Subscribe(func(a glfw.KeyArgs) {
		log.Info("key", "key", a.Key, "action", a.Action, "mods", a.Mods, "scancode", a.Scancode)
	})
	w.Chars.Subscribe(func(a glfw.CharArgs) { log.Info("char", "char", string(a.Char)) })
	w.MouseButtons.Any.Subscribe(func(a glfw.MouseButtonArgs) {
		log.Info("mouse button", "button", a.Button, "action", a.Action, "mods", a.Mods)
	})
	w.CursorMoved.Subscribe(func(a glfw.CursorPosArgs) { log.Debug("cursor", "x", a.X, "y", a.Y) })
	w.MouseEnter.Subscribe(func(glfw.CursorEnterArgs) { log.Info("mouse entered") })
	w.MouseLeave.Subscribe(func(glfw.CursorEnterArgs) { log.Info("mouse left") })
	w.Scroll.Subscribe(func(a glfw.ScrollArgs) { log.Info("scroll", "dx", a.DX, "dy", a.DY) })
	w.Drop.Subscribe(func(a glfw.DropArgs) { log.Info("drop", "paths", a.Paths()) })
	w.FocusGained.Subscribe(func(glfw.FocusArgs) { log.Info("focus gained") })
	w.FocusLost.Subscribe(func(glfw.FocusArgs) { log.Info("focus lost") })
	w.Moved.Subscribe(func(a glfw.PosArgs) { log.Info("moved", "x", a.X, "y", a.Y) })
	w.Resized.Subscribe(func(a glfw.SizeArgs) { log.Info("resized", "width", a.Width, "height", a.Height) })
	w.FramebufferResized.Subscribe(func(a glfw.SizeArgs) {
		log.Debug("framebuffer resized", "width", a.Width, "height", a.Height)
	})
	w.MaximizeChanged.Subscribe(func(a glfw.MaximizeArgs) { log.Info("maximize", "maximized", a.Maximized) })
	w.IconifyChanged.Subscribe(func(a glfw.IconifyArgs) { log.Info("iconify", "iconified", a.Iconified) })
	w.Closing.Subscribe(func(glfw.ClosingArgs) { log.Info("close requested") })
	w.Closed.Subscribe(func(glfw.WindowArgs) { log.Info("window closed") })
	s.rt.Errors.Subscribe(func(a glfw.ErrorArgs) { logger.Error("GLFW error", "error", a.Err) })

	s.simulate(w)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return s.pumpUntilClosed(ctx, cfg, w)
}

func toggleMaximize(w *glfw.Window) {
	maximized, err := w.Maximized()
	if err != nil {
		logger.Warn("Failed to query maximize state", "error", err)
		return
	}
	if maximized {
		err = w.Restore()
	} else {
		err = w.Maximize()
	}
	if err != nil {
		logger.Warn("Failed to toggle maximize", "error", err)
	}
}
