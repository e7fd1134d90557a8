package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/display"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/native"
	"github.com/bnema/nativewindow/internal/native/sim"
)

// session is an initialized runtime plus, for the sim backend, the
// simulator behind it.
type session struct {
	rt  *glfw.Runtime
	sim *sim.Sim
}

func openSession(cfg *config.Config) (*session, error) {
	var (
		lib native.Library
		s   *sim.Sim
	)
	switch cfg.Library.Backend {
	case config.BackendSim:
		s = sim.New()
		lib = s
	default:
		g, err := native.Load(cfg.Library.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load GLFW (try --backend sim): %w", err)
		}
		logger.Debug("Loaded GLFW", "path", g.Path())
		lib = g
	}

	rt := glfw.New(lib)
	if err := rt.Init(); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return &session{rt: rt, sim: s}, nil
}

func (s *session) Close() error {
	return s.rt.Close()
}

// openWindow creates a window from the configured defaults, centered on the
// primary monitor when one is known.
func (s *session) openWindow(cfg *config.Config, title string) (*glfw.Window, error) {
	opts := glfw.DefaultWindowOptions()
	opts.Width = cfg.Window.Width
	opts.Height = cfg.Window.Height
	opts.Title = cfg.Window.Title
	if title != "" {
		opts.Title = title
	}
	opts.Resizable = cfg.Window.Resizable
	opts.Visible = cfg.Window.Visible

	w, err := s.rt.CreateWindow(opts)
	if err != nil {
		return nil, err
	}

	if layout, err := display.NewLayout(s.rt); err != nil {
		logger.Warn("Could not read monitor layout", "error", err)
	} else if x, y, ok := layout.Center(opts.Width, opts.Height); ok {
		if err := w.SetPos(x, y); err != nil {
			logger.Warn("Could not position window", "error", err)
		}
	}
	return w, nil
}

// pumpUntilClosed processes events until the window asks to close, is
// destroyed by a listener, or ctx is done. A positive wait blocks between
// events; zero polls.
func (s *session) pumpUntilClosed(ctx context.Context, cfg *config.Config, w *glfw.Window) error {
	wait := cfg.Events.WaitTimeout
	for ctx.Err() == nil {
		closing, err := w.ShouldClose()
		if errors.Is(err, glfw.ErrWindowDestroyed) {
			return nil
		}
		if err != nil {
			return err
		}
		if closing {
			return nil
		}

		if wait > 0 {
			err = s.rt.WaitEventsTimeout(wait)
		} else {
			err = s.rt.PollEvents()
		}
		if err != nil {
			logger.Warn("Event pump reported errors", "error", err)
		}
	}
	return nil
}

// simulate queues a short scripted session on a simulated window: focus,
// pointer motion, a click, a scroll, typing "hi", F to toggle maximize, a
// file drop and finally Escape. It does nothing on a real backend.
func (s *session) simulate(w *glfw.Window) {
	if s.sim == nil {
		return
	}
	h := w.Handle()
	tap := func(k input.Key, text rune) {
		s.sim.PostKey(h, int32(k), 0, int32(input.Press), 0)
		if text != 0 {
			s.sim.PostChar(h, uint32(text), 0)
		}
		s.sim.PostKey(h, int32(k), 0, int32(input.Release), 0)
	}

	s.sim.PostFocus(h, true)
	s.sim.PostCursorEnter(h, true)
	s.sim.PostCursorPos(h, 120, 80)
	s.sim.PostMouseButton(h, int32(input.MouseButtonLeft), int32(input.Press), 0)
	s.sim.PostMouseButton(h, int32(input.MouseButtonLeft), int32(input.Release), 0)
	s.sim.PostScroll(h, 0, -1)
	tap(input.KeyH, 'h')
	tap(input.KeyI, 'i')
	tap(input.KeyF, 0)
	s.sim.PostDrop(h, "/tmp/example.txt")
	s.sim.PostCursorEnter(h, false)
	tap(input.KeyEscape, 0)
}
