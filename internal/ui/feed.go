package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/input"
	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Feed forwards window and runtime events to an inspector.
type Feed struct {
	out  Sender
	now  func() time.Time
	subs []event.Subscription
}

func (f *Feed) emit(category, format string, args ...any) {
	f.out.Send(EventMsg{Time: f.now(), Category: category, Detail: fmt.Sprintf(format, args...)})
}

// NewFeed subscribes to every event of w and to the runtime's error,
// monitor and joystick events.
func NewFeed(rt *glfw.Runtime, w *glfw.Window, out Sender) *Feed {
	f := &Feed{out: out, now: time.Now}

	info := func() {
		msg := WindowInfoMsg{}
		msg.Width, msg.Height, _ = w.Size()
		msg.Focused, _ = w.Focused()
		msg.Title = w.Title()
		out.Send(msg)
	}

	f.subs = append(f.subs,
		w.Moved.Subscribe(func(a glfw.PosArgs) { f.emit("pos", "%d,%d", a.X, a.Y) }),
		w.Resized.Subscribe(func(a glfw.SizeArgs) {
			f.emit("size", "%dx%d", a.Width, a.Height)
			info()
		}),
		w.FramebufferResized.Subscribe(func(a glfw.SizeArgs) { f.emit("framebuffer", "%dx%d", a.Width, a.Height) }),
		w.ContentScaleChanged.Subscribe(func(a glfw.ScaleArgs) { f.emit("scale", "%.2f x %.2f", a.X, a.Y) }),
		w.Refresh.Subscribe(func(glfw.WindowArgs) { f.emit("refresh", "") }),
		w.Closing.Subscribe(func(a glfw.ClosingArgs) { f.emit("close", "requested") }),
		w.Closed.Subscribe(func(glfw.WindowArgs) {
			f.emit("closed", "")
			out.Send(WindowClosedMsg{})
		}),
		w.FocusChanged.Subscribe(func(a glfw.FocusArgs) {
			f.emit("focus", "%t", a.Focused)
			info()
		}),
		w.IconifyChanged.Subscribe(func(a glfw.IconifyArgs) { f.emit("iconify", "%t", a.Iconified) }),
		w.MaximizeChanged.Subscribe(func(a glfw.MaximizeArgs) { f.emit("maximize", "%t", a.Maximized) }),
		w.Keys.Any.Subscribe(func(a glfw.KeyArgs) {
			f.emit("key", "%s %s%s (scancode %d)", a.Action, modPrefix(a.Mods), a.Key, a.Scancode)
		}),
		w.CharMods.Subscribe(func(a glfw.CharModsArgs) { f.emit("char", "%q %s", a.Char, modPrefix(a.Mods)) }),
		w.MouseButtons.Any.Subscribe(func(a glfw.MouseButtonArgs) {
			f.emit("mousebutton", "%s %s%s", a.Action, modPrefix(a.Mods), a.Button)
		}),
		w.CursorMoved.Subscribe(func(a glfw.CursorPosArgs) { f.emit("cursorpos", "%.1f,%.1f", a.X, a.Y) }),
		w.CursorEnter.Subscribe(func(a glfw.CursorEnterArgs) {
			if a.Entered {
				f.emit("cursorenter", "entered")
			} else {
				f.emit("cursorenter", "left")
			}
		}),
		w.Scroll.Subscribe(func(a glfw.ScrollArgs) { f.emit("scroll", "%+.1f %+.1f", a.DX, a.DY) }),
		w.Drop.Subscribe(func(a glfw.DropArgs) { f.emit("drop", "%s", strings.Join(a.Paths(), ", ")) }),

		rt.Errors.Subscribe(func(a glfw.ErrorArgs) { f.emit("error", "%v", a.Err) }),
		rt.MonitorChanged.Subscribe(func(a glfw.MonitorArgs) { f.emit("monitor", "%s %s", a.Monitor, a.State) }),
		rt.JoystickChanged.Subscribe(func(a glfw.JoystickArgs) { f.emit("joystick", "%s %s", a.Joystick, a.State) }),
	)
	info()
	return f
}

// Stop removes every subscription.
func (f *Feed) Stop() {
	for _, s := range f.subs {
		s.Unsubscribe()
	}
	f.subs = nil
}

func modPrefix(mods input.ModifierKey) string {
	if mods == 0 {
		return ""
	}
	return mods.String() + "+"
}
