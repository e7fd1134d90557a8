package glfw

import (
	"errors"
	"fmt"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/native"
)

// ClientAPI selects the rendering API a window's context is created for.
type ClientAPI int32

const (
	NoAPI       ClientAPI = ClientAPI(native.NoAPI)
	OpenGLAPI   ClientAPI = ClientAPI(native.OpenGLAPI)
	OpenGLESAPI ClientAPI = ClientAPI(native.OpenGLESAPI)
)

// ContextAPI selects how the context is created.
type ContextAPI int32

const (
	NativeContextAPI ContextAPI = ContextAPI(native.NativeContextAPI)
	EGLContextAPI    ContextAPI = ContextAPI(native.EGLContextAPI)
	OSMesaContextAPI ContextAPI = ContextAPI(native.OSMesaContextAPI)
)

// WindowOptions are the creation parameters of a window.
type WindowOptions struct {
	Width, Height int
	Title         string
	Resizable     bool
	Visible       bool
	Decorated     bool
	Focused       bool
	Floating      bool
	Maximized     bool
	ClientAPI     ClientAPI
	ContextAPI    ContextAPI
	// Monitor makes the window full screen on that monitor
	Monitor *Monitor
	// Share is a window whose context objects are shared
	Share *Window
}

// DefaultWindowOptions matches the native library's default hints.
func DefaultWindowOptions() WindowOptions {
	return WindowOptions{
		Width:      800,
		Height:     600,
		Resizable:  true,
		Visible:    true,
		Decorated:  true,
		Focused:    true,
		ClientAPI:  OpenGLAPI,
		ContextAPI: NativeContextAPI,
	}
}

func (o WindowOptions) hints() [][2]int32 {
	b := func(v bool) int32 {
		if v {
			return native.True
		}
		return native.False
	}
	return [][2]int32{
		{native.Resizable, b(o.Resizable)},
		{native.Visible, b(o.Visible)},
		{native.Decorated, b(o.Decorated)},
		{native.Focused, b(o.Focused)},
		{native.Floating, b(o.Floating)},
		{native.Maximized, b(o.Maximized)},
		{native.ClientAPI, int32(o.ClientAPI)},
		{native.ContextAPI, int32(o.ContextAPI)},
	}
}

// WindowState is the lifecycle state of a Window wrapper.
type WindowState int

const (
	Active WindowState = iota
	Destroyed
)

func (s WindowState) String() string {
	if s == Destroyed {
		return "destroyed"
	}
	return "active"
}

// Window wraps one native window. Its events are raised by callbacks the
// wrapper registers at creation and removes in Destroy.
type Window struct {
	rt    *Runtime
	h     handle.Window
	state WindowState
	shims shims
	title string
	// destroying is set while Destroy runs, so a Closed listener cannot
	// destroy the window a second time
	destroying bool

	Moved               *event.Event[PosArgs]
	Resized             *event.Event[SizeArgs]
	FramebufferResized  *event.Event[SizeArgs]
	ContentScaleChanged *event.Event[ScaleArgs]
	Refresh             *event.Event[WindowArgs]

	// Closing is raised on a close request; Closed once during Destroy
	Closing *event.Event[ClosingArgs]
	Closed  *event.Event[WindowArgs]

	// FocusChanged is raised on every change, then FocusGained or FocusLost
	FocusChanged *event.Event[FocusArgs]
	FocusGained  *event.Event[FocusArgs]
	FocusLost    *event.Event[FocusArgs]

	IconifyChanged  *event.Event[IconifyArgs]
	MaximizeChanged *event.Event[MaximizeArgs]

	Keys     *event.ActionEvents[KeyArgs]
	Chars    *event.Event[CharArgs]
	CharMods *event.Event[CharModsArgs]

	MouseButtons *event.ActionEvents[MouseButtonArgs]
	CursorMoved  *event.Event[CursorPosArgs]
	// CursorEnter is raised on every change, then MouseEnter or MouseLeave
	CursorEnter *event.Event[CursorEnterArgs]
	MouseEnter  *event.Event[CursorEnterArgs]
	MouseLeave  *event.Event[CursorEnterArgs]
	Scroll      *event.Event[ScrollArgs]
	Drop        *event.Event[DropArgs]
}

// CreateWindow creates a native window and binds its callbacks.
func (r *Runtime) CreateWindow(opts WindowOptions) (*Window, error) {
	if err := r.ready(); err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	var monitor handle.Monitor
	if opts.Monitor != nil {
		monitor = opts.Monitor.h
	}
	var share handle.Window
	if opts.Share != nil {
		share = opts.Share.h
	}

	var h handle.Window
	err := r.call("create window", func() {
		r.lib.DefaultWindowHints()
		for _, hint := range opts.hints() {
			r.lib.WindowHint(hint[0], hint[1])
		}
		h = r.lib.CreateWindow(int32(opts.Width), int32(opts.Height), opts.Title, monitor, share)
	})
	if err != nil {
		return nil, err
	}
	if h.IsNone() {
		return nil, fmt.Errorf("create window: %w", ErrNoneHandle)
	}

	w := newWindow(r, h)
	w.title = opts.Title
	if err := w.bind(); err != nil {
		w.unbind()
		r.lib.DestroyWindow(h)
		w.closeEvents()
		w.state = Destroyed
		return nil, err
	}

	r.mu.Lock()
	r.windows[h] = w
	r.mu.Unlock()
	logger.Debug("Window created", "window", h, "title", opts.Title, "width", opts.Width, "height", opts.Height)
	return w, nil
}

func newWindow(r *Runtime, h handle.Window) *Window {
	opts := r.eventOptions()
	name := func(n string) string { return "window " + h.String() + " " + n }
	w := &Window{
		rt:                  r,
		h:                   h,
		Moved:               event.New[PosArgs](name("moved"), opts...),
		Resized:             event.New[SizeArgs](name("resized"), opts...),
		FramebufferResized:  event.New[SizeArgs](name("framebuffer"), opts...),
		ContentScaleChanged: event.New[ScaleArgs](name("scale"), opts...),
		Refresh:             event.New[WindowArgs](name("refresh"), opts...),
		Closing:             event.New[ClosingArgs](name("closing"), opts...),
		Closed:              event.New[WindowArgs](name("closed"), opts...),
		FocusChanged:        event.New[FocusArgs](name("focus"), opts...),
		FocusGained:         event.New[FocusArgs](name("focus.gained"), opts...),
		FocusLost:           event.New[FocusArgs](name("focus.lost"), opts...),
		IconifyChanged:      event.New[IconifyArgs](name("iconify"), opts...),
		MaximizeChanged:     event.New[MaximizeArgs](name("maximize"), opts...),
		Keys:                event.NewActionEvents[KeyArgs](name("key"), opts...),
		Chars:               event.New[CharArgs](name("char"), opts...),
		CharMods:            event.New[CharModsArgs](name("charmods"), opts...),
		MouseButtons:        event.NewActionEvents[MouseButtonArgs](name("mousebutton"), opts...),
		CursorMoved:         event.New[CursorPosArgs](name("cursor"), opts...),
		CursorEnter:         event.New[CursorEnterArgs](name("cursor.enter"), opts...),
		MouseEnter:          event.New[CursorEnterArgs](name("mouse.enter"), opts...),
		MouseLeave:          event.New[CursorEnterArgs](name("mouse.leave"), opts...),
		Scroll:              event.New[ScrollArgs](name("scroll"), opts...),
		Drop:                event.New[DropArgs](name("drop"), opts...),
	}
	w.shims = newShims(w)
	return w
}

func (w *Window) closeEvents() {
	w.Moved.Close()
	w.Resized.Close()
	w.FramebufferResized.Close()
	w.ContentScaleChanged.Close()
	w.Refresh.Close()
	w.Closing.Close()
	w.Closed.Close()
	w.FocusChanged.Close()
	w.FocusGained.Close()
	w.FocusLost.Close()
	w.IconifyChanged.Close()
	w.MaximizeChanged.Close()
	w.Keys.Close()
	w.Chars.Close()
	w.CharMods.Close()
	w.MouseButtons.Close()
	w.CursorMoved.Close()
	w.CursorEnter.Close()
	w.MouseEnter.Close()
	w.MouseLeave.Close()
	w.Scroll.Close()
	w.Drop.Close()
}

// Handle returns the native handle. It stays valid for comparison after
// destruction but no longer names a live window.
func (w *Window) Handle() handle.Window { return w.h }

func (w *Window) State() WindowState { return w.state }

func (w *Window) String() string { return "window " + w.h.String() }

// Destroy detaches every native callback, raises Closed, closes all events
// and releases the native window. Destroying twice, including from a Closed
// listener, returns ErrWindowDestroyed.
func (w *Window) Destroy() error {
	if w.state == Destroyed || w.destroying {
		return fmt.Errorf("destroy %s: %w", w, ErrWindowDestroyed)
	}
	if err := w.rt.ready(); err != nil {
		return fmt.Errorf("destroy %s: %w", w, err)
	}
	w.destroying = true

	w.unbind()
	unbindErr := w.rt.check("unbind callbacks")

	_, closedErr := w.Closed.Dispatch(WindowArgs{Window: w})
	w.state = Destroyed
	w.closeEvents()
	w.rt.forget(w)

	destroyErr := w.rt.call("destroy window", func() { w.rt.lib.DestroyWindow(w.h) })
	logger.Debug("Window destroyed", "window", w.h)
	return errors.Join(unbindErr, closedErr, destroyErr)
}

// alive returns an error naming op when the window cannot be used.
func (w *Window) alive(op string) error {
	if w.state == Destroyed {
		return fmt.Errorf("%s: %w", op, ErrWindowDestroyed)
	}
	return nil
}

func (w *Window) call(op string, fn func(lib native.Library, h handle.Window)) error {
	if err := w.alive(op); err != nil {
		return err
	}
	return w.rt.call(op, func() { fn(w.rt.lib, w.h) })
}

func get[T any](w *Window, op string, fn func(lib native.Library, h handle.Window) T) (T, error) {
	var v T
	err := w.call(op, func(lib native.Library, h handle.Window) { v = fn(lib, h) })
	return v, err
}

func (w *Window) ShouldClose() (bool, error) {
	return get(w, "should close", native.Library.WindowShouldClose)
}

func (w *Window) SetShouldClose(value bool) error {
	return w.call("set should close", func(lib native.Library, h handle.Window) {
		lib.SetWindowShouldClose(h, value)
	})
}

func (w *Window) SetTitle(title string) error {
	err := w.call("set title", func(lib native.Library, h handle.Window) { lib.SetWindowTitle(h, title) })
	if err == nil {
		w.title = title
	}
	return err
}

// Title returns the title last set through this wrapper.
func (w *Window) Title() string { return w.title }

func (w *Window) Pos() (x, y int, err error) {
	err = w.call("get position", func(lib native.Library, h handle.Window) {
		px, py := lib.GetWindowPos(h)
		x, y = int(px), int(py)
	})
	return x, y, err
}

func (w *Window) SetPos(x, y int) error {
	return w.call("set position", func(lib native.Library, h handle.Window) {
		lib.SetWindowPos(h, int32(x), int32(y))
	})
}

func (w *Window) Size() (width, height int, err error) {
	err = w.call("get size", func(lib native.Library, h handle.Window) {
		sw, sh := lib.GetWindowSize(h)
		width, height = int(sw), int(sh)
	})
	return width, height, err
}

func (w *Window) SetSize(width, height int) error {
	return w.call("set size", func(lib native.Library, h handle.Window) {
		lib.SetWindowSize(h, int32(width), int32(height))
	})
}

// FramebufferSize returns the size in pixels.
func (w *Window) FramebufferSize() (width, height int, err error) {
	err = w.call("get framebuffer size", func(lib native.Library, h handle.Window) {
		fw, fh := lib.GetFramebufferSize(h)
		width, height = int(fw), int(fh)
	})
	return width, height, err
}

func (w *Window) ContentScale() (x, y float32, err error) {
	err = w.call("get content scale", func(lib native.Library, h handle.Window) {
		x, y = lib.GetWindowContentScale(h)
	})
	return x, y, err
}

func (w *Window) Show() error {
	return w.call("show", native.Library.ShowWindow)
}

func (w *Window) Hide() error {
	return w.call("hide", native.Library.HideWindow)
}

func (w *Window) Focus() error {
	return w.call("focus", native.Library.FocusWindow)
}

func (w *Window) Iconify() error {
	return w.call("iconify", native.Library.IconifyWindow)
}

func (w *Window) Restore() error {
	return w.call("restore", native.Library.RestoreWindow)
}

func (w *Window) Maximize() error {
	return w.call("maximize", native.Library.MaximizeWindow)
}

func (w *Window) attrib(op string, attrib int32) (bool, error) {
	v, err := get(w, op, func(lib native.Library, h handle.Window) int32 {
		return lib.GetWindowAttrib(h, attrib)
	})
	return v == native.True, err
}

func (w *Window) Focused() (bool, error)   { return w.attrib("focused", native.Focused) }
func (w *Window) Iconified() (bool, error) { return w.attrib("iconified", native.Iconified) }
func (w *Window) Maximized() (bool, error) { return w.attrib("maximized", native.Maximized) }
func (w *Window) Visible() (bool, error)   { return w.attrib("visible", native.Visible) }
func (w *Window) Hovered() (bool, error)   { return w.attrib("hovered", native.Hovered) }

// Monitor returns the monitor of a full screen window, or nil.
func (w *Window) Monitor() (*Monitor, error) {
	m, err := get(w, "get monitor", native.Library.GetWindowMonitor)
	if err != nil || m.IsNone() {
		return nil, err
	}
	return &Monitor{rt: w.rt, h: m}, nil
}

func (w *Window) MakeContextCurrent() error {
	return w.call("make context current", native.Library.MakeContextCurrent)
}

func (w *Window) SwapBuffers() error {
	return w.call("swap buffers", native.Library.SwapBuffers)
}

// NativeContext returns the platform context handle, tagged with its
// platform.
func (w *Window) NativeContext() (handle.Context, error) {
	return get(w, "get native context", native.Library.GetNativeContext)
}

func (w *Window) Key(key input.Key) (input.Action, error) {
	v, err := get(w, "get key", func(lib native.Library, h handle.Window) int32 {
		return lib.GetKey(h, int32(key))
	})
	return input.Action(v), err
}

func (w *Window) MouseButton(button input.MouseButton) (input.Action, error) {
	v, err := get(w, "get mouse button", func(lib native.Library, h handle.Window) int32 {
		return lib.GetMouseButton(h, int32(button))
	})
	return input.Action(v), err
}

func (w *Window) CursorPos() (x, y float64, err error) {
	err = w.call("get cursor position", func(lib native.Library, h handle.Window) {
		x, y = lib.GetCursorPos(h)
	})
	return x, y, err
}

func (w *Window) SetCursorPos(x, y float64) error {
	return w.call("set cursor position", func(lib native.Library, h handle.Window) {
		lib.SetCursorPos(h, x, y)
	})
}

func (w *Window) InputMode(mode input.InputMode) (int32, error) {
	return get(w, "get input mode", func(lib native.Library, h handle.Window) int32 {
		return lib.GetInputMode(h, int32(mode))
	})
}

func (w *Window) SetInputMode(mode input.InputMode, value int32) error {
	return w.call("set input mode", func(lib native.Library, h handle.Window) {
		lib.SetInputMode(h, int32(mode), value)
	})
}

// SetCursor sets the cursor image; nil restores the default arrow.
func (w *Window) SetCursor(c *Cursor) error {
	var ch handle.Cursor
	if c != nil {
		if c.destroyed {
			return fmt.Errorf("set cursor: %w", ErrCursorDestroyed)
		}
		ch = c.h
	}
	return w.call("set cursor", func(lib native.Library, h handle.Window) { lib.SetCursor(h, ch) })
}

func (w *Window) ClipboardString() (string, error) {
	return get(w, "get clipboard", native.Library.GetClipboardString)
}

func (w *Window) SetClipboardString(s string) error {
	return w.call("set clipboard", func(lib native.Library, h handle.Window) {
		lib.SetClipboardString(h, s)
	})
}
