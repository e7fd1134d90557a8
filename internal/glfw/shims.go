package glfw

import (
	"errors"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/native"
)

// shims are the functions registered with the native library for one
// window. They live as long as the Window so the native side never calls a
// function that has been collected.
type shims struct {
	pos         native.WindowPosFunc
	size        native.WindowSizeFunc
	close       native.WindowCloseFunc
	refresh     native.WindowRefreshFunc
	focus       native.WindowFocusFunc
	iconify     native.WindowIconifyFunc
	maximize    native.WindowMaximizeFunc
	framebuffer native.FramebufferSizeFunc
	scale       native.ContentScaleFunc
	key         native.KeyFunc
	char        native.CharFunc
	charMods    native.CharModsFunc
	mouseButton native.MouseButtonFunc
	cursorPos   native.CursorPosFunc
	cursorEnter native.CursorEnterFunc
	scroll      native.ScrollFunc
	drop        native.DropFunc
}

func newShims(w *Window) shims {
	return shims{
		pos: func(_ handle.Window, x, y int32) {
			raise(w, w.Moved, PosArgs{Window: w, X: int(x), Y: int(y)})
		},
		size: func(_ handle.Window, width, height int32) {
			raise(w, w.Resized, SizeArgs{Window: w, Width: int(width), Height: int(height)})
		},
		close:   func(handle.Window) { w.onClose() },
		refresh: func(handle.Window) { raise(w, w.Refresh, WindowArgs{Window: w}) },
		focus: func(_ handle.Window, focused bool) {
			args := FocusArgs{Window: w, Focused: focused}
			raise(w, w.FocusChanged, args)
			if focused {
				raise(w, w.FocusGained, args)
			} else {
				raise(w, w.FocusLost, args)
			}
		},
		iconify: func(_ handle.Window, iconified bool) {
			raise(w, w.IconifyChanged, IconifyArgs{Window: w, Iconified: iconified})
		},
		maximize: func(_ handle.Window, maximized bool) {
			raise(w, w.MaximizeChanged, MaximizeArgs{Window: w, Maximized: maximized})
		},
		framebuffer: func(_ handle.Window, width, height int32) {
			raise(w, w.FramebufferResized, SizeArgs{Window: w, Width: int(width), Height: int(height)})
		},
		scale: func(_ handle.Window, x, y float32) {
			raise(w, w.ContentScaleChanged, ScaleArgs{Window: w, X: x, Y: y})
		},
		key: func(_ handle.Window, key, scancode, action, mods int32) {
			if w.state != Active {
				return
			}
			w.report(w.Keys.Fire(KeyArgs{
				Window:   w,
				Key:      input.Key(key),
				Scancode: int(scancode),
				Action:   input.Action(action),
				Mods:     input.ModifierKey(mods),
			}))
		},
		char: func(_ handle.Window, codepoint uint32) {
			raise(w, w.Chars, CharArgs{Window: w, Char: rune(codepoint)})
		},
		charMods: func(_ handle.Window, codepoint uint32, mods int32) {
			raise(w, w.CharMods, CharModsArgs{Window: w, Char: rune(codepoint), Mods: input.ModifierKey(mods)})
		},
		mouseButton: func(_ handle.Window, button, action, mods int32) {
			if w.state != Active {
				return
			}
			w.report(w.MouseButtons.Fire(MouseButtonArgs{
				Window: w,
				Button: input.MouseButton(button),
				Action: input.Action(action),
				Mods:   input.ModifierKey(mods),
			}))
		},
		cursorPos: func(_ handle.Window, x, y float64) {
			raise(w, w.CursorMoved, CursorPosArgs{Window: w, X: x, Y: y})
		},
		cursorEnter: func(_ handle.Window, entered bool) {
			args := CursorEnterArgs{Window: w, Entered: entered}
			raise(w, w.CursorEnter, args)
			if entered {
				raise(w, w.MouseEnter, args)
			} else {
				raise(w, w.MouseLeave, args)
			}
		},
		scroll: func(_ handle.Window, dx, dy float64) {
			raise(w, w.Scroll, ScrollArgs{Window: w, DX: dx, DY: dy})
		},
		drop: func(_ handle.Window, paths []string) {
			// paths point into native memory; newDropArgs copies them
			raise(w, w.Drop, newDropArgs(w, paths))
		},
	}
}

// raise dispatches args unless the window is gone. A shim still held by
// the native side after Destroy is therefore a no-op.
func raise[T any](w *Window, e *event.Event[T], args T) {
	if w.state != Active {
		return
	}
	_, err := e.Dispatch(args)
	w.report(err)
}

// report hands listener failures to the runtime. A listener that destroys
// its own window closes the events still pending in the same callback;
// those ErrClosed results are expected and dropped.
func (w *Window) report(err error) {
	if err == nil {
		return
	}
	if w.state == Destroyed && errors.Is(err, event.ErrClosed) {
		return
	}
	w.rt.collect(err)
}

// onClose raises Closing. The native library has already set the
// should-close flag; a cancelling listener clears it.
func (w *Window) onClose() {
	if w.state != Active {
		return
	}
	cancelled := false
	raise(w, w.Closing, ClosingArgs{Window: w, cancelled: &cancelled})
	if cancelled && w.state == Active {
		w.rt.lib.SetWindowShouldClose(w.h, false)
	}
}

// bind registers every shim. A previous function in any slot belonged to
// some other binding; it is replaced and logged.
func (w *Window) bind() error {
	lib, h, s := w.rt.lib, w.h, &w.shims
	var stale []string
	track := func(name string, hadPrevious bool) {
		if hadPrevious {
			stale = append(stale, name)
		}
	}
	track("pos", lib.SetWindowPosCallback(h, s.pos) != nil)
	track("size", lib.SetWindowSizeCallback(h, s.size) != nil)
	track("close", lib.SetWindowCloseCallback(h, s.close) != nil)
	track("refresh", lib.SetWindowRefreshCallback(h, s.refresh) != nil)
	track("focus", lib.SetWindowFocusCallback(h, s.focus) != nil)
	track("iconify", lib.SetWindowIconifyCallback(h, s.iconify) != nil)
	track("maximize", lib.SetWindowMaximizeCallback(h, s.maximize) != nil)
	track("framebuffer", lib.SetFramebufferSizeCallback(h, s.framebuffer) != nil)
	track("scale", lib.SetWindowContentScaleCallback(h, s.scale) != nil)
	track("key", lib.SetKeyCallback(h, s.key) != nil)
	track("char", lib.SetCharCallback(h, s.char) != nil)
	track("charmods", lib.SetCharModsCallback(h, s.charMods) != nil)
	track("mousebutton", lib.SetMouseButtonCallback(h, s.mouseButton) != nil)
	track("cursorpos", lib.SetCursorPosCallback(h, s.cursorPos) != nil)
	track("cursorenter", lib.SetCursorEnterCallback(h, s.cursorEnter) != nil)
	track("scroll", lib.SetScrollCallback(h, s.scroll) != nil)
	track("drop", lib.SetDropCallback(h, s.drop) != nil)

	if err := w.rt.check("bind callbacks"); err != nil {
		return err
	}
	if len(stale) > 0 {
		logger.Warn("Replaced callbacks registered outside this runtime", "window", h, "categories", stale)
	}
	return nil
}

// unbind clears every native slot for the window.
func (w *Window) unbind() {
	lib, h := w.rt.lib, w.h
	lib.SetWindowPosCallback(h, nil)
	lib.SetWindowSizeCallback(h, nil)
	lib.SetWindowCloseCallback(h, nil)
	lib.SetWindowRefreshCallback(h, nil)
	lib.SetWindowFocusCallback(h, nil)
	lib.SetWindowIconifyCallback(h, nil)
	lib.SetWindowMaximizeCallback(h, nil)
	lib.SetFramebufferSizeCallback(h, nil)
	lib.SetWindowContentScaleCallback(h, nil)
	lib.SetKeyCallback(h, nil)
	lib.SetCharCallback(h, nil)
	lib.SetCharModsCallback(h, nil)
	lib.SetMouseButtonCallback(h, nil)
	lib.SetCursorPosCallback(h, nil)
	lib.SetCursorEnterCallback(h, nil)
	lib.SetScrollCallback(h, nil)
	lib.SetDropCallback(h, nil)
}
