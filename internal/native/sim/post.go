package sim

import (
	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/native"
)

// deliver queues fn to run against the live window h on the next pump.
// Events for windows destroyed in the meantime are dropped.
func (s *Sim) deliver(h handle.Window, fn func(w *window) func()) {
	s.enqueue(func() {
		s.mu.Lock()
		w, ok := s.windows[h.Pointer()]
		if !ok {
			s.mu.Unlock()
			return
		}
		call := fn(w)
		s.mu.Unlock()
		if call != nil {
			call()
		}
	})
}

func boolAttrib(b bool) int32 {
	if b {
		return native.True
	}
	return native.False
}

// PostPos queues a window move.
func (s *Sim) PostPos(h handle.Window, x, y int32) {
	s.deliver(h, func(w *window) func() {
		w.x, w.y = x, y
		if cb := w.cb.pos; cb != nil {
			return func() { cb(h, x, y) }
		}
		return nil
	})
}

// PostSize queues a resize, followed by the matching framebuffer resize.
func (s *Sim) PostSize(h handle.Window, width, height int32) {
	s.deliver(h, func(w *window) func() {
		w.width, w.height = width, height
		if cb := w.cb.size; cb != nil {
			return func() { cb(h, width, height) }
		}
		return nil
	})
	s.deliver(h, func(w *window) func() {
		fw, fh := int32(float32(width)*w.scaleX), int32(float32(height)*w.scaleY)
		if cb := w.cb.framebuffer; cb != nil {
			return func() { cb(h, fw, fh) }
		}
		return nil
	})
}

// PostContentScale queues a content scale change.
func (s *Sim) PostContentScale(h handle.Window, x, y float32) {
	s.deliver(h, func(w *window) func() {
		w.scaleX, w.scaleY = x, y
		if cb := w.cb.scale; cb != nil {
			return func() { cb(h, x, y) }
		}
		return nil
	})
}

// PostClose queues a close request. The should-close flag is set before
// the callback runs, so the callback may clear it again.
func (s *Sim) PostClose(h handle.Window) {
	s.deliver(h, func(w *window) func() {
		w.shouldClose = true
		if cb := w.cb.close; cb != nil {
			return func() { cb(h) }
		}
		return nil
	})
}

// PostRefresh queues a damage notification.
func (s *Sim) PostRefresh(h handle.Window) {
	s.deliver(h, func(w *window) func() {
		if cb := w.cb.refresh; cb != nil {
			return func() { cb(h) }
		}
		return nil
	})
}

// PostFocus queues a focus change. Losing focus releases held keys and
// buttons first, as GLFW does.
func (s *Sim) PostFocus(h handle.Window, focused bool) {
	s.deliver(h, func(w *window) func() {
		w.attribs[native.Focused] = boolAttrib(focused)
		cb := w.cb.focus
		var releases []func()
		if !focused {
			releases = w.releaseAll(h)
		}
		if cb == nil && len(releases) == 0 {
			return nil
		}
		return func() {
			for _, r := range releases {
				r()
			}
			if cb != nil {
				cb(h, focused)
			}
		}
	})
}

// releaseAll clears pressed keys and buttons and returns the release
// callbacks to run. Caller holds mu.
func (w *window) releaseAll(h handle.Window) []func() {
	var out []func()
	for key, state := range w.keys {
		if state == native.False {
			continue
		}
		w.keys[key] = native.False
		if cb := w.cb.key; cb != nil {
			k := key
			out = append(out, func() { cb(h, k, 0, 0, 0) })
		}
	}
	for button, state := range w.buttons {
		if state == native.False {
			continue
		}
		w.buttons[button] = native.False
		if cb := w.cb.mouseButton; cb != nil {
			b := button
			out = append(out, func() { cb(h, b, 0, 0) })
		}
	}
	return out
}

// PostIconify queues an iconify or restore.
func (s *Sim) PostIconify(h handle.Window, iconified bool) {
	s.deliver(h, func(w *window) func() {
		w.attribs[native.Iconified] = boolAttrib(iconified)
		if cb := w.cb.iconify; cb != nil {
			return func() { cb(h, iconified) }
		}
		return nil
	})
}

// PostMaximize queues a maximize or restore.
func (s *Sim) PostMaximize(h handle.Window, maximized bool) {
	s.deliver(h, func(w *window) func() {
		w.attribs[native.Maximized] = boolAttrib(maximized)
		if cb := w.cb.maximize; cb != nil {
			return func() { cb(h, maximized) }
		}
		return nil
	})
}

// PostKey queues a key event. The key state seen through GetKey is updated
// before the callback runs.
func (s *Sim) PostKey(h handle.Window, key, scancode, action, mods int32) {
	s.deliver(h, func(w *window) func() {
		if action == 0 {
			w.keys[key] = native.False
		} else {
			w.keys[key] = native.True
		}
		if cb := w.cb.key; cb != nil {
			return func() { cb(h, key, scancode, action, mods) }
		}
		return nil
	})
}

// PostChar queues text input. Both the char and char-mods callbacks fire.
func (s *Sim) PostChar(h handle.Window, codepoint uint32, mods int32) {
	s.deliver(h, func(w *window) func() {
		char, charMods := w.cb.char, w.cb.charMods
		if char == nil && charMods == nil {
			return nil
		}
		return func() {
			if charMods != nil {
				charMods(h, codepoint, mods)
			}
			if char != nil {
				char(h, codepoint)
			}
		}
	})
}

// PostMouseButton queues a button event.
func (s *Sim) PostMouseButton(h handle.Window, button, action, mods int32) {
	s.deliver(h, func(w *window) func() {
		w.buttons[button] = boolAttrib(action != 0)
		if cb := w.cb.mouseButton; cb != nil {
			return func() { cb(h, button, action, mods) }
		}
		return nil
	})
}

// PostCursorPos queues pointer motion.
func (s *Sim) PostCursorPos(h handle.Window, x, y float64) {
	s.deliver(h, func(w *window) func() {
		w.cursorX, w.cursorY = x, y
		if cb := w.cb.cursorPos; cb != nil {
			return func() { cb(h, x, y) }
		}
		return nil
	})
}

// PostCursorEnter queues the pointer entering or leaving the content area.
func (s *Sim) PostCursorEnter(h handle.Window, entered bool) {
	s.deliver(h, func(w *window) func() {
		w.attribs[native.Hovered] = boolAttrib(entered)
		if cb := w.cb.cursorEnter; cb != nil {
			return func() { cb(h, entered) }
		}
		return nil
	})
}

// PostScroll queues a scroll offset.
func (s *Sim) PostScroll(h handle.Window, dx, dy float64) {
	s.deliver(h, func(w *window) func() {
		if cb := w.cb.scroll; cb != nil {
			return func() { cb(h, dx, dy) }
		}
		return nil
	})
}

// PostDrop queues a file drop. The path slice handed to the callback is
// wiped once the callback returns, like the native buffer it stands for.
func (s *Sim) PostDrop(h handle.Window, paths ...string) {
	s.deliver(h, func(w *window) func() {
		cb := w.cb.drop
		if cb == nil {
			return nil
		}
		return func() {
			buf := make([]string, len(paths))
			copy(buf, paths)
			cb(h, buf)
			for i := range buf {
				buf[i] = ""
			}
		}
	})
}
