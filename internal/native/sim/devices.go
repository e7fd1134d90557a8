package sim

import (
	"strings"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/native"
)

func (s *Sim) GetKey(h handle.Window, key int32) int32 {
	if key < int32(input.KeySpace) || key > int32(input.KeyLast) {
		if s.ready() {
			s.report(native.InvalidEnum, "Invalid key")
		}
		return native.False
	}
	w, ok := s.lookup(h)
	if !ok {
		return native.False
	}
	defer s.mu.Unlock()
	return w.keys[key]
}

// GetKeyName names printable keys only, like the native library.
func (s *Sim) GetKeyName(key, scancode int32) string {
	if !s.ready() {
		return ""
	}
	name := input.Key(key).String()
	if len(name) != 1 {
		return ""
	}
	return strings.ToLower(name)
}

func (s *Sim) GetMouseButton(h handle.Window, button int32) int32 {
	if button < 0 || button > int32(input.MouseButtonLast) {
		if s.ready() {
			s.report(native.InvalidEnum, "Invalid mouse button")
		}
		return native.False
	}
	w, ok := s.lookup(h)
	if !ok {
		return native.False
	}
	defer s.mu.Unlock()
	return w.buttons[button]
}

func (s *Sim) GetCursorPos(h handle.Window) (x, y float64) {
	w, ok := s.lookup(h)
	if !ok {
		return 0, 0
	}
	defer s.mu.Unlock()
	return w.cursorX, w.cursorY
}

// SetCursorPos warps the pointer and queues the resulting motion event.
func (s *Sim) SetCursorPos(h handle.Window, x, y float64) {
	if _, ok := s.lookup(h); !ok {
		return
	}
	s.mu.Unlock()
	s.PostCursorPos(h, x, y)
}

func validInputMode(mode int32) bool {
	return mode >= int32(input.CursorMode) && mode <= int32(input.RawMouseMotionMode)
}

func (s *Sim) GetInputMode(h handle.Window, mode int32) int32 {
	w, ok := s.lookup(h)
	if !ok {
		return 0
	}
	v := w.inputModes[mode]
	s.mu.Unlock()
	if !validInputMode(mode) {
		s.report(native.InvalidEnum, "Invalid input mode")
		return 0
	}
	return v
}

func (s *Sim) SetInputMode(h handle.Window, mode, value int32) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	valid := validInputMode(mode)
	if valid {
		w.inputModes[mode] = value
	}
	s.mu.Unlock()
	if !valid {
		s.report(native.InvalidEnum, "Invalid input mode")
	}
}

func (s *Sim) CreateStandardCursor(shape int32) handle.Cursor {
	if !s.ready() {
		return handle.NewCursor(0)
	}
	if shape < int32(input.ArrowCursor) || shape > int32(input.VResizeCursor) {
		s.report(native.InvalidEnum, "Invalid standard cursor")
		return handle.NewCursor(0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ptr := s.allocPtr()
	s.cursors[ptr] = shape
	return handle.NewCursor(ptr)
}

func (s *Sim) DestroyCursor(c handle.Cursor) {
	if !s.ready() {
		return
	}
	s.mu.Lock()
	delete(s.cursors, c.Pointer())
	for _, w := range s.windows {
		if w.cursor == c.Pointer() {
			w.cursor = 0
		}
	}
	s.mu.Unlock()
}

func (s *Sim) SetCursor(h handle.Window, c handle.Cursor) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	w.cursor = c.Pointer()
	s.mu.Unlock()
}

// CursorShape returns the shape of the cursor set on h, or 0 for the default.
func (s *Sim) CursorShape(h handle.Window) int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[h.Pointer()]
	if !ok {
		return 0
	}
	return s.cursors[w.cursor]
}

func (s *Sim) GetClipboardString(h handle.Window) string {
	if !s.ready() {
		return ""
	}
	s.mu.Lock()
	text := s.clipboard
	s.mu.Unlock()
	if text == "" {
		s.report(native.FormatUnavailable, "Failed to retrieve clipboard as string")
	}
	return text
}

func (s *Sim) SetClipboardString(h handle.Window, text string) {
	if !s.ready() {
		return
	}
	s.mu.Lock()
	s.clipboard = text
	s.mu.Unlock()
}

func (s *Sim) SetMonitorCallback(fn native.MonitorFunc) native.MonitorFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.monitorCb
	s.monitorCb = fn
	return prev
}

func (s *Sim) GetMonitors() []handle.Monitor {
	if !s.ready() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]handle.Monitor, len(s.monitors))
	for i, m := range s.monitors {
		out[i] = handle.NewMonitor(m.ptr)
	}
	return out
}

func (s *Sim) GetPrimaryMonitor() handle.Monitor {
	if !s.ready() {
		return handle.NewMonitor(0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.monitors) == 0 {
		return handle.NewMonitor(0)
	}
	return handle.NewMonitor(s.monitors[0].ptr)
}

// monitorSpec looks up m. Unknown monitors yield ok == false without an
// error, matching a monitor that disconnected before the query.
func (s *Sim) monitorSpec(m handle.Monitor) (MonitorSpec, bool) {
	if !s.ready() {
		return MonitorSpec{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mon := range s.monitors {
		if mon.ptr == m.Pointer() {
			return mon.spec, true
		}
	}
	return MonitorSpec{}, false
}

func (s *Sim) GetMonitorName(m handle.Monitor) string {
	spec, _ := s.monitorSpec(m)
	return spec.Name
}

func (s *Sim) GetMonitorPos(m handle.Monitor) (x, y int32) {
	spec, _ := s.monitorSpec(m)
	return spec.X, spec.Y
}

func (s *Sim) GetMonitorWorkarea(m handle.Monitor) native.Rect {
	spec, ok := s.monitorSpec(m)
	if !ok {
		return native.Rect{}
	}
	return native.Rect{
		X:      spec.X,
		Y:      spec.Y + spec.WorkareaInsetTop,
		Width:  spec.Mode.Width,
		Height: spec.Mode.Height - spec.WorkareaInsetTop,
	}
}

func (s *Sim) GetMonitorPhysicalSize(m handle.Monitor) (widthMM, heightMM int32) {
	spec, _ := s.monitorSpec(m)
	return spec.WidthMM, spec.HeightMM
}

func (s *Sim) GetMonitorContentScale(m handle.Monitor) (x, y float32) {
	spec, _ := s.monitorSpec(m)
	return spec.ScaleX, spec.ScaleY
}

func (s *Sim) GetVideoMode(m handle.Monitor) (native.VideoMode, bool) {
	spec, ok := s.monitorSpec(m)
	if !ok {
		return native.VideoMode{}, false
	}
	return spec.Mode, true
}

// ConnectMonitor adds a monitor now and queues the connection event.
func (s *Sim) ConnectMonitor(spec MonitorSpec) handle.Monitor {
	s.mu.Lock()
	m := &monitor{ptr: s.allocPtr(), spec: spec}
	s.monitors = append(s.monitors, m)
	s.mu.Unlock()

	h := handle.NewMonitor(m.ptr)
	s.enqueue(func() { s.monitorEvent(h, native.Connected) })
	return h
}

// DisconnectMonitor removes a monitor now and queues the disconnection event.
func (s *Sim) DisconnectMonitor(h handle.Monitor) bool {
	s.mu.Lock()
	found := false
	for i, m := range s.monitors {
		if m.ptr == h.Pointer() {
			s.monitors = append(s.monitors[:i], s.monitors[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.enqueue(func() { s.monitorEvent(h, native.Disconnected) })
	}
	return found
}

func (s *Sim) monitorEvent(h handle.Monitor, event int32) {
	s.mu.Lock()
	fn := s.monitorCb
	s.mu.Unlock()
	if fn != nil {
		fn(h, event)
	}
}
