package sim

import (
	"sort"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/native"
)

type callbacks struct {
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

// registered lists the categories with a callback set, sorted.
func (c *callbacks) registered() []string {
	var names []string
	add := func(name string, set bool) {
		if set {
			names = append(names, name)
		}
	}
	add("pos", c.pos != nil)
	add("size", c.size != nil)
	add("close", c.close != nil)
	add("refresh", c.refresh != nil)
	add("focus", c.focus != nil)
	add("iconify", c.iconify != nil)
	add("maximize", c.maximize != nil)
	add("framebuffer", c.framebuffer != nil)
	add("scale", c.scale != nil)
	add("key", c.key != nil)
	add("char", c.char != nil)
	add("charmods", c.charMods != nil)
	add("mousebutton", c.mouseButton != nil)
	add("cursorpos", c.cursorPos != nil)
	add("cursorenter", c.cursorEnter != nil)
	add("scroll", c.scroll != nil)
	add("drop", c.drop != nil)
	sort.Strings(names)
	return names
}

type window struct {
	title         string
	x, y          int32
	width, height int32
	scaleX        float32
	scaleY        float32
	monitor       uintptr
	shouldClose   bool
	attribs       map[int32]int32
	keys          map[int32]int32
	buttons       map[int32]int32
	cursorX       float64
	cursorY       float64
	inputModes    map[int32]int32
	cursor        uintptr
	cb            callbacks
}

func (s *Sim) resetHints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints = map[int32]int32{
		native.Focused:    native.True,
		native.Resizable:  native.True,
		native.Visible:    native.True,
		native.Decorated:  native.True,
		native.Floating:   native.False,
		native.Maximized:  native.False,
		native.ClientAPI:  native.OpenGLAPI,
		native.ContextAPI: native.NativeContextAPI,
	}
}

func (s *Sim) DefaultWindowHints() {
	if !s.ready() {
		return
	}
	s.resetHints()
}

func (s *Sim) WindowHint(hint, value int32) {
	if !s.ready() {
		return
	}
	s.mu.Lock()
	s.hints[hint] = value
	s.mu.Unlock()
}

func (s *Sim) CreateWindow(width, height int32, title string, monitor handle.Monitor, share handle.Window) handle.Window {
	if !s.ready() {
		return handle.NewWindow(0)
	}
	if width <= 0 || height <= 0 {
		s.report(native.InvalidValue, "Invalid window size")
		return handle.NewWindow(0)
	}

	s.mu.Lock()
	w := &window{
		title:      title,
		width:      width,
		height:     height,
		scaleX:     1,
		scaleY:     1,
		monitor:    monitor.Pointer(),
		attribs:    make(map[int32]int32, len(s.hints)),
		keys:       make(map[int32]int32),
		buttons:    make(map[int32]int32),
		inputModes: map[int32]int32{int32(input.CursorMode): input.CursorNormal},
	}
	for k, v := range s.hints {
		w.attribs[k] = v
	}
	w.attribs[native.Iconified] = native.False
	w.attribs[native.Hovered] = native.False
	if len(s.monitors) > 0 {
		w.scaleX, w.scaleY = s.monitors[0].spec.ScaleX, s.monitors[0].spec.ScaleY
	}
	ptr := s.allocPtr()
	s.windows[ptr] = w
	s.mu.Unlock()
	return handle.NewWindow(ptr)
}

// lookup returns the window for h, reporting an error for unknown handles.
// Returns with mu held on success.
func (s *Sim) lookup(h handle.Window) (*window, bool) {
	if !s.ready() {
		return nil, false
	}
	s.mu.Lock()
	w, ok := s.windows[h.Pointer()]
	if !ok {
		s.mu.Unlock()
		s.report(native.InvalidValue, "Invalid window handle "+h.String())
		return nil, false
	}
	return w, true
}

// Registered lists the callback categories set for h. A destroyed or
// unknown window has none.
func (s *Sim) Registered(h handle.Window) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[h.Pointer()]
	if !ok {
		return nil
	}
	return w.cb.registered()
}

// Alive reports whether h names a live window.
func (s *Sim) Alive(h handle.Window) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.windows[h.Pointer()]
	return ok
}

func (s *Sim) DestroyWindow(h handle.Window) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	registered := w.cb.registered()
	hook := s.DestroyHook
	s.mu.Unlock()

	if hook != nil {
		hook(h, registered)
	}

	s.mu.Lock()
	delete(s.windows, h.Pointer())
	if s.current == h.Pointer() {
		s.current = 0
	}
	s.mu.Unlock()
}

func (s *Sim) WindowShouldClose(h handle.Window) bool {
	w, ok := s.lookup(h)
	if !ok {
		return false
	}
	defer s.mu.Unlock()
	return w.shouldClose
}

func (s *Sim) SetWindowShouldClose(h handle.Window, value bool) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	w.shouldClose = value
	s.mu.Unlock()
}

func (s *Sim) SetWindowTitle(h handle.Window, title string) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	w.title = title
	s.mu.Unlock()
}

// Title returns the window title, or "" for unknown windows.
func (s *Sim) Title(h handle.Window) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.windows[h.Pointer()]; ok {
		return w.title
	}
	return ""
}

func (s *Sim) GetWindowPos(h handle.Window) (x, y int32) {
	w, ok := s.lookup(h)
	if !ok {
		return 0, 0
	}
	defer s.mu.Unlock()
	return w.x, w.y
}

// SetWindowPos moves the window and queues a position event.
func (s *Sim) SetWindowPos(h handle.Window, x, y int32) {
	if _, ok := s.lookup(h); !ok {
		return
	}
	s.mu.Unlock()
	s.PostPos(h, x, y)
}

func (s *Sim) GetWindowSize(h handle.Window) (width, height int32) {
	w, ok := s.lookup(h)
	if !ok {
		return 0, 0
	}
	defer s.mu.Unlock()
	return w.width, w.height
}

// SetWindowSize resizes the window and queues size and framebuffer events.
func (s *Sim) SetWindowSize(h handle.Window, width, height int32) {
	if _, ok := s.lookup(h); !ok {
		return
	}
	s.mu.Unlock()
	if width <= 0 || height <= 0 {
		s.report(native.InvalidValue, "Invalid window size")
		return
	}
	s.PostSize(h, width, height)
}

func (s *Sim) GetFramebufferSize(h handle.Window) (width, height int32) {
	w, ok := s.lookup(h)
	if !ok {
		return 0, 0
	}
	defer s.mu.Unlock()
	return int32(float32(w.width) * w.scaleX), int32(float32(w.height) * w.scaleY)
}

func (s *Sim) GetWindowContentScale(h handle.Window) (x, y float32) {
	w, ok := s.lookup(h)
	if !ok {
		return 0, 0
	}
	defer s.mu.Unlock()
	return w.scaleX, w.scaleY
}

func (s *Sim) ShowWindow(h handle.Window) { s.setAttrib(h, native.Visible, native.True) }
func (s *Sim) HideWindow(h handle.Window) { s.setAttrib(h, native.Visible, native.False) }

func (s *Sim) FocusWindow(h handle.Window) {
	if _, ok := s.lookup(h); !ok {
		return
	}
	s.mu.Unlock()
	s.PostFocus(h, true)
}

func (s *Sim) IconifyWindow(h handle.Window) {
	if _, ok := s.lookup(h); !ok {
		return
	}
	s.mu.Unlock()
	s.PostIconify(h, true)
}

// RestoreWindow undoes iconification or maximization, whichever applies.
func (s *Sim) RestoreWindow(h handle.Window) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	iconified := w.attribs[native.Iconified] == native.True
	maximized := w.attribs[native.Maximized] == native.True
	s.mu.Unlock()
	switch {
	case iconified:
		s.PostIconify(h, false)
	case maximized:
		s.PostMaximize(h, false)
	}
}

func (s *Sim) MaximizeWindow(h handle.Window) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	resizable := w.attribs[native.Resizable] == native.True
	s.mu.Unlock()
	if resizable {
		s.PostMaximize(h, true)
	}
}

func (s *Sim) setAttrib(h handle.Window, attrib, value int32) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	w.attribs[attrib] = value
	s.mu.Unlock()
}

func (s *Sim) GetWindowAttrib(h handle.Window, attrib int32) int32 {
	w, ok := s.lookup(h)
	if !ok {
		return 0
	}
	v, known := w.attribs[attrib]
	s.mu.Unlock()
	if !known {
		s.report(native.InvalidEnum, "Invalid window attribute")
		return 0
	}
	return v
}

func (s *Sim) GetWindowMonitor(h handle.Window) handle.Monitor {
	w, ok := s.lookup(h)
	if !ok {
		return handle.NewMonitor(0)
	}
	defer s.mu.Unlock()
	return handle.NewMonitor(w.monitor)
}

func (s *Sim) MakeContextCurrent(h handle.Window) {
	if h.IsNone() {
		s.mu.Lock()
		s.current = 0
		s.mu.Unlock()
		return
	}
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	noAPI := w.attribs[native.ClientAPI] == native.NoAPI
	if !noAPI {
		s.current = h.Pointer()
	}
	s.mu.Unlock()
	if noAPI {
		s.report(native.NoWindowContext, "Cannot make current with a window that has no OpenGL or OpenGL ES context")
	}
}

func (s *Sim) GetCurrentContext() handle.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return handle.NewWindow(s.current)
}

func (s *Sim) SwapBuffers(h handle.Window) {
	w, ok := s.lookup(h)
	if !ok {
		return
	}
	noAPI := w.attribs[native.ClientAPI] == native.NoAPI
	s.mu.Unlock()
	if noAPI {
		s.report(native.NoWindowContext, "Cannot swap buffers of a window that has no OpenGL or OpenGL ES context")
	}
}

func (s *Sim) SwapInterval(interval int32) {
	if !s.ready() {
		return
	}
	if s.GetCurrentContext().IsNone() {
		s.report(native.NoCurrentContext, "Cannot set swap interval without a current OpenGL or OpenGL ES context")
	}
}

// GetNativeContext reports a fake context whose platform follows the
// window's context creation API.
func (s *Sim) GetNativeContext(h handle.Window) handle.Context {
	w, ok := s.lookup(h)
	if !ok {
		return handle.Context{}
	}
	clientAPI := w.attribs[native.ClientAPI]
	contextAPI := w.attribs[native.ContextAPI]
	s.mu.Unlock()

	if clientAPI == native.NoAPI {
		s.report(native.NoWindowContext, "Window has no context")
		return handle.Context{}
	}
	ptr := h.Pointer() + 0x8
	switch contextAPI {
	case native.EGLContextAPI:
		return handle.NewContext(ptr, handle.PlatformEGL)
	case native.OSMesaContextAPI:
		return handle.NewContext(ptr, handle.PlatformOSMesa)
	default:
		return handle.NewContext(ptr, handle.PlatformGLX)
	}
}

// swap replaces one callback slot of h and returns the previous value.
func swap[F any](s *Sim, h handle.Window, slot func(*callbacks) *F, fn F) F {
	var zero F
	w, ok := s.lookup(h)
	if !ok {
		return zero
	}
	defer s.mu.Unlock()
	p := slot(&w.cb)
	prev := *p
	*p = fn
	return prev
}

func (s *Sim) SetWindowPosCallback(h handle.Window, fn native.WindowPosFunc) native.WindowPosFunc {
	return swap(s, h, func(c *callbacks) *native.WindowPosFunc { return &c.pos }, fn)
}

func (s *Sim) SetWindowSizeCallback(h handle.Window, fn native.WindowSizeFunc) native.WindowSizeFunc {
	return swap(s, h, func(c *callbacks) *native.WindowSizeFunc { return &c.size }, fn)
}

func (s *Sim) SetWindowCloseCallback(h handle.Window, fn native.WindowCloseFunc) native.WindowCloseFunc {
	return swap(s, h, func(c *callbacks) *native.WindowCloseFunc { return &c.close }, fn)
}

func (s *Sim) SetWindowRefreshCallback(h handle.Window, fn native.WindowRefreshFunc) native.WindowRefreshFunc {
	return swap(s, h, func(c *callbacks) *native.WindowRefreshFunc { return &c.refresh }, fn)
}

func (s *Sim) SetWindowFocusCallback(h handle.Window, fn native.WindowFocusFunc) native.WindowFocusFunc {
	return swap(s, h, func(c *callbacks) *native.WindowFocusFunc { return &c.focus }, fn)
}

func (s *Sim) SetWindowIconifyCallback(h handle.Window, fn native.WindowIconifyFunc) native.WindowIconifyFunc {
	return swap(s, h, func(c *callbacks) *native.WindowIconifyFunc { return &c.iconify }, fn)
}

func (s *Sim) SetWindowMaximizeCallback(h handle.Window, fn native.WindowMaximizeFunc) native.WindowMaximizeFunc {
	return swap(s, h, func(c *callbacks) *native.WindowMaximizeFunc { return &c.maximize }, fn)
}

func (s *Sim) SetFramebufferSizeCallback(h handle.Window, fn native.FramebufferSizeFunc) native.FramebufferSizeFunc {
	return swap(s, h, func(c *callbacks) *native.FramebufferSizeFunc { return &c.framebuffer }, fn)
}

func (s *Sim) SetWindowContentScaleCallback(h handle.Window, fn native.ContentScaleFunc) native.ContentScaleFunc {
	return swap(s, h, func(c *callbacks) *native.ContentScaleFunc { return &c.scale }, fn)
}

func (s *Sim) SetKeyCallback(h handle.Window, fn native.KeyFunc) native.KeyFunc {
	return swap(s, h, func(c *callbacks) *native.KeyFunc { return &c.key }, fn)
}

func (s *Sim) SetCharCallback(h handle.Window, fn native.CharFunc) native.CharFunc {
	return swap(s, h, func(c *callbacks) *native.CharFunc { return &c.char }, fn)
}

func (s *Sim) SetCharModsCallback(h handle.Window, fn native.CharModsFunc) native.CharModsFunc {
	return swap(s, h, func(c *callbacks) *native.CharModsFunc { return &c.charMods }, fn)
}

func (s *Sim) SetMouseButtonCallback(h handle.Window, fn native.MouseButtonFunc) native.MouseButtonFunc {
	return swap(s, h, func(c *callbacks) *native.MouseButtonFunc { return &c.mouseButton }, fn)
}

func (s *Sim) SetCursorPosCallback(h handle.Window, fn native.CursorPosFunc) native.CursorPosFunc {
	return swap(s, h, func(c *callbacks) *native.CursorPosFunc { return &c.cursorPos }, fn)
}

func (s *Sim) SetCursorEnterCallback(h handle.Window, fn native.CursorEnterFunc) native.CursorEnterFunc {
	return swap(s, h, func(c *callbacks) *native.CursorEnterFunc { return &c.cursorEnter }, fn)
}

func (s *Sim) SetScrollCallback(h handle.Window, fn native.ScrollFunc) native.ScrollFunc {
	return swap(s, h, func(c *callbacks) *native.ScrollFunc { return &c.scroll }, fn)
}

func (s *Sim) SetDropCallback(h handle.Window, fn native.DropFunc) native.DropFunc {
	return swap(s, h, func(c *callbacks) *native.DropFunc { return &c.drop }, fn)
}
