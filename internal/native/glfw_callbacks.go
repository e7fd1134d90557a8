//go:build darwin || linux || freebsd

package native

import (
	"sync"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/ebitengine/purego"
)

// Callback setters take and return C function pointers.
var (
	fnSetErrorCallback    func(cb uintptr) uintptr
	fnSetMonitorCallback  func(cb uintptr) uintptr
	fnSetJoystickCallback func(cb uintptr) uintptr

	fnSetWindowPosCallback          func(w, cb uintptr) uintptr
	fnSetWindowSizeCallback         func(w, cb uintptr) uintptr
	fnSetWindowCloseCallback        func(w, cb uintptr) uintptr
	fnSetWindowRefreshCallback      func(w, cb uintptr) uintptr
	fnSetWindowFocusCallback        func(w, cb uintptr) uintptr
	fnSetWindowIconifyCallback      func(w, cb uintptr) uintptr
	fnSetWindowMaximizeCallback     func(w, cb uintptr) uintptr
	fnSetFramebufferSizeCallback    func(w, cb uintptr) uintptr
	fnSetWindowContentScaleCallback func(w, cb uintptr) uintptr
	fnSetKeyCallback                func(w, cb uintptr) uintptr
	fnSetCharCallback               func(w, cb uintptr) uintptr
	fnSetCharModsCallback           func(w, cb uintptr) uintptr
	fnSetMouseButtonCallback        func(w, cb uintptr) uintptr
	fnSetCursorPosCallback          func(w, cb uintptr) uintptr
	fnSetCursorEnterCallback        func(w, cb uintptr) uintptr
	fnSetScrollCallback             func(w, cb uintptr) uintptr
	fnSetDropCallback               func(w, cb uintptr) uintptr
)

// purego can only create a bounded number of callbacks per process, so there
// is exactly one C entry point per category. Each routes to the Go function
// registered for the window the event names.
var trampolines struct {
	err, monitor, joystick uintptr

	pos, size, close, refresh, focus, iconify, maximize  uintptr
	framebuffer, scale, key, char, charMods, mouseButton uintptr
	cursorPos, cursorEnter, scroll, drop                 uintptr
}

type windowSlots struct {
	pos         WindowPosFunc
	size        WindowSizeFunc
	close       WindowCloseFunc
	refresh     WindowRefreshFunc
	focus       WindowFocusFunc
	iconify     WindowIconifyFunc
	maximize    WindowMaximizeFunc
	framebuffer FramebufferSizeFunc
	scale       ContentScaleFunc
	key         KeyFunc
	char        CharFunc
	charMods    CharModsFunc
	mouseButton MouseButtonFunc
	cursorPos   CursorPosFunc
	cursorEnter CursorEnterFunc
	scroll      ScrollFunc
	drop        DropFunc
}

var (
	routesMu     sync.RWMutex
	windowRoutes = make(map[uintptr]*windowSlots)

	errorRoute    ErrorFunc
	monitorRoute  MonitorFunc
	joystickRoute JoystickFunc
)

func createTrampolines() {
	t := &trampolines
	t.err = purego.NewCallback(func(code int32, desc uintptr) {
		routesMu.RLock()
		fn := errorRoute
		routesMu.RUnlock()
		if fn != nil {
			fn(code, goString(desc))
		}
	})
	t.monitor = purego.NewCallback(func(m uintptr, event int32) {
		routesMu.RLock()
		fn := monitorRoute
		routesMu.RUnlock()
		if fn != nil {
			fn(handle.NewMonitor(m), event)
		}
	})
	t.joystick = purego.NewCallback(func(jid, event int32) {
		routesMu.RLock()
		fn := joystickRoute
		routesMu.RUnlock()
		if fn != nil {
			fn(jid, event)
		}
	})

	t.pos = purego.NewCallback(func(w uintptr, x, y int32) {
		if fn := route(w, func(s *windowSlots) WindowPosFunc { return s.pos }); fn != nil {
			fn(handle.NewWindow(w), x, y)
		}
	})
	t.size = purego.NewCallback(func(w uintptr, width, height int32) {
		if fn := route(w, func(s *windowSlots) WindowSizeFunc { return s.size }); fn != nil {
			fn(handle.NewWindow(w), width, height)
		}
	})
	t.close = purego.NewCallback(func(w uintptr) {
		if fn := route(w, func(s *windowSlots) WindowCloseFunc { return s.close }); fn != nil {
			fn(handle.NewWindow(w))
		}
	})
	t.refresh = purego.NewCallback(func(w uintptr) {
		if fn := route(w, func(s *windowSlots) WindowRefreshFunc { return s.refresh }); fn != nil {
			fn(handle.NewWindow(w))
		}
	})
	t.focus = purego.NewCallback(func(w uintptr, focused int32) {
		if fn := route(w, func(s *windowSlots) WindowFocusFunc { return s.focus }); fn != nil {
			fn(handle.NewWindow(w), focused != False)
		}
	})
	t.iconify = purego.NewCallback(func(w uintptr, iconified int32) {
		if fn := route(w, func(s *windowSlots) WindowIconifyFunc { return s.iconify }); fn != nil {
			fn(handle.NewWindow(w), iconified != False)
		}
	})
	t.maximize = purego.NewCallback(func(w uintptr, maximized int32) {
		if fn := route(w, func(s *windowSlots) WindowMaximizeFunc { return s.maximize }); fn != nil {
			fn(handle.NewWindow(w), maximized != False)
		}
	})
	t.framebuffer = purego.NewCallback(func(w uintptr, width, height int32) {
		if fn := route(w, func(s *windowSlots) FramebufferSizeFunc { return s.framebuffer }); fn != nil {
			fn(handle.NewWindow(w), width, height)
		}
	})
	t.scale = purego.NewCallback(func(w uintptr, x, y float32) {
		if fn := route(w, func(s *windowSlots) ContentScaleFunc { return s.scale }); fn != nil {
			fn(handle.NewWindow(w), x, y)
		}
	})
	t.key = purego.NewCallback(func(w uintptr, key, scancode, action, mods int32) {
		if fn := route(w, func(s *windowSlots) KeyFunc { return s.key }); fn != nil {
			fn(handle.NewWindow(w), key, scancode, action, mods)
		}
	})
	t.char = purego.NewCallback(func(w uintptr, codepoint uint32) {
		if fn := route(w, func(s *windowSlots) CharFunc { return s.char }); fn != nil {
			fn(handle.NewWindow(w), codepoint)
		}
	})
	t.charMods = purego.NewCallback(func(w uintptr, codepoint uint32, mods int32) {
		if fn := route(w, func(s *windowSlots) CharModsFunc { return s.charMods }); fn != nil {
			fn(handle.NewWindow(w), codepoint, mods)
		}
	})
	t.mouseButton = purego.NewCallback(func(w uintptr, button, action, mods int32) {
		if fn := route(w, func(s *windowSlots) MouseButtonFunc { return s.mouseButton }); fn != nil {
			fn(handle.NewWindow(w), button, action, mods)
		}
	})
	t.cursorPos = purego.NewCallback(func(w uintptr, x, y float64) {
		if fn := route(w, func(s *windowSlots) CursorPosFunc { return s.cursorPos }); fn != nil {
			fn(handle.NewWindow(w), x, y)
		}
	})
	t.cursorEnter = purego.NewCallback(func(w uintptr, entered int32) {
		if fn := route(w, func(s *windowSlots) CursorEnterFunc { return s.cursorEnter }); fn != nil {
			fn(handle.NewWindow(w), entered != False)
		}
	})
	t.scroll = purego.NewCallback(func(w uintptr, dx, dy float64) {
		if fn := route(w, func(s *windowSlots) ScrollFunc { return s.scroll }); fn != nil {
			fn(handle.NewWindow(w), dx, dy)
		}
	})
	t.drop = purego.NewCallback(func(w uintptr, count int32, paths uintptr) {
		if fn := route(w, func(s *windowSlots) DropFunc { return s.drop }); fn != nil {
			fn(handle.NewWindow(w), goStrings(paths, int(count)))
		}
	})
}

// route looks up the Go callback for window w. The lock is released before
// the callback runs so it may re-register callbacks.
func route[F any](w uintptr, pick func(*windowSlots) F) F {
	routesMu.RLock()
	defer routesMu.RUnlock()
	var zero F
	slots, ok := windowRoutes[w]
	if !ok {
		return zero
	}
	return pick(slots)
}

// swapWindow stores fn in the slot for w and points the native callback at
// the category trampoline, or clears it when install is false.
func swapWindow[F any](w handle.Window, slot func(*windowSlots) *F, fn F, install bool, set func(w, cb uintptr) uintptr, cb uintptr) F {
	routesMu.Lock()
	slots, ok := windowRoutes[w.Pointer()]
	if !ok {
		slots = &windowSlots{}
		windowRoutes[w.Pointer()] = slots
	}
	p := slot(slots)
	prev := *p
	*p = fn
	routesMu.Unlock()

	if !install {
		cb = 0
	}
	set(w.Pointer(), cb)
	return prev
}

// forgetWindow drops every route for a destroyed window. A new window at the
// same address starts with empty slots.
func forgetWindow(w handle.Window) {
	routesMu.Lock()
	delete(windowRoutes, w.Pointer())
	routesMu.Unlock()
}

func swapGlobal[F any](slot *F, fn F, install bool, set func(cb uintptr) uintptr, cb uintptr) F {
	routesMu.Lock()
	prev := *slot
	*slot = fn
	routesMu.Unlock()

	if !install {
		cb = 0
	}
	set(cb)
	return prev
}

func (g *GLFW) SetErrorCallback(fn ErrorFunc) ErrorFunc {
	return swapGlobal(&errorRoute, fn, fn != nil, fnSetErrorCallback, trampolines.err)
}

func (g *GLFW) SetMonitorCallback(fn MonitorFunc) MonitorFunc {
	return swapGlobal(&monitorRoute, fn, fn != nil, fnSetMonitorCallback, trampolines.monitor)
}

func (g *GLFW) SetJoystickCallback(fn JoystickFunc) JoystickFunc {
	return swapGlobal(&joystickRoute, fn, fn != nil, fnSetJoystickCallback, trampolines.joystick)
}

func (g *GLFW) SetWindowPosCallback(w handle.Window, fn WindowPosFunc) WindowPosFunc {
	return swapWindow(w, func(s *windowSlots) *WindowPosFunc { return &s.pos },
		fn, fn != nil, fnSetWindowPosCallback, trampolines.pos)
}

func (g *GLFW) SetWindowSizeCallback(w handle.Window, fn WindowSizeFunc) WindowSizeFunc {
	return swapWindow(w, func(s *windowSlots) *WindowSizeFunc { return &s.size },
		fn, fn != nil, fnSetWindowSizeCallback, trampolines.size)
}

func (g *GLFW) SetWindowCloseCallback(w handle.Window, fn WindowCloseFunc) WindowCloseFunc {
	return swapWindow(w, func(s *windowSlots) *WindowCloseFunc { return &s.close },
		fn, fn != nil, fnSetWindowCloseCallback, trampolines.close)
}

func (g *GLFW) SetWindowRefreshCallback(w handle.Window, fn WindowRefreshFunc) WindowRefreshFunc {
	return swapWindow(w, func(s *windowSlots) *WindowRefreshFunc { return &s.refresh },
		fn, fn != nil, fnSetWindowRefreshCallback, trampolines.refresh)
}

func (g *GLFW) SetWindowFocusCallback(w handle.Window, fn WindowFocusFunc) WindowFocusFunc {
	return swapWindow(w, func(s *windowSlots) *WindowFocusFunc { return &s.focus },
		fn, fn != nil, fnSetWindowFocusCallback, trampolines.focus)
}

func (g *GLFW) SetWindowIconifyCallback(w handle.Window, fn WindowIconifyFunc) WindowIconifyFunc {
	return swapWindow(w, func(s *windowSlots) *WindowIconifyFunc { return &s.iconify },
		fn, fn != nil, fnSetWindowIconifyCallback, trampolines.iconify)
}

func (g *GLFW) SetWindowMaximizeCallback(w handle.Window, fn WindowMaximizeFunc) WindowMaximizeFunc {
	return swapWindow(w, func(s *windowSlots) *WindowMaximizeFunc { return &s.maximize },
		fn, fn != nil, fnSetWindowMaximizeCallback, trampolines.maximize)
}

func (g *GLFW) SetFramebufferSizeCallback(w handle.Window, fn FramebufferSizeFunc) FramebufferSizeFunc {
	return swapWindow(w, func(s *windowSlots) *FramebufferSizeFunc { return &s.framebuffer },
		fn, fn != nil, fnSetFramebufferSizeCallback, trampolines.framebuffer)
}

func (g *GLFW) SetWindowContentScaleCallback(w handle.Window, fn ContentScaleFunc) ContentScaleFunc {
	return swapWindow(w, func(s *windowSlots) *ContentScaleFunc { return &s.scale },
		fn, fn != nil, fnSetWindowContentScaleCallback, trampolines.scale)
}

func (g *GLFW) SetKeyCallback(w handle.Window, fn KeyFunc) KeyFunc {
	return swapWindow(w, func(s *windowSlots) *KeyFunc { return &s.key },
		fn, fn != nil, fnSetKeyCallback, trampolines.key)
}

func (g *GLFW) SetCharCallback(w handle.Window, fn CharFunc) CharFunc {
	return swapWindow(w, func(s *windowSlots) *CharFunc { return &s.char },
		fn, fn != nil, fnSetCharCallback, trampolines.char)
}

func (g *GLFW) SetCharModsCallback(w handle.Window, fn CharModsFunc) CharModsFunc {
	return swapWindow(w, func(s *windowSlots) *CharModsFunc { return &s.charMods },
		fn, fn != nil, fnSetCharModsCallback, trampolines.charMods)
}

func (g *GLFW) SetMouseButtonCallback(w handle.Window, fn MouseButtonFunc) MouseButtonFunc {
	return swapWindow(w, func(s *windowSlots) *MouseButtonFunc { return &s.mouseButton },
		fn, fn != nil, fnSetMouseButtonCallback, trampolines.mouseButton)
}

func (g *GLFW) SetCursorPosCallback(w handle.Window, fn CursorPosFunc) CursorPosFunc {
	return swapWindow(w, func(s *windowSlots) *CursorPosFunc { return &s.cursorPos },
		fn, fn != nil, fnSetCursorPosCallback, trampolines.cursorPos)
}

func (g *GLFW) SetCursorEnterCallback(w handle.Window, fn CursorEnterFunc) CursorEnterFunc {
	return swapWindow(w, func(s *windowSlots) *CursorEnterFunc { return &s.cursorEnter },
		fn, fn != nil, fnSetCursorEnterCallback, trampolines.cursorEnter)
}

func (g *GLFW) SetScrollCallback(w handle.Window, fn ScrollFunc) ScrollFunc {
	return swapWindow(w, func(s *windowSlots) *ScrollFunc { return &s.scroll },
		fn, fn != nil, fnSetScrollCallback, trampolines.scroll)
}

func (g *GLFW) SetDropCallback(w handle.Window, fn DropFunc) DropFunc {
	return swapWindow(w, func(s *windowSlots) *DropFunc { return &s.drop },
		fn, fn != nil, fnSetDropCallback, trampolines.drop)
}

var _ Library = (*GLFW)(nil)
