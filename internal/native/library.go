// Package native declares the fixed contract with the native windowing
// library and provides a purego-backed loader for libglfw.
//
// The contract mirrors the C API closely: handles in, raw integer codes out,
// one callback slot per category. Every callback setter returns the function
// that was registered before, or nil.
package native

import (
	"errors"

	"github.com/bnema/nativewindow/internal/handle"
)

var (
	// ErrUnsupportedPlatform is returned by Load where purego cannot load GLFW
	ErrUnsupportedPlatform = errors.New("native library loading is not supported on this platform")
	// ErrLibraryNotFound is returned when no GLFW shared library could be opened
	ErrLibraryNotFound = errors.New("glfw shared library not found")
)

// Per-window callbacks.
type (
	WindowPosFunc       func(w handle.Window, x, y int32)
	WindowSizeFunc      func(w handle.Window, width, height int32)
	WindowCloseFunc     func(w handle.Window)
	WindowRefreshFunc   func(w handle.Window)
	WindowFocusFunc     func(w handle.Window, focused bool)
	WindowIconifyFunc   func(w handle.Window, iconified bool)
	WindowMaximizeFunc  func(w handle.Window, maximized bool)
	FramebufferSizeFunc func(w handle.Window, width, height int32)
	ContentScaleFunc    func(w handle.Window, x, y float32)
	KeyFunc             func(w handle.Window, key, scancode, action, mods int32)
	CharFunc            func(w handle.Window, codepoint uint32)
	CharModsFunc        func(w handle.Window, codepoint uint32, mods int32)
	MouseButtonFunc     func(w handle.Window, button, action, mods int32)
	CursorPosFunc       func(w handle.Window, x, y float64)
	CursorEnterFunc     func(w handle.Window, entered bool)
	ScrollFunc          func(w handle.Window, dx, dy float64)
	// DropFunc receives paths that are only valid until the callback returns.
	DropFunc func(w handle.Window, paths []string)
)

// Library-wide callbacks.
type (
	ErrorFunc    func(code int32, description string)
	MonitorFunc  func(m handle.Monitor, event int32)
	JoystickFunc func(jid int32, event int32)
)

// VideoMode mirrors GLFWvidmode.
type VideoMode struct {
	Width       int32
	Height      int32
	RedBits     int32
	GreenBits   int32
	BlueBits    int32
	RefreshRate int32
}

// GamepadState mirrors GLFWgamepadstate.
type GamepadState struct {
	Buttons [15]byte
	Axes    [6]float32
}

// Rect is a position and size in screen coordinates.
type Rect struct {
	X, Y, Width, Height int32
}

// Library is everything the binding layer needs from the native library.
// Implementations are not safe for concurrent use except PostEmptyEvent.
type Library interface {
	Init() bool
	Terminate()
	Version() (major, minor, rev int32)
	VersionString() string

	GetError() (code int32, description string)
	SetErrorCallback(fn ErrorFunc) ErrorFunc

	PollEvents()
	WaitEvents()
	WaitEventsTimeout(seconds float64)
	PostEmptyEvent()
	GetTime() float64

	DefaultWindowHints()
	WindowHint(hint, value int32)
	CreateWindow(width, height int32, title string, monitor handle.Monitor, share handle.Window) handle.Window
	DestroyWindow(w handle.Window)
	WindowShouldClose(w handle.Window) bool
	SetWindowShouldClose(w handle.Window, value bool)
	SetWindowTitle(w handle.Window, title string)
	GetWindowPos(w handle.Window) (x, y int32)
	SetWindowPos(w handle.Window, x, y int32)
	GetWindowSize(w handle.Window) (width, height int32)
	SetWindowSize(w handle.Window, width, height int32)
	GetFramebufferSize(w handle.Window) (width, height int32)
	GetWindowContentScale(w handle.Window) (x, y float32)
	ShowWindow(w handle.Window)
	HideWindow(w handle.Window)
	FocusWindow(w handle.Window)
	IconifyWindow(w handle.Window)
	RestoreWindow(w handle.Window)
	MaximizeWindow(w handle.Window)
	GetWindowAttrib(w handle.Window, attrib int32) int32
	GetWindowMonitor(w handle.Window) handle.Monitor
	MakeContextCurrent(w handle.Window)
	GetCurrentContext() handle.Window
	SwapBuffers(w handle.Window)
	SwapInterval(interval int32)
	GetNativeContext(w handle.Window) handle.Context

	GetKey(w handle.Window, key int32) int32
	GetKeyName(key, scancode int32) string
	GetMouseButton(w handle.Window, button int32) int32
	GetCursorPos(w handle.Window) (x, y float64)
	SetCursorPos(w handle.Window, x, y float64)
	GetInputMode(w handle.Window, mode int32) int32
	SetInputMode(w handle.Window, mode, value int32)
	CreateStandardCursor(shape int32) handle.Cursor
	DestroyCursor(c handle.Cursor)
	SetCursor(w handle.Window, c handle.Cursor)
	GetClipboardString(w handle.Window) string
	SetClipboardString(w handle.Window, s string)

	GetMonitors() []handle.Monitor
	GetPrimaryMonitor() handle.Monitor
	GetMonitorName(m handle.Monitor) string
	GetMonitorPos(m handle.Monitor) (x, y int32)
	GetMonitorWorkarea(m handle.Monitor) Rect
	GetMonitorPhysicalSize(m handle.Monitor) (widthMM, heightMM int32)
	GetMonitorContentScale(m handle.Monitor) (x, y float32)
	GetVideoMode(m handle.Monitor) (VideoMode, bool)

	JoystickPresent(jid int32) bool
	GetJoystickName(jid int32) string
	GetJoystickGUID(jid int32) string
	GetJoystickAxes(jid int32) []float32
	GetJoystickButtons(jid int32) []byte
	GetJoystickHats(jid int32) []byte
	JoystickIsGamepad(jid int32) bool
	GetGamepadName(jid int32) string
	GetGamepadState(jid int32) (GamepadState, bool)

	VulkanSupported() bool
	GetRequiredInstanceExtensions() []string

	SetWindowPosCallback(w handle.Window, fn WindowPosFunc) WindowPosFunc
	SetWindowSizeCallback(w handle.Window, fn WindowSizeFunc) WindowSizeFunc
	SetWindowCloseCallback(w handle.Window, fn WindowCloseFunc) WindowCloseFunc
	SetWindowRefreshCallback(w handle.Window, fn WindowRefreshFunc) WindowRefreshFunc
	SetWindowFocusCallback(w handle.Window, fn WindowFocusFunc) WindowFocusFunc
	SetWindowIconifyCallback(w handle.Window, fn WindowIconifyFunc) WindowIconifyFunc
	SetWindowMaximizeCallback(w handle.Window, fn WindowMaximizeFunc) WindowMaximizeFunc
	SetFramebufferSizeCallback(w handle.Window, fn FramebufferSizeFunc) FramebufferSizeFunc
	SetWindowContentScaleCallback(w handle.Window, fn ContentScaleFunc) ContentScaleFunc
	SetKeyCallback(w handle.Window, fn KeyFunc) KeyFunc
	SetCharCallback(w handle.Window, fn CharFunc) CharFunc
	SetCharModsCallback(w handle.Window, fn CharModsFunc) CharModsFunc
	SetMouseButtonCallback(w handle.Window, fn MouseButtonFunc) MouseButtonFunc
	SetCursorPosCallback(w handle.Window, fn CursorPosFunc) CursorPosFunc
	SetCursorEnterCallback(w handle.Window, fn CursorEnterFunc) CursorEnterFunc
	SetScrollCallback(w handle.Window, fn ScrollFunc) ScrollFunc
	SetDropCallback(w handle.Window, fn DropFunc) DropFunc

	SetMonitorCallback(fn MonitorFunc) MonitorFunc
	SetJoystickCallback(fn JoystickFunc) JoystickFunc
}
