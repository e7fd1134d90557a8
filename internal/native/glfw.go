//go:build darwin || linux || freebsd

package native

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/ebitengine/purego"
)

var (
	libHandle uintptr
	libPath   string
	libOnce   sync.Once
	libErr    error
)

// Library function pointers (populated by loadLibrary)
var (
	fnInit          func() int32
	fnTerminate     func()
	fnGetVersion    func(major, minor, rev *int32)
	fnVersionString func() string
	fnGetError      func(description *uintptr) int32

	fnPollEvents        func()
	fnWaitEvents        func()
	fnWaitEventsTimeout func(timeout float64)
	fnPostEmptyEvent    func()
	fnGetTime           func() float64

	fnDefaultWindowHints    func()
	fnWindowHint            func(hint, value int32)
	fnCreateWindow          func(width, height int32, title string, monitor, share uintptr) uintptr
	fnDestroyWindow         func(w uintptr)
	fnWindowShouldClose     func(w uintptr) int32
	fnSetWindowShouldClose  func(w uintptr, value int32)
	fnSetWindowTitle        func(w uintptr, title string)
	fnGetWindowPos          func(w uintptr, x, y *int32)
	fnSetWindowPos          func(w uintptr, x, y int32)
	fnGetWindowSize         func(w uintptr, width, height *int32)
	fnSetWindowSize         func(w uintptr, width, height int32)
	fnGetFramebufferSize    func(w uintptr, width, height *int32)
	fnGetWindowContentScale func(w uintptr, x, y *float32)
	fnShowWindow            func(w uintptr)
	fnHideWindow            func(w uintptr)
	fnFocusWindow           func(w uintptr)
	fnIconifyWindow         func(w uintptr)
	fnRestoreWindow         func(w uintptr)
	fnMaximizeWindow        func(w uintptr)
	fnGetWindowAttrib       func(w uintptr, attrib int32) int32
	fnGetWindowMonitor      func(w uintptr) uintptr
	fnMakeContextCurrent    func(w uintptr)
	fnGetCurrentContext     func() uintptr
	fnSwapBuffers           func(w uintptr)
	fnSwapInterval          func(interval int32)
	fnGetPlatformContext    func(w uintptr) uintptr
	fnGetEGLContext         func(w uintptr) uintptr
	fnGetOSMesaContext      func(w uintptr) uintptr

	fnGetKey               func(w uintptr, key int32) int32
	fnGetKeyName           func(key, scancode int32) string
	fnGetMouseButton       func(w uintptr, button int32) int32
	fnGetCursorPos         func(w uintptr, x, y *float64)
	fnSetCursorPos         func(w uintptr, x, y float64)
	fnGetInputMode         func(w uintptr, mode int32) int32
	fnSetInputMode         func(w uintptr, mode, value int32)
	fnCreateStandardCursor func(shape int32) uintptr
	fnDestroyCursor        func(c uintptr)
	fnSetCursor            func(w, c uintptr)
	fnGetClipboardString   func(w uintptr) string
	fnSetClipboardString   func(w uintptr, s string)

	fnGetMonitors            func(count *int32) uintptr
	fnGetPrimaryMonitor      func() uintptr
	fnGetMonitorName         func(m uintptr) string
	fnGetMonitorPos          func(m uintptr, x, y *int32)
	fnGetMonitorWorkarea     func(m uintptr, x, y, width, height *int32)
	fnGetMonitorPhysicalSize func(m uintptr, widthMM, heightMM *int32)
	fnGetMonitorContentScale func(m uintptr, x, y *float32)
	fnGetVideoMode           func(m uintptr) uintptr

	fnJoystickPresent    func(jid int32) int32
	fnGetJoystickName    func(jid int32) string
	fnGetJoystickGUID    func(jid int32) string
	fnGetJoystickAxes    func(jid int32, count *int32) uintptr
	fnGetJoystickButtons func(jid int32, count *int32) uintptr
	fnGetJoystickHats    func(jid int32, count *int32) uintptr
	fnJoystickIsGamepad  func(jid int32) int32
	fnGetGamepadName     func(jid int32) string
	fnGetGamepadState    func(jid int32, state *GamepadState) int32

	fnVulkanSupported               func() int32
	fnGetRequiredInstanceExtensions func(count *uint32) uintptr
)

type symbol struct {
	fptr any
	name string
}

// requiredSymbols exist in every GLFW 3.3 build.
var requiredSymbols = []symbol{
	{&fnInit, "glfwInit"},
	{&fnTerminate, "glfwTerminate"},
	{&fnGetVersion, "glfwGetVersion"},
	{&fnVersionString, "glfwGetVersionString"},
	{&fnGetError, "glfwGetError"},
	{&fnPollEvents, "glfwPollEvents"},
	{&fnWaitEvents, "glfwWaitEvents"},
	{&fnWaitEventsTimeout, "glfwWaitEventsTimeout"},
	{&fnPostEmptyEvent, "glfwPostEmptyEvent"},
	{&fnGetTime, "glfwGetTime"},
	{&fnDefaultWindowHints, "glfwDefaultWindowHints"},
	{&fnWindowHint, "glfwWindowHint"},
	{&fnCreateWindow, "glfwCreateWindow"},
	{&fnDestroyWindow, "glfwDestroyWindow"},
	{&fnWindowShouldClose, "glfwWindowShouldClose"},
	{&fnSetWindowShouldClose, "glfwSetWindowShouldClose"},
	{&fnSetWindowTitle, "glfwSetWindowTitle"},
	{&fnGetWindowPos, "glfwGetWindowPos"},
	{&fnSetWindowPos, "glfwSetWindowPos"},
	{&fnGetWindowSize, "glfwGetWindowSize"},
	{&fnSetWindowSize, "glfwSetWindowSize"},
	{&fnGetFramebufferSize, "glfwGetFramebufferSize"},
	{&fnGetWindowContentScale, "glfwGetWindowContentScale"},
	{&fnShowWindow, "glfwShowWindow"},
	{&fnHideWindow, "glfwHideWindow"},
	{&fnFocusWindow, "glfwFocusWindow"},
	{&fnIconifyWindow, "glfwIconifyWindow"},
	{&fnRestoreWindow, "glfwRestoreWindow"},
	{&fnMaximizeWindow, "glfwMaximizeWindow"},
	{&fnGetWindowAttrib, "glfwGetWindowAttrib"},
	{&fnGetWindowMonitor, "glfwGetWindowMonitor"},
	{&fnMakeContextCurrent, "glfwMakeContextCurrent"},
	{&fnGetCurrentContext, "glfwGetCurrentContext"},
	{&fnSwapBuffers, "glfwSwapBuffers"},
	{&fnSwapInterval, "glfwSwapInterval"},
	{&fnGetKey, "glfwGetKey"},
	{&fnGetKeyName, "glfwGetKeyName"},
	{&fnGetMouseButton, "glfwGetMouseButton"},
	{&fnGetCursorPos, "glfwGetCursorPos"},
	{&fnSetCursorPos, "glfwSetCursorPos"},
	{&fnGetInputMode, "glfwGetInputMode"},
	{&fnSetInputMode, "glfwSetInputMode"},
	{&fnCreateStandardCursor, "glfwCreateStandardCursor"},
	{&fnDestroyCursor, "glfwDestroyCursor"},
	{&fnSetCursor, "glfwSetCursor"},
	{&fnGetClipboardString, "glfwGetClipboardString"},
	{&fnSetClipboardString, "glfwSetClipboardString"},
	{&fnGetMonitors, "glfwGetMonitors"},
	{&fnGetPrimaryMonitor, "glfwGetPrimaryMonitor"},
	{&fnGetMonitorName, "glfwGetMonitorName"},
	{&fnGetMonitorPos, "glfwGetMonitorPos"},
	{&fnGetMonitorWorkarea, "glfwGetMonitorWorkarea"},
	{&fnGetMonitorPhysicalSize, "glfwGetMonitorPhysicalSize"},
	{&fnGetMonitorContentScale, "glfwGetMonitorContentScale"},
	{&fnGetVideoMode, "glfwGetVideoMode"},
	{&fnJoystickPresent, "glfwJoystickPresent"},
	{&fnGetJoystickName, "glfwGetJoystickName"},
	{&fnGetJoystickGUID, "glfwGetJoystickGUID"},
	{&fnGetJoystickAxes, "glfwGetJoystickAxes"},
	{&fnGetJoystickButtons, "glfwGetJoystickButtons"},
	{&fnGetJoystickHats, "glfwGetJoystickHats"},
	{&fnJoystickIsGamepad, "glfwJoystickIsGamepad"},
	{&fnGetGamepadName, "glfwGetGamepadName"},
	{&fnGetGamepadState, "glfwGetGamepadState"},
	{&fnVulkanSupported, "glfwVulkanSupported"},
	{&fnGetRequiredInstanceExtensions, "glfwGetRequiredInstanceExtensions"},
	{&fnSetErrorCallback, "glfwSetErrorCallback"},
	{&fnSetMonitorCallback, "glfwSetMonitorCallback"},
	{&fnSetJoystickCallback, "glfwSetJoystickCallback"},
	{&fnSetWindowPosCallback, "glfwSetWindowPosCallback"},
	{&fnSetWindowSizeCallback, "glfwSetWindowSizeCallback"},
	{&fnSetWindowCloseCallback, "glfwSetWindowCloseCallback"},
	{&fnSetWindowRefreshCallback, "glfwSetWindowRefreshCallback"},
	{&fnSetWindowFocusCallback, "glfwSetWindowFocusCallback"},
	{&fnSetWindowIconifyCallback, "glfwSetWindowIconifyCallback"},
	{&fnSetWindowMaximizeCallback, "glfwSetWindowMaximizeCallback"},
	{&fnSetFramebufferSizeCallback, "glfwSetFramebufferSizeCallback"},
	{&fnSetWindowContentScaleCallback, "glfwSetWindowContentScaleCallback"},
	{&fnSetKeyCallback, "glfwSetKeyCallback"},
	{&fnSetCharCallback, "glfwSetCharCallback"},
	{&fnSetCharModsCallback, "glfwSetCharModsCallback"},
	{&fnSetMouseButtonCallback, "glfwSetMouseButtonCallback"},
	{&fnSetCursorPosCallback, "glfwSetCursorPosCallback"},
	{&fnSetCursorEnterCallback, "glfwSetCursorEnterCallback"},
	{&fnSetScrollCallback, "glfwSetScrollCallback"},
	{&fnSetDropCallback, "glfwSetDropCallback"},
}

// platformContextSymbol is the native context getter for the running OS.
func platformContextSymbol() (string, handle.Platform) {
	switch runtime.GOOS {
	case "darwin":
		return "glfwGetNSGLContext", handle.PlatformNSGL
	default:
		return "glfwGetGLXContext", handle.PlatformGLX
	}
}

// GLFW is the purego-backed implementation of Library. All instances share
// the one process-wide library image.
type GLFW struct {
	path            string
	contextPlatform handle.Platform
}

// Load opens the GLFW shared library and resolves its entry points. The
// first successful load wins; later calls return the same library.
func Load(path string) (*GLFW, error) {
	libOnce.Do(func() {
		libErr = loadLibrary(path)
	})
	if libErr != nil {
		return nil, libErr
	}
	_, platform := platformContextSymbol()
	return &GLFW{path: libPath, contextPlatform: platform}, nil
}

func loadLibrary(path string) error {
	var errs []error
	for _, candidate := range CandidatePaths(path) {
		h, err := purego.Dlopen(candidate, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		libHandle = h
		libPath = candidate
		break
	}
	if libHandle == 0 {
		return fmt.Errorf("%w: %w", ErrLibraryNotFound, errors.Join(errs...))
	}
	logger.Debug("Loaded native library", "path", libPath)

	for _, s := range requiredSymbols {
		if err := register(s); err != nil {
			return fmt.Errorf("glfw 3.3 or newer required: %w", err)
		}
	}

	// Context getters are only exported by builds with that backend
	sym, _ := platformContextSymbol()
	optional := []symbol{
		{&fnGetPlatformContext, sym},
		{&fnGetEGLContext, "glfwGetEGLContext"},
		{&fnGetOSMesaContext, "glfwGetOSMesaContext"},
	}
	for _, s := range optional {
		if _, err := purego.Dlsym(libHandle, s.name); err != nil {
			logger.Debug("Optional symbol missing", "symbol", s.name)
			continue
		}
		if err := register(s); err != nil {
			logger.Debug("Optional symbol not registered", "symbol", s.name, "error", err)
		}
	}

	createTrampolines()
	return nil
}

// register converts RegisterLibFunc's panic on a missing symbol into an error.
func register(s symbol) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %v", s.name, r)
		}
	}()
	purego.RegisterLibFunc(s.fptr, libHandle, s.name)
	return nil
}

// Path returns the file the library was loaded from.
func (g *GLFW) Path() string { return g.path }

func boolInt(b bool) int32 {
	if b {
		return True
	}
	return False
}

func (g *GLFW) Init() bool { return fnInit() == True }
func (g *GLFW) Terminate() { fnTerminate() }

func (g *GLFW) Version() (major, minor, rev int32) {
	fnGetVersion(&major, &minor, &rev)
	return major, minor, rev
}

func (g *GLFW) VersionString() string { return fnVersionString() }

func (g *GLFW) GetError() (int32, string) {
	var desc uintptr
	code := fnGetError(&desc)
	return code, goString(desc)
}

func (g *GLFW) PollEvents()                       { fnPollEvents() }
func (g *GLFW) WaitEvents()                       { fnWaitEvents() }
func (g *GLFW) WaitEventsTimeout(seconds float64) { fnWaitEventsTimeout(seconds) }
func (g *GLFW) PostEmptyEvent()                   { fnPostEmptyEvent() }
func (g *GLFW) GetTime() float64                  { return fnGetTime() }

func (g *GLFW) DefaultWindowHints()          { fnDefaultWindowHints() }
func (g *GLFW) WindowHint(hint, value int32) { fnWindowHint(hint, value) }

func (g *GLFW) CreateWindow(width, height int32, title string, monitor handle.Monitor, share handle.Window) handle.Window {
	return handle.NewWindow(fnCreateWindow(width, height, title, monitor.Pointer(), share.Pointer()))
}

func (g *GLFW) DestroyWindow(w handle.Window) {
	fnDestroyWindow(w.Pointer())
	forgetWindow(w)
}

func (g *GLFW) WindowShouldClose(w handle.Window) bool {
	return fnWindowShouldClose(w.Pointer()) == True
}

func (g *GLFW) SetWindowShouldClose(w handle.Window, value bool) {
	fnSetWindowShouldClose(w.Pointer(), boolInt(value))
}

func (g *GLFW) SetWindowTitle(w handle.Window, title string) { fnSetWindowTitle(w.Pointer(), title) }

func (g *GLFW) GetWindowPos(w handle.Window) (x, y int32) {
	fnGetWindowPos(w.Pointer(), &x, &y)
	return x, y
}

func (g *GLFW) SetWindowPos(w handle.Window, x, y int32) { fnSetWindowPos(w.Pointer(), x, y) }

func (g *GLFW) GetWindowSize(w handle.Window) (width, height int32) {
	fnGetWindowSize(w.Pointer(), &width, &height)
	return width, height
}

func (g *GLFW) SetWindowSize(w handle.Window, width, height int32) {
	fnSetWindowSize(w.Pointer(), width, height)
}

func (g *GLFW) GetFramebufferSize(w handle.Window) (width, height int32) {
	fnGetFramebufferSize(w.Pointer(), &width, &height)
	return width, height
}

func (g *GLFW) GetWindowContentScale(w handle.Window) (x, y float32) {
	fnGetWindowContentScale(w.Pointer(), &x, &y)
	return x, y
}

func (g *GLFW) ShowWindow(w handle.Window)     { fnShowWindow(w.Pointer()) }
func (g *GLFW) HideWindow(w handle.Window)     { fnHideWindow(w.Pointer()) }
func (g *GLFW) FocusWindow(w handle.Window)    { fnFocusWindow(w.Pointer()) }
func (g *GLFW) IconifyWindow(w handle.Window)  { fnIconifyWindow(w.Pointer()) }
func (g *GLFW) RestoreWindow(w handle.Window)  { fnRestoreWindow(w.Pointer()) }
func (g *GLFW) MaximizeWindow(w handle.Window) { fnMaximizeWindow(w.Pointer()) }

func (g *GLFW) GetWindowAttrib(w handle.Window, attrib int32) int32 {
	return fnGetWindowAttrib(w.Pointer(), attrib)
}

func (g *GLFW) GetWindowMonitor(w handle.Window) handle.Monitor {
	return handle.NewMonitor(fnGetWindowMonitor(w.Pointer()))
}

func (g *GLFW) MakeContextCurrent(w handle.Window) { fnMakeContextCurrent(w.Pointer()) }
func (g *GLFW) GetCurrentContext() handle.Window   { return handle.NewWindow(fnGetCurrentContext()) }
func (g *GLFW) SwapBuffers(w handle.Window)        { fnSwapBuffers(w.Pointer()) }
func (g *GLFW) SwapInterval(interval int32)        { fnSwapInterval(interval) }

// GetNativeContext picks the getter matching the window's context creation API.
func (g *GLFW) GetNativeContext(w handle.Window) handle.Context {
	if fnGetWindowAttrib(w.Pointer(), ClientAPI) == NoAPI {
		return handle.Context{}
	}
	switch fnGetWindowAttrib(w.Pointer(), ContextAPI) {
	case EGLContextAPI:
		if fnGetEGLContext != nil {
			return handle.NewContext(fnGetEGLContext(w.Pointer()), handle.PlatformEGL)
		}
	case OSMesaContextAPI:
		if fnGetOSMesaContext != nil {
			return handle.NewContext(fnGetOSMesaContext(w.Pointer()), handle.PlatformOSMesa)
		}
	default:
		if fnGetPlatformContext != nil {
			return handle.NewContext(fnGetPlatformContext(w.Pointer()), g.contextPlatform)
		}
	}
	return handle.Context{}
}

func (g *GLFW) GetKey(w handle.Window, key int32) int32 { return fnGetKey(w.Pointer(), key) }
func (g *GLFW) GetKeyName(key, scancode int32) string   { return fnGetKeyName(key, scancode) }

func (g *GLFW) GetMouseButton(w handle.Window, button int32) int32 {
	return fnGetMouseButton(w.Pointer(), button)
}

func (g *GLFW) GetCursorPos(w handle.Window) (x, y float64) {
	fnGetCursorPos(w.Pointer(), &x, &y)
	return x, y
}

func (g *GLFW) SetCursorPos(w handle.Window, x, y float64) { fnSetCursorPos(w.Pointer(), x, y) }

func (g *GLFW) GetInputMode(w handle.Window, mode int32) int32 {
	return fnGetInputMode(w.Pointer(), mode)
}

func (g *GLFW) SetInputMode(w handle.Window, mode, value int32) {
	fnSetInputMode(w.Pointer(), mode, value)
}

func (g *GLFW) CreateStandardCursor(shape int32) handle.Cursor {
	return handle.NewCursor(fnCreateStandardCursor(shape))
}

func (g *GLFW) DestroyCursor(c handle.Cursor)              { fnDestroyCursor(c.Pointer()) }
func (g *GLFW) SetCursor(w handle.Window, c handle.Cursor) { fnSetCursor(w.Pointer(), c.Pointer()) }
func (g *GLFW) GetClipboardString(w handle.Window) string  { return fnGetClipboardString(w.Pointer()) }

func (g *GLFW) SetClipboardString(w handle.Window, s string) {
	fnSetClipboardString(w.Pointer(), s)
}

func (g *GLFW) GetMonitors() []handle.Monitor {
	var count int32
	ptrs := cArray[uintptr](fnGetMonitors(&count), count)
	monitors := make([]handle.Monitor, len(ptrs))
	for i, p := range ptrs {
		monitors[i] = handle.NewMonitor(p)
	}
	return monitors
}

func (g *GLFW) GetPrimaryMonitor() handle.Monitor {
	return handle.NewMonitor(fnGetPrimaryMonitor())
}

func (g *GLFW) GetMonitorName(m handle.Monitor) string { return fnGetMonitorName(m.Pointer()) }

func (g *GLFW) GetMonitorPos(m handle.Monitor) (x, y int32) {
	fnGetMonitorPos(m.Pointer(), &x, &y)
	return x, y
}

func (g *GLFW) GetMonitorWorkarea(m handle.Monitor) Rect {
	var r Rect
	fnGetMonitorWorkarea(m.Pointer(), &r.X, &r.Y, &r.Width, &r.Height)
	return r
}

func (g *GLFW) GetMonitorPhysicalSize(m handle.Monitor) (widthMM, heightMM int32) {
	fnGetMonitorPhysicalSize(m.Pointer(), &widthMM, &heightMM)
	return widthMM, heightMM
}

func (g *GLFW) GetMonitorContentScale(m handle.Monitor) (x, y float32) {
	fnGetMonitorContentScale(m.Pointer(), &x, &y)
	return x, y
}

func (g *GLFW) GetVideoMode(m handle.Monitor) (VideoMode, bool) {
	modes := cArray[VideoMode](fnGetVideoMode(m.Pointer()), 1)
	if len(modes) == 0 {
		return VideoMode{}, false
	}
	return modes[0], true
}

func (g *GLFW) JoystickPresent(jid int32) bool   { return fnJoystickPresent(jid) == True }
func (g *GLFW) GetJoystickName(jid int32) string { return fnGetJoystickName(jid) }
func (g *GLFW) GetJoystickGUID(jid int32) string { return fnGetJoystickGUID(jid) }
func (g *GLFW) JoystickIsGamepad(jid int32) bool { return fnJoystickIsGamepad(jid) == True }
func (g *GLFW) GetGamepadName(jid int32) string  { return fnGetGamepadName(jid) }

func (g *GLFW) GetJoystickAxes(jid int32) []float32 {
	var count int32
	return cArray[float32](fnGetJoystickAxes(jid, &count), count)
}

func (g *GLFW) GetJoystickButtons(jid int32) []byte {
	var count int32
	return cArray[byte](fnGetJoystickButtons(jid, &count), count)
}

func (g *GLFW) GetJoystickHats(jid int32) []byte {
	var count int32
	return cArray[byte](fnGetJoystickHats(jid, &count), count)
}

func (g *GLFW) GetGamepadState(jid int32) (GamepadState, bool) {
	var state GamepadState
	ok := fnGetGamepadState(jid, &state) == True
	return state, ok
}

func (g *GLFW) VulkanSupported() bool { return fnVulkanSupported() == True }

func (g *GLFW) GetRequiredInstanceExtensions() []string {
	var count uint32
	return goStrings(fnGetRequiredInstanceExtensions(&count), int(count))
}
