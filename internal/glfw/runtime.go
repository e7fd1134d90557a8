// Package glfw wraps the handle-based native windowing API in Go objects.
//
// A Runtime owns the process-wide library state. Windows created through it
// register one callback per category with the native library and fan each
// callback out to multi-subscriber events. All events are raised on the
// goroutine that pumps the runtime, synchronously, before the pump call
// returns.
package glfw

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/native"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithPanicHandler replaces the default handler, which logs listener panics.
func WithPanicHandler(h event.PanicHandler) Option {
	return func(r *Runtime) {
		r.onPanic = h
	}
}

// Runtime is the explicit process-wide owner of the native library. Only
// one Runtime should drive a given library at a time.
type Runtime struct {
	lib     native.Library
	onPanic event.PanicHandler

	mu           sync.Mutex
	initialized  bool
	pending      *Error
	dispatchErrs []error
	windows      map[handle.Window]*Window

	// Errors is raised for every error the native library reports
	Errors *event.Event[ErrorArgs]
	// MonitorChanged is raised when a monitor is connected or disconnected
	MonitorChanged *event.Event[MonitorArgs]
	// JoystickChanged is raised when a joystick is connected or disconnected
	JoystickChanged *event.Event[JoystickArgs]

	errorShim    native.ErrorFunc
	monitorShim  native.MonitorFunc
	joystickShim native.JoystickFunc
}

// New wraps lib. The error callback is installed immediately, since the
// native library accepts it before initialization.
func New(lib native.Library, opts ...Option) *Runtime {
	r := &Runtime{
		lib:     lib,
		windows: make(map[handle.Window]*Window),
		onPanic: logPanic,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Errors = event.New[ErrorArgs]("errors", r.eventOptions()...)
	r.MonitorChanged = event.New[MonitorArgs]("monitor", r.eventOptions()...)
	r.JoystickChanged = event.New[JoystickArgs]("joystick", r.eventOptions()...)

	r.errorShim = r.onError
	r.monitorShim = r.onMonitor
	r.joystickShim = r.onJoystick
	lib.SetErrorCallback(r.errorShim)
	return r
}

func logPanic(p *event.ListenerPanic) {
	logger.Error("Listener panicked", "event", p.Event, "panic", p.Value)
	logger.Debug(string(p.Stack))
}

func (r *Runtime) eventOptions() []event.Option {
	return []event.Option{event.WithPanicHandler(r.onPanic)}
}

// Library returns the wrapped native library.
func (r *Runtime) Library() native.Library { return r.lib }

func (r *Runtime) onError(code int32, description string) {
	err := &Error{Code: ErrorCode(code), Description: description}
	r.mu.Lock()
	r.pending = err
	r.mu.Unlock()

	logger.Debug("Native error", "code", err.Code, "description", description)
	_, dispatchErr := r.Errors.Dispatch(ErrorArgs{Err: err})
	r.collect(dispatchErr)
}

func (r *Runtime) onMonitor(m handle.Monitor, state int32) {
	args := MonitorArgs{Monitor: &Monitor{rt: r, h: m}, State: input.ConnectionState(state)}
	logger.Debug("Monitor changed", "monitor", m, "state", args.State)
	_, err := r.MonitorChanged.Dispatch(args)
	r.collect(err)
}

func (r *Runtime) onJoystick(jid, state int32) {
	args := JoystickArgs{Joystick: r.Joystick(input.Joystick(jid)), State: input.ConnectionState(state)}
	logger.Debug("Joystick changed", "joystick", args.Joystick.ID(), "state", args.State)
	_, err := r.JoystickChanged.Dispatch(args)
	r.collect(err)
}

// collect keeps listener failures raised during a pump call so the pump can
// return them.
func (r *Runtime) collect(err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.dispatchErrs = append(r.dispatchErrs, err)
	r.mu.Unlock()
}

// check returns and clears the error recorded since the last check,
// wrapped with the operation name.
func (r *Runtime) check(op string) error {
	r.mu.Lock()
	err := r.pending
	r.pending = nil
	r.mu.Unlock()
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *Runtime) ready() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return ErrNotInitialized
	}
	return nil
}

// call runs fn against the initialized library and reports any error it
// raised.
func (r *Runtime) call(op string, fn func()) error {
	if err := r.ready(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	fn()
	return r.check(op)
}

// Init initializes the native library and installs the monitor and
// joystick callbacks.
func (r *Runtime) Init() error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return ErrAlreadyInitialized
	}
	r.pending = nil
	r.mu.Unlock()

	if !r.lib.Init() {
		if err := r.check("init"); err != nil {
			return err
		}
		return fmt.Errorf("init: %w", ErrPlatform)
	}
	if err := r.check("init"); err != nil {
		logger.Warn("Native library reported an error during init", "error", err)
	}

	r.mu.Lock()
	r.initialized = true
	r.mu.Unlock()

	r.lib.SetMonitorCallback(r.monitorShim)
	r.lib.SetJoystickCallback(r.joystickShim)

	major, minor, rev := r.lib.Version()
	logger.Info("Initialized windowing library", "version", fmt.Sprintf("%d.%d.%d", major, minor, rev))
	return nil
}

// Initialized reports whether Init succeeded and Terminate has not run.
func (r *Runtime) Initialized() bool {
	return r.ready() == nil
}

// Terminate destroys every remaining window, removes the library-wide
// callbacks and shuts the native library down.
func (r *Runtime) Terminate() error {
	if err := r.ready(); err != nil {
		return err
	}

	var errs []error
	for _, w := range r.Windows() {
		if err := w.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}

	r.lib.SetMonitorCallback(nil)
	r.lib.SetJoystickCallback(nil)
	r.lib.Terminate()

	r.mu.Lock()
	r.initialized = false
	r.pending = nil
	r.mu.Unlock()
	logger.Debug("Windowing library terminated")
	return errors.Join(errs...)
}

// Close removes the error callback. The runtime must not be used afterwards.
func (r *Runtime) Close() error {
	var err error
	if r.Initialized() {
		err = r.Terminate()
	}
	r.lib.SetErrorCallback(nil)
	r.Errors.Close()
	r.MonitorChanged.Close()
	r.JoystickChanged.Close()
	return err
}

// Windows returns the live windows in no particular order.
func (r *Runtime) Windows() []*Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Window, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w)
	}
	return out
}

// Lookup returns the live window for h.
func (r *Runtime) Lookup(h handle.Window) (*Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[h]
	return w, ok
}

func (r *Runtime) forget(w *Window) {
	r.mu.Lock()
	delete(r.windows, w.h)
	r.mu.Unlock()
}

// pump runs one native pump call and returns native errors joined with
// listener failures raised while it ran.
func (r *Runtime) pump(op string, fn func()) error {
	r.mu.Lock()
	r.dispatchErrs = nil
	r.mu.Unlock()

	err := r.call(op, fn)

	r.mu.Lock()
	dispatchErrs := r.dispatchErrs
	r.dispatchErrs = nil
	r.mu.Unlock()
	return errors.Join(append([]error{err}, dispatchErrs...)...)
}

// PollEvents processes pending events and returns immediately.
func (r *Runtime) PollEvents() error {
	return r.pump("poll events", r.lib.PollEvents)
}

// WaitEvents blocks until at least one event arrives, then processes it.
func (r *Runtime) WaitEvents() error {
	return r.pump("wait events", r.lib.WaitEvents)
}

// WaitEventsTimeout blocks for at most d.
func (r *Runtime) WaitEventsTimeout(d time.Duration) error {
	return r.pump("wait events", func() { r.lib.WaitEventsTimeout(d.Seconds()) })
}

// PostEmptyEvent wakes a blocked WaitEvents. It may be called from any
// goroutine.
func (r *Runtime) PostEmptyEvent() error {
	return r.call("post empty event", r.lib.PostEmptyEvent)
}

// Time returns the library timer in seconds.
func (r *Runtime) Time() (float64, error) {
	var t float64
	err := r.call("get time", func() { t = r.lib.GetTime() })
	return t, err
}

// Version returns the native library version string.
func (r *Runtime) Version() string {
	return r.lib.VersionString()
}

// LastError returns the native library's last-error state, clearing it.
func (r *Runtime) LastError() error {
	code, desc := r.lib.GetError()
	if code == native.NoError {
		return nil
	}
	return &Error{Code: ErrorCode(code), Description: desc}
}

// SwapInterval sets the swap interval of the current context.
func (r *Runtime) SwapInterval(interval int) error {
	return r.call("swap interval", func() { r.lib.SwapInterval(int32(interval)) })
}

// CurrentContext returns the window whose context is current, or nil.
func (r *Runtime) CurrentContext() (*Window, error) {
	var h handle.Window
	if err := r.call("get current context", func() { h = r.lib.GetCurrentContext() }); err != nil {
		return nil, err
	}
	w, _ := r.Lookup(h)
	return w, nil
}

// VulkanSupported reports whether a Vulkan loader and ICD were found.
func (r *Runtime) VulkanSupported() (bool, error) {
	var ok bool
	err := r.call("vulkan supported", func() { ok = r.lib.VulkanSupported() })
	return ok, err
}

// RequiredInstanceExtensions lists the Vulkan instance extensions needed to
// create window surfaces.
func (r *Runtime) RequiredInstanceExtensions() ([]string, error) {
	var exts []string
	err := r.call("required instance extensions", func() { exts = r.lib.GetRequiredInstanceExtensions() })
	return exts, err
}

// KeyName returns the layout-specific name of a printable key.
func (r *Runtime) KeyName(key input.Key, scancode int) (string, error) {
	var name string
	err := r.call("get key name", func() { name = r.lib.GetKeyName(int32(key), int32(scancode)) })
	return name, err
}
