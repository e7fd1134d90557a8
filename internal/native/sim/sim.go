// Package sim is an in-memory implementation of native.Library. It keeps
// window, monitor and joystick state in Go, queues posted events until the
// next pump call and reports errors the way GLFW does.
package sim

import (
	"sync"
	"time"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/native"
	"github.com/eapache/queue"
)

// MonitorSpec describes a simulated display.
type MonitorSpec struct {
	Name             string
	X, Y             int32
	Mode             native.VideoMode
	WidthMM          int32
	HeightMM         int32
	ScaleX, ScaleY   float32
	WorkareaInsetTop int32
}

// DefaultMonitor is a single 1080p display at the origin.
var DefaultMonitor = MonitorSpec{
	Name:     "SIM-1",
	Mode:     native.VideoMode{Width: 1920, Height: 1080, RedBits: 8, GreenBits: 8, BlueBits: 8, RefreshRate: 60},
	WidthMM:  527,
	HeightMM: 296,
	ScaleX:   1,
	ScaleY:   1,
}

// Option configures a Sim.
type Option func(*Sim)

// WithMonitors replaces the default monitor set. The first one is primary.
func WithMonitors(specs ...MonitorSpec) Option {
	return func(s *Sim) {
		s.initialMonitors = specs
	}
}

// WithVulkan reports Vulkan as available with the given instance extensions.
func WithVulkan(extensions ...string) Option {
	return func(s *Sim) {
		s.vulkan = true
		s.extensions = extensions
	}
}

// WithClipboard seeds the clipboard.
func WithClipboard(text string) Option {
	return func(s *Sim) {
		s.clipboard = text
	}
}

type monitor struct {
	ptr  uintptr
	spec MonitorSpec
}

// Sim simulates the native library. The zero value is not usable; call New.
type Sim struct {
	mu          sync.Mutex
	initialized bool
	start       time.Time
	nextPtr     uintptr

	errCode int32
	errDesc string

	errorCb    native.ErrorFunc
	monitorCb  native.MonitorFunc
	joystickCb native.JoystickFunc

	pending *queue.Queue
	wake    chan struct{}

	hints   map[int32]int32
	windows map[uintptr]*window
	current uintptr

	initialMonitors []MonitorSpec
	monitors        []*monitor
	joysticks       [16]*joystick
	cursors         map[uintptr]int32

	clipboard  string
	vulkan     bool
	extensions []string

	// DestroyHook, when set, runs at the start of DestroyWindow with the
	// categories that still have a callback registered for w.
	DestroyHook func(w handle.Window, registered []string)
}

// New creates a simulator. It starts uninitialized, like the real library.
func New(opts ...Option) *Sim {
	s := &Sim{
		nextPtr:         0x1000,
		pending:         queue.New(),
		wake:            make(chan struct{}, 1),
		windows:         make(map[uintptr]*window),
		cursors:         make(map[uintptr]int32),
		initialMonitors: []MonitorSpec{DefaultMonitor},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetHints()
	return s
}

// allocPtr hands out fake native addresses. Caller holds mu.
func (s *Sim) allocPtr() uintptr {
	p := s.nextPtr
	s.nextPtr += 0x10
	return p
}

func (s *Sim) Init() bool {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return true
	}
	s.initialized = true
	s.start = time.Now()
	s.errCode, s.errDesc = native.NoError, ""
	s.monitors = s.monitors[:0]
	for _, spec := range s.initialMonitors {
		s.monitors = append(s.monitors, &monitor{ptr: s.allocPtr(), spec: spec})
	}
	s.mu.Unlock()
	logger.Debug("Simulator initialized")
	return true
}

// Terminate destroys every remaining window and cursor and drops queued
// events. Callbacks registered on the library itself survive, as in GLFW.
func (s *Sim) Terminate() {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = false
	s.windows = make(map[uintptr]*window)
	s.cursors = make(map[uintptr]int32)
	s.monitors = nil
	s.joysticks = [16]*joystick{}
	s.current = 0
	for s.pending.Length() > 0 {
		s.pending.Remove()
	}
	s.mu.Unlock()
	s.resetHints()
}

func (s *Sim) Version() (major, minor, rev int32) { return 3, 4, 0 }

func (s *Sim) VersionString() string { return "3.4.0 sim" }

// Initialized reports whether Init has been called without a matching Terminate.
func (s *Sim) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// GetError returns and clears the last error.
func (s *Sim) GetError() (int32, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, desc := s.errCode, s.errDesc
	s.errCode, s.errDesc = native.NoError, ""
	return code, desc
}

func (s *Sim) SetErrorCallback(fn native.ErrorFunc) native.ErrorFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.errorCb
	s.errorCb = fn
	return prev
}

// InjectError reports an error as if the native library had raised it.
func (s *Sim) InjectError(code int32, description string) {
	s.report(code, description)
}

// report records the error and invokes the error callback. Must be called
// without mu held.
func (s *Sim) report(code int32, description string) {
	s.mu.Lock()
	s.errCode, s.errDesc = code, description
	fn := s.errorCb
	s.mu.Unlock()
	if fn != nil {
		fn(code, description)
	}
}

// ready reports NotInitialized when the library is not initialized.
func (s *Sim) ready() bool {
	s.mu.Lock()
	ok := s.initialized
	s.mu.Unlock()
	if !ok {
		s.report(native.NotInitialized, "The GLFW library is not initialized")
	}
	return ok
}

// enqueue schedules fn for the next pump call and wakes a waiting pump.
func (s *Sim) enqueue(fn func()) {
	s.mu.Lock()
	s.pending.Add(fn)
	s.mu.Unlock()
	s.signal()
}

func (s *Sim) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued events.
func (s *Sim) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Length()
}

// PollEvents delivers every event queued before the call. Events queued by
// callbacks during delivery wait for the next pump.
func (s *Sim) PollEvents() {
	if !s.ready() {
		return
	}
	s.mu.Lock()
	n := s.pending.Length()
	batch := make([]func(), 0, n)
	for i := 0; i < n; i++ {
		batch = append(batch, s.pending.Remove().(func()))
	}
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
}

func (s *Sim) WaitEvents() {
	if !s.ready() {
		return
	}
	if s.Pending() == 0 {
		<-s.wake
	}
	s.drainWake()
	s.PollEvents()
}

func (s *Sim) WaitEventsTimeout(seconds float64) {
	if !s.ready() {
		return
	}
	if seconds < 0 {
		s.report(native.InvalidValue, "Invalid time")
		return
	}
	if s.Pending() == 0 {
		timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
		select {
		case <-s.wake:
		case <-timer.C:
		}
		timer.Stop()
	}
	s.drainWake()
	s.PollEvents()
}

func (s *Sim) drainWake() {
	select {
	case <-s.wake:
	default:
	}
}

// PostEmptyEvent wakes a blocked WaitEvents. Safe from any goroutine.
func (s *Sim) PostEmptyEvent() {
	if !s.ready() {
		return
	}
	s.signal()
}

func (s *Sim) GetTime() float64 {
	if !s.ready() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.start).Seconds()
}

func (s *Sim) VulkanSupported() bool {
	if !s.ready() {
		return false
	}
	return s.vulkan
}

func (s *Sim) GetRequiredInstanceExtensions() []string {
	if !s.ready() {
		return nil
	}
	if !s.vulkan {
		s.report(native.APIUnavailable, "Vulkan: Loader not found")
		return nil
	}
	return append([]string(nil), s.extensions...)
}

var _ native.Library = (*Sim)(nil)
