// Package display keeps a snapshot of the monitor layout and answers
// geometry questions about it: which monitor holds a point, which edge a
// point is near, where to center a window.
package display

import (
	"fmt"
	"sync"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/logger"
)

// Monitor is one display in global screen coordinates.
type Monitor struct {
	Handle      handle.Monitor
	Name        string
	X           int
	Y           int
	Width       int
	Height      int
	RefreshRate int
	Workarea    glfw.Rect
	Primary     bool
	Scale       float32
}

// Bounds returns the monitor's boundaries
func (m *Monitor) Bounds() (x1, y1, x2, y2 int) {
	return m.X, m.Y, m.X + m.Width, m.Y + m.Height
}

// Contains checks if a point is within this monitor
func (m *Monitor) Contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

func (m *Monitor) String() string {
	return fmt.Sprintf("%s %dx%d+%d+%d", m.Name, m.Width, m.Height, m.X, m.Y)
}

func fromInfo(h handle.Monitor, info glfw.MonitorInfo) *Monitor {
	return &Monitor{
		Handle:      h,
		Name:        info.Name,
		X:           info.X,
		Y:           info.Y,
		Width:       info.Mode.Width,
		Height:      info.Mode.Height,
		RefreshRate: info.Mode.RefreshRate,
		Workarea:    info.Workarea,
		Primary:     info.Primary,
		Scale:       info.ScaleX,
	}
}

// Layout is the set of connected monitors. It can follow connection changes
// through Watch.
type Layout struct {
	rt *glfw.Runtime

	mu       sync.RWMutex
	monitors []*Monitor
	sub      event.Subscription
}

// NewLayout reads the current monitors from rt.
func NewLayout(rt *glfw.Runtime) (*Layout, error) {
	logger.Debug("display.NewLayout: reading monitors")
	l := &Layout{rt: rt}
	if err := l.Refresh(); err != nil {
		return nil, err
	}
	return l, nil
}

// Refresh re-reads every monitor.
func (l *Layout) Refresh() error {
	handles, err := l.rt.Monitors()
	if err != nil {
		return fmt.Errorf("refresh layout: %w", err)
	}

	monitors := make([]*Monitor, 0, len(handles))
	for _, m := range handles {
		info, err := m.Info()
		if err != nil {
			return fmt.Errorf("refresh layout: %s: %w", m, err)
		}
		monitors = append(monitors, fromInfo(m.Handle(), info))
	}
	determinePrimaryMonitor(monitors)

	l.mu.Lock()
	l.monitors = monitors
	l.mu.Unlock()
	logger.Debugf("display: %d monitor(s)", len(monitors))
	return nil
}

// Watch refreshes the layout whenever a monitor is connected or
// disconnected. Calling it twice has no further effect.
func (l *Layout) Watch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sub.Valid() {
		return
	}
	l.sub = l.rt.MonitorChanged.Subscribe(func(a glfw.MonitorArgs) {
		logger.Info("Monitor configuration changed", "monitor", a.Monitor, "state", a.State)
		if err := l.Refresh(); err != nil {
			logger.Warn("Failed to refresh monitor layout", "error", err)
		}
	})
}

// Close stops watching for changes.
func (l *Layout) Close() {
	l.mu.Lock()
	sub := l.sub
	l.sub = event.Subscription{}
	l.mu.Unlock()
	sub.Unsubscribe()
}

// Monitors returns all detected monitors
func (l *Layout) Monitors() []*Monitor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Monitor, len(l.monitors))
	copy(out, l.monitors)
	return out
}

// Primary returns the primary monitor
func (l *Layout) Primary() *Monitor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, m := range l.monitors {
		if m.Primary {
			return m
		}
	}
	return nil
}

// MonitorAt returns the monitor containing the given coordinates
func (l *Layout) MonitorAt(x, y int) *Monitor {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, m := range l.monitors {
		if m.Contains(x, y) {
			return m
		}
	}
	return nil
}

// Bounds returns the rectangle enclosing every monitor.
func (l *Layout) Bounds() glfw.Rect {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.monitors) == 0 {
		return glfw.Rect{}
	}
	x1, y1, x2, y2 := l.monitors[0].Bounds()
	for _, m := range l.monitors[1:] {
		mx1, my1, mx2, my2 := m.Bounds()
		x1, y1 = min(x1, mx1), min(y1, my1)
		x2, y2 = max(x2, mx2), max(y2, my2)
	}
	return glfw.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Edge determines which edge of its monitor a point is near
func (l *Layout) Edge(x, y, threshold int) Edge {
	monitor := l.MonitorAt(x, y)
	if monitor == nil {
		return EdgeNone
	}

	x1, y1, x2, y2 := monitor.Bounds()

	if x-x1 < threshold {
		return EdgeLeft
	}
	if x2-x < threshold {
		return EdgeRight
	}
	if y-y1 < threshold {
		return EdgeTop
	}
	if y2-y < threshold {
		return EdgeBottom
	}

	return EdgeNone
}

// Center returns the position that centers a width x height window in the
// primary monitor's workarea. ok is false when no monitor is connected.
func (l *Layout) Center(width, height int) (x, y int, ok bool) {
	m := l.Primary()
	if m == nil {
		return 0, 0, false
	}
	area := m.Workarea
	if area.Width == 0 || area.Height == 0 {
		area = glfw.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
	}
	return area.X + (area.Width-width)/2, area.Y + (area.Height-height)/2, true
}

// Edge represents screen edges
type Edge int

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
	EdgeTop
	EdgeBottom
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	default:
		return "none"
	}
}

// determinePrimaryMonitor keeps exactly one primary monitor. The one the
// library names wins, then the monitor at (0,0), then the first.
func determinePrimaryMonitor(monitors []*Monitor) {
	primary := -1
	for i, m := range monitors {
		if m.Primary && primary < 0 {
			primary = i
		}
		m.Primary = false
	}

	if primary < 0 {
		for i, m := range monitors {
			if m.X == 0 && m.Y == 0 {
				primary = i
				break
			}
		}
	}

	if primary < 0 && len(monitors) > 0 {
		primary = 0
	}
	if primary >= 0 {
		monitors[primary].Primary = true
	}
}
