package glfw

import (
	"fmt"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/native"
)

// VideoMode is a monitor's display mode.
type VideoMode struct {
	Width, Height int
	RedBits       int
	GreenBits     int
	BlueBits      int
	RefreshRate   int
}

// Rect is an area in screen coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// Monitor wraps a native monitor handle. Two wrappers for the same monitor
// have equal handles.
type Monitor struct {
	rt *Runtime
	h  handle.Monitor
}

// MonitorInfo is a snapshot of everything queryable about a monitor.
type MonitorInfo struct {
	Name     string
	X, Y     int
	Mode     VideoMode
	Workarea Rect
	WidthMM  int
	HeightMM int
	ScaleX   float32
	ScaleY   float32
	Primary  bool
}

// Monitors returns the connected monitors, primary first.
func (r *Runtime) Monitors() ([]*Monitor, error) {
	var hs []handle.Monitor
	if err := r.call("get monitors", func() { hs = r.lib.GetMonitors() }); err != nil {
		return nil, err
	}
	out := make([]*Monitor, len(hs))
	for i, h := range hs {
		out[i] = &Monitor{rt: r, h: h}
	}
	return out, nil
}

// PrimaryMonitor returns the user's primary monitor, or nil when none is
// connected.
func (r *Runtime) PrimaryMonitor() (*Monitor, error) {
	var h handle.Monitor
	if err := r.call("get primary monitor", func() { h = r.lib.GetPrimaryMonitor() }); err != nil {
		return nil, err
	}
	if h.IsNone() {
		return nil, nil
	}
	return &Monitor{rt: r, h: h}, nil
}

func (m *Monitor) Handle() handle.Monitor { return m.h }

func (m *Monitor) String() string { return "monitor " + m.h.String() }

func monitorGet[T any](m *Monitor, op string, fn func(lib native.Library, h handle.Monitor) T) (T, error) {
	var v T
	err := m.rt.call(op, func() { v = fn(m.rt.lib, m.h) })
	return v, err
}

func (m *Monitor) Name() (string, error) {
	return monitorGet(m, "get monitor name", native.Library.GetMonitorName)
}

func (m *Monitor) Pos() (x, y int, err error) {
	err = m.rt.call("get monitor position", func() {
		px, py := m.rt.lib.GetMonitorPos(m.h)
		x, y = int(px), int(py)
	})
	return x, y, err
}

func (m *Monitor) Workarea() (Rect, error) {
	r, err := monitorGet(m, "get monitor workarea", native.Library.GetMonitorWorkarea)
	return Rect{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)}, err
}

func (m *Monitor) PhysicalSize() (widthMM, heightMM int, err error) {
	err = m.rt.call("get monitor physical size", func() {
		w, h := m.rt.lib.GetMonitorPhysicalSize(m.h)
		widthMM, heightMM = int(w), int(h)
	})
	return widthMM, heightMM, err
}

func (m *Monitor) ContentScale() (x, y float32, err error) {
	err = m.rt.call("get monitor content scale", func() {
		x, y = m.rt.lib.GetMonitorContentScale(m.h)
	})
	return x, y, err
}

// VideoMode returns the current mode. A monitor that disconnected since it
// was enumerated has none.
func (m *Monitor) VideoMode() (VideoMode, error) {
	var (
		mode native.VideoMode
		ok   bool
	)
	if err := m.rt.call("get video mode", func() { mode, ok = m.rt.lib.GetVideoMode(m.h) }); err != nil {
		return VideoMode{}, err
	}
	if !ok {
		return VideoMode{}, fmt.Errorf("get video mode: %s: %w", m, ErrNoneHandle)
	}
	return VideoMode{
		Width:       int(mode.Width),
		Height:      int(mode.Height),
		RedBits:     int(mode.RedBits),
		GreenBits:   int(mode.GreenBits),
		BlueBits:    int(mode.BlueBits),
		RefreshRate: int(mode.RefreshRate),
	}, nil
}

// Info queries every property of the monitor.
func (m *Monitor) Info() (MonitorInfo, error) {
	var info MonitorInfo
	var err error
	if info.Name, err = m.Name(); err != nil {
		return info, err
	}
	if info.X, info.Y, err = m.Pos(); err != nil {
		return info, err
	}
	if info.Mode, err = m.VideoMode(); err != nil {
		return info, err
	}
	if info.Workarea, err = m.Workarea(); err != nil {
		return info, err
	}
	if info.WidthMM, info.HeightMM, err = m.PhysicalSize(); err != nil {
		return info, err
	}
	if info.ScaleX, info.ScaleY, err = m.ContentScale(); err != nil {
		return info, err
	}
	primary, err := m.rt.PrimaryMonitor()
	if err != nil {
		return info, err
	}
	info.Primary = primary != nil && primary.h == m.h
	return info, nil
}
