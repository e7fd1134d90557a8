package display

import (
	"testing"

	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/native"
	"github.com/bnema/nativewindow/internal/native/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mode1080 = native.VideoMode{Width: 1920, Height: 1080, RefreshRate: 60}

func newLayout(t *testing.T, specs ...sim.MonitorSpec) (*Layout, *glfw.Runtime, *sim.Sim) {
	t.Helper()
	s := sim.New(sim.WithMonitors(specs...))
	rt := glfw.New(s)
	require.NoError(t, rt.Init())
	t.Cleanup(func() { _ = rt.Close() })

	l, err := NewLayout(rt)
	require.NoError(t, err)
	return l, rt, s
}

func TestPrimaryMonitorDetermination(t *testing.T) {
	tests := []struct {
		name            string
		monitors        []*Monitor
		expectedPrimary string
	}{
		{
			name: "library primary wins",
			monitors: []*Monitor{
				{Name: "Monitor1", X: 0, Y: 0, Width: 1920, Height: 1080},
				{Name: "Monitor2", X: 1920, Y: 0, Width: 1920, Height: 1080, Primary: true},
			},
			expectedPrimary: "Monitor2",
		},
		{
			name: "monitor at 0,0 when none is flagged",
			monitors: []*Monitor{
				{Name: "Monitor1", X: -1920, Y: 0, Width: 1920, Height: 1080},
				{Name: "Monitor2", X: 0, Y: 0, Width: 1920, Height: 1080},
			},
			expectedPrimary: "Monitor2",
		},
		{
			name: "first monitor fallback",
			monitors: []*Monitor{
				{Name: "Monitor1", X: -1920, Y: 0, Width: 1920, Height: 1080},
				{Name: "Monitor2", X: 1920, Y: 0, Width: 1920, Height: 1080},
			},
			expectedPrimary: "Monitor1",
		},
		{
			name: "only one primary survives",
			monitors: []*Monitor{
				{Name: "Monitor1", X: 0, Y: 0, Width: 1920, Height: 1080, Primary: true},
				{Name: "Monitor2", X: 1920, Y: 0, Width: 1920, Height: 1080, Primary: true},
			},
			expectedPrimary: "Monitor1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			determinePrimaryMonitor(tt.monitors)

			var primary []string
			for _, m := range tt.monitors {
				if m.Primary {
					primary = append(primary, m.Name)
				}
			}
			assert.Equal(t, []string{tt.expectedPrimary}, primary)
		})
	}

	t.Run("empty", func(t *testing.T) {
		assert.NotPanics(t, func() { determinePrimaryMonitor(nil) })
	})
}

func TestLayoutGeometry(t *testing.T) {
	l, _, _ := newLayout(t,
		sim.MonitorSpec{Name: "LEFT", X: 0, Y: 0, Mode: mode1080, ScaleX: 1, ScaleY: 1, WorkareaInsetTop: 40},
		sim.MonitorSpec{Name: "RIGHT", X: 1920, Y: 0, Mode: mode1080, ScaleX: 2, ScaleY: 2},
	)

	monitors := l.Monitors()
	require.Len(t, monitors, 2)
	assert.Equal(t, "LEFT", l.Primary().Name)
	assert.Equal(t, float32(2), monitors[1].Scale)
	assert.Equal(t, glfw.Rect{X: 0, Y: 40, Width: 1920, Height: 1040}, monitors[0].Workarea)

	assert.Equal(t, "RIGHT", l.MonitorAt(2000, 10).Name)
	assert.Nil(t, l.MonitorAt(-1, 0))
	assert.Equal(t, glfw.Rect{Width: 3840, Height: 1080}, l.Bounds())

	x, y, ok := l.Center(800, 600)
	require.True(t, ok)
	assert.Equal(t, 560, x)
	assert.Equal(t, 40+220, y)
}

func TestEdge(t *testing.T) {
	l, _, _ := newLayout(t, sim.MonitorSpec{Name: "ONLY", Mode: mode1080})

	tests := []struct {
		x, y int
		want Edge
	}{
		{2, 500, EdgeLeft},
		{1918, 500, EdgeRight},
		{900, 3, EdgeTop},
		{900, 1077, EdgeBottom},
		{900, 500, EdgeNone},
		{5000, 500, EdgeNone},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, l.Edge(tt.x, tt.y, 5))
		})
	}
}

func TestWatchFollowsConnections(t *testing.T) {
	l, rt, s := newLayout(t, sim.MonitorSpec{Name: "A", Mode: mode1080})
	l.Watch()
	l.Watch()

	h := s.ConnectMonitor(sim.MonitorSpec{Name: "B", X: 1920, Mode: mode1080})
	assert.Len(t, l.Monitors(), 1, "layout changes only when the event is delivered")
	require.NoError(t, rt.PollEvents())
	require.Len(t, l.Monitors(), 2)
	assert.Equal(t, "B", l.MonitorAt(1920, 0).Name)

	s.DisconnectMonitor(h)
	require.NoError(t, rt.PollEvents())
	assert.Len(t, l.Monitors(), 1)

	l.Close()
	s.ConnectMonitor(sim.MonitorSpec{Name: "C", X: -1920, Mode: mode1080})
	require.NoError(t, rt.PollEvents())
	assert.Len(t, l.Monitors(), 1)
	assert.Zero(t, rt.MonitorChanged.Len(), "layout listener removed")
}

func TestEmptyLayout(t *testing.T) {
	l, _, _ := newLayout(t)
	assert.Empty(t, l.Monitors())
	assert.Nil(t, l.Primary())
	assert.Equal(t, glfw.Rect{}, l.Bounds())
	_, _, ok := l.Center(10, 10)
	assert.False(t, ok)
}
