package sim

import (
	"testing"
	"time"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInitialized(t *testing.T, opts ...Option) *Sim {
	t.Helper()
	s := New(opts...)
	require.True(t, s.Init())
	t.Cleanup(s.Terminate)
	return s
}

func TestNotInitialized(t *testing.T) {
	s := New()

	var codes []int32
	s.SetErrorCallback(func(code int32, _ string) { codes = append(codes, code) })

	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))
	assert.True(t, w.IsNone())
	assert.Equal(t, []int32{native.NotInitialized}, codes)

	code, desc := s.GetError()
	assert.Equal(t, native.NotInitialized, code)
	assert.NotEmpty(t, desc)

	// GetError clears
	code, _ = s.GetError()
	assert.Equal(t, native.NoError, code)
}

func TestCreateWindowInvalidSize(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(0, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))
	assert.True(t, w.IsNone())
	code, _ := s.GetError()
	assert.Equal(t, native.InvalidValue, code)
}

func TestPollEventsOrder(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	var got []string
	s.SetKeyCallback(w, func(_ handle.Window, key, _, action, _ int32) {
		got = append(got, "key")
	})
	s.SetCursorPosCallback(w, func(_ handle.Window, x, y float64) {
		got = append(got, "cursor")
	})

	s.PostKey(w, 65, 38, 1, 0)
	s.PostCursorPos(w, 10, 20)
	s.PostKey(w, 65, 38, 0, 0)
	assert.Equal(t, 3, s.Pending())
	assert.Empty(t, got, "nothing is delivered before the pump")

	s.PollEvents()
	assert.Equal(t, []string{"key", "cursor", "key"}, got)
	assert.Equal(t, 0, s.Pending())

	x, y := s.GetCursorPos(w)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)
	assert.Equal(t, native.False, s.GetKey(w, 65))
}

func TestEventsQueuedDuringDeliveryWait(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	calls := 0
	s.SetWindowRefreshCallback(w, func(h handle.Window) {
		calls++
		if calls == 1 {
			s.PostRefresh(h)
		}
	})
	s.PostRefresh(w)
	s.PollEvents()
	assert.Equal(t, 1, calls)
	s.PollEvents()
	assert.Equal(t, 2, calls)
}

func TestCallbackSetterReturnsPrevious(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	first := func(handle.Window) {}
	assert.Nil(t, s.SetWindowCloseCallback(w, first))
	assert.NotNil(t, s.SetWindowCloseCallback(w, nil))
	assert.Nil(t, s.SetWindowCloseCallback(w, nil))
	assert.Empty(t, s.Registered(w))

	s.SetScrollCallback(w, func(handle.Window, float64, float64) {})
	s.SetDropCallback(w, func(handle.Window, []string) {})
	assert.Equal(t, []string{"drop", "scroll"}, s.Registered(w))
}

func TestEventsForDestroyedWindowAreDropped(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	called := false
	s.SetKeyCallback(w, func(handle.Window, int32, int32, int32, int32) { called = true })
	s.PostKey(w, 256, 9, 1, 0)

	var atDestroy []string
	s.DestroyHook = func(_ handle.Window, registered []string) { atDestroy = registered }
	s.DestroyWindow(w)
	s.PollEvents()

	assert.False(t, called)
	assert.False(t, s.Alive(w))
	assert.Equal(t, []string{"key"}, atDestroy)
	assert.Nil(t, s.Registered(w))
}

func TestDropBufferWipedAfterCallback(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	var kept []string
	s.SetDropCallback(w, func(_ handle.Window, paths []string) {
		assert.Equal(t, []string{"/tmp/a.txt", "/tmp/b.txt"}, paths)
		kept = paths
	})
	s.PostDrop(w, "/tmp/a.txt", "/tmp/b.txt")
	s.PollEvents()

	assert.Equal(t, []string{"", ""}, kept)
}

func TestCloseSetsFlagBeforeCallback(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	var seen bool
	s.SetWindowCloseCallback(w, func(h handle.Window) {
		seen = s.WindowShouldClose(h)
		s.SetWindowShouldClose(h, false)
	})
	s.PostClose(w)
	s.PollEvents()

	assert.True(t, seen)
	assert.False(t, s.WindowShouldClose(w))
}

func TestFocusLossReleasesKeys(t *testing.T) {
	s := newInitialized(t)
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	var actions []int32
	s.SetKeyCallback(w, func(_ handle.Window, _, _, action, _ int32) { actions = append(actions, action) })
	var focus []bool
	s.SetWindowFocusCallback(w, func(_ handle.Window, f bool) { focus = append(focus, f) })

	s.PostKey(w, 65, 0, 1, 0)
	s.PostFocus(w, false)
	s.PollEvents()

	assert.Equal(t, []int32{1, 0}, actions)
	assert.Equal(t, []bool{false}, focus)
	assert.Equal(t, native.False, s.GetWindowAttrib(w, native.Focused))
}

func TestWaitEventsTimeout(t *testing.T) {
	s := newInitialized(t)

	start := time.Now()
	s.WaitEventsTimeout(0.02)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	s.WaitEventsTimeout(-1)
	code, _ := s.GetError()
	assert.Equal(t, native.InvalidValue, code)
}

func TestPostEmptyEventWakesWait(t *testing.T) {
	s := newInitialized(t)

	done := make(chan struct{})
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.PostEmptyEvent()
		close(done)
	}()
	s.WaitEvents()
	<-done
}

func TestMonitors(t *testing.T) {
	s := newInitialized(t, WithMonitors(
		DefaultMonitor,
		MonitorSpec{Name: "SIM-2", X: 1920, Mode: native.VideoMode{Width: 2560, Height: 1440, RefreshRate: 144}, ScaleX: 1.5, ScaleY: 1.5},
	))

	monitors := s.GetMonitors()
	require.Len(t, monitors, 2)
	assert.Equal(t, monitors[0], s.GetPrimaryMonitor())
	assert.Equal(t, "SIM-2", s.GetMonitorName(monitors[1]))
	x, _ := s.GetMonitorPos(monitors[1])
	assert.Equal(t, int32(1920), x)
	mode, ok := s.GetVideoMode(monitors[1])
	assert.True(t, ok)
	assert.Equal(t, int32(144), mode.RefreshRate)

	var events []int32
	s.SetMonitorCallback(func(_ handle.Monitor, event int32) { events = append(events, event) })
	m := s.ConnectMonitor(MonitorSpec{Name: "SIM-3"})
	assert.Len(t, s.GetMonitors(), 3)
	assert.True(t, s.DisconnectMonitor(m))
	assert.False(t, s.DisconnectMonitor(m))
	s.PollEvents()
	assert.Equal(t, []int32{native.Connected, native.Disconnected}, events)

	_, ok = s.GetVideoMode(m)
	assert.False(t, ok)
}

func TestJoysticks(t *testing.T) {
	s := newInitialized(t)

	var events []int32
	s.SetJoystickCallback(func(_ int32, event int32) { events = append(events, event) })

	require.True(t, s.ConnectJoystick(0, JoystickSpec{
		Name:        "Pad",
		Axes:        []float32{0.5, -1},
		Buttons:     []byte{1, 0, 1},
		Hats:        []byte{1, 2},
		GamepadName: "Xbox Controller",
	}))
	assert.False(t, s.ConnectJoystick(0, JoystickSpec{}), "slot occupied")
	s.PollEvents()
	assert.Equal(t, []int32{native.Connected}, events)

	assert.True(t, s.JoystickPresent(0))
	assert.False(t, s.JoystickPresent(1))
	assert.Equal(t, []byte{1, 2}, s.GetJoystickHats(0))

	state, ok := s.GetGamepadState(0)
	require.True(t, ok)
	assert.Equal(t, byte(1), state.Buttons[2])
	assert.Equal(t, float32(-1), state.Axes[1])

	s.JoystickPresent(42)
	code, _ := s.GetError()
	assert.Equal(t, native.InvalidEnum, code)

	assert.True(t, s.DisconnectJoystick(0))
	s.PollEvents()
	assert.Equal(t, []int32{native.Connected, native.Disconnected}, events)
	assert.Nil(t, s.GetJoystickHats(0))
}

func TestNativeContext(t *testing.T) {
	s := newInitialized(t)

	w := s.CreateWindow(640, 480, "gl", handle.NewMonitor(0), handle.NewWindow(0))
	ctx := s.GetNativeContext(w)
	assert.Equal(t, handle.PlatformGLX, ctx.Platform)
	assert.False(t, ctx.IsNone())

	s.WindowHint(native.ContextAPI, native.EGLContextAPI)
	egl := s.CreateWindow(640, 480, "egl", handle.NewMonitor(0), handle.NewWindow(0))
	assert.Equal(t, handle.PlatformEGL, s.GetNativeContext(egl).Platform)

	s.WindowHint(native.ClientAPI, native.NoAPI)
	none := s.CreateWindow(640, 480, "vk", handle.NewMonitor(0), handle.NewWindow(0))
	assert.True(t, s.GetNativeContext(none).IsNone())
	code, _ := s.GetError()
	assert.Equal(t, native.NoWindowContext, code)
}

func TestCursorsAndClipboard(t *testing.T) {
	s := newInitialized(t, WithClipboard("hello"))
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))

	c := s.CreateStandardCursor(0x00036004)
	require.False(t, c.IsNone())
	s.SetCursor(w, c)
	assert.Equal(t, int32(0x00036004), s.CursorShape(w))
	s.DestroyCursor(c)
	assert.Equal(t, int32(0), s.CursorShape(w))

	assert.True(t, s.CreateStandardCursor(7).IsNone())

	assert.Equal(t, "hello", s.GetClipboardString(w))
	s.SetClipboardString(w, "bye")
	assert.Equal(t, "bye", s.GetClipboardString(w))
}

func TestTerminateDropsState(t *testing.T) {
	s := New()
	require.True(t, s.Init())
	w := s.CreateWindow(640, 480, "x", handle.NewMonitor(0), handle.NewWindow(0))
	s.PostRefresh(w)
	s.Terminate()

	assert.False(t, s.Initialized())
	assert.False(t, s.Alive(w))
	assert.Equal(t, 0, s.Pending())
}
