package glfw

import (
	"errors"
	"testing"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/input"
	"github.com/bnema/nativewindow/internal/native"
	"github.com/bnema/nativewindow/internal/native/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T, opts ...sim.Option) (*Runtime, *sim.Sim) {
	t.Helper()
	s := sim.New(opts...)
	r := New(s)
	require.NoError(t, r.Init())
	t.Cleanup(func() { _ = r.Close() })
	return r, s
}

func TestRuntimeLifecycle(t *testing.T) {
	s := sim.New()
	r := New(s)

	_, err := r.CreateWindow(DefaultWindowOptions())
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.ErrorIs(t, r.PollEvents(), ErrNotInitialized)

	require.NoError(t, r.Init())
	assert.ErrorIs(t, r.Init(), ErrAlreadyInitialized)
	assert.True(t, r.Initialized())
	assert.Equal(t, "3.4.0 sim", r.Version())

	w, err := r.CreateWindow(DefaultWindowOptions())
	require.NoError(t, err)

	require.NoError(t, r.Terminate())
	assert.Equal(t, Destroyed, w.State())
	assert.False(t, s.Alive(w.Handle()))
	assert.False(t, r.Initialized())
	assert.ErrorIs(t, r.Terminate(), ErrNotInitialized)
}

func TestNativeErrorsAreReturned(t *testing.T) {
	r, s := newRuntime(t)

	var reported []*Error
	r.Errors.Subscribe(func(a ErrorArgs) { reported = append(reported, a.Err) })

	_, err := r.CreateWindow(WindowOptions{Width: 0, Height: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.NotErrorIs(t, err, ErrPlatform)
	require.Len(t, reported, 1)
	assert.Equal(t, InvalidValue, reported[0].Code)

	w, err := r.CreateWindow(DefaultWindowOptions())
	require.NoError(t, err)

	// errors raised while pumping surface from the pump call
	w.Refresh.Subscribe(func(WindowArgs) {
		s.InjectError(native.PlatformError, "compositor went away")
	})
	s.PostRefresh(w.Handle())
	err = r.PollEvents()
	assert.ErrorIs(t, err, ErrPlatform)
	assert.Contains(t, err.Error(), "compositor went away")

	assert.NoError(t, r.PollEvents(), "recorded errors are cleared once returned")
}

func TestErrorCodeMatching(t *testing.T) {
	err := &Error{Code: NotInitialized, Description: "x"}
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.False(t, errors.Is(err, ErrPlatform))

	assert.Equal(t, "platform error", PlatformError.String())
	assert.False(t, ErrorCode(0x1234).Known())
	assert.Contains(t, ErrorCode(0x1234).String(), "0x1234")
	assert.Equal(t, "unknown error", Unknown.String())
	assert.False(t, Unknown.Known())

	undocumented := &Error{Code: ErrorCode(0x1234), Description: "vendor extension"}
	assert.ErrorIs(t, undocumented, ErrUnknown)
	assert.False(t, errors.Is(undocumented, ErrPlatform))
	assert.False(t, errors.Is(&Error{Code: InvalidEnum}, ErrUnknown))
	assert.ErrorIs(t, ErrUnknown, ErrUnknown)
	assert.Equal(t, "glfw: invalid enum", (&Error{Code: InvalidEnum}).Error())
}

func TestLastError(t *testing.T) {
	r, s := newRuntime(t)
	assert.NoError(t, r.LastError())

	s.InjectError(native.OutOfMemory, "oom")
	err := r.LastError()
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.NoError(t, r.LastError())
}

func TestMonitorEvents(t *testing.T) {
	r, s := newRuntime(t)

	monitors, err := r.Monitors()
	require.NoError(t, err)
	require.Len(t, monitors, 1)

	info, err := monitors[0].Info()
	require.NoError(t, err)
	assert.Equal(t, "SIM-1", info.Name)
	assert.Equal(t, 1920, info.Mode.Width)
	assert.True(t, info.Primary)

	var got []MonitorArgs
	r.MonitorChanged.Subscribe(func(a MonitorArgs) { got = append(got, a) })

	h := s.ConnectMonitor(sim.MonitorSpec{Name: "SIM-2", X: 1920})
	require.NoError(t, r.PollEvents())
	require.Len(t, got, 1)
	assert.Equal(t, input.Connected, got[0].State)
	assert.Equal(t, h, got[0].Monitor.Handle())

	s.DisconnectMonitor(h)
	require.NoError(t, r.PollEvents())
	require.Len(t, got, 2)
	assert.Equal(t, input.Disconnected, got[1].State)
	_, err = got[1].Monitor.VideoMode()
	assert.ErrorIs(t, err, ErrNoneHandle)
}

func TestJoystickHatState(t *testing.T) {
	r, s := newRuntime(t)

	var got []JoystickArgs
	r.JoystickChanged.Subscribe(func(a JoystickArgs) { got = append(got, a) })

	require.True(t, s.ConnectJoystick(2, sim.JoystickSpec{
		Name:    "Stick",
		Buttons: []byte{1, 0},
		Hats:    []byte{byte(input.HatUp), byte(input.HatRight), byte(input.HatCentered)},
	}))
	require.NoError(t, r.PollEvents())
	require.Len(t, got, 1)
	assert.Equal(t, input.Joystick3, got[0].Joystick.ID())

	j := r.Joystick(input.Joystick3)
	hats, err := j.Hats()
	require.NoError(t, err)
	assert.Equal(t, []input.Hat{input.HatUp, input.HatRight, input.HatCentered}, hats)

	state, err := j.HatState()
	require.NoError(t, err)
	assert.Equal(t, input.HatRightUp, state)

	buttons, err := j.Buttons()
	require.NoError(t, err)
	assert.Equal(t, []input.Action{input.Press, input.Release}, buttons)

	_, ok, err := j.GamepadState()
	require.NoError(t, err)
	assert.False(t, ok)

	present, err := r.Joysticks()
	require.NoError(t, err)
	assert.Len(t, present, 1)

	empty, err := r.Joystick(input.Joystick1).HatState()
	require.NoError(t, err)
	assert.Equal(t, input.HatCentered, empty)
}

func TestCursors(t *testing.T) {
	r, s := newRuntime(t)
	w, err := r.CreateWindow(DefaultWindowOptions())
	require.NoError(t, err)

	c, err := r.CreateStandardCursor(input.HandCursor)
	require.NoError(t, err)
	require.NoError(t, w.SetCursor(c))
	assert.Equal(t, int32(input.HandCursor), s.CursorShape(w.Handle()))

	require.NoError(t, c.Destroy())
	assert.ErrorIs(t, c.Destroy(), ErrCursorDestroyed)
	assert.ErrorIs(t, w.SetCursor(c), ErrCursorDestroyed)
	require.NoError(t, w.SetCursor(nil))

	_, err = r.CreateStandardCursor(input.CursorShape(1))
	assert.ErrorIs(t, err, ErrInvalidEnum)
}

func TestPanicHandlerOption(t *testing.T) {
	var panics []*event.ListenerPanic
	s := sim.New()
	r := New(s, WithPanicHandler(func(p *event.ListenerPanic) { panics = append(panics, p) }))
	require.NoError(t, r.Init())
	defer r.Close()

	r.Errors.Subscribe(func(ErrorArgs) { panic("listener bug") })
	s.InjectError(native.PlatformError, "x")

	require.Len(t, panics, 1)
	assert.Equal(t, "listener bug", panics[0].Value)
}
