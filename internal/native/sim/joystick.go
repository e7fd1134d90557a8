package sim

import (
	"github.com/bnema/nativewindow/internal/native"
)

// JoystickSpec describes a simulated joystick.
type JoystickSpec struct {
	Name        string
	GUID        string
	Axes        []float32
	Buttons     []byte
	Hats        []byte
	GamepadName string // non-empty marks the device as a mapped gamepad
}

type joystick struct {
	spec JoystickSpec
}

func (s *Sim) SetJoystickCallback(fn native.JoystickFunc) native.JoystickFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.joystickCb
	s.joystickCb = fn
	return prev
}

// joystick returns the device at jid. Out of range ids report InvalidEnum;
// empty slots are not an error.
func (s *Sim) joystick(jid int32) (JoystickSpec, bool) {
	if !s.ready() {
		return JoystickSpec{}, false
	}
	if jid < 0 || int(jid) >= len(s.joysticks) {
		s.report(native.InvalidEnum, "Invalid joystick ID")
		return JoystickSpec{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	js := s.joysticks[jid]
	if js == nil {
		return JoystickSpec{}, false
	}
	return js.spec, true
}

func (s *Sim) JoystickPresent(jid int32) bool {
	_, ok := s.joystick(jid)
	return ok
}

func (s *Sim) GetJoystickName(jid int32) string {
	spec, _ := s.joystick(jid)
	return spec.Name
}

func (s *Sim) GetJoystickGUID(jid int32) string {
	spec, _ := s.joystick(jid)
	return spec.GUID
}

func (s *Sim) GetJoystickAxes(jid int32) []float32 {
	spec, _ := s.joystick(jid)
	return append([]float32(nil), spec.Axes...)
}

func (s *Sim) GetJoystickButtons(jid int32) []byte {
	spec, _ := s.joystick(jid)
	return append([]byte(nil), spec.Buttons...)
}

func (s *Sim) GetJoystickHats(jid int32) []byte {
	spec, _ := s.joystick(jid)
	return append([]byte(nil), spec.Hats...)
}

func (s *Sim) JoystickIsGamepad(jid int32) bool {
	spec, _ := s.joystick(jid)
	return spec.GamepadName != ""
}

func (s *Sim) GetGamepadName(jid int32) string {
	spec, _ := s.joystick(jid)
	return spec.GamepadName
}

// GetGamepadState maps the first buttons and axes straight onto the
// gamepad layout.
func (s *Sim) GetGamepadState(jid int32) (native.GamepadState, bool) {
	var state native.GamepadState
	spec, ok := s.joystick(jid)
	if !ok || spec.GamepadName == "" {
		return state, false
	}
	copy(state.Buttons[:], spec.Buttons)
	copy(state.Axes[:], spec.Axes)
	return state, true
}

// ConnectJoystick plugs a device into slot jid and queues the connection
// event. It returns false when jid is out of range or occupied.
func (s *Sim) ConnectJoystick(jid int32, spec JoystickSpec) bool {
	s.mu.Lock()
	if jid < 0 || int(jid) >= len(s.joysticks) || s.joysticks[jid] != nil {
		s.mu.Unlock()
		return false
	}
	s.joysticks[jid] = &joystick{spec: spec}
	s.mu.Unlock()
	s.enqueue(func() { s.joystickEvent(jid, native.Connected) })
	return true
}

// DisconnectJoystick empties slot jid and queues the disconnection event.
func (s *Sim) DisconnectJoystick(jid int32) bool {
	s.mu.Lock()
	if jid < 0 || int(jid) >= len(s.joysticks) || s.joysticks[jid] == nil {
		s.mu.Unlock()
		return false
	}
	s.joysticks[jid] = nil
	s.mu.Unlock()
	s.enqueue(func() { s.joystickEvent(jid, native.Disconnected) })
	return true
}

// UpdateJoystick replaces the axis, button and hat state of a connected
// device. Joystick state is polled, so no event is queued.
func (s *Sim) UpdateJoystick(jid int32, axes []float32, buttons, hats []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if jid < 0 || int(jid) >= len(s.joysticks) || s.joysticks[jid] == nil {
		return false
	}
	js := s.joysticks[jid]
	js.spec.Axes = append([]float32(nil), axes...)
	js.spec.Buttons = append([]byte(nil), buttons...)
	js.spec.Hats = append([]byte(nil), hats...)
	return true
}

func (s *Sim) joystickEvent(jid, event int32) {
	s.mu.Lock()
	fn := s.joystickCb
	s.mu.Unlock()
	if fn != nil {
		fn(jid, event)
	}
}
