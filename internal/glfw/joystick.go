package glfw

import (
	"github.com/bnema/nativewindow/internal/input"
)

// Joystick addresses one joystick slot. The slot may be empty; query
// Present before reading state.
type Joystick struct {
	rt *Runtime
	id input.Joystick
}

// Joystick returns the wrapper for slot id.
func (r *Runtime) Joystick(id input.Joystick) *Joystick {
	return &Joystick{rt: r, id: id}
}

// Joysticks returns the occupied slots.
func (r *Runtime) Joysticks() ([]*Joystick, error) {
	var out []*Joystick
	for id := input.Joystick1; id <= input.JoystickLast; id++ {
		j := r.Joystick(id)
		present, err := j.Present()
		if err != nil {
			return nil, err
		}
		if present {
			out = append(out, j)
		}
	}
	return out, nil
}

func (j *Joystick) ID() input.Joystick { return j.id }

func (j *Joystick) String() string { return j.id.String() }

func joystickGet[T any](j *Joystick, op string, fn func(jid int32) T) (T, error) {
	var v T
	err := j.rt.call(op, func() { v = fn(int32(j.id)) })
	return v, err
}

func (j *Joystick) Present() (bool, error) {
	return joystickGet(j, "joystick present", j.rt.lib.JoystickPresent)
}

func (j *Joystick) Name() (string, error) {
	return joystickGet(j, "get joystick name", j.rt.lib.GetJoystickName)
}

func (j *Joystick) GUID() (string, error) {
	return joystickGet(j, "get joystick guid", j.rt.lib.GetJoystickGUID)
}

// Axes returns axis positions in [-1, 1].
func (j *Joystick) Axes() ([]float32, error) {
	return joystickGet(j, "get joystick axes", j.rt.lib.GetJoystickAxes)
}

func (j *Joystick) Buttons() ([]input.Action, error) {
	raw, err := joystickGet(j, "get joystick buttons", j.rt.lib.GetJoystickButtons)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make([]input.Action, len(raw))
	for i, b := range raw {
		out[i] = input.Action(b)
	}
	return out, nil
}

// Hats returns the per-hat direction bitmasks.
func (j *Joystick) Hats() ([]input.Hat, error) {
	raw, err := joystickGet(j, "get joystick hats", j.rt.lib.GetJoystickHats)
	if err != nil || raw == nil {
		return nil, err
	}
	out := make([]input.Hat, len(raw))
	for i, h := range raw {
		out[i] = input.Hat(h)
	}
	return out, nil
}

// HatState folds every hat into one direction mask. A joystick without hats
// is Centered.
func (j *Joystick) HatState() (input.Hat, error) {
	raw, err := joystickGet(j, "get joystick hats", j.rt.lib.GetJoystickHats)
	if err != nil {
		return input.HatCentered, err
	}
	return input.AccumulateHats(raw), nil
}

func (j *Joystick) IsGamepad() (bool, error) {
	return joystickGet(j, "joystick is gamepad", j.rt.lib.JoystickIsGamepad)
}

func (j *Joystick) GamepadName() (string, error) {
	return joystickGet(j, "get gamepad name", j.rt.lib.GetGamepadName)
}

// GamepadState returns the mapped gamepad state. ok is false when the
// joystick is absent or has no gamepad mapping.
func (j *Joystick) GamepadState() (state input.GamepadState, ok bool, err error) {
	err = j.rt.call("get gamepad state", func() {
		raw, present := j.rt.lib.GetGamepadState(int32(j.id))
		ok = present
		state.Buttons = raw.Buttons
		state.Axes = raw.Axes
	})
	return state, ok, err
}
