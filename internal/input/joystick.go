package input

import (
	"strconv"
	"strings"
)

// Joystick identifies one of the sixteen joystick slots.
type Joystick int32

const (
	Joystick1 Joystick = iota
	Joystick2
	Joystick3
	Joystick4
	Joystick5
	Joystick6
	Joystick7
	Joystick8
	Joystick9
	Joystick10
	Joystick11
	Joystick12
	Joystick13
	Joystick14
	Joystick15
	Joystick16

	JoystickLast = Joystick16
)

func (j Joystick) String() string {
	return "joystick" + strconv.Itoa(int(j)+1)
}

// Hat is a bitmask of joystick hat directions.
type Hat uint8

const (
	HatCentered Hat = 0
	HatUp       Hat = 1
	HatRight    Hat = 2
	HatDown     Hat = 4
	HatLeft     Hat = 8

	HatRightUp   = HatRight | HatUp
	HatRightDown = HatRight | HatDown
	HatLeftUp    = HatLeft | HatUp
	HatLeftDown  = HatLeft | HatDown
)

// Has reports whether every direction of d is set.
func (h Hat) Has(d Hat) bool {
	return h&d == d
}

func (h Hat) String() string {
	if h == HatCentered {
		return "centered"
	}
	var parts []string
	for _, d := range []struct {
		bit  Hat
		name string
	}{{HatUp, "up"}, {HatRight, "right"}, {HatDown, "down"}, {HatLeft, "left"}} {
		if h.Has(d.bit) {
			parts = append(parts, d.name)
		}
	}
	return strings.Join(parts, "+")
}

// AccumulateHats collapses per-hat states into one bitmask. The traversal is
// left to right starting from HatCentered; an empty slice yields HatCentered.
func AccumulateHats(states []byte) Hat {
	acc := HatCentered
	for _, s := range states {
		acc |= Hat(s)
	}
	return acc
}

// GamepadButton indexes GamepadState.Buttons.
type GamepadButton int

const (
	ButtonA GamepadButton = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLeftBumper
	ButtonRightBumper
	ButtonBack
	ButtonStart
	ButtonGuide
	ButtonLeftThumb
	ButtonRightThumb
	ButtonDpadUp
	ButtonDpadRight
	ButtonDpadDown
	ButtonDpadLeft

	ButtonLast = ButtonDpadLeft

	ButtonCross    = ButtonA
	ButtonCircle   = ButtonB
	ButtonSquare   = ButtonX
	ButtonTriangle = ButtonY
)

// GamepadAxis indexes GamepadState.Axes.
type GamepadAxis int

const (
	AxisLeftX GamepadAxis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisLeftTrigger
	AxisRightTrigger

	AxisLast = AxisRightTrigger
)

// GamepadState mirrors the native gamepad state struct layout.
type GamepadState struct {
	Buttons [ButtonLast + 1]byte
	Axes    [AxisLast + 1]float32
}

// Pressed reports whether the button is held.
func (s GamepadState) Pressed(b GamepadButton) bool {
	if b < 0 || b > ButtonLast {
		return false
	}
	return Action(s.Buttons[b]) == Press
}

// Axis returns the axis value in [-1, 1], or 0 for an invalid axis.
func (s GamepadState) Axis(a GamepadAxis) float32 {
	if a < 0 || a > AxisLast {
		return 0
	}
	return s.Axes[a]
}

// ButtonMask folds pressed buttons into a bitmask, bit i for button i,
// walking the buttons left to right.
func (s GamepadState) ButtonMask() uint32 {
	var mask uint32
	for i, b := range s.Buttons {
		if Action(b) == Press {
			mask |= 1 << uint(i)
		}
	}
	return mask
}
