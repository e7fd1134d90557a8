// Package input mirrors the native library's keyboard, mouse, joystick and
// gamepad constants as typed Go values.
package input

import "strings"

// Action is the three-valued state reported by key and mouse button callbacks.
type Action int32

const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2
)

func (a Action) String() string {
	switch a {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// ModifierKey is a bitmask of held modifier keys.
type ModifierKey int32

const (
	ModShift    ModifierKey = 0x0001
	ModControl  ModifierKey = 0x0002
	ModAlt      ModifierKey = 0x0004
	ModSuper    ModifierKey = 0x0008
	ModCapsLock ModifierKey = 0x0010
	ModNumLock  ModifierKey = 0x0020
)

var modifierNames = []struct {
	mod  ModifierKey
	name string
}{
	{ModControl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModSuper, "super"},
	{ModCapsLock, "capslock"},
	{ModNumLock, "numlock"},
}

// Has reports whether every bit of m is set.
func (mods ModifierKey) Has(m ModifierKey) bool {
	return mods&m == m
}

func (mods ModifierKey) String() string {
	if mods == 0 {
		return "none"
	}
	var parts []string
	for _, mn := range modifierNames {
		if mods.Has(mn.mod) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseModifiers parses names like "ctrl+alt". Unknown names are ignored.
func ParseModifiers(s string) ModifierKey {
	var mods ModifierKey
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		part = strings.TrimSpace(part)
		if part == "control" {
			part = "ctrl"
		}
		for _, mn := range modifierNames {
			if mn.name == part {
				mods |= mn.mod
			}
		}
	}
	return mods
}

// MouseButton identifies a mouse button. Left, Right and Middle alias 1-3.
type MouseButton int32

const (
	MouseButton1 MouseButton = iota
	MouseButton2
	MouseButton3
	MouseButton4
	MouseButton5
	MouseButton6
	MouseButton7
	MouseButton8

	MouseButtonLeft   = MouseButton1
	MouseButtonRight  = MouseButton2
	MouseButtonMiddle = MouseButton3
	MouseButtonLast   = MouseButton8
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonRight:
		return "right"
	case MouseButtonMiddle:
		return "middle"
	}
	if b > MouseButtonMiddle && b <= MouseButtonLast {
		return "button" + string(rune('1'+b))
	}
	return "unknown"
}

// CursorShape selects a standard system cursor.
type CursorShape int32

const (
	ArrowCursor     CursorShape = 0x00036001
	IBeamCursor     CursorShape = 0x00036002
	CrosshairCursor CursorShape = 0x00036003
	HandCursor      CursorShape = 0x00036004
	HResizeCursor   CursorShape = 0x00036005
	VResizeCursor   CursorShape = 0x00036006
)

// InputMode selects a per-window input setting.
type InputMode int32

const (
	CursorMode             InputMode = 0x00033001
	StickyKeysMode         InputMode = 0x00033002
	StickyMouseButtonsMode InputMode = 0x00033003
	LockKeyModsMode        InputMode = 0x00033004
	RawMouseMotionMode     InputMode = 0x00033005
)

// Values for CursorMode.
const (
	CursorNormal   int32 = 0x00034001
	CursorHidden   int32 = 0x00034002
	CursorDisabled int32 = 0x00034003
)

// ConnectionState is reported by monitor and joystick connection callbacks.
type ConnectionState int32

const (
	Connected    ConnectionState = 0x00040001
	Disconnected ConnectionState = 0x00040002
)

func (c ConnectionState) String() string {
	switch c {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}
