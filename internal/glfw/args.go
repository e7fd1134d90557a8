package glfw

import (
	"slices"

	"github.com/bnema/nativewindow/internal/input"
)

// Event arguments are value snapshots built from the native callback
// parameters before any listener runs. Listeners may keep them.

// WindowArgs carries only the source window.
type WindowArgs struct {
	Window *Window
}

type PosArgs struct {
	Window *Window
	X, Y   int
}

type SizeArgs struct {
	Window        *Window
	Width, Height int
}

type ScaleArgs struct {
	Window *Window
	X, Y   float32
}

type FocusArgs struct {
	Window  *Window
	Focused bool
}

type IconifyArgs struct {
	Window    *Window
	Iconified bool
}

type MaximizeArgs struct {
	Window    *Window
	Maximized bool
}

// KeyArgs describes a physical key transition.
type KeyArgs struct {
	Window   *Window
	Key      input.Key
	Scancode int
	Action   input.Action
	Mods     input.ModifierKey
}

func (a KeyArgs) ActionState() input.Action { return a.Action }

// CharArgs carries one Unicode code point of text input.
type CharArgs struct {
	Window *Window
	Char   rune
}

type CharModsArgs struct {
	Window *Window
	Char   rune
	Mods   input.ModifierKey
}

type MouseButtonArgs struct {
	Window *Window
	Button input.MouseButton
	Action input.Action
	Mods   input.ModifierKey
}

func (a MouseButtonArgs) ActionState() input.Action { return a.Action }

// CursorPosArgs is the pointer position relative to the content area's top
// left corner, in screen coordinates.
type CursorPosArgs struct {
	Window *Window
	X, Y   float64
}

type CursorEnterArgs struct {
	Window  *Window
	Entered bool
}

type ScrollArgs struct {
	Window *Window
	DX, DY float64
}

// DropArgs lists dropped paths. The paths are copied out of native memory
// before the event is raised.
type DropArgs struct {
	Window *Window
	paths  []string
}

func newDropArgs(w *Window, paths []string) DropArgs {
	return DropArgs{Window: w, paths: slices.Clone(paths)}
}

// Paths returns a copy of the dropped paths.
func (a DropArgs) Paths() []string { return slices.Clone(a.paths) }

func (a DropArgs) Len() int { return len(a.paths) }

// ClosingArgs is raised when the user asks to close the window. A listener
// calling Cancel keeps the window open.
type ClosingArgs struct {
	Window    *Window
	cancelled *bool
}

// Cancel clears the window's should-close flag once dispatch completes.
func (a ClosingArgs) Cancel() {
	if a.cancelled != nil {
		*a.cancelled = true
	}
}

func (a ClosingArgs) Cancelled() bool {
	return a.cancelled != nil && *a.cancelled
}

// ErrorArgs carries an error reported by the native library.
type ErrorArgs struct {
	Err *Error
}

type MonitorArgs struct {
	Monitor *Monitor
	State   input.ConnectionState
}

type JoystickArgs struct {
	Joystick *Joystick
	State    input.ConnectionState
}
