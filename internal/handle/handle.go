// Package handle gives native window, monitor, cursor and context pointers a
// comparable, type-safe identity.
//
// A handle never owns the resource it names: it is a value, freely copied,
// compared with == and used as a map key. Ownership (creation and destruction)
// belongs to the wrapper that created it.
package handle

import "fmt"

// Handle is an opaque pointer-sized value issued by the native library.
type Handle struct {
	ptr uintptr
}

// None is the canonical null handle. It never refers to a live resource.
var None = Handle{}

// New wraps a raw native pointer.
func New(ptr uintptr) Handle {
	return Handle{ptr: ptr}
}

// Equal reports whether a and b wrap bit-identical pointers.
func Equal(a, b Handle) bool {
	return a.ptr == b.ptr
}

// IsNone reports whether h is the null handle.
func (h Handle) IsNone() bool {
	return h.ptr == 0
}

// Pointer returns the raw value for passing back to the native library.
func (h Handle) Pointer() uintptr {
	return h.ptr
}

func (h Handle) String() string {
	if h.ptr == 0 {
		return "none"
	}
	return fmt.Sprintf("0x%x", h.ptr)
}

// Window identifies a native window and its context.
type Window struct{ Handle }

// Monitor identifies a connected display.
type Monitor struct{ Handle }

// Cursor identifies a native cursor image.
type Cursor struct{ Handle }

func NewWindow(ptr uintptr) Window   { return Window{New(ptr)} }
func NewMonitor(ptr uintptr) Monitor { return Monitor{New(ptr)} }
func NewCursor(ptr uintptr) Cursor   { return Cursor{New(ptr)} }

// Platform names the API a native context handle belongs to.
type Platform int

const (
	PlatformNone Platform = iota
	PlatformGLX
	PlatformEGL
	PlatformWGL
	PlatformNSGL
	PlatformOSMesa
)

func (p Platform) String() string {
	switch p {
	case PlatformGLX:
		return "glx"
	case PlatformEGL:
		return "egl"
	case PlatformWGL:
		return "wgl"
	case PlatformNSGL:
		return "nsgl"
	case PlatformOSMesa:
		return "osmesa"
	default:
		return "none"
	}
}

// Context is a per-platform rendering context handle. Two contexts are equal
// only when both the pointer and the platform match.
type Context struct {
	Handle
	Platform Platform
}

// NewContext wraps a raw context pointer for the given platform.
func NewContext(ptr uintptr, p Platform) Context {
	if ptr == 0 {
		return Context{}
	}
	return Context{Handle: New(ptr), Platform: p}
}

func (c Context) String() string {
	if c.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s:%s", c.Platform, c.Handle)
}
