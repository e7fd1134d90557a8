package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	assert.True(t, Equal(New(0x10), New(0x10)))
	assert.False(t, Equal(New(0x10), New(0x11)))
	assert.True(t, Equal(None, New(0)))
}

func TestNone(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.True(t, Window{}.IsNone())
	assert.True(t, Monitor{}.IsNone())
	assert.False(t, NewWindow(1).IsNone())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "0xff", New(0xff).String())
}

func TestTypedHandlesAreComparable(t *testing.T) {
	a := NewWindow(0x2a)
	b := NewWindow(0x2a)
	assert.True(t, a == b)

	seen := map[Window]int{a: 1}
	assert.Equal(t, 1, seen[b])

	assert.Equal(t, uintptr(0x2a), a.Pointer())
}

func TestContext(t *testing.T) {
	glx := NewContext(0x5, PlatformGLX)
	egl := NewContext(0x5, PlatformEGL)

	assert.False(t, glx == egl, "same pointer on different platforms must differ")
	assert.Equal(t, "glx:0x5", glx.String())

	null := NewContext(0, PlatformGLX)
	assert.True(t, null.IsNone())
	assert.Equal(t, PlatformNone, null.Platform)
	assert.Equal(t, "none", null.String())
}
