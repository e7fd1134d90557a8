package glfw

import (
	"errors"
	"fmt"

	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/input"
)

// ErrCursorDestroyed is returned when a destroyed cursor is used.
var ErrCursorDestroyed = errors.New("glfw: cursor destroyed")

// Cursor is a standard system cursor image.
type Cursor struct {
	rt        *Runtime
	h         handle.Cursor
	shape     input.CursorShape
	destroyed bool
}

// CreateStandardCursor creates a cursor with one of the system shapes.
func (r *Runtime) CreateStandardCursor(shape input.CursorShape) (*Cursor, error) {
	var h handle.Cursor
	if err := r.call("create cursor", func() { h = r.lib.CreateStandardCursor(int32(shape)) }); err != nil {
		return nil, err
	}
	if h.IsNone() {
		return nil, fmt.Errorf("create cursor: %w", ErrNoneHandle)
	}
	return &Cursor{rt: r, h: h, shape: shape}, nil
}

func (c *Cursor) Handle() handle.Cursor { return c.h }

func (c *Cursor) Shape() input.CursorShape { return c.shape }

// Destroy releases the cursor. Windows using it revert to the default.
func (c *Cursor) Destroy() error {
	if c.destroyed {
		return fmt.Errorf("destroy cursor: %w", ErrCursorDestroyed)
	}
	c.destroyed = true
	return c.rt.call("destroy cursor", func() { c.rt.lib.DestroyCursor(c.h) })
}
