package trace

import (
	"errors"
	"sync"
	"time"

	"github.com/bnema/nativewindow/internal/event"
	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/logger"
)

// Recorder writes a window's input events to a Writer as they are
// dispatched. Framebuffer resizes, the split focus and enter streams and
// plain char events are derived from other records and are not written.
type Recorder struct {
	w     *Writer
	start time.Time
	now   func() time.Time

	mu    sync.Mutex
	subs  []event.Subscription
	err   error
	count int
}

// NewRecorder subscribes to every recordable event of win.
func NewRecorder(win *glfw.Window, w *Writer) *Recorder {
	rec := &Recorder{w: w, now: time.Now}
	rec.start = rec.now()

	flag := func(b bool) []int64 {
		if b {
			return []int64{1}
		}
		return []int64{0}
	}

	rec.subs = []event.Subscription{
		win.Moved.Subscribe(func(a glfw.PosArgs) {
			rec.write(Record{Kind: KindPos, Ints: []int64{int64(a.X), int64(a.Y)}})
		}),
		win.Resized.Subscribe(func(a glfw.SizeArgs) {
			rec.write(Record{Kind: KindSize, Ints: []int64{int64(a.Width), int64(a.Height)}})
		}),
		win.ContentScaleChanged.Subscribe(func(a glfw.ScaleArgs) {
			rec.write(Record{Kind: KindContentScale, Floats: []float64{float64(a.X), float64(a.Y)}})
		}),
		win.Closing.Subscribe(func(glfw.ClosingArgs) {
			rec.write(Record{Kind: KindClose})
		}),
		win.Refresh.Subscribe(func(glfw.WindowArgs) {
			rec.write(Record{Kind: KindRefresh})
		}),
		win.FocusChanged.Subscribe(func(a glfw.FocusArgs) {
			rec.write(Record{Kind: KindFocus, Ints: flag(a.Focused)})
		}),
		win.IconifyChanged.Subscribe(func(a glfw.IconifyArgs) {
			rec.write(Record{Kind: KindIconify, Ints: flag(a.Iconified)})
		}),
		win.MaximizeChanged.Subscribe(func(a glfw.MaximizeArgs) {
			rec.write(Record{Kind: KindMaximize, Ints: flag(a.Maximized)})
		}),
		win.Keys.Any.Subscribe(func(a glfw.KeyArgs) {
			rec.write(Record{Kind: KindKey, Ints: []int64{int64(a.Key), int64(a.Scancode), int64(a.Action), int64(a.Mods)}})
		}),
		win.CharMods.Subscribe(func(a glfw.CharModsArgs) {
			rec.write(Record{Kind: KindChar, Ints: []int64{int64(a.Char), int64(a.Mods)}})
		}),
		win.MouseButtons.Any.Subscribe(func(a glfw.MouseButtonArgs) {
			rec.write(Record{Kind: KindMouseButton, Ints: []int64{int64(a.Button), int64(a.Action), int64(a.Mods)}})
		}),
		win.CursorMoved.Subscribe(func(a glfw.CursorPosArgs) {
			rec.write(Record{Kind: KindCursorPos, Floats: []float64{a.X, a.Y}})
		}),
		win.CursorEnter.Subscribe(func(a glfw.CursorEnterArgs) {
			rec.write(Record{Kind: KindCursorEnter, Ints: flag(a.Entered)})
		}),
		win.Scroll.Subscribe(func(a glfw.ScrollArgs) {
			rec.write(Record{Kind: KindScroll, Floats: []float64{a.DX, a.DY}})
		}),
		win.Drop.Subscribe(func(a glfw.DropArgs) {
			rec.write(Record{Kind: KindDrop, Strings: a.Paths()})
		}),
	}
	logger.Debug("Recording window events", "window", win)
	return rec
}

func (rec *Recorder) write(r Record) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.subs == nil {
		return
	}
	r.Time = rec.now().Sub(rec.start).Seconds()
	if err := rec.w.Write(r); err != nil {
		if rec.err == nil {
			logger.Error("Failed to write trace record", "kind", r.Kind, "error", err)
		}
		rec.err = errors.Join(rec.err, err)
		return
	}
	rec.count++
}

// Count returns the number of records written so far.
func (rec *Recorder) Count() int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.count
}

// Stop unsubscribes, flushes the writer and returns any write failures.
// Stop is idempotent.
func (rec *Recorder) Stop() error {
	rec.mu.Lock()
	subs := rec.subs
	rec.subs = nil
	err := rec.err
	rec.mu.Unlock()

	if subs == nil {
		return err
	}
	for _, s := range subs {
		s.Unsubscribe()
	}
	return errors.Join(err, rec.w.Flush())
}
