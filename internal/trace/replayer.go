package trace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/nativewindow/internal/glfw"
	"github.com/bnema/nativewindow/internal/handle"
	"github.com/bnema/nativewindow/internal/logger"
	"github.com/bnema/nativewindow/internal/native/sim"
)

// Post queues r on the simulated window h. It returns an error for records
// that fail validation.
func Post(s *sim.Sim, h handle.Window, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	i := func(n int) int32 { return int32(r.Ints[n]) } //nolint:gosec // values came from int32 callbacks

	switch r.Kind {
	case KindPos:
		s.PostPos(h, i(0), i(1))
	case KindSize:
		s.PostSize(h, i(0), i(1))
	case KindContentScale:
		s.PostContentScale(h, float32(r.Floats[0]), float32(r.Floats[1]))
	case KindClose:
		s.PostClose(h)
	case KindRefresh:
		s.PostRefresh(h)
	case KindFocus:
		s.PostFocus(h, r.Bool())
	case KindIconify:
		s.PostIconify(h, r.Bool())
	case KindMaximize:
		s.PostMaximize(h, r.Bool())
	case KindKey:
		s.PostKey(h, i(0), i(1), i(2), i(3))
	case KindChar:
		s.PostChar(h, uint32(r.Ints[0]), i(1)) //nolint:gosec // code point
	case KindMouseButton:
		s.PostMouseButton(h, i(0), i(1), i(2))
	case KindCursorPos:
		s.PostCursorPos(h, r.Floats[0], r.Floats[1])
	case KindCursorEnter:
		s.PostCursorEnter(h, r.Bool())
	case KindScroll:
		s.PostScroll(h, r.Floats[0], r.Floats[1])
	case KindDrop:
		s.PostDrop(h, r.Strings...)
	}
	return nil
}

// Replayer feeds a trace into a simulated window and pumps the runtime after
// every record, so listeners see the events in recorded order.
type Replayer struct {
	Sim     *sim.Sim
	Runtime *glfw.Runtime
	Window  *glfw.Window

	// Speed scales the recorded timing. Zero replays without delays.
	Speed float64
}

// Run replays every record from tr. It stops early when ctx is done or the
// window is destroyed, and returns the number of records replayed.
func (rp *Replayer) Run(ctx context.Context, tr *Reader) (int, error) {
	start := time.Now()
	count := 0
	for {
		rec, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}

		if rp.Speed > 0 {
			due := start.Add(time.Duration(rec.Time / rp.Speed * float64(time.Second)))
			if err := sleepUntil(ctx, due); err != nil {
				return count, err
			}
		} else if err := ctx.Err(); err != nil {
			return count, err
		}

		if rp.Window.State() != glfw.Active {
			logger.Debug("Replay target destroyed, stopping", "replayed", count)
			return count, nil
		}
		if err := Post(rp.Sim, rp.Window.Handle(), rec); err != nil {
			return count, fmt.Errorf("record %d: %w", count, err)
		}
		if err := rp.Runtime.PollEvents(); err != nil {
			return count, fmt.Errorf("record %d: %w", count, err)
		}
		count++
	}
}

func sleepUntil(ctx context.Context, due time.Time) error {
	d := time.Until(due)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
