package event

import (
	"errors"
	"testing"

	"github.com/bnema/nativewindow/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) listener(name string) func(int) {
	return func(int) { r.calls = append(r.calls, name) }
}

type countingListener struct {
	n int
}

func (c *countingListener) Notify(int) { c.n++ }

// callbackListener is a value type holding a func, so two of them cannot be
// compared with ==.
type callbackListener struct {
	fn func()
}

func (c callbackListener) Notify(int) { c.fn() }

func TestDispatchOrder(t *testing.T) {
	t.Run("listeners run in subscription order", func(t *testing.T) {
		ev := New[int]("order")
		rec := &recorder{}
		for _, name := range []string{"a", "b", "c", "d"} {
			ev.Subscribe(rec.listener(name))
		}

		n, err := ev.Dispatch(1)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, []string{"a", "b", "c", "d"}, rec.calls)
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var ev Event[int]
		got := 0
		ev.Subscribe(func(v int) { got = v })

		_, err := ev.Dispatch(7)
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("dispatch with no listeners", func(t *testing.T) {
		n, err := New[int]("empty").Dispatch(1)
		assert.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("same function subscribed three times loses one per unsubscribe", func(t *testing.T) {
		ev := New[int]("dup")
		calls := 0
		fn := func(int) { calls++ }

		first := ev.Subscribe(fn)
		ev.Subscribe(fn)
		ev.Subscribe(fn)

		_, _ = ev.Dispatch(0)
		assert.Equal(t, 3, calls)

		assert.True(t, ev.Unsubscribe(first))
		calls = 0
		_, _ = ev.Dispatch(0)
		assert.Equal(t, 2, calls)
	})

	t.Run("listener removal drops only the latest registration", func(t *testing.T) {
		ev := New[int]("listener")
		l := &countingListener{}
		rec := &recorder{}

		ev.SubscribeListener(l)
		ev.Subscribe(rec.listener("between"))
		ev.SubscribeListener(l)

		assert.True(t, ev.UnsubscribeListener(l))
		assert.Equal(t, 2, ev.Len())

		_, _ = ev.Dispatch(0)
		assert.Equal(t, 1, l.n)
		assert.Equal(t, []string{"between"}, rec.calls)
	})

	t.Run("removing something absent is a no-op", func(t *testing.T) {
		ev := New[int]("absent")
		sub := ev.Subscribe(func(int) {})

		assert.True(t, sub.Unsubscribe())
		assert.False(t, sub.Unsubscribe())
		assert.False(t, ev.Unsubscribe(Subscription{}))
		assert.False(t, ev.UnsubscribeListener(&countingListener{}))
		assert.Zero(t, ev.Len())
	})

	t.Run("listener values holding funcs never match", func(t *testing.T) {
		ev := New[int]("uncomparable")
		calls := 0
		ev.SubscribeListener(callbackListener{fn: func() { calls++ }})

		assert.NotPanics(t, func() {
			assert.False(t, ev.UnsubscribeListener(callbackListener{fn: func() {}}))
		})
		assert.Equal(t, 1, ev.Len())

		_, err := ev.Dispatch(0)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("subscription from another event is ignored", func(t *testing.T) {
		a := New[int]("a")
		b := New[int]("b")
		sub := a.Subscribe(func(int) {})
		b.Subscribe(func(int) {})

		assert.False(t, b.Unsubscribe(sub))
		assert.Equal(t, 1, a.Len())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("nil listeners are not registered", func(t *testing.T) {
		ev := New[int]("nil")
		assert.False(t, ev.Subscribe(nil).Valid())
		assert.False(t, ev.SubscribeListener(nil).Valid())
		assert.Zero(t, ev.Len())
	})
}

func TestMutationDuringDispatch(t *testing.T) {
	ev := New[int]("mutate")
	rec := &recorder{}

	var second Subscription
	ev.Subscribe(func(int) {
		rec.calls = append(rec.calls, "first")
		second.Unsubscribe()
		ev.Subscribe(rec.listener("late"))
	})
	second = ev.Subscribe(rec.listener("second"))

	n, err := ev.Dispatch(0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"first", "second"}, rec.calls, "the running dispatch keeps its snapshot")

	rec.calls = nil
	_, _ = ev.Dispatch(0)
	assert.Equal(t, []string{"first", "late"}, rec.calls)
}

func TestPanicIsolation(t *testing.T) {
	var reported []*ListenerPanic
	ev := New[int]("boom", WithPanicHandler(func(p *ListenerPanic) {
		reported = append(reported, p)
	}))
	rec := &recorder{}

	ev.Subscribe(rec.listener("before"))
	ev.Subscribe(func(int) { panic("listener failure") })
	ev.Subscribe(rec.listener("after"))

	n, err := ev.Dispatch(0)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"before", "after"}, rec.calls)

	require.Error(t, err)
	var lp *ListenerPanic
	require.True(t, errors.As(err, &lp))
	assert.Equal(t, "listener failure", lp.Value)
	assert.Equal(t, "boom", lp.Event)
	assert.NotEmpty(t, lp.Stack)
	assert.Contains(t, err.Error(), "boom listener panicked")

	require.Len(t, reported, 1)
	assert.Same(t, lp, reported[0])
}

func TestPanicHandlerFailureIsContained(t *testing.T) {
	ev := New[int]("hook", WithPanicHandler(func(*ListenerPanic) { panic("hook failure") }))
	called := false
	ev.Subscribe(func(int) { panic("first") })
	ev.Subscribe(func(int) { called = true })

	assert.NotPanics(t, func() { _, _ = ev.Dispatch(0) })
	assert.True(t, called)
}

func TestClose(t *testing.T) {
	ev := New[int]("window.key")
	calls := 0
	ev.Subscribe(func(int) { calls++ })

	ev.Close()
	ev.Close()
	assert.True(t, ev.Closed())

	n, err := ev.Dispatch(0)
	assert.Zero(t, n)
	assert.Zero(t, calls)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Contains(t, err.Error(), "window.key")
	assert.Equal(t, 1, ev.Len(), "registrations survive close")
}

type keyArgs struct {
	key    input.Key
	action input.Action
}

func (k keyArgs) ActionState() input.Action { return k.action }

func TestActionEvents(t *testing.T) {
	tests := []struct {
		action input.Action
		want   []string
	}{
		{input.Press, []string{"press", "any"}},
		{input.Release, []string{"release", "any"}},
		{input.Repeat, []string{"repeat", "any"}},
		{input.Action(42), []string{"repeat", "any"}},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			ae := NewActionEvents[keyArgs]("key")
			var calls []string
			var seen []keyArgs
			track := func(name string) func(keyArgs) {
				return func(a keyArgs) {
					calls = append(calls, name)
					seen = append(seen, a)
				}
			}
			ae.Press.Subscribe(track("press"))
			ae.Release.Subscribe(track("release"))
			ae.Repeat.Subscribe(track("repeat"))
			ae.Any.Subscribe(track("any"))

			args := keyArgs{key: input.KeyEscape, action: tt.action}
			require.NoError(t, ae.Fire(args))
			assert.Equal(t, tt.want, calls)
			for _, s := range seen {
				assert.Equal(t, args, s)
			}
		})
	}
}

func TestActionEventsIsStateless(t *testing.T) {
	ae := NewActionEvents[keyArgs]("key")
	presses := 0
	ae.Press.Subscribe(func(keyArgs) { presses++ })

	// two presses in a row without a release both reach the press stream
	require.NoError(t, ae.Fire(keyArgs{key: input.KeyA, action: input.Press}))
	require.NoError(t, ae.Fire(keyArgs{key: input.KeyA, action: input.Press}))
	assert.Equal(t, 2, presses)
}

func TestActionEventsClose(t *testing.T) {
	ae := NewActionEvents[keyArgs]("mouse")
	calls := 0
	ae.Press.Subscribe(func(keyArgs) { calls++ })
	ae.Any.Subscribe(func(keyArgs) { calls++ })

	ae.Close()
	err := ae.Fire(keyArgs{action: input.Press})
	assert.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, calls)
	assert.Equal(t, "mouse.press", ae.Press.Name())
}
