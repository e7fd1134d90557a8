// Package event turns single-slot native callbacks into multi-subscriber
// notifications.
//
// An Event[T] keeps an ordered list of registrations. Dispatch calls every
// registration in subscription order, synchronously, on the calling
// goroutine. A listener that panics is recovered and reported; the remaining
// listeners of the same dispatch still run.
//
// The registration list is copy-on-write: Dispatch iterates the list as it
// was when dispatch started, so subscribing or unsubscribing from inside a
// listener takes effect on the next dispatch.
package event

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

// ErrClosed is returned by Dispatch once the event has been closed.
var ErrClosed = errors.New("event is closed")

// Listener is the interface form of a subscriber. Listeners are matched by
// identity, so the same listener value may be subscribed several times and
// removed one registration at a time.
type Listener[T any] interface {
	Notify(args T)
}

// ListenerPanic describes a listener that panicked during dispatch.
type ListenerPanic struct {
	Event string
	Value any
	Stack []byte
}

func (p *ListenerPanic) Error() string {
	if p.Event == "" {
		return fmt.Sprintf("listener panicked: %v", p.Value)
	}
	return fmt.Sprintf("%s listener panicked: %v", p.Event, p.Value)
}

// PanicHandler observes recovered listener panics.
type PanicHandler func(p *ListenerPanic)

// Option configures an Event.
type Option func(*options)

type options struct {
	onPanic PanicHandler
}

// WithPanicHandler installs a hook called for every recovered listener panic.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.onPanic = h
	}
}

type registration[T any] struct {
	id       uint64
	fn       func(T)
	listener Listener[T]
}

// Event is an ordered multicast list for one event category. The zero value
// is ready to use.
type Event[T any] struct {
	name    string
	onPanic PanicHandler

	mu     sync.Mutex
	regs   []registration[T]
	nextID uint64
	closed bool
}

// New creates a named event. The name shows up in errors and logs.
func New[T any](name string, opts ...Option) *Event[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Event[T]{name: name, onPanic: o.onPanic}
}

// Name returns the event name given to New.
func (e *Event[T]) Name() string {
	return e.name
}

// Subscribe appends fn. The same function may be subscribed any number of
// times; each call returns an independent Subscription.
func (e *Event[T]) Subscribe(fn func(T)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	return e.add(registration[T]{fn: fn})
}

// SubscribeListener appends l.
func (e *Event[T]) SubscribeListener(l Listener[T]) Subscription {
	if l == nil {
		return Subscription{}
	}
	return e.add(registration[T]{listener: l})
}

func (e *Event[T]) add(r registration[T]) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	r.id = e.nextID

	// Force a fresh backing array so in-flight dispatches keep their view
	regs := make([]registration[T], len(e.regs), len(e.regs)+1)
	copy(regs, e.regs)
	e.regs = append(regs, r)

	return Subscription{id: r.id, owner: e}
}

// Unsubscribe removes exactly the registration s refers to. Removing a
// subscription that is not present is a no-op and returns false.
func (e *Event[T]) Unsubscribe(s Subscription) bool {
	if s.id == 0 || s.owner != remover(e) {
		return false
	}
	return e.remove(s.id)
}

// UnsubscribeListener removes the most recent registration of l. Other
// registrations of the same listener stay in place. A listener value that
// cannot be compared matches nothing.
func (e *Event[T]) UnsubscribeListener(l Listener[T]) bool {
	if l == nil {
		return false
	}

	e.mu.Lock()
	var id uint64
	for i := len(e.regs) - 1; i >= 0; i-- {
		if sameListener(e.regs[i].listener, l) {
			id = e.regs[i].id
			break
		}
	}
	e.mu.Unlock()

	if id == 0 {
		return false
	}
	return e.remove(id)
}

// sameListener reports a == b. Comparing interface values whose dynamic
// type holds a func, map or slice panics; such values are never equal.
func sameListener[T any](a, b Listener[T]) (same bool) {
	if a == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

func (e *Event[T]) remove(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.regs {
		if e.regs[i].id != id {
			continue
		}
		regs := make([]registration[T], 0, len(e.regs)-1)
		regs = append(regs, e.regs[:i]...)
		e.regs = append(regs, e.regs[i+1:]...)
		return true
	}
	return false
}

// Len returns the number of registrations.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.regs)
}

// Close stops all future dispatches. Registrations are kept but never called
// again. Close is idempotent.
func (e *Event[T]) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

// Closed reports whether Close has been called.
func (e *Event[T]) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Dispatch notifies every registration in subscription order and returns how
// many were called. Recovered listener panics are joined into the returned
// error as *ListenerPanic values.
func (e *Event[T]) Dispatch(args T) (int, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, e.closedErr()
	}
	regs := e.regs
	e.mu.Unlock()

	var errs []error
	for _, r := range regs {
		if err := e.invoke(r, args); err != nil {
			errs = append(errs, err)
		}
	}
	return len(regs), errors.Join(errs...)
}

func (e *Event[T]) closedErr() error {
	if e.name == "" {
		return ErrClosed
	}
	return fmt.Errorf("%s: %w", e.name, ErrClosed)
}

func (e *Event[T]) invoke(r registration[T], args T) (err error) {
	defer func() {
		if v := recover(); v != nil {
			p := &ListenerPanic{Event: e.name, Value: v, Stack: debug.Stack()}
			if e.onPanic != nil {
				func() {
					// A failing panic hook must not take the dispatch down
					defer func() { _ = recover() }()
					e.onPanic(p)
				}()
			}
			err = p
		}
	}()

	if r.listener != nil {
		r.listener.Notify(args)
	} else {
		r.fn(args)
	}
	return nil
}
