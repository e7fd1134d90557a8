package event

import (
	"errors"

	"github.com/bnema/nativewindow/internal/input"
)

// Stateful is implemented by argument snapshots that carry a press, release
// or repeat state.
type Stateful interface {
	ActionState() input.Action
}

// ActionEvents fans one raw press/release/repeat callback out into separate
// streams. Any receives every state.
type ActionEvents[T Stateful] struct {
	Press   *Event[T]
	Release *Event[T]
	Repeat  *Event[T]
	Any     *Event[T]
}

// NewActionEvents creates the four streams, named "<name>.press" and so on.
func NewActionEvents[T Stateful](name string, opts ...Option) *ActionEvents[T] {
	return &ActionEvents[T]{
		Press:   New[T](name+".press", opts...),
		Release: New[T](name+".release", opts...),
		Repeat:  New[T](name+".repeat", opts...),
		Any:     New[T](name+".any", opts...),
	}
}

// Stream returns the state-specific stream for a.
func (ae *ActionEvents[T]) Stream(a input.Action) *Event[T] {
	switch a {
	case input.Press:
		return ae.Press
	case input.Release:
		return ae.Release
	default:
		return ae.Repeat
	}
}

// Fire notifies the stream matching args.ActionState(), then Any. The choice
// depends on the snapshot alone; no previous state is consulted.
func (ae *ActionEvents[T]) Fire(args T) error {
	_, errSpecific := ae.Stream(args.ActionState()).Dispatch(args)
	_, errAny := ae.Any.Dispatch(args)
	return errors.Join(errSpecific, errAny)
}

// Close closes all four streams.
func (ae *ActionEvents[T]) Close() {
	ae.Press.Close()
	ae.Release.Close()
	ae.Repeat.Close()
	ae.Any.Close()
}
