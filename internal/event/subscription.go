package event

type remover interface {
	remove(id uint64) bool
}

// Subscription identifies one registration on one event. The zero value
// refers to nothing and unsubscribing it is a no-op.
type Subscription struct {
	id    uint64
	owner remover
}

// Valid reports whether s came from a successful Subscribe call.
func (s Subscription) Valid() bool {
	return s.id != 0 && s.owner != nil
}

// Unsubscribe removes the registration from the event it was created on.
// It returns false when the registration is already gone.
func (s Subscription) Unsubscribe() bool {
	if !s.Valid() {
		return false
	}
	return s.owner.remove(s.id)
}
