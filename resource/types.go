package resource

import "github.com/wippyai/sharedptr/shared"

// Handle is an opaque reference to a stored shared pointer.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventBorrowed
	EventBorrowReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventBorrowed:
		return "borrowed"
	case EventBorrowReturned:
		return "borrow-returned"
	}
	return "unknown"
}

// Event describes a lifecycle change of a stored pointer.
// Value is not owned by the observer and must not be retained past the
// callback; Owner identifies the control block.
type Event[T any] struct {
	Value  T
	Owner  uintptr
	Handle Handle
	Type   EventType
}

// Observer receives notifications about table events.
type Observer[T any] interface {
	OnResourceEvent(Event[T])
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc[T any] func(Event[T])

// OnResourceEvent calls f(e).
func (f ObserverFunc[T]) OnResourceEvent(e Event[T]) { f(e) }

// Backend provides the underlying storage for shared pointers.
type Backend[T any] interface {
	// Create stores a clone of p and returns its handle.
	Create(p *shared.Ptr[T]) (Handle, error)

	// Get returns a new owner of the stored pointer. The caller releases it.
	Get(handle Handle) (*shared.Ptr[T], bool)

	// Observe returns a weak handle to the stored pointer.
	Observe(handle Handle) (*shared.Weak[T], bool)

	// Drop removes the entry and hands its reference to the caller.
	Drop(handle Handle) (*shared.Ptr[T], error)

	// Close releases every stored reference.
	Close() error
}
