package resource

import (
	"sync"

	"github.com/wippyai/sharedptr/shared"
)

// Table stores shared pointers behind handles and notifies observers of
// their lifecycle.
type Table[T any] struct {
	backend   *LocalBackend[T]
	observers []Observer[T]
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a table backed by a LocalBackend.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		backend: NewLocalBackend[T](),
	}
}

// Insert stores a clone of p and returns its handle, or 0 once closed.
func (t *Table[T]) Insert(p *shared.Ptr[T]) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(p)
	if err != nil {
		return 0
	}

	t.notify(Event[T]{
		Type:   EventCreated,
		Handle: handle,
		Owner:  p.OwnerID(),
		Value:  p.Get(),
	})

	return handle
}

// Get returns a new owner of the stored pointer. The caller releases it.
func (t *Table[T]) Get(handle Handle) (*shared.Ptr[T], bool) {
	return t.backend.Get(handle)
}

// Observe returns a weak handle that expires once every owner, the table
// included, has released the value.
func (t *Table[T]) Observe(handle Handle) (*shared.Weak[T], bool) {
	return t.backend.Observe(handle)
}

// Borrow pins a handle so that Remove refuses it.
func (t *Table[T]) Borrow(handle Handle) bool {
	if !t.backend.Borrow(handle) {
		return false
	}
	t.notifyHandle(EventBorrowed, handle)
	return true
}

// ReturnBorrow unpins a handle.
func (t *Table[T]) ReturnBorrow(handle Handle) bool {
	if !t.backend.ReturnBorrow(handle) {
		return false
	}
	t.notifyHandle(EventBorrowReturned, handle)
	return true
}

// Remove drops the table's reference. The value is finalized here only if
// no other owner remains.
func (t *Table[T]) Remove(handle Handle) bool {
	p, err := t.backend.Drop(handle)
	if err != nil {
		return false
	}

	t.notify(Event[T]{
		Type:   EventDropped,
		Handle: handle,
		Owner:  p.OwnerID(),
		Value:  p.Get(),
	})

	p.Release()
	return true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer[T]) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer. Observers are compared with ==, so only
// comparable observers may be passed here; an ObserverFunc is not one.
func (t *Table[T]) Unsubscribe(o Observer[T]) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of stored pointers.
func (t *Table[T]) Len() int {
	return t.backend.Len()
}

// Clear removes every entry that is not borrowed.
func (t *Table[T]) Clear() {
	var handles []Handle
	t.backend.Each(func(h Handle, _ *shared.Ptr[T]) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all stored references and stops accepting inserts.
func (t *Table[T]) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

// Backend returns the underlying storage.
func (t *Table[T]) Backend() Backend[T] {
	return t.backend
}

func (t *Table[T]) notifyHandle(typ EventType, handle Handle) {
	p, ok := t.backend.Get(handle)
	if !ok {
		return
	}
	defer p.Release()
	t.notify(Event[T]{Type: typ, Handle: handle, Owner: p.OwnerID(), Value: p.Get()})
}

func (t *Table[T]) notify(e Event[T]) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
