package resource

import (
	"sync"

	"github.com/wippyai/sharedptr/errors"
	"github.com/wippyai/sharedptr/shared"
)

var (
	ErrClosed            = errors.New(errors.PhaseResource, errors.KindClosed).Detail("resource backend closed").Build()
	ErrOutstandingBorrow = errors.New(errors.PhaseResource, errors.KindBusy).Detail("cannot drop resource with outstanding borrows").Build()
)

// LocalBackend is an in-memory handle table of shared pointers with borrow
// tracking. Each live entry holds one strong reference.
type LocalBackend[T any] struct {
	entries  []entry[T]
	freeList []Handle
	mu       sync.RWMutex
	closed   bool
}

type entry[T any] struct {
	ptr         *shared.Ptr[T]
	borrowCount uint32
	valid       bool
}

// NewLocalBackend creates an empty backend.
func NewLocalBackend[T any]() *LocalBackend[T] {
	return &LocalBackend[T]{
		entries:  make([]entry[T], 0, 64),
		freeList: make([]Handle, 0, 16),
	}
}

// Create stores a clone of p and returns a handle. p stays owned by the caller.
func (b *LocalBackend[T]) Create(p *shared.Ptr[T]) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	e := entry[T]{ptr: p.Clone(), valid: true}

	if len(b.freeList) > 0 {
		handle := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		b.entries[handle-1] = e
		return handle, nil
	}

	b.entries = append(b.entries, e)
	return Handle(len(b.entries)), nil
}

// lookup returns the live entry for handle. Callers hold b.mu.
func (b *LocalBackend[T]) lookup(handle Handle) *entry[T] {
	if handle == 0 || int(handle-1) >= len(b.entries) {
		return nil
	}
	e := &b.entries[handle-1]
	if !e.valid {
		return nil
	}
	return e
}

// Get returns a new owner of the stored pointer.
func (b *LocalBackend[T]) Get(handle Handle) (*shared.Ptr[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.ptr.Clone(), true
}

// Observe returns a weak handle to the stored pointer.
func (b *LocalBackend[T]) Observe(handle Handle) (*shared.Weak[T], bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.ptr.Weak(), true
}

// Drop removes an entry and returns the reference the backend held.
// Entries with outstanding borrows are refused.
func (b *LocalBackend[T]) Drop(handle Handle) (*shared.Ptr[T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	e := b.lookup(handle)
	if e == nil {
		return nil, errors.NotFound(errors.PhaseResource, "handle", handle)
	}
	if e.borrowCount > 0 {
		return nil, ErrOutstandingBorrow
	}

	p := e.ptr
	*e = entry[T]{}
	b.freeList = append(b.freeList, handle)
	return p, nil
}

// Borrow increments the borrow count for a handle.
func (b *LocalBackend[T]) Borrow(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return false
	}
	e.borrowCount++
	return true
}

// ReturnBorrow decrements the borrow count for a handle.
func (b *LocalBackend[T]) ReturnBorrow(handle Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil || e.borrowCount == 0 {
		return false
	}
	e.borrowCount--
	return true
}

// Len returns the number of live entries.
func (b *LocalBackend[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each calls fn for every live entry until fn returns false. The pointer
// passed to fn is borrowed from the backend; Clone it to keep it.
// fn must not call back into the backend.
func (b *LocalBackend[T]) Each(fn func(Handle, *shared.Ptr[T]) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(Handle(i+1), e.ptr) {
				break
			}
		}
	}
}

// Close releases every stored reference. Deleters run after the backend
// lock is dropped, so they may use other backends freely.
func (b *LocalBackend[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	held := make([]*shared.Ptr[T], 0, len(b.entries))
	for i := range b.entries {
		if b.entries[i].valid {
			held = append(held, b.entries[i].ptr)
		}
	}
	b.entries = nil
	b.freeList = nil
	b.mu.Unlock()

	for _, p := range held {
		p.Release()
	}
	return nil
}
