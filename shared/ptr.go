package shared

import (
	"reflect"

	"github.com/wippyai/sharedptr"
	"github.com/wippyai/sharedptr/errors"
	"github.com/wippyai/sharedptr/internal/control"
)

// Ptr is a reference-counted owning handle.
//
// It pairs the value it points at with a strong reference to a control
// block. The two are independent: an aliasing handle may point at a field
// of the owned value, or at nothing, while still keeping the owned value
// alive. The zero value and a nil *Ptr are both empty handles.
//
// Read-only methods, Clone, Move and Release accept a nil *Ptr. Methods that
// store into the handle (Swap, Assign, Reset and the ResetTo family) need a
// non-nil receiver and panic with a nil pointer error otherwise; a nil
// argument to Assign or ResetFrom is read as an empty handle.
//
// A Ptr is not synchronized. Each goroutine should hold its own Clone.
type Ptr[T any] struct {
	v T
	n control.SharedCount
}

// New adopts v with the default deleter. The returned handle is the only owner.
func New[T any](v T) *Ptr[T] {
	return mustAdopt(v, DefaultDeleter[T]{})
}

// NewWithDeleter adopts v and finalizes it with d.
func NewWithDeleter[T any](v T, d sharedptr.Deleter[T]) *Ptr[T] {
	return mustAdopt(v, d)
}

// Adopt adopts v, reserving its control block from a.
//
// A nil d selects DefaultDeleter and a nil a allocates from the Go heap.
// If a cannot reserve a block, d runs on v and an allocation error is
// returned: ownership is not established and nothing leaks.
func Adopt[T any](v T, d sharedptr.Deleter[T], a sharedptr.BlockAllocator) (*Ptr[T], error) {
	if d == nil {
		d = DefaultDeleter[T]{}
	}
	n, err := control.NewShared(v, d, a)
	if err != nil {
		return nil, err
	}
	return &Ptr[T]{v: v, n: n}, nil
}

func mustAdopt[T any](v T, d sharedptr.Deleter[T]) *Ptr[T] {
	p, err := Adopt(v, d, nil)
	if err != nil {
		// heap blocks are never refused
		panic(err)
	}
	return p
}

// FromWeak promotes w to an owning handle. It fails with a bad weak
// reference error when the observed value has already been finalized.
func FromWeak[T any](w *Weak[T]) (*Ptr[T], error) {
	n, err := control.FromWeak(w.count())
	if err != nil {
		return nil, err
	}
	return &Ptr[T]{v: w.v, n: n}, nil
}

func (p *Ptr[T]) count() control.SharedCount {
	if p == nil {
		return control.SharedCount{}
	}
	return p.n
}

// Get returns the value without checking it. Ownership is unchanged.
func (p *Ptr[T]) Get() T {
	if p == nil {
		var zero T
		return zero
	}
	return p.v
}

// Must returns the value, panicking if it is the zero value.
func (p *Ptr[T]) Must() T {
	if p.IsNil() {
		panic(errors.NilPointer(errors.PhaseAccess, control.TypeName[T]()))
	}
	return p.v
}

// Deref returns the element p points at, panicking if p points at nil.
func Deref[E any](p *Ptr[*E]) E {
	return *p.Must()
}

// IsNil reports whether the handle points at the zero value.
func (p *Ptr[T]) IsNil() bool {
	return p == nil || isZero(p.v)
}

// Valid reports whether the handle points at a non-zero value.
func (p *Ptr[T]) Valid() bool {
	return !p.IsNil()
}

// UseCount returns the number of owners sharing this handle's control block.
// The value is a snapshot for diagnostics.
func (p *Ptr[T]) UseCount() int64 {
	return p.count().UseCount()
}

// Unique reports whether this handle is the only owner.
func (p *Ptr[T]) Unique() bool {
	return p.count().Unique()
}

// Clone returns a new owner of the same value.
func (p *Ptr[T]) Clone() *Ptr[T] {
	if p == nil {
		return &Ptr[T]{}
	}
	return &Ptr[T]{v: p.v, n: p.n.Clone()}
}

// Move transfers ownership to a new handle and leaves p empty.
func (p *Ptr[T]) Move() *Ptr[T] {
	if p == nil {
		return &Ptr[T]{}
	}
	r := &Ptr[T]{v: p.v, n: p.n.Move()}
	var zero T
	p.v = zero
	return r
}

// Release gives up ownership and leaves p empty. Releasing the last owner
// runs the deleter on the calling goroutine.
func (p *Ptr[T]) Release() {
	if p == nil {
		return
	}
	var zero T
	p.v = zero
	p.n.Release()
}

// Swap exchanges the contents of p and r. Both must be non-nil.
func (p *Ptr[T]) Swap(r *Ptr[T]) {
	if p == nil || r == nil {
		panic(errors.NilPointer(errors.PhaseReset, control.TypeName[*Ptr[T]]()))
	}
	p.v, r.v = r.v, p.v
	p.n.Swap(&r.n)
}

// Swap exchanges the contents of a and b.
func Swap[T any](a, b *Ptr[T]) {
	a.Swap(b)
}

// Assign makes p share r's value and ownership. Assigning a handle to
// itself is safe.
func (p *Ptr[T]) Assign(r *Ptr[T]) {
	mustHandle(p)
	tmp := r.Clone()
	tmp.Swap(p)
	tmp.Release()
}

// Reset empties p, releasing what it owned.
func (p *Ptr[T]) Reset() {
	mustHandle(p)
	var tmp Ptr[T]
	tmp.Swap(p)
	tmp.Release()
}

// ResetTo releases what p owned and adopts v with the default deleter.
// Resetting to the value p already owns would finalize it twice, so a
// non-zero v equal to Get() panics.
func (p *Ptr[T]) ResetTo(v T) {
	p.ResetWithDeleter(v, DefaultDeleter[T]{})
}

// ResetWithDeleter releases what p owned and adopts v with d.
func (p *Ptr[T]) ResetWithDeleter(v T, d sharedptr.Deleter[T]) {
	mustHandle(p)
	if !isZero(v) && sameValue(any(v), any(p.v)) {
		panic(errors.DoubleAdopt(control.TypeName[T](), v))
	}
	tmp := mustAdopt(v, d)
	tmp.Swap(p)
	tmp.Release()
}

// ResetFrom makes p share r's ownership, like Assign.
func (p *Ptr[T]) ResetFrom(r *Ptr[T]) {
	p.Assign(r)
}

// Weak returns an observer of p.
func (p *Ptr[T]) Weak() *Weak[T] {
	return NewWeak(p)
}

// Equivalent reports whether p and r point at the same value through the
// same control block.
func (p *Ptr[T]) Equivalent(r *Ptr[T]) bool {
	return p.count().Block() == r.count().Block() && sameValue(any(p.Get()), any(r.Get()))
}

func mustHandle[T any](p *Ptr[T]) {
	if p == nil {
		panic(errors.NilPointer(errors.PhaseReset, control.TypeName[*Ptr[T]]()))
	}
}

func isZero[T any](v T) bool {
	return reflect.ValueOf(&v).Elem().IsZero()
}

// sameValue reports whether a and b are the same value. Reference kinds
// compare by what they point at, so slices, maps and funcs are identified
// by their backing storage even though == does not accept them.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map:
		return ra.Pointer() == rb.Pointer()
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	}
	if !ra.Comparable() || !rb.Comparable() {
		return false
	}
	return a == b
}
