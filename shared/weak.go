package shared

import (
	"github.com/wippyai/sharedptr/errors"
	"github.com/wippyai/sharedptr/internal/control"
)

// Weak observes the value owned by a Ptr without keeping it alive.
//
// The zero value and a nil *Weak are both empty observers. As with Ptr,
// Swap, Assign, AssignPtr and Reset need a non-nil receiver. A Weak is not
// synchronized; each goroutine should hold its own Clone.
type Weak[T any] struct {
	v T
	n control.WeakCount
}

// NewWeak returns an observer of p. Observing an empty handle yields an
// observer that is already expired.
func NewWeak[T any](p *Ptr[T]) *Weak[T] {
	return &Weak[T]{v: p.Get(), n: control.NewWeak(p.count())}
}

func (w *Weak[T]) count() control.WeakCount {
	if w == nil {
		return control.WeakCount{}
	}
	return w.n
}

// Lock returns a new owner of the observed value, or an empty handle if the
// value has already been finalized.
func (w *Weak[T]) Lock() *Ptr[T] {
	n, ok := control.TryFromWeak(w.count())
	if !ok {
		return &Ptr[T]{}
	}
	return &Ptr[T]{v: w.v, n: n}
}

// Promote is Lock with a bad weak reference error in place of an empty handle.
func (w *Weak[T]) Promote() (*Ptr[T], error) {
	return FromWeak(w)
}

// Expired reports whether the observed value has been finalized.
func (w *Weak[T]) Expired() bool {
	return w.UseCount() == 0
}

// UseCount returns the number of owners of the observed value.
func (w *Weak[T]) UseCount() int64 {
	return w.count().UseCount()
}

// Clone returns another observer of the same value.
func (w *Weak[T]) Clone() *Weak[T] {
	if w == nil {
		return &Weak[T]{}
	}
	return &Weak[T]{v: w.v, n: w.n.Clone()}
}

// Move transfers the observation to a new handle and leaves w empty.
func (w *Weak[T]) Move() *Weak[T] {
	if w == nil {
		return &Weak[T]{}
	}
	r := &Weak[T]{v: w.v, n: w.n.Move()}
	var zero T
	w.v = zero
	return r
}

// Assign makes w observe what r observes.
func (w *Weak[T]) Assign(r *Weak[T]) {
	mustObserver(w)
	w.v = r.get()
	w.n.Assign(r.count())
}

// AssignPtr makes w observe the value owned by p.
func (w *Weak[T]) AssignPtr(p *Ptr[T]) {
	mustObserver(w)
	w.v = p.Get()
	w.n.AssignShared(p.count())
}

func (w *Weak[T]) get() T {
	if w == nil {
		var zero T
		return zero
	}
	return w.v
}

// Swap exchanges the contents of w and r.
func (w *Weak[T]) Swap(r *Weak[T]) {
	mustObserver(w)
	mustObserver(r)
	w.v, r.v = r.v, w.v
	w.n.Swap(&r.n)
}

// Reset empties w.
func (w *Weak[T]) Reset() {
	mustObserver(w)
	var tmp Weak[T]
	tmp.Swap(w)
	tmp.Release()
}

// Release gives up the observation and leaves w empty.
func (w *Weak[T]) Release() {
	if w == nil {
		return
	}
	var zero T
	w.v = zero
	w.n.Release()
}

func mustObserver[T any](w *Weak[T]) {
	if w == nil {
		panic(errors.NilPointer(errors.PhaseReset, control.TypeName[*Weak[T]]()))
	}
}
