package shared

import "github.com/wippyai/sharedptr/internal/control"

// Owner is implemented by every Ptr and Weak, whatever their value type.
type Owner interface {
	ownerBlock() *control.Block
}

func (p *Ptr[T]) ownerBlock() *control.Block {
	return p.count().Block()
}

func (w *Weak[T]) ownerBlock() *control.Block {
	return w.count().Block()
}

// OwnerBefore reports whether p's control block orders before o's.
// Handles sharing a control block are equivalent under this ordering, even
// when they alias different values.
func (p *Ptr[T]) OwnerBefore(o Owner) bool {
	return control.Less(p.ownerBlock(), o.ownerBlock())
}

// OwnerBefore reports whether w's control block orders before o's.
func (w *Weak[T]) OwnerBefore(o Owner) bool {
	return control.Less(w.ownerBlock(), o.ownerBlock())
}

// OwnerLess is a strict weak ordering over handles by control block,
// suitable for sort.Slice and ordered containers.
func OwnerLess(a, b Owner) bool {
	return control.Less(a.ownerBlock(), b.ownerBlock())
}

// OwnerID returns the identity of p's control block, or 0 when empty.
// Handles sharing ownership have the same OwnerID, so it can key a map of
// ownership groups. The id is unique only while a handle or observer of the
// group is live: once the block is destroyed a later block may reuse it.
func (p *Ptr[T]) OwnerID() uintptr {
	return p.ownerBlock().Addr()
}

// OwnerID returns the identity of w's control block, or 0 when empty.
func (w *Weak[T]) OwnerID() uintptr {
	return w.ownerBlock().Addr()
}

// Equal reports whether a and b point at the same value. Ownership is not
// compared, so an alias equals any handle that points where it points.
// Slices, maps and funcs are equal when they share backing storage (and,
// for slices, length); other non-comparable values are never equal.
func Equal[T, U any](a *Ptr[T], b *Ptr[U]) bool {
	return sameValue(any(a.Get()), any(b.Get()))
}
