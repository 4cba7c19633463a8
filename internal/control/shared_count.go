package control

import (
	"go.uber.org/zap"

	"github.com/wippyai/sharedptr"
	"github.com/wippyai/sharedptr/errors"
)

// SharedCount holds one strong reference to a control block.
// The zero value is empty.
type SharedCount struct {
	b *Block
}

// NewShared adopts v into a fresh control block with strong and weak counts
// of one. If alloc is non-nil it must reserve the block first; when it fails
// del runs on v before the allocation error is returned, so the value is
// never leaked.
func NewShared[T any](v T, del sharedptr.Deleter[T], alloc sharedptr.BlockAllocator) (SharedCount, error) {
	if alloc != nil {
		if err := alloc.AllocBlock(); err != nil {
			del.Delete(v)
			return SharedCount{}, errors.AllocationFailed(errors.PhaseAdopt, TypeName[T](), err)
		}
	}

	b := newBlock(v, del, alloc)
	if ce := Logger().Check(zap.DebugLevel, "adopt"); ce != nil {
		ce.Write(zap.Uintptr("block", b.Addr()), zap.String("type", b.typ))
	}
	return SharedCount{b: b}, nil
}

// FromWeak promotes a weak reference. It fails with a bad weak reference
// error when w is empty or the strong count has already reached zero.
func FromWeak(w WeakCount) (SharedCount, error) {
	c, ok := TryFromWeak(w)
	if !ok {
		typ := ""
		if w.b != nil {
			typ = w.b.typ
		}
		return SharedCount{}, errors.BadWeakRef(typ)
	}
	return c, nil
}

// TryFromWeak promotes a weak reference, reporting failure instead of an error.
func TryFromWeak(w WeakCount) (SharedCount, bool) {
	if w.b == nil || !w.b.counts.TryIncStrong() {
		return SharedCount{}, false
	}
	return SharedCount{b: w.b}, true
}

// Clone returns a new strong reference to the same block.
func (c SharedCount) Clone() SharedCount {
	if c.b != nil {
		c.b.counts.IncStrong()
	}
	return c
}

// Release drops the strong reference and leaves c empty.
// The last strong reference disposes the value; the last weak reference
// destroys the block.
func (c *SharedCount) Release() {
	b := c.b
	c.b = nil
	if b != nil {
		b.release()
	}
}

// Assign makes c share r's block. The new reference is taken before the old
// one is dropped; assigning a count to itself is a no-op.
func (c *SharedCount) Assign(r SharedCount) {
	if c.b == r.b {
		return
	}
	if r.b != nil {
		r.b.counts.IncStrong()
	}
	old := c.b
	c.b = r.b
	if old != nil {
		old.release()
	}
}

// Move transfers the reference out of c without touching the counts.
func (c *SharedCount) Move() SharedCount {
	r := *c
	c.b = nil
	return r
}

// Swap exchanges the blocks of c and r.
func (c *SharedCount) Swap(r *SharedCount) {
	c.b, r.b = r.b, c.b
}

// UseCount returns the strong count, or 0 when empty.
func (c SharedCount) UseCount() int64 {
	return c.b.UseCount()
}

// Unique reports whether c is the only strong reference.
func (c SharedCount) Unique() bool {
	return c.UseCount() == 1
}

// Empty reports whether c references no block.
func (c SharedCount) Empty() bool {
	return c.b == nil
}

// Block returns the referenced block, or nil.
func (c SharedCount) Block() *Block {
	return c.b
}

// Deleter returns the block's destruction strategy, or nil when empty.
func (c SharedCount) Deleter() any {
	if c.b == nil {
		return nil
	}
	return c.b.d.Deleter()
}
