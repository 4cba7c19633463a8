// Package control implements control blocks and the strong and weak count
// handles that reference them.
//
// A Block owns a type-erased Disposer and an atomic counter pair. SharedCount
// contributes one strong unit to a block and WeakCount one weak unit. When the
// strong count reaches zero the disposer finalizes the value; when the weak
// count reaches zero the block itself is destroyed.
package control

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/sharedptr"
	"github.com/wippyai/sharedptr/internal/counter"
)

// Disposer pairs an owned value with its destruction strategy.
//
// Dispose runs at most once and always before Destroy. After Dispose the
// value is no longer reachable through the disposer.
type Disposer interface {
	// Dispose finalizes the owned value. The block stays allocated.
	Dispose()

	// Destroy releases the block itself.
	Destroy()

	// Deleter returns the destruction strategy for introspection.
	Deleter() any
}

type disposer[T any] struct {
	value    T
	del      sharedptr.Deleter[T]
	alloc    sharedptr.BlockAllocator
	disposed atomic.Bool
}

func (d *disposer[T]) Dispose() {
	if !d.disposed.CompareAndSwap(false, true) {
		return
	}
	v := d.value
	var zero T
	d.value = zero
	d.del.Delete(v)
}

func (d *disposer[T]) Destroy() {
	if d.alloc != nil {
		d.alloc.FreeBlock()
	}
}

func (d *disposer[T]) Deleter() any {
	return d.del
}

// Block is the control block shared by every handle of one ownership group.
type Block struct {
	counts counter.Counts
	d      Disposer
	typ    string
}

func newBlock[T any](v T, del sharedptr.Deleter[T], alloc sharedptr.BlockAllocator) *Block {
	b := &Block{
		d: &disposer[T]{
			value: v,
			del:   del,
			alloc: alloc,
		},
		typ: TypeName[T](),
	}
	b.counts.Init()
	return b
}

// Addr returns the block's address, or 0 for a nil block.
// It is the identity used for owner ordering.
func (b *Block) Addr() uintptr {
	return uintptr(unsafe.Pointer(b))
}

// UseCount returns a snapshot of the strong count, or 0 for a nil block.
func (b *Block) UseCount() int64 {
	if b == nil {
		return 0
	}
	return b.counts.Strong()
}

// WeakCount returns a snapshot of the weak count, or 0 for a nil block.
func (b *Block) WeakCount() int64 {
	if b == nil {
		return 0
	}
	return b.counts.Weak()
}

func (b *Block) release() {
	if !b.counts.DecStrong() {
		return
	}
	if ce := Logger().Check(zap.DebugLevel, "dispose"); ce != nil {
		ce.Write(zap.Uintptr("block", b.Addr()), zap.String("type", b.typ))
	}
	b.d.Dispose()
	b.weakRelease()
}

func (b *Block) weakRelease() {
	if !b.counts.DecWeak() {
		return
	}
	if ce := Logger().Check(zap.DebugLevel, "destroy"); ce != nil {
		ce.Write(zap.Uintptr("block", b.Addr()), zap.String("type", b.typ))
	}
	b.d.Destroy()
}

// TypeName returns the Go type name of T, including interface types.
func TypeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Less orders blocks by address. A nil block sorts first.
func Less(a, b *Block) bool {
	return a.Addr() < b.Addr()
}
