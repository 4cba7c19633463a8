package sharedptr

// Deleter finalizes a value once its last owner releases it.
// Delete runs exactly once per adopted value and must not re-enter
// the ownership of the value it is finalizing.
type Deleter[T any] interface {
	Delete(v T)
}

// DeleterFunc adapts an ordinary function to the Deleter interface.
type DeleterFunc[T any] func(v T)

// Delete calls f(v).
func (f DeleterFunc[T]) Delete(v T) {
	f(v)
}

// Dropper is optionally implemented by owned values that need cleanup.
// The default deleter calls Drop in preference to io.Closer.
type Dropper interface {
	Drop()
}

// BlockAllocator reserves capacity for control blocks.
// AllocBlock is called once per adoption before ownership is established;
// FreeBlock is called once when the block is destroyed.
type BlockAllocator interface {
	AllocBlock() error
	FreeBlock()
}

// Memory represents WASM linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator allocates memory in WASM linear memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
