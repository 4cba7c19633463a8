package guest

import (
	"github.com/wippyai/sharedptr"
	"github.com/wippyai/sharedptr/errors"
	"github.com/wippyai/sharedptr/internal/control"
	"github.com/wippyai/sharedptr/shared"
)

// Region is a span of guest linear memory.
type Region struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// End returns the offset one past the last byte of r.
func (r Region) End() uint64 {
	return uint64(r.Ptr) + uint64(r.Size)
}

// Contains reports whether [off, off+n) lies within r, relative to r.Ptr.
func (r Region) Contains(off, n uint32) bool {
	return uint64(off)+uint64(n) <= uint64(r.Size)
}

// freer returns a region to the allocator it came from.
type freer struct {
	alloc sharedptr.Allocator
}

func (f freer) Delete(r Region) {
	f.alloc.Free(r.Ptr, r.Size, r.Align)
}

// Alloc reserves size bytes aligned to align and returns the only owner of
// the new region. An align of 0 means 1.
func Alloc(a sharedptr.Allocator, size, align uint32) (*shared.Ptr[Region], error) {
	if align == 0 {
		align = 1
	}
	ptr, err := a.Alloc(size, align)
	if err != nil {
		return nil, errors.GuestAllocationFailed(size, align, err)
	}
	if ptr == 0 && size > 0 {
		return nil, errors.GuestAllocationFailed(size, align, nil)
	}
	if align > 1 && ptr%align != 0 {
		a.Free(ptr, size, align)
		return nil, errors.New(errors.PhaseGuest, errors.KindAllocation).
			GoType(control.TypeName[Region]()).
			Value(ptr).
			Detail("allocator returned %#x, not aligned to %d", ptr, align).
			Build()
	}
	return shared.NewWithDeleter[Region](Region{Ptr: ptr, Size: size, Align: align}, freer{alloc: a}), nil
}

// Slice returns an aliasing handle to n bytes of p starting at off.
// The slice shares ownership of the whole allocation.
func Slice(p *shared.Ptr[Region], off, n uint32) (*shared.Ptr[Region], error) {
	if p.IsNil() {
		return nil, errors.NilPointer(errors.PhaseGuest, control.TypeName[Region]())
	}
	r := p.Get()
	if !r.Contains(off, n) {
		return nil, errors.OutOfBounds(errors.PhaseGuest, off, n, r.Size)
	}
	return shared.Alias(p, Region{Ptr: r.Ptr + off, Size: n, Align: 1}), nil
}

// Read copies the bytes of the region p points at out of m.
func Read(m sharedptr.Memory, p *shared.Ptr[Region]) ([]byte, error) {
	if p.IsNil() {
		return nil, errors.NilPointer(errors.PhaseGuest, control.TypeName[Region]())
	}
	r := p.Get()
	data, err := m.Read(r.Ptr, r.Size)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGuest, errors.KindOutOfBounds, err, "read region")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write copies data into the start of the region p points at.
func Write(m sharedptr.Memory, p *shared.Ptr[Region], data []byte) error {
	if p.IsNil() {
		return errors.NilPointer(errors.PhaseGuest, control.TypeName[Region]())
	}
	r := p.Get()
	if uint64(len(data)) > uint64(r.Size) {
		return errors.OutOfBounds(errors.PhaseGuest, 0, uint32(len(data)), r.Size)
	}
	if err := m.Write(r.Ptr, data); err != nil {
		return errors.Wrap(errors.PhaseGuest, errors.KindOutOfBounds, err, "write region")
	}
	return nil
}
