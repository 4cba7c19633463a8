// Package guest shares ownership of WASM guest memory regions.
//
// A region is allocated through a sharedptr.Allocator, typically the guest
// module's own allocator exports, and returned inside a *shared.Ptr. The
// region goes back to the guest through the allocator's Free exactly once,
// when its last owner releases it. Sub-regions made with Slice are aliasing
// handles: they keep the whole allocation alive.
//
//	alloc, err := guest.NewWazeroAllocator(ctx, mod)
//	mem := guest.NewWazeroMemory(mod.Memory())
//
//	buf, err := guest.Alloc(alloc, 64, 8)
//	defer buf.Release()
//
//	hdr, err := guest.Slice(buf, 0, 8)
//	guest.Write(mem, hdr, header)
//	hdr.Release()
package guest
