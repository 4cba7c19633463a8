package guest

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/sharedptr/errors"
)

// Export names probed for the guest allocator, in order of preference.
const (
	CabiRealloc = "cabi_realloc"
	CabiFree    = "cabi_free"

	legacyRealloc = "canonical_abi_realloc"
	legacyAlloc   = "allocate"
	simpleAlloc   = "alloc"
	legacyDealloc = "deallocate"
	simpleFree    = "free"
)

// WazeroAllocator allocates guest memory by calling a module's allocator
// exports. It serializes calls; a module instance is not reentrant.
type WazeroAllocator struct {
	allocFn       api.Function
	freeFn        api.Function
	ctx           context.Context
	stackBuf      [4]uint64
	freeParams    int
	mu            sync.Mutex
	isSimpleAlloc bool
}

// NewWazeroAllocator binds to the allocator exports of mod. Realloc-style
// exports take (old_ptr, old_size, align, new_size); exports with fewer
// parameters are called as alloc(size). A module without a free export
// gets an allocator whose Free does nothing.
func NewWazeroAllocator(ctx context.Context, mod api.Module) (*WazeroAllocator, error) {
	defs := mod.ExportedFunctionDefinitions()

	var allocDef api.FunctionDefinition
	for _, name := range []string{CabiRealloc, legacyRealloc, legacyAlloc, simpleAlloc} {
		if d, ok := defs[name]; ok {
			allocDef = d
			break
		}
	}
	if allocDef == nil {
		return nil, errors.NotFound(errors.PhaseGuest, "allocator export", CabiRealloc)
	}

	a := &WazeroAllocator{
		allocFn:       mod.ExportedFunction(allocDef.Name()),
		ctx:           ctx,
		isSimpleAlloc: len(allocDef.ParamTypes()) < 4,
	}

	for _, name := range []string{CabiFree, legacyDealloc, simpleFree} {
		if fn := mod.ExportedFunction(name); fn != nil {
			a.freeFn = fn
			a.freeParams = len(fn.Definition().ParamTypes())
			break
		}
	}
	return a, nil
}

// SetContext sets the context used for subsequent guest calls.
func (a *WazeroAllocator) SetContext(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx = ctx
}

func (a *WazeroAllocator) callCtx() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Alloc calls the guest allocator.
func (a *WazeroAllocator) Alloc(size, align uint32) (uint32, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isSimpleAlloc {
		a.stackBuf[0] = uint64(size)
		if err := a.allocFn.CallWithStack(a.callCtx(), a.stackBuf[:1]); err != nil {
			return 0, err
		}
		return uint32(a.stackBuf[0]), nil
	}
	a.stackBuf[0] = 0
	a.stackBuf[1] = 0
	a.stackBuf[2] = uint64(align)
	a.stackBuf[3] = uint64(size)
	if err := a.allocFn.CallWithStack(a.callCtx(), a.stackBuf[:4]); err != nil {
		return 0, err
	}
	return uint32(a.stackBuf[0]), nil
}

// Free returns a block to the guest. Failures are logged, not returned:
// Free runs from deleters, which have no caller to report to.
func (a *WazeroAllocator) Free(ptr, size, align uint32) {
	if a.freeFn == nil || ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = uint64(ptr)
	a.stackBuf[1] = uint64(size)
	a.stackBuf[2] = uint64(align)
	n := max(a.freeParams, 1)
	if err := a.freeFn.CallWithStack(a.callCtx(), a.stackBuf[:n]); err != nil {
		Logger().Warn("free guest region",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}

// WazeroMemory adapts wazero linear memory to sharedptr.Memory.
type WazeroMemory struct {
	mem api.Memory
}

// NewWazeroMemory wraps mem.
func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

// Read returns a view of guest memory. The view is invalidated when the
// memory grows.
func (m *WazeroMemory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGuest, offset, length, m.mem.Size())
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseGuest, offset, uint32(len(data)), m.mem.Size())
	}
	return nil
}

// Size returns the memory size in bytes.
func (m *WazeroMemory) Size() uint32 {
	return m.mem.Size()
}
