// Package sharedptr provides reference-counted shared ownership for Go values.
//
// A value adopted by a shared pointer may have many independent owners. The
// value's deleter runs exactly once, on the goroutine that releases the last
// owning handle. Observer handles watch the value without keeping it alive
// and can be promoted back to owners while the value still exists.
//
// # Architecture Overview
//
//	sharedptr/           Root package with Deleter, Dropper and allocator interfaces
//	├── shared/          Ptr and Weak handles, casts, default deleter
//	├── internal/        Atomic counters and control blocks
//	├── resource/        Handle table storing shared pointers
//	├── guest/           WASM guest memory regions owned by shared pointers
//	├── errors/          Structured error types
//	└── cmd/spdemo/      Demo driver
//
// # Quick Start
//
//	p := shared.New(conn)   // strong count 1
//	q := p.Clone()          // strong count 2
//	w := p.Weak()           // observer, strong count unchanged
//
//	p.Release()
//	q.Release()             // conn.Close() runs here
//
//	w.Expired()             // true
//	w.Lock().IsNil()        // true
//
// # Ownership Rules
//
// Go copies structs without running code, so sharing is explicit. Clone adds
// an owner, Release removes one, Move transfers ownership and leaves the
// source empty. Assigning a *shared.Ptr variable to another variable does not
// add an owner; both variables then refer to the same handle object.
//
// # Thread Safety
//
// Clone, Release and promotion of handles that share one control block are
// safe from any goroutine without locking. A single handle object is not
// synchronized, so give each goroutine its own clone. The pointed-to value is
// never synchronized by this library.
//
// # Cycles
//
// Reference counting cannot reclaim cycles. If A owns B and B owns A, neither
// is ever finalized. Break such cycles with a Weak handle on one side.
package sharedptr
