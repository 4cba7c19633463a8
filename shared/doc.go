// Package shared provides reference-counted owning handles (Ptr) and
// non-owning observer handles (Weak).
//
// # Owning Handles
//
// New adopts a value with a strong count of one. Every Clone adds an owner
// and every Release removes one; the last Release runs the value's deleter:
//
//	p := shared.New(file)        // UseCount() == 1
//	q := p.Clone()               // UseCount() == 2
//	p.Release()                  // UseCount() == 1 through q
//	q.Release()                  // file.Close() runs here
//
// The default deleter calls Drop (sharedptr.Dropper) or Close (io.Closer).
// Custom deleters are supplied with NewWithDeleter or Adopt:
//
//	p := shared.NewWithDeleter(buf, sharedptr.DeleterFunc[*Buffer](pool.Put))
//
// # Aliasing
//
// Alias builds a handle that owns one value but points at another, typically
// a field of the owned value:
//
//	cfg := shared.Alias(server, &server.Get().Config)
//	server.Release()             // server stays alive through cfg
//
// # Observers
//
// Weak handles track the control block without keeping the value alive:
//
//	w := p.Weak()
//	if q := w.Lock(); q.Valid() {
//	    defer q.Release()
//	    use(q.Get())
//	}
//
// Promote is the error-returning form; it fails with errors.ErrBadWeakRef
// once the value is gone.
//
// # Casts
//
// StaticCast, DynamicCast, ConstCast and ReinterpretCast produce handles that
// share the source's ownership with a converted value. A failed DynamicCast
// returns a fully empty handle with UseCount() == 0.
//
// # Ordering
//
// OwnerBefore orders handles by control block, not by value, so every
// aliased view of one allocation sorts together. OwnerID gives the same
// identity as a map key.
//
// # Contract Violations
//
// Must and Deref on an empty handle, ResetTo with the value already owned,
// and impossible StaticCast or ReinterpretCast conversions panic with an
// *errors.Error. They are programming errors, not runtime conditions.
package shared
