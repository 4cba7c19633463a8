// Package errors provides structured error types for the sharedptr library.
//
// Errors are categorized by Phase (which ownership operation failed) and Kind
// (error category). The Error type carries the Go type involved, a detail
// message and an optional cause.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePromote, errors.KindBadWeakRef).
//		GoType("*net.TCPConn").
//		Detail("object no longer available").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.BadWeakRef("*net.TCPConn")
//	err := errors.AllocationFailed(errors.PhaseAdopt, "*net.TCPConn", cause)
//
// Recoverable errors (allocation failure, bad weak reference) are returned.
// Contract violations (nil dereference, double adoption, impossible casts)
// are raised with panic, carrying an *Error as the panic value.
//
// All errors implement the standard error interface and support errors.Is/As.
// A target without a Phase matches any error of the same Kind:
//
//	if errors.Is(err, errors.ErrBadWeakRef) { ... }
package errors
