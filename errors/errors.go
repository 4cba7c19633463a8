package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which ownership operation produced the error
type Phase string

const (
	PhaseAdopt    Phase = "adopt"    // control block creation
	PhasePromote  Phase = "promote"  // weak to strong promotion
	PhaseAccess   Phase = "access"   // dereference of a handle
	PhaseReset    Phase = "reset"    // reset to a new value
	PhaseCast     Phase = "cast"     // pointer casts
	PhaseGuest    Phase = "guest"    // WASM guest memory
	PhaseResource Phase = "resource" // handle table operations
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation   Kind = "allocation"
	KindBadWeakRef   Kind = "bad_weak_ref"
	KindNilPointer   Kind = "nil_pointer"
	KindDoubleAdopt  Kind = "double_adopt"
	KindTypeMismatch Kind = "type_mismatch"
	KindOutOfBounds  Kind = "out_of_bounds"
	KindNotFound     Kind = "not_found"
	KindClosed       Kind = "closed"
	KindBusy         Kind = "busy"
)

// Sentinels for errors.Is. They carry no Phase and so match any phase.
var (
	ErrAllocation = &Error{Kind: KindAllocation}
	ErrBadWeakRef = &Error{Kind: KindBadWeakRef}
	ErrNilPointer = &Error{Kind: KindNilPointer}
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// An empty target Phase matches every phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// IsKind reports whether err, or any error it wraps, is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AllocationFailed reports that a control block or guest buffer could not be
// reserved. Ownership was not established and the value was already finalized.
func AllocationFailed(phase Phase, goType string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		GoType: goType,
		Detail: "allocation failed, ownership not established",
		Cause:  cause,
	}
}

// GuestAllocationFailed creates an allocation failure error for guest memory
func GuestAllocationFailed(size, align uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseGuest,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
		Cause:  cause,
	}
}

// BadWeakRef creates the error returned when promoting an expired observer
func BadWeakRef(goType string) *Error {
	return &Error{
		Phase:  PhasePromote,
		Kind:   KindBadWeakRef,
		GoType: goType,
		Detail: "object no longer available",
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		GoType: goType,
		Detail: "dereference of empty handle",
	}
}

// DoubleAdopt creates the error raised when a handle is reset to the value it already owns
func DoubleAdopt(goType string, value any) *Error {
	return &Error{
		Phase:  PhaseReset,
		Kind:   KindDoubleAdopt,
		GoType: goType,
		Detail: "value is already owned by this handle",
		Value:  value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, from, to string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		GoType: from,
		Detail: fmt.Sprintf("cannot convert to %s", to),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds (size %d)", offset, uint64(offset)+uint64(length), size),
		Value:  offset,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, id any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %v not found", what, id),
		Value:  id,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
