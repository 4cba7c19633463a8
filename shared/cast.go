package shared

import (
	"unsafe"

	"github.com/wippyai/sharedptr/errors"
	"github.com/wippyai/sharedptr/internal/control"
)

// Alias returns a handle that shares owner's ownership but points at v.
// The owned value stays alive as long as the alias does, whatever v is.
func Alias[T, U any](owner *Ptr[U], v T) *Ptr[T] {
	return &Ptr[T]{v: v, n: owner.count().Clone()}
}

// ResetAlias makes p share owner's ownership while pointing at v.
func ResetAlias[T, U any](p *Ptr[T], owner *Ptr[U], v T) {
	tmp := Alias(owner, v)
	tmp.Swap(p)
	tmp.Release()
}

// StaticCast converts the value of p to T, sharing p's ownership.
// The conversion must hold; a value that is not a T panics. A zero value
// converts to the zero T.
func StaticCast[T, U any](p *Ptr[U]) *Ptr[T] {
	src := p.Get()
	var v T
	if !isZero(src) {
		t, ok := any(src).(T)
		if !ok {
			panic(errors.TypeMismatch(errors.PhaseCast, control.TypeName[U](), control.TypeName[T]()))
		}
		v = t
	}
	return Alias(p, v)
}

// DynamicCast converts the value of p to T when its dynamic type allows it.
// When it does not, or the value is zero, the result is fully empty: it has
// no value and owns nothing.
func DynamicCast[T, U any](p *Ptr[U]) *Ptr[T] {
	t, ok := any(p.Get()).(T)
	if !ok || isZero(t) {
		return &Ptr[T]{}
	}
	return Alias(p, t)
}

// ConstCast converts between pointer types that share an element type, such
// as a read-only named pointer type and the plain pointer it is defined as.
func ConstCast[T ~*E, U ~*E, E any](p *Ptr[U]) *Ptr[T] {
	return Alias(p, T(p.Get()))
}

// ReinterpretCast reinterprets the bits of p's value as a T. Both types must
// have the same size; the caller is responsible for the result being
// meaningful.
func ReinterpretCast[T, U any](p *Ptr[U]) *Ptr[T] {
	src := p.Get()
	var v T
	if unsafe.Sizeof(v) != unsafe.Sizeof(src) {
		panic(errors.TypeMismatch(errors.PhaseCast, control.TypeName[U](), control.TypeName[T]()))
	}
	v = *(*T)(unsafe.Pointer(&src))
	return Alias(p, v)
}
