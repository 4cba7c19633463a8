package shared

import (
	"fmt"
	"reflect"
)

// String renders the address p points at, or the value itself when T is
// not pointer-shaped.
func (p *Ptr[T]) String() string {
	return formatValue(any(p.Get()))
}

func formatValue(v any) string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "0x0"
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Slice:
		return fmt.Sprintf("%#x", rv.Pointer())
	default:
		return fmt.Sprint(v)
	}
}
