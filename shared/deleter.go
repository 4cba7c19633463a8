package shared

import (
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/sharedptr"
	"github.com/wippyai/sharedptr/internal/control"
)

// DefaultDeleter finalizes values that know how to clean up after themselves.
// A sharedptr.Dropper is dropped, otherwise an io.Closer is closed. Other
// values, and zero values, need no finalization beyond garbage collection.
type DefaultDeleter[T any] struct{}

// Delete finalizes v.
func (DefaultDeleter[T]) Delete(v T) {
	if isZero(v) {
		return
	}
	switch x := any(v).(type) {
	case sharedptr.Dropper:
		x.Drop()
	case io.Closer:
		if err := x.Close(); err != nil {
			Logger().Warn("close owned value",
				zap.String("type", control.TypeName[T]()),
				zap.Error(err))
		}
	}
}

// GetDeleter returns the deleter p's value was adopted with, if its dynamic
// type is D. It reports false for empty handles and other deleter types.
func GetDeleter[D, T any](p *Ptr[T]) (D, bool) {
	d, ok := p.count().Deleter().(D)
	return d, ok
}

// NopDeleter leaves values untouched. It adopts values whose lifetime is
// managed elsewhere, so that handles can share them without finalizing them.
type NopDeleter[T any] struct{}

// Delete does nothing.
func (NopDeleter[T]) Delete(T) {}
