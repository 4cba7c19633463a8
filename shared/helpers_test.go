package shared

import (
	"sync/atomic"
	"testing"

	"github.com/wippyai/sharedptr/errors"
)

// tracked counts how often it has been dropped.
type tracked struct {
	name    string
	member  int
	dropped *atomic.Int32
}

func newTracked(name string) (*tracked, *atomic.Int32) {
	var n atomic.Int32
	return &tracked{name: name, dropped: &n}, &n
}

func (t *tracked) Drop() {
	t.dropped.Add(1)
}

func expectPanicKind(t *testing.T, kind errors.Kind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with kind %s", kind)
		}
		err, ok := r.(*errors.Error)
		if !ok {
			t.Fatalf("panic value %T(%v), want *errors.Error", r, r)
		}
		if err.Kind != kind {
			t.Fatalf("panic kind = %s, want %s", err.Kind, kind)
		}
	}()
	fn()
}

// recoverError runs fn and returns the *errors.Error it panicked with, or nil.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*errors.Error); ok {
				err = e
			}
		}
	}()
	fn()
	return nil
}
