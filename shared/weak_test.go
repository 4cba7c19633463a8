package shared

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wippyai/sharedptr/errors"
)

func TestWeak_LockScenario(t *testing.T) {
	v := 5
	p := New(&v)
	w := NewWeak(p)

	locked := w.Lock()
	if locked.IsNil() {
		t.Fatal("Lock should succeed while p is alive")
	}
	if Deref(locked) != 5 {
		t.Fatalf("locked value = %d, want 5", Deref(locked))
	}
	if locked.UseCount() != 2 {
		t.Fatalf("UseCount = %d, want 2", locked.UseCount())
	}
	if w.Expired() {
		t.Fatal("observer expired while owners remain")
	}

	p.Release()
	locked.Release()

	if !w.Expired() {
		t.Fatal("observer should expire once all owners are released")
	}
}

func TestWeak_LockAfterRelease(t *testing.T) {
	obj, dropped := newTracked("gone")
	a := New(obj)
	w := a.Weak()

	a.Release()
	if dropped.Load() != 1 {
		t.Fatal("value should be finalized")
	}

	got := w.Lock()
	if !got.IsNil() || got.UseCount() != 0 {
		t.Fatal("Lock after expiry should return an empty handle")
	}
	if !w.Expired() || w.UseCount() != 0 {
		t.Fatal("observer should be expired")
	}

	p, err := w.Promote()
	if p != nil {
		t.Fatal("Promote after expiry should return nil")
	}
	if !stderrors.Is(err, errors.ErrBadWeakRef) {
		t.Fatalf("Promote error = %v, want bad weak reference", err)
	}
	if _, err := FromWeak(w); !errors.IsKind(err, errors.KindBadWeakRef) {
		t.Fatalf("FromWeak error = %v, want bad weak reference", err)
	}
	w.Release()
}

func TestWeak_Empty(t *testing.T) {
	var nilWeak *Weak[*int]
	if !nilWeak.Expired() {
		t.Fatal("nil observer should be expired")
	}
	if !nilWeak.Lock().IsNil() {
		t.Fatal("nil observer should lock to an empty handle")
	}

	fromEmpty := NewWeak[*int](nil)
	if !fromEmpty.Expired() {
		t.Fatal("observer of an empty handle should be expired")
	}
	if _, err := fromEmpty.Promote(); !stderrors.Is(err, errors.ErrBadWeakRef) {
		t.Fatalf("Promote(empty) = %v, want bad weak reference", err)
	}
}

func TestWeak_DoesNotExtendLifetime(t *testing.T) {
	obj, dropped := newTracked("weak")
	p := New(obj)
	w1 := p.Weak()
	w2 := w1.Clone()

	if p.UseCount() != 1 {
		t.Fatalf("observers changed UseCount to %d", p.UseCount())
	}
	p.Release()
	if dropped.Load() != 1 {
		t.Fatal("observers must not keep the value alive")
	}
	if !w1.Expired() || !w2.Expired() {
		t.Fatal("all observers should expire together")
	}
	w1.Release()
	w2.Release()
}

func TestWeak_AssignAndSwap(t *testing.T) {
	a, _ := newTracked("a")
	b, _ := newTracked("b")
	pa, pb := New(a), New(b)
	defer pa.Release()
	defer pb.Release()

	w := pa.Weak()
	w.AssignPtr(pb)
	if got := w.Lock(); got.Get() != b {
		t.Fatal("AssignPtr should observe b")
	} else {
		got.Release()
	}

	w2 := pa.Weak()
	w.Swap(w2)
	if got := w.Lock(); got.Get() != a {
		t.Fatal("Swap should exchange observed values")
	} else {
		got.Release()
	}

	w.Assign(w2)
	if w.OwnerID() != pb.OwnerID() {
		t.Fatal("Assign should observe b's owner")
	}
	w.Assign(w)
	if w.OwnerID() != pb.OwnerID() {
		t.Fatal("self-assignment changed the observed owner")
	}

	moved := w.Move()
	if !w.Expired() || moved.Expired() {
		t.Fatal("Move should transfer the observation")
	}

	moved.Reset()
	if !moved.Expired() {
		t.Fatal("Reset should empty the observer")
	}
	w2.Release()
}

func TestWeak_OwnerOrdering(t *testing.T) {
	a, _ := newTracked("a")
	b, _ := newTracked("b")
	pa, pb := New(a), New(b)
	defer pa.Release()
	defer pb.Release()

	wa := pa.Weak()
	defer wa.Release()

	if pa.OwnerBefore(wa) || wa.OwnerBefore(pa) {
		t.Fatal("owner and observer must be owner-equivalent")
	}
	if wa.OwnerID() != pa.OwnerID() {
		t.Fatal("owner and observer must share OwnerID")
	}
	if pa.OwnerBefore(pb) == pb.OwnerBefore(pa) {
		t.Fatal("distinct owners must be strictly ordered")
	}
	if OwnerLess(pa, pb) != pa.OwnerBefore(pb) {
		t.Fatal("OwnerLess disagrees with OwnerBefore")
	}
}

func TestWeak_ConcurrentLockAndRelease(t *testing.T) {
	const goroutines = 32

	obj, dropped := newTracked("race")
	owners := make([]*Ptr[*tracked], goroutines)
	owners[0] = New(obj)
	for i := 1; i < goroutines; i++ {
		owners[i] = owners[0].Clone()
	}
	w := owners[0].Weak()

	var locked atomic.Int32
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)
	for i := 0; i < goroutines; i++ {
		mine := w.Clone()
		go func() {
			defer wg.Done()
			defer mine.Release()
			for j := 0; j < 100; j++ {
				if p := mine.Lock(); p.Valid() {
					if p.Get() != obj {
						t.Error("promoted handle has wrong value")
					}
					locked.Add(1)
					p.Release()
				}
			}
		}()
		owner := owners[i]
		go func() {
			defer wg.Done()
			owner.Release()
		}()
	}
	wg.Wait()

	if dropped.Load() != 1 {
		t.Fatalf("dropped %d times, want 1", dropped.Load())
	}
	if !w.Expired() {
		t.Fatal("observer should be expired")
	}
	if p := w.Lock(); p.Valid() {
		t.Fatal("Lock after expiry must fail")
	}
	w.Release()
}

func TestWeak_NilObserverMutators(t *testing.T) {
	var nilWeak *Weak[*int]
	v := 1
	p := New(&v)
	defer p.Release()
	w := p.Weak()
	defer w.Release()

	for name, fn := range map[string]func(){
		"Assign":    func() { nilWeak.Assign(w) },
		"AssignPtr": func() { nilWeak.AssignPtr(p) },
		"Swap":      func() { w.Swap(nilWeak) },
		"Reset":     func() { nilWeak.Reset() },
	} {
		t.Run(name, func(t *testing.T) {
			if err := recoverError(fn); !stderrors.Is(err, errors.ErrNilPointer) {
				t.Fatalf("panic = %v, want nil pointer error", err)
			}
		})
	}
	if w.Expired() || w.OwnerID() != p.OwnerID() {
		t.Fatal("failed mutations must leave the observer untouched")
	}
}
