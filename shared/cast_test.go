package shared

import (
	"io"
	"strings"
	"testing"

	"github.com/wippyai/sharedptr/errors"
)

type shape interface {
	Area() int
}

type square struct {
	side    int
	dropped int
}

func (s *square) Area() int { return s.side * s.side }
func (s *square) Drop()     { s.dropped++ }

type circle struct{ r int }

func (c *circle) Area() int { return 3 * c.r * c.r }

type readOnlySquare *square

func TestStaticCast(t *testing.T) {
	sq := &square{side: 3}
	p := New[shape](sq)

	down := StaticCast[*square](p)
	if down.Get() != sq {
		t.Fatal("StaticCast should keep the same object")
	}
	if p.UseCount() != 2 || down.OwnerID() != p.OwnerID() {
		t.Fatal("StaticCast should share ownership")
	}

	up := StaticCast[shape](down)
	if up.Get().Area() != 9 {
		t.Fatal("upcast lost the object")
	}

	p.Release()
	down.Release()
	if sq.dropped != 0 {
		t.Fatal("dropped while a cast handle remains")
	}
	up.Release()
	if sq.dropped != 1 {
		t.Fatalf("dropped %d times, want 1", sq.dropped)
	}
}

func TestStaticCast_ZeroAndMismatch(t *testing.T) {
	empty := New[shape](nil)
	defer empty.Release()

	sq := StaticCast[*square](empty)
	if !sq.IsNil() || sq.UseCount() != 2 {
		t.Fatal("static cast of nil should be nil but share ownership")
	}
	sq.Release()

	c := New[shape](&circle{r: 1})
	defer c.Release()
	expectPanicKind(t, errors.KindTypeMismatch, func() {
		StaticCast[*square](c)
	})
}

func TestDynamicCast(t *testing.T) {
	sq := &square{side: 2}
	p := New[shape](sq)
	defer p.Release()

	t.Run("match", func(t *testing.T) {
		got := DynamicCast[*square](p)
		defer got.Release()
		if got.Get() != sq || got.UseCount() != 2 {
			t.Fatalf("DynamicCast: value=%v use=%d", got.Get(), got.UseCount())
		}
	})

	t.Run("mismatch is fully empty", func(t *testing.T) {
		got := DynamicCast[*circle](p)
		if got.Get() != nil {
			t.Fatal("mismatched cast should have no value")
		}
		if got.UseCount() != 0 {
			t.Fatalf("mismatched cast UseCount = %d, want 0", got.UseCount())
		}
		if p.UseCount() != 1 {
			t.Fatal("mismatched cast must not hold a reference")
		}
	})

	t.Run("interface target", func(t *testing.T) {
		got := DynamicCast[io.Reader](p)
		if got.Valid() || got.UseCount() != 0 {
			t.Fatal("*square is not an io.Reader")
		}
		r := New(strings.NewReader("x"))
		defer r.Release()
		asReader := DynamicCast[io.Reader](r)
		defer asReader.Release()
		if asReader.Get() == nil || asReader.OwnerID() != r.OwnerID() {
			t.Fatal("*strings.Reader should cast to io.Reader")
		}
	})

	t.Run("nil source", func(t *testing.T) {
		empty := New[shape](nil)
		defer empty.Release()
		got := DynamicCast[*square](empty)
		if got.UseCount() != 0 {
			t.Fatal("cast of nil should be fully empty")
		}
	})
}

func TestConstCast(t *testing.T) {
	sq := &square{side: 4}
	p := New(sq)
	defer p.Release()

	ro := ConstCast[readOnlySquare](p)
	defer ro.Release()
	if (*square)(ro.Get()) != sq {
		t.Fatal("ConstCast should keep the pointer")
	}

	back := ConstCast[*square](ro)
	defer back.Release()
	if back.Get() != sq || p.UseCount() != 3 {
		t.Fatalf("round trip: same=%v use=%d", back.Get() == sq, p.UseCount())
	}
}

func TestReinterpretCast(t *testing.T) {
	v := uint64(0x0102030405060708)
	p := New(&v)
	defer p.Release()

	bytes := ReinterpretCast[*[8]byte](p)
	defer bytes.Release()
	if bytes.UseCount() != 2 {
		t.Fatalf("UseCount = %d, want 2", bytes.UseCount())
	}
	if Equal(p, bytes) {
		t.Fatal("different pointer types never compare equal")
	}

	word := New(uint32(7))
	defer word.Release()
	expectPanicKind(t, errors.KindTypeMismatch, func() {
		ReinterpretCast[uint64](word)
	})
}

func TestEqualAndEquivalent(t *testing.T) {
	sq := &square{side: 1}
	p := New(sq)
	defer p.Release()

	q := p.Clone()
	defer q.Release()
	if !Equal(p, q) || !p.Equivalent(q) {
		t.Fatal("clones are equal and equivalent")
	}

	other := NewWithDeleter(sq, NopDeleter[*square]{})
	defer other.Release()
	if !Equal(p, other) {
		t.Fatal("same value through another block is equal")
	}
	if p.Equivalent(other) {
		t.Fatal("same value through another block is not equivalent")
	}

	asShape := StaticCast[shape](p)
	defer asShape.Release()
	if !Equal(p, asShape) {
		t.Fatal("equality crosses handle types")
	}

	s1, s2 := New([]int{1}), New([]int{1})
	defer s1.Release()
	defer s2.Release()
	if Equal(s1, s2) {
		t.Fatal("slices with distinct backing arrays are not equal")
	}
}

func TestEqual_ReferenceKindsAcrossCasts(t *testing.T) {
	buf := []byte("abc")
	p := New(buf)
	defer p.Release()

	asAny := StaticCast[any](p)
	defer asAny.Release()
	if !Equal(p, asAny) {
		t.Fatal("a slice seen through any should equal its source")
	}

	back := DynamicCast[[]byte](asAny)
	defer back.Release()
	if !back.Equivalent(p) {
		t.Fatal("round-tripped slice should be equivalent to its source")
	}

	m := New(map[int]string{1: "x"})
	defer m.Release()
	mc := m.Clone()
	defer mc.Release()
	if !Equal(m, mc) || Equal(m, p) {
		t.Fatal("maps equal their clones and never equal other kinds")
	}
}
