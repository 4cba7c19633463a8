package resource

import (
	"testing"

	"github.com/wippyai/sharedptr/shared"
)

type testObserver struct {
	events []Event[*conn]
}

func (o *testObserver) OnResourceEvent(e Event[*conn]) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable[*conn]()
	c := &conn{name: "test"}
	p := shared.New(c)

	h := table.Insert(p)
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}
	p.Release()

	got, ok := table.Get(h)
	if !ok {
		t.Fatal("Get failed")
	}
	if got.Get().name != "test" {
		t.Fatalf("Expected 'test', got %q", got.Get().name)
	}

	if !table.Remove(h) {
		t.Fatal("Remove failed")
	}
	if c.dropped != 0 {
		t.Fatal("value finalized while a fetched owner remains")
	}
	got.Release()
	if c.dropped != 1 {
		t.Fatalf("Expected one drop, got %d", c.dropped)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
	if table.Remove(h) {
		t.Fatal("second Remove should fail")
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[*conn]()
	obs := &testObserver{}
	table.Subscribe(obs)

	c := &conn{}
	p := shared.New(c)
	defer p.Release()

	h := table.Insert(p)
	if !table.Borrow(h) || !table.ReturnBorrow(h) {
		t.Fatal("borrow round trip failed")
	}
	table.Remove(h)

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventDropped}
	if len(obs.events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(obs.events))
	}
	for i, e := range obs.events {
		if e.Type != want[i] {
			t.Errorf("event %d: got %s, want %s", i, e.Type, want[i])
		}
		if e.Handle != h {
			t.Errorf("event %d: wrong handle %d", i, e.Handle)
		}
		if e.Value != c {
			t.Errorf("event %d: wrong value", i)
		}
		if e.Owner != p.OwnerID() {
			t.Errorf("event %d: wrong owner", i)
		}
	}

	table.Unsubscribe(obs)
	table.Insert(p)
	if len(obs.events) != len(want) {
		t.Fatal("Should not receive events after Unsubscribe")
	}
	table.Close()
}

func TestTable_BorrowBlocksRemove(t *testing.T) {
	table := NewTable[*conn]()
	p := shared.New(&conn{})
	defer p.Release()

	h := table.Insert(p)
	table.Borrow(h)
	if table.Remove(h) {
		t.Fatal("Remove should fail while borrowed")
	}
	table.ReturnBorrow(h)
	if !table.Remove(h) {
		t.Fatal("Remove should succeed after ReturnBorrow")
	}
}

func TestTable_ObserveExpires(t *testing.T) {
	table := NewTable[*conn]()
	p := shared.New(&conn{})
	h := table.Insert(p)
	p.Release()

	w, ok := table.Observe(h)
	if !ok {
		t.Fatal("Observe failed")
	}
	defer w.Release()

	locked := w.Lock()
	if locked.IsNil() {
		t.Fatal("Lock should succeed while stored")
	}
	locked.Release()

	table.Remove(h)
	if !w.Expired() {
		t.Fatal("weak handle should expire after Remove")
	}
	if !w.Lock().IsNil() {
		t.Fatal("Lock should yield an empty handle")
	}
}

func TestTable_Clear(t *testing.T) {
	table := NewTable[*conn]()
	var values []*conn
	for i := 0; i < 3; i++ {
		c := &conn{}
		values = append(values, c)
		p := shared.New(c)
		table.Insert(p)
		p.Release()
	}

	if table.Len() != 3 {
		t.Fatal("Expected Len() == 3")
	}

	table.Clear()

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Clear")
	}
	for i, c := range values {
		if c.dropped != 1 {
			t.Fatalf("value %d dropped %d times", i, c.dropped)
		}
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable[*conn]()
	c := &conn{}
	p := shared.New(c)
	table.Insert(p)
	p.Release()

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if c.dropped != 1 {
		t.Fatal("Close should release stored references")
	}

	q := shared.New(&conn{})
	defer q.Release()
	if h := table.Insert(q); h != 0 {
		t.Fatal("Expected Insert to fail after Close")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable[*conn]()
	var created int
	table.Subscribe(ObserverFunc[*conn](func(e Event[*conn]) {
		if e.Type == EventCreated {
			created++
		}
	}))

	p := shared.New(&conn{})
	defer p.Release()
	table.Insert(p)
	table.Insert(p)
	if created != 2 {
		t.Fatalf("Expected 2 created events, got %d", created)
	}
	if table.Backend() == nil {
		t.Fatal("Backend() returned nil")
	}
	table.Close()
}
