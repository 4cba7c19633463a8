package main

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wippyai/sharedptr"
	"github.com/wippyai/sharedptr/resource"
	"github.com/wippyai/sharedptr/shared"
)

// trace collects what a scenario observed and the first broken expectation.
type trace struct {
	lines []string
	err   error
}

func (t *trace) logf(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *trace) expect(ok bool, format string, args ...any) {
	if ok || t.err != nil {
		return
	}
	t.err = fmt.Errorf(format, args...)
}

type scenario struct {
	name string
	desc string
	run  func(t *trace, n int)
}

type result struct {
	scenario scenario
	lines    []string
	err      error
}

func runScenario(s scenario, n int) (res result) {
	t := &trace{}
	defer func() {
		if r := recover(); r != nil {
			res = result{scenario: s, lines: t.lines, err: fmt.Errorf("panic: %v", r)}
		}
	}()
	s.run(t, n)
	return result{scenario: s, lines: t.lines, err: t.err}
}

var scenarios = []scenario{
	{"aliasing", "an alias shares ownership but points elsewhere", aliasing},
	{"alias reset", "resetting an alias to an empty owner empties it", aliasReset},
	{"vector fill", "fill a slice of handles and print their values", vectorFill},
	{"shared value", "two owners of 42, one resets to a new value", sharedValue},
	{"weak lock", "a weak observer locks while owned and expires after", weakLock},
	{"dynamic cast", "a failed dynamic cast yields a fully empty handle", dynamicCast},
	{"concurrent release", "n goroutines clone and release; one finalization", concurrentRelease},
	{"handle table", "a table keeps values alive behind integer handles", handleTable},
}

func aliasing(t *trace, _ int) {
	p := shared.New(new(int))
	defer p.Release()

	m := 0
	p2 := shared.Alias(p, &m)
	defer p2.Release()

	t.logf("p  = %s  use_count=%d", p, p.UseCount())
	t.logf("p2 = %s  use_count=%d", p2, p2.UseCount())
	t.expect(p2.Get() == &m, "alias should point at m")
	t.expect(p2.Valid(), "alias should be non-null")
	t.expect(p2.UseCount() == p.UseCount(), "alias and owner should share a count")
	t.expect(!p.OwnerBefore(p2) && !p2.OwnerBefore(p), "alias and owner should be owner-equivalent")
	t.logf("owner-equivalent: %v", !p.OwnerBefore(p2) && !p2.OwnerBefore(p))
}

func aliasReset(t *trace, _ int) {
	p := shared.New(new(int))
	defer p.Release()

	m := 0
	p2 := shared.Alias(p, &m)
	t.logf("before: p2 use_count=%d", p2.UseCount())

	var p4 shared.Ptr[*int]
	shared.ResetAlias(p2, &p4, nil)
	t.logf("after:  p4 use_count=%d  p2 use_count=%d  p use_count=%d",
		p4.UseCount(), p2.UseCount(), p.UseCount())
	t.expect(p4.UseCount() == 0, "empty owner should stay empty")
	t.expect(p2.UseCount() == 0, "alias of an empty owner should be empty")
	t.expect(p.UseCount() == 1, "owner should be unique again")
}

func vectorFill(t *trace, n int) {
	var finalized atomic.Int64
	counting := sharedptr.DeleterFunc[*int](func(*int) { finalized.Add(1) })

	vec := make([]*shared.Ptr[*int], n)
	var b strings.Builder
	b.WriteString("vec:")
	for i := range vec {
		v := i + 1
		vec[i] = shared.NewWithDeleter(&v, counting)
		fmt.Fprintf(&b, " %d", shared.Deref(vec[i]))
	}
	t.logf("%s", b.String())

	for _, p := range vec {
		p.Release()
	}
	t.logf("finalized %d of %d", finalized.Load(), n)
	t.expect(finalized.Load() == int64(n), "every value should be finalized once")
}

func sharedValue(t *trace, _ int) {
	v := 42
	p := shared.New(&v)
	defer p.Release()
	p2 := p.Clone()
	defer p2.Release()

	t.logf("*p=%d *p2=%d use_count=%d", shared.Deref(p), shared.Deref(p2), p.UseCount())
	t.expect(shared.Deref(p) == 42 && shared.Deref(p2) == 42, "both owners should see 42")
	t.expect(p.UseCount() == 2, "expected two owners")

	w := 7
	p2.ResetTo(&w)
	t.logf("after p2.ResetTo: p use_count=%d  *p2=%d unique=%v", p.UseCount(), shared.Deref(p2), p2.Unique())
	t.expect(p.UseCount() == 1, "p should be unique after p2 resets")
	t.expect(p2.Unique() && shared.Deref(p2) == 7, "p2 should own the new value alone")
}

func weakLock(t *trace, _ int) {
	v := 5
	p := shared.New(&v)
	w := p.Weak()
	defer w.Release()

	q := w.Lock()
	t.logf("locked: *q=%d use_count=%d expired=%v", shared.Deref(q), q.UseCount(), w.Expired())
	t.expect(q.UseCount() == 2, "lock should add an owner")

	q.Release()
	p.Release()
	t.logf("released both: expired=%v lock empty=%v", w.Expired(), w.Lock().IsNil())
	t.expect(w.Expired(), "observer should expire after the last owner")

	_, err := w.Promote()
	t.logf("promote: %v", err)
	t.expect(err != nil, "promotion of an expired observer should fail")
}

type animal interface{ Sound() string }

type dog struct{}

func (*dog) Sound() string { return "woof" }

type cat struct{}

func (*cat) Sound() string { return "meow" }

func dynamicCast(t *trace, _ int) {
	a := shared.New[animal](&dog{})
	defer a.Release()

	d := shared.DynamicCast[*dog](a)
	t.logf("to dog: %s use_count=%d", d.Get().Sound(), d.UseCount())
	t.expect(d.UseCount() == 2, "matching cast should share ownership")
	d.Release()

	c := shared.DynamicCast[*cat](a)
	t.logf("to cat: null=%v use_count=%d", c.IsNil(), c.UseCount())
	t.expect(c.UseCount() == 0, "failed cast should be empty")
}

func concurrentRelease(t *trace, n int) {
	var finalized atomic.Int64
	v := 1
	p := shared.NewWithDeleter(&v, sharedptr.DeleterFunc[*int](func(*int) { finalized.Add(1) }))

	clones := make([]*shared.Ptr[*int], n)
	for i := range clones {
		clones[i] = p.Clone()
	}
	t.logf("owners before release: %d", p.UseCount())
	p.Release()

	var wg sync.WaitGroup
	for _, c := range clones {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Clone().Release()
			c.Release()
		}()
	}
	wg.Wait()

	t.logf("finalizations: %d", finalized.Load())
	t.expect(finalized.Load() == 1, "the value should be finalized exactly once")
}

type session struct {
	id     int
	closed bool
}

func (s *session) Drop() { s.closed = true }

func handleTable(t *trace, n int) {
	table := resource.NewTable[*session]()
	var events []string
	table.Subscribe(resource.ObserverFunc[*session](func(e resource.Event[*session]) {
		events = append(events, fmt.Sprintf("%s#%d", e.Type, e.Handle))
	}))

	sessions := make([]*session, min(n, 3))
	handles := make([]resource.Handle, len(sessions))
	for i := range sessions {
		sessions[i] = &session{id: i}
		p := shared.New(sessions[i])
		handles[i] = table.Insert(p)
		p.Release()
	}
	t.logf("stored %d sessions, handles %v", table.Len(), handles)
	t.expect(table.Len() == len(sessions), "table should hold every session")

	if len(handles) > 0 {
		w, _ := table.Observe(handles[0])
		table.Remove(handles[0])
		t.logf("removed #%d: closed=%v expired=%v", handles[0], sessions[0].closed, w.Expired())
		t.expect(sessions[0].closed && w.Expired(), "removing the last owner should finalize")
		w.Release()
	}

	table.Close()
	t.logf("events: %s", strings.Join(events, " "))
	for _, s := range sessions {
		t.expect(s.closed, "session %d should be closed with the table", s.id)
	}
}
