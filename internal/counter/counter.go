// Package counter implements the atomic strong/weak counter pair that backs
// every control block.
package counter

import "sync/atomic"

// Counts is a pair of atomic reference counts.
//
// The weak count includes one unit held on behalf of the strong set as a
// whole, so it can only reach zero after the strong count has.
type Counts struct {
	strong atomic.Int64
	weak   atomic.Int64
}

// Init sets both counts to one. It must be called before the Counts is shared.
func (c *Counts) Init() {
	c.strong.Store(1)
	c.weak.Store(1)
}

// IncStrong adds a strong reference.
func (c *Counts) IncStrong() {
	c.strong.Add(1)
}

// DecStrong drops a strong reference and reports whether it was the last one.
// Exactly one caller observes true.
func (c *Counts) DecStrong() bool {
	n := c.strong.Add(-1)
	if n < 0 {
		panic("counter: strong count released too often")
	}
	return n == 0
}

// IncWeak adds a weak reference.
func (c *Counts) IncWeak() {
	c.weak.Add(1)
}

// DecWeak drops a weak reference and reports whether it was the last one.
func (c *Counts) DecWeak() bool {
	n := c.weak.Add(-1)
	if n < 0 {
		panic("counter: weak count released too often")
	}
	return n == 0
}

// TryIncStrong adds a strong reference unless the strong count is already
// zero. It is lock-free but retries while other goroutines race on the count.
func (c *Counts) TryIncStrong() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// Strong returns a snapshot of the strong count. Diagnostics only.
func (c *Counts) Strong() int64 {
	return c.strong.Load()
}

// Weak returns a snapshot of the weak count. Diagnostics only.
func (c *Counts) Weak() int64 {
	return c.weak.Load()
}
