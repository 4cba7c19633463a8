package shared

import (
	"sync/atomic"

	"github.com/wippyai/sharedptr/errors"
)

// LimitAllocator bounds the number of live control blocks.
// It is safe for concurrent use.
type LimitAllocator struct {
	limit int64
	live  atomic.Int64
	peak  atomic.Int64
}

// NewLimitAllocator returns an allocator that allows at most limit live blocks.
func NewLimitAllocator(limit int64) *LimitAllocator {
	return &LimitAllocator{limit: limit}
}

// AllocBlock reserves a block, failing once the limit is reached.
func (a *LimitAllocator) AllocBlock() error {
	for {
		n := a.live.Load()
		if n >= a.limit {
			return errors.New(errors.PhaseAdopt, errors.KindAllocation).
				Detail("control block limit %d reached", a.limit).
				Build()
		}
		if a.live.CompareAndSwap(n, n+1) {
			a.notePeak(n + 1)
			return nil
		}
	}
}

// FreeBlock returns a reservation.
func (a *LimitAllocator) FreeBlock() {
	a.live.Add(-1)
}

// Live returns the number of blocks currently reserved.
func (a *LimitAllocator) Live() int64 {
	return a.live.Load()
}

// Peak returns the highest number of blocks reserved at once.
func (a *LimitAllocator) Peak() int64 {
	return a.peak.Load()
}

func (a *LimitAllocator) notePeak(n int64) {
	for {
		p := a.peak.Load()
		if n <= p || a.peak.CompareAndSwap(p, n) {
			return
		}
	}
}
