package control

// WeakCount holds one weak reference to a control block.
// The zero value is empty.
type WeakCount struct {
	b *Block
}

// NewWeak returns a weak reference to the block of s.
func NewWeak(s SharedCount) WeakCount {
	if s.b != nil {
		s.b.counts.IncWeak()
	}
	return WeakCount{b: s.b}
}

// Clone returns a new weak reference to the same block.
func (w WeakCount) Clone() WeakCount {
	if w.b != nil {
		w.b.counts.IncWeak()
	}
	return w
}

// Release drops the weak reference and leaves w empty. It never disposes the
// value; only the strong count does that.
func (w *WeakCount) Release() {
	b := w.b
	w.b = nil
	if b != nil {
		b.weakRelease()
	}
}

// Assign makes w observe r's block.
func (w *WeakCount) Assign(r WeakCount) {
	w.assign(r.b)
}

// AssignShared makes w observe the block of s.
func (w *WeakCount) AssignShared(s SharedCount) {
	w.assign(s.b)
}

func (w *WeakCount) assign(b *Block) {
	if b != nil {
		b.counts.IncWeak()
	}
	old := w.b
	w.b = b
	if old != nil {
		old.weakRelease()
	}
}

// Move transfers the reference out of w without touching the counts.
func (w *WeakCount) Move() WeakCount {
	r := *w
	w.b = nil
	return r
}

// Swap exchanges the blocks of w and r.
func (w *WeakCount) Swap(r *WeakCount) {
	w.b, r.b = r.b, w.b
}

// UseCount returns the strong count of the observed block, or 0 when empty.
func (w WeakCount) UseCount() int64 {
	return w.b.UseCount()
}

// Empty reports whether w references no block.
func (w WeakCount) Empty() bool {
	return w.b == nil
}

// Block returns the referenced block, or nil.
func (w WeakCount) Block() *Block {
	return w.b
}
