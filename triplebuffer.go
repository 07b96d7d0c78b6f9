package waitfree

import "sync/atomic"

// Triple buffering: three cells rotate between the writer, the reader and
// the shared "published" word, so the two sides never hold the same cell
// and neither ever waits for the other.

const (
	newDataFlag = 0b100 // set in latestFree while the published cell is unread
	indexMask   = 0b011 // low bits of latestFree: index of the published cell
)

type tripleBuffer[T any] struct {
	// padding to avoid false sharing between the cells, the shared word
	// and whatever the allocator places next to the store
	_     [cacheLinePad]byte
	cells [3]T
	_     [cacheLinePad]byte

	latestFree atomic.Uint64 // packed word: published cell index | newDataFlag
	_          [cacheLinePad - 8]byte

	written WriteGuard // latches once the first value has been published
	_       [cacheLinePad - 4]byte
}

// Writer is the producing half of a latest-value exchange.
// It may be handed off between goroutines, but at most one goroutine may
// use it at a time.
type Writer[T any] struct {
	noCopy noCopy

	tb *tripleBuffer[T]
	// cell this side owns next; may carry a stale flag bit from the last
	// swap, always masked before use
	writeIdx    uint64
	lastWritten uint64
	hasWritten  bool

	// padding so two separately allocated handles cannot share a cache line
	_ [cacheLinePad - 25]byte
}

// Reader is the consuming half of a latest-value exchange.
// It may be handed off between goroutines, but at most one goroutine may
// use it at a time.
type Reader[T any] struct {
	noCopy noCopy

	tb      *tripleBuffer[T]
	readIdx uint64 // cell this side currently holds

	// padding so two separately allocated handles cannot share a cache line
	_ [cacheLinePad - 16]byte
}

// NewTripleBuffer creates a latest-value exchange and returns its two
// halves. The exchange keeps only the most recently written value;
// superseded values are discarded, never queued.
// The halves share one backing store, reclaimed once both are unreachable;
// dropping one half never invalidates the other.
func NewTripleBuffer[T any]() (*Writer[T], *Reader[T]) {
	tb := &tripleBuffer[T]{}

	// cell 0 starts published (empty until the guard latches), the reader
	// holds cell 1 and the writer holds cell 2
	return &Writer[T]{tb: tb, writeIdx: 2}, &Reader[T]{tb: tb, readIdx: 1}
}

// Write publishes v as the newest value, overwriting whatever the writer's
// current cell held. It never fails, never blocks and never allocates:
// by the rotation invariant the targeted cell is owned by the writer alone.
func (w *Writer[T]) Write(v T) {
	idx := w.writeIdx & indexMask
	w.tb.cells[idx] = v
	w.lastWritten = idx
	w.hasWritten = true

	// swap the freshly written cell in as the published one and take over
	// whichever cell was published before
	w.writeIdx = w.tb.latestFree.Swap(idx | newDataFlag)

	w.tb.written.Set()
}

// TryRead returns the most recently published value.
// Returns (zero, false) only before the first Write ever. With no new
// write since the previous call it returns the same value again: repeated
// writes between two reads collapse into the newest one.
func (r *Reader[T]) TryRead() (T, bool) {
	var zero T
	if !r.tb.written.IsSet() {
		// nothing has ever been published
		return zero, false
	}

	if r.tb.latestFree.Load()&newDataFlag != 0 {
		// claim the freshly published cell and relinquish the held one
		// so the writer can rotate onto it
		r.readIdx = r.tb.latestFree.Swap(r.readIdx) & indexMask
	}

	return r.tb.cells[r.readIdx], true
}

// TryRead returns a copy of the value this writer most recently wrote.
// Returns (zero, false) before the writer's first Write. The shared word
// is not touched, so a self-read can never disturb the reader side.
func (w *Writer[T]) TryRead() (T, bool) {
	var zero T
	if !w.hasWritten {
		return zero, false
	}

	return w.tb.cells[w.lastWritten], true
}
