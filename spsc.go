package waitfree

type spsc[T any] struct {
	// mask is written at construction and then only read,
	// so no atomic is needed for it
	mask  uint64
	slots []slot[T]
}

func (q *spsc[T]) capacity() uint64 {
	return q.mask + 1
}

// Sender is the producing half of a bounded SPSC queue.
// It may be handed off between goroutines, but at most one goroutine may
// use it at a time.
type Sender[T any] struct {
	noCopy noCopy

	q     *spsc[T]
	write uint64 // logical "tail", touched only by the sending goroutine

	// padding so two separately allocated handles cannot share a cache line
	_ [cacheLinePad - 16]byte
}

// Receiver is the consuming half of a bounded SPSC queue.
// It may be handed off between goroutines, but at most one goroutine may
// use it at a time.
type Receiver[T any] struct {
	noCopy noCopy

	q    *spsc[T]
	read uint64 // logical "head", touched only by the receiving goroutine

	// padding so two separately allocated handles cannot share a cache line
	_ [cacheLinePad - 16]byte
}

// NewSPSC creates a bounded single-producer single-consumer queue and
// returns its two halves. Capacity must be a power of two (1<<k) and at
// least 2.
// The halves share one backing store, reclaimed once both are unreachable;
// dropping one half never invalidates the other.
func NewSPSC[T any](capacity uint64) (*Sender[T], *Receiver[T]) {
	if capacity < 2 || (capacity&(capacity-1)) != 0 {
		panic("waitfree: capacity must be a power of two and >= 2")
	}

	q := &spsc[T]{
		mask:  capacity - 1,
		slots: make([]slot[T], capacity),
	}

	return &Sender[T]{q: q}, &Receiver[T]{q: q}
}

// TrySend pushes an element into the queue.
// Returns false if the queue is full (overflow); the caller keeps v.
// A single bounded pass with no retry: the call completes regardless of
// what the receiving side is doing.
func (s *Sender[T]) TrySend(v T) bool {
	sl := &s.q.slots[s.write&s.q.mask]

	if sl.occupied.Load() {
		// receiver has not freed this slot yet => queue is full
		return false
	}

	sl.val = v
	// publish the value: the flag flips only after the payload is in place
	sl.occupied.Store(true)
	s.write++

	return true
}

// TryRecv pops an element from the queue.
// Returns (zero, false) if the queue is empty.
func (r *Receiver[T]) TryRecv() (T, bool) {
	sl := &r.q.slots[r.read&r.q.mask]

	var zero T
	if !sl.occupied.Load() {
		// sender has not filled this slot yet => queue is empty
		return zero, false
	}

	v := sl.val
	sl.val = zero // do not pin heap payloads past their consumption
	// free the slot for the next cycle
	sl.occupied.Store(false)
	r.read++

	return v, true
}

// Peek returns a copy of the element TryRecv would pop next, without
// removing it. Repeated calls observe the same element until TryRecv runs.
// Returns (zero, false) if the queue is empty.
func (r *Receiver[T]) Peek() (T, bool) {
	sl := &r.q.slots[r.read&r.q.mask]

	var zero T
	if !sl.occupied.Load() {
		return zero, false
	}

	return sl.val, true
}

// Capacity returns the fixed queue capacity.
func (s *Sender[T]) Capacity() uint64 {
	return s.q.capacity()
}

// Capacity returns the fixed queue capacity.
func (r *Receiver[T]) Capacity() uint64 {
	return r.q.capacity()
}
