package chbench

import (
	"runtime"
	"sync/atomic"
)

// Vyukov bounded MPMC queue, run here in single-producer single-consumer
// mode: the general-purpose lock-free design the wait-free primitives are
// measured against.
// Original algorithm by Dmitry Vyukov
// https://www.1024cores.net/home/lock-free-algorithms/queues/bounded-mpmc-queue

const goschedEvery = 64 // reduce runtime.Gosched() frequency in hot loops

type vslot[T any] struct {
	seq atomic.Uint64 // sequence number (controls visibility and slot ownership)
	val T
}

type vyukovQueue[T any] struct {
	// padding to avoid false sharing between hot fields
	_        [64]byte
	mask     uint64
	capacity uint64
	slots    []vslot[T]
	_        [64]byte
	enqueue  atomic.Uint64 // logical tail index (producers)
	_        [64]byte
	dequeue  atomic.Uint64 // logical head index (consumers)
	_        [64]byte
}

// VyukovMPMC runs the CAS-based bounded MPMC queue as a lock-free
// baseline. Unlike the wait-free implementations it may retry under
// contention.
type VyukovMPMC[T any] struct{}

func (VyukovMPMC[T]) Name() string { return "vyukov-mpmc" }

func (VyukovMPMC[T]) Lossless() bool { return true }

func (VyukovMPMC[T]) New(capacity uint64) (Writer[T], Reader[T]) {
	if capacity < 2 || (capacity&(capacity-1)) != 0 {
		panic("chbench: capacity must be a power of two and >= 2")
	}

	q := &vyukovQueue[T]{
		mask:     capacity - 1,
		capacity: capacity,
		slots:    make([]vslot[T], capacity),
	}
	for i := uint64(0); i < capacity; i++ {
		// initial sequence for each slot matches its index
		q.slots[i].seq.Store(i)
	}
	return q, q
}

// Write pushes an element into the queue.
// Returns false if the queue is full (overflow).
func (q *vyukovQueue[T]) Write(v T) bool {
	var spins uint32
	for {
		pos := q.enqueue.Load()
		s := &q.slots[pos&q.mask]

		seq := s.seq.Load()
		diff := int64(seq) - int64(pos)

		if diff == 0 {
			// slot is free for this position, try to reserve it
			if q.enqueue.CompareAndSwap(pos, pos+1) {
				s.val = v
				// publish the value: seq = pos+1
				s.seq.Store(pos + 1)
				return true
			}
		} else if diff < 0 {
			// consumer has not freed this slot yet => queue is full
			return false
		}

		// contention or a slot from a previous cycle, retry
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}

// Read pops an element from the queue.
// Returns (zero, false) if the queue is empty.
func (q *vyukovQueue[T]) Read() (T, bool) {
	var zero T
	var spins uint32
	for {
		pos := q.dequeue.Load()
		s := &q.slots[pos&q.mask]

		seq := s.seq.Load()
		diff := int64(seq) - int64(pos+1)

		if diff == 0 {
			// element is ready for this position, try to claim it
			if q.dequeue.CompareAndSwap(pos, pos+1) {
				v := s.val
				// free the slot for the next cycle:
				// this physical slot is used again at pos+capacity
				s.seq.Store(pos + q.capacity)
				return v, true
			}
		} else if diff < 0 {
			// queue is logically empty (head is ahead of producers)
			return zero, false
		}

		// contention or a producer in an intermediate state, retry
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}
