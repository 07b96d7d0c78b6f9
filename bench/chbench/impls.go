package chbench

import (
	"sync"

	"github.com/eapache/queue"

	waitfree "github.com/novomation/waitfree-sync"
)

var (
	_ Factory[int] = SPSC[int]{}
	_ Factory[int] = TripleBuffer[int]{}
	_ Factory[int] = GoChan[int]{}
	_ Factory[int] = MutexQueue[int]{}
	_ Factory[int] = VyukovMPMC[int]{}
)

// SPSC runs the wait-free bounded queue.
type SPSC[T any] struct{}

func (SPSC[T]) Name() string { return "waitfree-spsc" }

func (SPSC[T]) Lossless() bool { return true }

func (SPSC[T]) New(capacity uint64) (Writer[T], Reader[T]) {
	s, r := waitfree.NewSPSC[T](capacity)
	return spscWriter[T]{s}, spscReader[T]{r}
}

type spscWriter[T any] struct{ s *waitfree.Sender[T] }

func (w spscWriter[T]) Write(v T) bool { return w.s.TrySend(v) }

type spscReader[T any] struct{ r *waitfree.Receiver[T] }

func (r spscReader[T]) Read() (T, bool) { return r.r.TryRecv() }

// TripleBuffer runs the latest-value exchange. Writes always succeed and
// capacity is ignored; a read may return the same value repeatedly.
type TripleBuffer[T any] struct{}

func (TripleBuffer[T]) Name() string { return "waitfree-triplebuffer" }

func (TripleBuffer[T]) Lossless() bool { return false }

func (TripleBuffer[T]) New(uint64) (Writer[T], Reader[T]) {
	w, r := waitfree.NewTripleBuffer[T]()
	return tbWriter[T]{w}, tbReader[T]{r}
}

type tbWriter[T any] struct{ w *waitfree.Writer[T] }

func (x tbWriter[T]) Write(v T) bool {
	x.w.Write(v)
	return true
}

type tbReader[T any] struct{ r *waitfree.Reader[T] }

func (x tbReader[T]) Read() (T, bool) { return x.r.TryRead() }

// GoChan runs the runtime's buffered channel with select/default try
// semantics on both sides.
type GoChan[T any] struct{}

func (GoChan[T]) Name() string { return "go-chan" }

func (GoChan[T]) Lossless() bool { return true }

func (GoChan[T]) New(capacity uint64) (Writer[T], Reader[T]) {
	ch := make(chan T, capacity)
	return chanWriter[T]{ch}, chanReader[T]{ch}
}

type chanWriter[T any] struct{ ch chan T }

func (w chanWriter[T]) Write(v T) bool {
	select {
	case w.ch <- v:
		return true
	default:
		return false
	}
}

type chanReader[T any] struct{ ch chan T }

func (r chanReader[T]) Read() (T, bool) {
	select {
	case v := <-r.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// MutexQueue is the locked baseline: a plain FIFO behind a mutex, bounded
// to the same capacity as the others.
type MutexQueue[T any] struct{}

func (MutexQueue[T]) Name() string { return "mutex-queue" }

func (MutexQueue[T]) Lossless() bool { return true }

func (MutexQueue[T]) New(capacity uint64) (Writer[T], Reader[T]) {
	mq := &mutexQueue[T]{q: queue.New(), cap: int(capacity)}
	return mq, mq
}

type mutexQueue[T any] struct {
	mu  sync.Mutex
	q   *queue.Queue
	cap int
}

func (m *mutexQueue[T]) Write(v T) bool {
	m.mu.Lock()
	if m.q.Length() >= m.cap {
		m.mu.Unlock()
		return false
	}
	m.q.Add(v)
	m.mu.Unlock()
	return true
}

func (m *mutexQueue[T]) Read() (T, bool) {
	m.mu.Lock()
	if m.q.Length() == 0 {
		m.mu.Unlock()
		var zero T
		return zero, false
	}
	v := m.q.Remove().(T)
	m.mu.Unlock()
	return v, true
}
