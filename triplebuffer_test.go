package waitfree

import (
	"runtime"
	"sync"
	"testing"
)

// A fresh exchange holds nothing on either side.
func TestTripleBufferNeverWritten(t *testing.T) {
	w, r := NewTripleBuffer[int]()

	if v, ok := r.TryRead(); ok {
		t.Fatalf("read before any write returned %d", v)
	}
	if v, ok := w.TryRead(); ok {
		t.Fatalf("self-read before any write returned %d", v)
	}
}

// One write becomes visible to both the reader and the writer's self-read.
func TestTripleBufferReadAfterWrite(t *testing.T) {
	w, r := NewTripleBuffer[int]()

	w.Write(42)

	if v, ok := r.TryRead(); !ok || v != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", v, ok)
	}
	if v, ok := w.TryRead(); !ok || v != 42 {
		t.Fatalf("self-read: expected 42, got %d (ok=%v)", v, ok)
	}
}

// Intermediate writes are collapsed: the reader only ever sees the newest.
func TestTripleBufferCollapsesWrites(t *testing.T) {
	w, r := NewTripleBuffer[int]()

	w.Write(1)
	w.Write(2)
	w.Write(3)

	if v, ok := r.TryRead(); !ok || v != 3 {
		t.Fatalf("expected 3, got %d (ok=%v)", v, ok)
	}
}

// With no new write the reader keeps returning the value it already holds,
// never empty.
func TestTripleBufferRepeatedReadStability(t *testing.T) {
	w, r := NewTripleBuffer[int]()

	w.Write(7)

	for i := 0; i < 5; i++ {
		v, ok := r.TryRead()
		if !ok || v != 7 {
			t.Fatalf("read #%d: expected 7, got %d (ok=%v)", i, v, ok)
		}
	}
}

// Many write/read rotations: the reader always sees the newest value and
// the three-cell rotation never wedges.
func TestTripleBufferRotation(t *testing.T) {
	w, r := NewTripleBuffer[int]()

	for i := 0; i < 1000; i++ {
		w.Write(i)
		if v, ok := r.TryRead(); !ok || v != i {
			t.Fatalf("round %d: expected %d, got %d (ok=%v)", i, i, v, ok)
		}
		if v, ok := w.TryRead(); !ok || v != i {
			t.Fatalf("round %d: self-read expected %d, got %d (ok=%v)", i, i, v, ok)
		}
	}

	// A burst of writes between reads still yields only the newest.
	for i := 0; i < 100; i++ {
		w.Write(i)
		w.Write(i + 1000)
		if v, ok := r.TryRead(); !ok || v != i+1000 {
			t.Fatalf("burst %d: expected %d, got %d (ok=%v)", i, i+1000, v, ok)
		}
	}
}

// Heap payloads: the reader's copy stays intact while the writer keeps
// overwriting cells.
func TestTripleBufferHeapPayload(t *testing.T) {
	w, r := NewTripleBuffer[[]string]()

	w.Write([]string{"a", "b"})
	first, ok := r.TryRead()
	if !ok || len(first) != 2 || first[0] != "a" {
		t.Fatalf("expected [a b], got %v (ok=%v)", first, ok)
	}

	for i := 0; i < 10; i++ {
		w.Write([]string{"x", "y", "z"})
	}

	// The copy taken before the overwrites must be unchanged.
	if first[0] != "a" || first[1] != "b" {
		t.Fatalf("previously read value mutated: %v", first)
	}

	if v, ok := r.TryRead(); !ok || len(v) != 3 || v[2] != "z" {
		t.Fatalf("expected [x y z], got %v (ok=%v)", v, ok)
	}
}

// The reader keeps the last value after the writer becomes unreachable.
func TestTripleBufferDropWriter(t *testing.T) {
	r := func() *Reader[string] {
		w, r := NewTripleBuffer[string]()
		w.Write("first")
		w.Write("last")
		return r
	}()

	runtime.GC()

	for i := 0; i < 3; i++ {
		v, ok := r.TryRead()
		if !ok || v != "last" {
			t.Fatalf("read #%d after writer drop: expected %q, got %q (ok=%v)", i, "last", v, ok)
		}
	}
}

// The writer keeps publishing after the reader becomes unreachable.
func TestTripleBufferDropReader(t *testing.T) {
	w := func() *Writer[int] {
		w, _ := NewTripleBuffer[int]()
		return w
	}()

	runtime.GC()

	for i := 0; i < 100; i++ {
		w.Write(i)
	}
	if v, ok := w.TryRead(); !ok || v != 99 {
		t.Fatalf("self-read after reader drop: expected 99, got %d (ok=%v)", v, ok)
	}
}

// Concurrent writer/reader: observed values never go backwards.
func TestTripleBufferConcurrentMonotonic(t *testing.T) {
	const N = 200_000

	w, r := NewTripleBuffer[int]()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= N; i++ {
			w.Write(i)
		}
	}()

	last := 0
	for last < N {
		v, ok := r.TryRead()
		if !ok {
			runtime.Gosched()
			continue
		}
		if v < last {
			t.Fatalf("value went backwards: %d after %d", v, last)
		}
		last = v
	}

	wg.Wait()
}

// Benchmark: uncontended writes.
func BenchmarkTripleBufferWrite(b *testing.B) {
	w, _ := NewTripleBuffer[int]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Write(i)
	}
}

// Benchmark: one writer goroutine, one reader goroutine.
func BenchmarkTripleBuffer_1W1R(b *testing.B) {
	w, r := NewTripleBuffer[int]()

	done := make(chan struct{})

	// Reader attempts exactly as many reads as there are writes; misses
	// and repeats are part of the exchange's semantics.
	go func() {
		for i := 0; i < b.N; i++ {
			r.TryRead()
		}
		close(done)
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Write(i)
	}
	<-done
	b.StopTimer()
}
