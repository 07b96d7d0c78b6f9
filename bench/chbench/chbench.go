// Package chbench measures the waitfree primitives against alternative
// two-goroutine channels: a buffered Go channel and a mutex-guarded FIFO.
// One goroutine writes and one reads, each optionally pinned to its own
// CPU so the numbers reflect cross-core traffic rather than scheduler
// luck.
package chbench

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/novomation/waitfree-sync/affinity"
)

// Writer is the producing side of a channel under test.
// Write reports false when the value was not accepted (channel full).
type Writer[T any] interface {
	Write(v T) bool
}

// Reader is the consuming side of a channel under test.
type Reader[T any] interface {
	Read() (T, bool)
}

// Factory names a channel implementation and builds fresh instances.
// Lossless reports whether every accepted write is eventually readable;
// the exchange supersedes values instead, so it reports false.
type Factory[T any] interface {
	Name() string
	Lossless() bool
	New(capacity uint64) (Writer[T], Reader[T])
}

// Cfg controls a single measurement run.
type Cfg struct {
	Messages  int    // writes issued by the writer goroutine
	Capacity  uint64 // channel capacity (power of two); ignored by the exchange
	WriterCPU int    // logical CPU for the writer, -1 to leave unpinned
	ReaderCPU int    // logical CPU for the reader, -1 to leave unpinned
}

// Results is the outcome of one run.
type Results struct {
	Name string

	Writes       int // writes issued, always Cfg.Messages
	WriteRejects int // writes the channel refused (full)

	Reads      int // read attempts that returned a value
	ReadMisses int // read attempts that came back empty

	WriterPinned bool
	ReaderPinned bool

	Elapsed      time.Duration // wall time of the write loop
	WritesPerSec float64
}

// Bench runs one writer goroutine and one reader goroutine over a fresh
// channel built by f. The writer issues cfg.Messages writes of gen(i);
// rejected writes are counted, not retried. The reader polls until the
// writer is done and, for lossless channels, the backlog is drained, so
// for those Reads always equals Writes minus WriteRejects.
func Bench[T any](f Factory[T], cfg Cfg, gen func(i int) T) Results {
	w, r := f.New(cfg.Capacity)

	res := Results{Name: f.Name(), Writes: cfg.Messages}
	lossless := f.Lossless()

	var stop atomic.Bool
	readerReady := make(chan struct{})
	readerDone := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		if cfg.ReaderCPU >= 0 && affinity.SetAffinity(cfg.ReaderCPU) == nil {
			res.ReaderPinned = true
		}
		close(readerReady)

		for {
			if _, ok := r.Read(); ok {
				res.Reads++
				if !lossless && stop.Load() {
					return
				}
				continue
			}

			res.ReadMisses++
			if !stop.Load() {
				runtime.Gosched()
				continue
			}
			if !lossless {
				return
			}
			// the writer is done, so one full drain reaches the
			// backlog's end; stopping at the first miss instead could
			// strand items written after that miss was observed
			for {
				if _, ok := r.Read(); !ok {
					return
				}
				res.Reads++
			}
		}
	}()

	go func() {
		defer close(writerDone)
		if cfg.WriterCPU >= 0 && affinity.SetAffinity(cfg.WriterCPU) == nil {
			res.WriterPinned = true
		}
		<-readerReady

		start := time.Now()
		for i := 0; i < cfg.Messages; i++ {
			if !w.Write(gen(i)) {
				res.WriteRejects++
			}
		}
		res.Elapsed = time.Since(start)
		stop.Store(true)
	}()

	<-writerDone
	<-readerDone

	if s := res.Elapsed.Seconds(); s > 0 {
		res.WritesPerSec = float64(res.Writes) / s
	}
	return res
}
