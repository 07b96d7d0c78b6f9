// Package waitfree provides wait-free synchronization primitives for
// moving data between exactly two goroutines: a bounded SPSC ring queue
// and a triple-buffered latest-value exchange.
//
// Every operation completes in a bounded number of steps regardless of
// what the opposite side is doing: no locks, no retries, no blocking, no
// allocation outside construction. The queue is lossless and FIFO within
// its fixed capacity and reports full/empty instead of parking the
// caller; the exchange keeps only the most recently written value and
// discards superseded ones.
//
// # Usage contract
//
// Each constructor returns two handles sharing one store. At any moment
// at most one goroutine may use the sending handle and at most one the
// receiving handle. Handles may be handed off between goroutines, but
// using one handle from two goroutines concurrently is a data race with
// undefined results; this is not checked at runtime. Handles must be
// used through the returned pointers: copying a handle value duplicates
// its private cursor, which go vet reports via the copylocks check.
package waitfree
