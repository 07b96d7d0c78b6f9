package waitfree

import "sync/atomic"

// Slot handoff after the FastForward queue design: one atomic occupancy
// flag per slot is the only synchronization point between the two sides.

// T is the specific type to store in the queue.
// SPSC: single-producer, single-consumer, bounded, wait-free.

// cacheLinePad separates hot fields so unrelated atomics never share a line.
const cacheLinePad = 64

type slot[T any] struct {
	val T // actual value stored in this slot

	// padding keeps each occupancy flag on its own cache line
	_        [cacheLinePad]byte
	occupied atomic.Bool // false: sender may write, true: receiver may read
	_        [cacheLinePad - 4]byte
}

// noCopy makes `go vet` flag value copies of a handle (copylocks check).
// A copied handle would carry its own private cursor and break the
// single-writer/single-reader contract.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
