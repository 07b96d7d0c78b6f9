package waitfree

import "sync/atomic"

// WriteGuard is a one-way latch distinguishing "never written" from
// "holds a value". The latest-value exchange needs it because a
// zero-initialized cell is indistinguishable from real data of the
// payload type.
type WriteGuard struct {
	hasData atomic.Bool
}

// Set marks the latch. Idempotent; the latch is never reset.
func (g *WriteGuard) Set() {
	g.hasData.Store(true)
}

// IsSet reports whether Set has ever run. Once true, always true.
// A true result also guarantees the store that preceded the matching Set
// is visible to the caller.
func (g *WriteGuard) IsSet() bool {
	return g.hasData.Load()
}
