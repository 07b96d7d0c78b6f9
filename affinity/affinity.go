// Package affinity pins benchmark goroutines to CPUs so the producer and
// consumer sides of a channel run on fixed, distinct cores.
package affinity

import "runtime"

// SetAffinity locks the calling goroutine to its OS thread and restricts
// that thread to the given logical CPU. The goroutine stays locked; when
// it exits, the runtime discards the pinned thread.
// Returns an error on platforms without thread-affinity support or when
// the CPU is not available to the process.
func SetAffinity(cpuID int) error {
	runtime.LockOSThread()
	return setAffinityPlatform(cpuID)
}
