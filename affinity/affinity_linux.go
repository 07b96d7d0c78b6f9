//go:build linux

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)

	// pid 0 targets the calling thread
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: pin to cpu %d: %w", cpuID, err)
	}
	return nil
}
