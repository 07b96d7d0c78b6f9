//go:build !linux

package affinity

import "fmt"

func setAffinityPlatform(cpuID int) error {
	return fmt.Errorf("affinity: thread pinning to cpu %d not supported on this platform", cpuID)
}
