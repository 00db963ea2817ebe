// SPDX-License-Identifier: Apache-2.0

package arena

import "golang.org/x/sys/unix"

// physicalMemory reports the total physical memory of the machine, or 0 if
// it cannot be determined.
func physicalMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
