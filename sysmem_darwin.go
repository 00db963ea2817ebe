// SPDX-License-Identifier: Apache-2.0

package arena

import "golang.org/x/sys/unix"

// physicalMemory reports the total physical memory of the machine, or 0 if
// it cannot be determined.
func physicalMemory() uint64 {
	mem, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return mem
}
