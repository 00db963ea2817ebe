// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin

package arena

func physicalMemory() uint64 {
	return 0
}
