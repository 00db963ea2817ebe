// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin

package arena

// Platforms without anonymous mmap support fall back to heap slabs.
func newMappedSlab(size int) (*slab, error) {
	return newHeapSlab(size), nil
}
