// SPDX-License-Identifier: Apache-2.0

//go:build linux || darwin

package arena

import "golang.org/x/sys/unix"

// newMappedSlab returns a slab backed by an anonymous private mapping
// instead of the Go heap. Mapped slabs never contribute to GC scan work and
// are returned to the OS on release.
func newMappedSlab(size int) (*slab, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	return &slab{buf: buf, unmap: unix.Munmap, mapped: true}, nil
}
