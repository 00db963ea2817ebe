// SPDX-License-Identifier: Apache-2.0

package arena

// A slab is one fixed-capacity byte range owned by an arena. Slabs are
// append-only at the arena level: once handed out, a slab's backing memory
// is never resized or moved, which is what keeps previously returned
// pointers valid across arena growth.
type slab struct {
	buf    []byte
	unmap  func([]byte) error // non-nil for mmap-backed slabs
	mapped bool
}

// newHeapSlab returns a slab backed by the Go heap.
func newHeapSlab(size int) *slab {
	return &slab{buf: make([]byte, size)}
}

// newFixedSlab wraps caller-supplied storage. The slab does not own the
// bytes and never releases them.
func newFixedSlab(buf []byte) *slab {
	return &slab{buf: buf}
}

func (s *slab) size() uintptr {
	return uintptr(len(s.buf))
}

// release returns the slab's memory to the system. For heap slabs this just
// drops the reference; mmap-backed slabs are unmapped.
func (s *slab) release() {
	if s.mapped && s.unmap != nil && s.buf != nil {
		_ = s.unmap(s.buf)
	}
	s.buf = nil
	s.unmap = nil
}
