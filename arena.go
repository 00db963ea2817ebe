// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrCapacityExceeded is returned by Alloc when satisfying the request would
// grow the arena past its ceiling. It is the only recoverable failure in
// this package; everything else is a usage-contract violation.
var ErrCapacityExceeded = errors.New("arena: capacity ceiling exceeded")

// Arena is a growable bump allocator. It carves allocations out of an
// ordered sequence of fixed slabs, advancing a single cursor; freeing
// happens in bulk by restoring a Checkpoint or calling Reset. Growth never
// moves a slab, so pointers handed out before a grow stay valid after it.
//
// An Arena must be driven by exactly one goroutine at a time. Sharing one
// instance across goroutines without external coordination is undefined
// behavior; per-goroutine isolation via Default is the supported model.
type Arena struct {
	slabs   []*slab
	current int     // index of the active slab
	offset  uintptr // bump offset within the active slab

	ceiling  uintptr // maximum cumulative slab capacity
	slabSize int     // size of the first slab
	fixed    bool    // caller-supplied backing, growth disabled
	mapped   bool    // back slabs with anonymous mappings

	depth int     // open checkpoints, see mark.go
	peak  uintptr // high-water mark of Len across resets
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithCapacity sets the size of the arena's first slab. If unset, the
// process-wide default capacity is used (see SetDefaultCapacity).
func WithCapacity(bytes int) Option {
	return func(a *Arena) {
		if bytes > 0 {
			a.slabSize = bytes
		}
	}
}

// WithCeiling sets the maximum cumulative capacity the arena may grow to.
// If unset, the process-wide default applies (one eighth of physical
// memory unless overridden via SetDefaultCeiling). The ceiling is fixed
// for the arena's lifetime.
func WithCeiling(bytes int) Option {
	return func(a *Arena) {
		if bytes > 0 {
			a.ceiling = uintptr(bytes)
		}
	}
}

// WithBacking wraps caller-supplied storage as the arena's single slab.
// The arena never grows: allocations beyond len(buf) fail with
// ErrCapacityExceeded. Intended for environments where a general allocator
// is unavailable or undesirable.
func WithBacking(buf []byte) Option {
	return func(a *Arena) {
		a.fixed = true
		a.slabs = []*slab{newFixedSlab(buf)}
		a.ceiling = uintptr(len(buf))
	}
}

// WithMappedSlabs backs the arena's slabs with anonymous private mappings
// instead of the Go heap. Mapped slabs are invisible to the garbage
// collector and are returned to the OS on Release.
func WithMappedSlabs() Option {
	return func(a *Arena) {
		a.mapped = true
	}
}

// NewArena creates an arena with a single initial slab.
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		slabSize: configuredCapacity(),
		ceiling:  configuredCeiling(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fixed {
		return a
	}
	if uintptr(a.slabSize) > a.ceiling {
		a.slabSize = int(a.ceiling)
	}
	s, err := a.newSlab(a.slabSize)
	if err != nil {
		// Mapping can only fail for OS reasons the caller cannot act on
		// at construction time; fall back to the heap.
		s = newHeapSlab(a.slabSize)
	}
	a.slabs = []*slab{s}
	return a
}

func (a *Arena) newSlab(size int) (*slab, error) {
	if a.mapped {
		return newMappedSlab(size)
	}
	return newHeapSlab(size), nil
}

// Alloc returns a pointer to a zeroed region of size bytes aligned to
// align, bumping the arena's cursor. align must be a power of two. If the
// active slab is exhausted the arena grows by reusing a retained trailing
// slab or appending a new one; Alloc fails with ErrCapacityExceeded when
// growth would pass the ceiling.
//
// The region stays valid until the enclosing checkpoint is restored, the
// arena is Reset, or the arena is Released.
func (a *Arena) Alloc(size, align uintptr) (unsafe.Pointer, error) {
	if a.slabs == nil {
		panic("arena: use after Release")
	}
	if align == 0 || align&(align-1) != 0 {
		panic("arena: alignment must be a power of two")
	}
	if p, ok := a.bump(size, align); ok {
		return p, nil
	}
	return a.allocSlow(size, align)
}

// TryAlloc is the sentinel variant of Alloc: it returns nil instead of an
// error when the request cannot be satisfied, for callers that branch
// rather than propagate.
func (a *Arena) TryAlloc(size, align uintptr) unsafe.Pointer {
	p, err := a.Alloc(size, align)
	if err != nil {
		return nil
	}
	return p
}

// bump attempts the allocation within the active slab.
func (a *Arena) bump(size, align uintptr) (unsafe.Pointer, bool) {
	s := a.slabs[a.current]
	if len(s.buf) == 0 {
		return nil, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(s.buf)))
	// Align the absolute address, not just the offset: slab bases only
	// carry heap alignment, which may be below the requested one.
	start := (base+a.offset+align-1)&^(align-1) - base
	end := start + size
	if end < start || end > s.size() {
		return nil, false
	}
	a.offset = end
	// clear compiles to an optimized memclr.
	clear(s.buf[start:end])
	if used := a.used(); used > a.peak {
		a.peak = used
	}
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(s.buf)), start), true
}

func (a *Arena) allocSlow(size, align uintptr) (unsafe.Pointer, error) {
	// Trailing slabs retained by an earlier restore are reused before any
	// new memory is requested, so repeated scoped use settles into a
	// steady state with no allocator traffic.
	for a.current+1 < len(a.slabs) {
		a.current++
		a.offset = 0
		if p, ok := a.bump(size, align); ok {
			return p, nil
		}
	}
	if a.fixed {
		return nil, ErrCapacityExceeded
	}
	need := size + align - 1
	if need < size {
		return nil, ErrCapacityExceeded
	}
	total := a.capacity()
	if total >= a.ceiling || need > a.ceiling-total {
		return nil, ErrCapacityExceeded
	}
	// Geometric growth, clamped to the ceiling.
	n := 2 * total
	if n < need {
		n = need
	}
	if room := a.ceiling - total; n > room {
		n = room
	}
	s, err := a.newSlab(int(n))
	if err != nil {
		return nil, fmt.Errorf("arena: grow: %w", err)
	}
	a.slabs = append(a.slabs, s)
	a.current = len(a.slabs) - 1
	a.offset = 0
	p, ok := a.bump(size, align)
	if !ok {
		panic("arena: allocation does not fit freshly grown slab")
	}
	return p, nil
}

// Reset rewinds the cursor to the start of the first slab and clears any
// leaked checkpoints. All previously returned regions become invalid.
// Retained slabs are kept for reuse; Reset is O(1).
//
// Reset is the manual recovery path after a checkpoint was saved but never
// restored. It must not be called while a checkpoint is legitimately open
// further up the stack.
func (a *Arena) Reset() {
	if a.slabs == nil {
		panic("arena: use after Release")
	}
	a.current = 0
	a.offset = 0
	a.depth = 0
}

// Release returns the arena's memory to the system. Any subsequent
// operation on the arena panics.
func (a *Arena) Release() {
	for _, s := range a.slabs {
		s.release()
	}
	a.slabs = nil
	a.current = 0
	a.offset = 0
	a.depth = 0
}

// used reports live bytes: every slab before the active one counts in
// full, the active one up to the cursor.
func (a *Arena) used() uintptr {
	var total uintptr
	for i := 0; i < a.current; i++ {
		total += a.slabs[i].size()
	}
	return total + a.offset
}

func (a *Arena) capacity() uintptr {
	var total uintptr
	for _, s := range a.slabs {
		total += s.size()
	}
	return total
}

// Len returns the total number of bytes currently allocated in the arena,
// including padding and the unused tails of exhausted slabs.
func (a *Arena) Len() int {
	if a.slabs == nil {
		return 0
	}
	return int(a.used())
}

// Cap returns the cumulative capacity of all slabs currently attached to
// the arena.
func (a *Arena) Cap() int {
	if a.slabs == nil {
		return 0
	}
	return int(a.capacity())
}

// Ceiling returns the maximum cumulative capacity the arena may grow to.
func (a *Arena) Ceiling() int {
	return int(a.ceiling)
}

// Peak returns the high-water mark of Len across the arena's lifetime.
// Unlike Len it is not rewound by restores or Reset, which makes it useful
// for right-sizing arenas that are pooled and reused.
func (a *Arena) Peak() int {
	return int(a.peak)
}

// SlabCount returns the number of slabs currently attached to the arena.
func (a *Arena) SlabCount() int {
	return len(a.slabs)
}
