// SPDX-License-Identifier: Apache-2.0

package arena

// A Mark is a read-only snapshot of an arena's cursor: the active slab
// index and the bump offset within it.
type Mark struct {
	slab   int
	offset uintptr
}

// currentMark snapshots the cursor.
func (a *Arena) currentMark() Mark {
	return Mark{slab: a.current, offset: a.offset}
}

// restoreTo rewinds the cursor to a previously taken mark. Slabs past the
// mark stay attached and are reused by future growth.
func (a *Arena) restoreTo(m Mark) {
	a.current = m.slab
	a.offset = m.offset
}

// A Checkpoint captures an arena's cursor so that every allocation made
// after Save can be reclaimed at once by Restore. Checkpoints on the same
// arena form a strict stack: the most recently saved, not-yet-restored
// checkpoint must be restored first.
type Checkpoint struct {
	arena *Arena
	mark  Mark
	depth int
}

// Save pushes a checkpoint onto the arena's stack.
func Save(a *Arena) Checkpoint {
	if a.slabs == nil {
		panic("arena: use after Release")
	}
	a.depth++
	return Checkpoint{arena: a, mark: a.currentMark(), depth: a.depth}
}

// Restore pops the checkpoint, rewinding the arena's cursor to where Save
// left it. Every region allocated since becomes invalid; the bytes are
// reused by subsequent allocations.
//
// Restoring a checkpoint that is not the top of its arena's stack panics.
// A Checkpoint must be restored at most once.
func (c Checkpoint) Restore() {
	a := c.arena
	if a == nil || a.slabs == nil {
		panic("arena: restore on released arena")
	}
	if a.depth != c.depth {
		panic("arena: checkpoint restored out of order")
	}
	a.depth--
	a.restoreTo(c.mark)
}
