// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	a := NewArena(WithCapacity(256))
	defer a.Release()

	_, err := a.Alloc(10, 1)
	require.NoError(t, err)
	before := a.currentMark()

	// Save immediately followed by Restore leaves the cursor untouched.
	cp := Save(a)
	cp.Restore()
	require.Equal(t, before, a.currentMark())
	require.Equal(t, 10, a.Len())
}

func TestCheckpointReclaimsBytes(t *testing.T) {
	// Capacity 200: alloc 100, restore, alloc 100 again. The second
	// allocation reuses the first one's bytes, so no growth occurs.
	a := NewArena(WithCapacity(200), WithCeiling(200))
	defer a.Release()

	cp := Save(a)
	p1, err := a.Alloc(100, 1)
	require.NoError(t, err)
	cp.Restore()

	p2, err := a.Alloc(100, 1)
	require.NoError(t, err)
	require.Equal(t, p1, p2)
	require.Equal(t, 1, a.SlabCount())
}

func TestCheckpointNesting(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()

	outer := Save(a)
	_, err := a.Alloc(100, 1)
	require.NoError(t, err)
	outerLen := a.Len()

	inner := Save(a)
	_, err = a.Alloc(200, 1)
	require.NoError(t, err)

	inner.Restore()
	require.Equal(t, outerLen, a.Len())

	outer.Restore()
	require.Equal(t, 0, a.Len())
}

func TestCheckpointAcrossGrowth(t *testing.T) {
	a := NewArena(WithCapacity(64), WithCeiling(4096))
	defer a.Release()

	cp := Save(a)
	_, err := a.Alloc(48, 1)
	require.NoError(t, err)
	_, err = a.Alloc(48, 1) // grows into a second slab
	require.NoError(t, err)
	require.Greater(t, a.SlabCount(), 1)

	cp.Restore()
	require.Equal(t, 0, a.Len())
	// Trailing slabs stay attached for reuse.
	require.Greater(t, a.SlabCount(), 1)
}

func TestCheckpointOutOfOrderRestorePanics(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()

	outer := Save(a)
	inner := Save(a)
	_ = inner

	// Restoring the outer checkpoint while the inner one is still open is
	// a stack violation.
	require.Panics(t, func() { outer.Restore() })
}

func TestCheckpointDoubleRestorePanics(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()

	cp := Save(a)
	cp.Restore()
	require.Panics(t, func() { cp.Restore() })
}

func TestResetRecoversLeakedCheckpoint(t *testing.T) {
	a := NewArena(WithCapacity(1024))
	defer a.Release()

	// A saved but never restored checkpoint leaks its bytes.
	_ = Save(a)
	_, err := a.Alloc(100, 1)
	require.NoError(t, err)

	// Reset is the manual recovery path: it rewinds the cursor and clears
	// the leaked depth so new checkpoints work again.
	a.Reset()
	require.Equal(t, 0, a.Len())

	cp := Save(a)
	_, err = a.Alloc(50, 1)
	require.NoError(t, err)
	cp.Restore()
	require.Equal(t, 0, a.Len())
}
