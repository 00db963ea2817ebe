// SPDX-License-Identifier: Apache-2.0

package arena

import "sync"

// registry maps goroutine ids to their arena state. Isolation, not
// synchronization, is the safety mechanism: each entry is mutated only by
// its own goroutine, so the map is the sole shared structure and individual
// entries need no locking.
var registry sync.Map // uint64 -> *goroutineState

type goroutineState struct {
	def       *Arena
	overrides []*Arena
}

func stateFor(id uint64) *goroutineState {
	if v, ok := registry.Load(id); ok {
		return v.(*goroutineState)
	}
	v, _ := registry.LoadOrStore(id, &goroutineState{})
	return v.(*goroutineState)
}

// Default returns the calling goroutine's current arena: the top of its
// override stack while With is active, otherwise a per-goroutine default
// arena created lazily with the process-wide capacity and ceiling.
//
// Distinct goroutines always observe distinct default arenas; repeated
// calls from the same goroutine return the same instance.
func Default() *Arena {
	st := stateFor(goid())
	if n := len(st.overrides); n > 0 {
		return st.overrides[n-1]
	}
	if st.def == nil {
		st.def = NewArena()
	}
	return st.def
}

// With makes a the calling goroutine's current arena for the dynamic
// extent of body: Default and the package-level Scoped observe a until
// body returns, without the arena being threaded through call signatures.
// The previous arena is reinstated on every exit path, including panics.
// The override never affects other goroutines.
func With(a *Arena, body func() error) error {
	st := stateFor(goid())
	st.overrides = append(st.overrides, a)
	defer func() {
		st.overrides = st.overrides[:len(st.overrides)-1]
	}()
	return body()
}

// ReleaseDefault releases the calling goroutine's default arena, if one was
// created, and drops its registry entry. The runtime offers no
// goroutine-exit hook, so long-lived programs spawning many short-lived
// goroutines that use Default should call ReleaseDefault before each such
// goroutine returns.
func ReleaseDefault() {
	id := goid()
	v, ok := registry.LoadAndDelete(id)
	if !ok {
		return
	}
	if st := v.(*goroutineState); st.def != nil {
		st.def.Release()
	}
}
