// SPDX-License-Identifier: Apache-2.0

// Package arena implements a scoped bump allocator: many short-lived,
// size-known allocations are carved out of pre-reserved slabs and released
// in bulk at scope boundaries instead of individually.
//
// # Basic usage
//
//	a := arena.NewArena()
//	defer a.Release()
//
//	err := a.Scoped(func(a *arena.Arena) error {
//		tmp, err := arena.MakeSlice[float64](a, 1024, 1024)
//		if err != nil {
//			return err
//		}
//		// use tmp; it is reclaimed when Scoped returns
//		return nil
//	})
//
// Scopes nest. Each Scoped call saves a checkpoint, runs its body, and
// restores the checkpoint on every exit path, so the cursor ends up exactly
// where the scope began. Growth appends slabs and never moves existing
// ones, so pointers obtained before a grow remain valid for the rest of
// their scope.
//
// # Per-goroutine defaults
//
// Default returns a lazily-created arena private to the calling goroutine,
// and With temporarily substitutes another arena for the dynamic extent of
// a function:
//
//	arena.Scoped(func(a *arena.Arena) error { ... }) // uses Default()
//
//	scratch := arena.NewArena(arena.WithCapacity(1 << 20))
//	arena.With(scratch, func() error {
//		return arena.Scoped(func(a *arena.Arena) error { ... }) // a == scratch
//	})
//
// Goroutines never share a default arena, which is what makes the
// lock-free hot path safe. Sharing one Arena instance across goroutines is
// undefined behavior.
//
// # Constraints
//
// Only flat, pointer-free element types may live in an arena: the memory
// is reclaimed wholesale and the garbage collector does not trace it.
// Allocating a type containing pointers, slices, maps, strings, channels,
// interfaces, or funcs panics. There is no per-object free. Regions must
// not be retained past the scope that allocated them; the package cannot
// detect this.
package arena
