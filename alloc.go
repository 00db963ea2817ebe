// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// pointerFree caches the per-type verdict of containsPointers.
var pointerFree sync.Map // reflect.Type -> bool

// assertPointerFree panics if T carries internal indirection. Arena memory
// is reclaimed wholesale and invisible to the garbage collector's liveness
// analysis, so storing pointers, slices, maps, strings, channels, or
// interfaces in it is never safe. Go generics cannot express the
// constraint statically; this check is the earliest enforcement point
// available and costs one map lookup per call after the first use of a
// type.
func assertPointerFree[T any]() {
	t := reflect.TypeFor[T]()
	v, ok := pointerFree.Load(t)
	if !ok {
		v = !containsPointers(t)
		pointerFree.Store(t, v)
	}
	if !v.(bool) {
		panic(fmt.Sprintf("arena: %s is not a flat, pointer-free type", t))
	}
}

func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return containsPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// New allocates a zeroed value of type T in the arena and returns a
// pointer to it. T must be a flat, pointer-free type. If a is nil, the
// value is allocated with Go's built-in new instead, so arena-aware code
// degrades gracefully when no arena is wired in.
func New[T any](a *Arena) (*T, error) {
	assertPointerFree[T]()
	if a == nil {
		return new(T), nil
	}
	var x T
	p, err := a.Alloc(unsafe.Sizeof(x), unsafe.Alignof(x))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// TryNew is the sentinel variant of New: it returns nil when the arena
// cannot satisfy the request.
func TryNew[T any](a *Arena) *T {
	p, err := New[T](a)
	if err != nil {
		return nil
	}
	return p
}

// MakeSlice allocates a zeroed slice of type T with the given length and
// capacity in the arena. T must be a flat, pointer-free type. If a is nil,
// the slice comes from Go's built-in make instead.
//
// The returned slice must not be grown with the built-in append past its
// capacity expecting arena storage; use Append for that.
func MakeSlice[T any](a *Arena, length, capacity int) ([]T, error) {
	assertPointerFree[T]()
	if length < 0 || capacity < length {
		panic("arena: MakeSlice: invalid length or capacity")
	}
	if a == nil {
		return make([]T, length, capacity), nil
	}
	var x T
	size := unsafe.Sizeof(x)
	bytes := size * uintptr(capacity)
	if size != 0 && bytes/size != uintptr(capacity) {
		return nil, ErrCapacityExceeded
	}
	p, err := a.Alloc(bytes, unsafe.Alignof(x))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), capacity)[:length], nil
}

// TryMakeSlice is the sentinel variant of MakeSlice: it returns nil when
// the arena cannot satisfy the request.
func TryMakeSlice[T any](a *Arena, length, capacity int) []T {
	s, err := MakeSlice[T](a, length, capacity)
	if err != nil {
		return nil
	}
	return s
}
