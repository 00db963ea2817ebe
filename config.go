// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

const (
	// DefaultCapacity is the initial slab size for arenas created without
	// an explicit capacity (32 KiB).
	DefaultCapacity = 1 << 15

	// fallbackCeiling is used when the machine's physical memory cannot be
	// probed (1 GiB).
	fallbackCeiling = 1 << 30
)

var (
	defaultCapacity atomic.Int64
	defaultCeiling  atomic.Int64 // 0 means derive from physical memory

	physOnce    sync.Once
	physCeiling uintptr
)

func init() {
	defaultCapacity.Store(DefaultCapacity)
	if v := os.Getenv("ARENA_DEFAULT_CAPACITY"); v != "" {
		if n, err := humanize.ParseBytes(v); err == nil && n > 0 {
			defaultCapacity.Store(int64(n))
		}
	}
	if v := os.Getenv("ARENA_DEFAULT_CEILING"); v != "" {
		if n, err := humanize.ParseBytes(v); err == nil && n > 0 {
			defaultCeiling.Store(int64(n))
		}
	}
}

// SetDefaultCapacity sets the initial slab size used by arenas created
// after this call without an explicit WithCapacity option, including
// lazily-created per-goroutine default arenas. It does not resize arenas
// that already exist, so it should be configured at startup before any
// default arena is in active use.
func SetDefaultCapacity(bytes int) {
	if bytes <= 0 {
		bytes = DefaultCapacity
	}
	defaultCapacity.Store(int64(bytes))
}

// SetDefaultCeiling sets the growth ceiling used by arenas created after
// this call without an explicit WithCeiling option. Passing 0 restores the
// default of one eighth of physical memory. Existing arenas are unaffected.
func SetDefaultCeiling(bytes int) {
	if bytes < 0 {
		bytes = 0
	}
	defaultCeiling.Store(int64(bytes))
}

func configuredCapacity() int {
	return int(defaultCapacity.Load())
}

// configuredCeiling returns the process-wide default growth ceiling:
// the configured override if set, otherwise one eighth of physical memory.
func configuredCeiling() uintptr {
	if n := defaultCeiling.Load(); n > 0 {
		return uintptr(n)
	}
	physOnce.Do(func() {
		if mem := physicalMemory(); mem > 0 {
			physCeiling = uintptr(mem / 8)
		} else {
			physCeiling = fallbackCeiling
		}
	})
	return physCeiling
}
