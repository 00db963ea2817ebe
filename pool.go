package arena

import (
	"sync"
	"weak"
)

// Pool is a thread-safe pool of arenas for high-frequency scoped use, such
// as one arena per request. Pooled arenas are held through weak pointers,
// so the GC may reclaim idle ones at any time; the pool size adapts to
// memory pressure without explicit tuning.
//
// Arenas handed out by Acquire follow the usual single-goroutine rule:
// the pool synchronizes handoff, not concurrent use of one arena.
type Pool struct {
	pool  []weak.Pointer[PoolItem]
	sizes map[uint64]*poolSizeStats
	mu    sync.Mutex
}

// poolSizeStats tracks the observed peak usage per use case across the
// last 50 releases, which informs the initial capacity of future arenas
// for that use case.
type poolSizeStats struct {
	count      int
	totalBytes int
}

// PoolItem wraps a pooled arena together with the use-case key it was
// acquired under.
type PoolItem struct {
	Arena *Arena
	Key   uint64
}

// NewPool creates an empty arena pool.
func NewPool() *Pool {
	return &Pool{
		sizes: make(map[uint64]*poolSizeStats),
	}
}

// Acquire returns an arena from the pool, or creates one sized from the
// recorded peak usage of the given use-case key. Distinct call sites
// should use distinct keys so each converges on its own working size.
func (p *Pool) Acquire(key uint64) *PoolItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.pool) > 0 {
		lastIdx := len(p.pool) - 1
		wp := p.pool[lastIdx]
		p.pool = p.pool[:lastIdx]

		// The weak pointer may have been collected; skip to the next one.
		if v := wp.Value(); v != nil {
			v.Key = key
			return v
		}
	}

	return &PoolItem{
		Arena: NewArena(WithCapacity(p.sizeHint(key))),
		Key:   key,
	}
}

// Release resets the arena and returns it to the pool, recording its peak
// usage so future arenas for the same use case start right-sized.
func (p *Pool) Release(item *PoolItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release(item)
}

// ReleaseMany returns several arenas under a single lock acquisition.
func (p *Pool) ReleaseMany(items []*PoolItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		p.release(item)
	}
}

func (p *Pool) release(item *PoolItem) {
	peak := item.Arena.Peak()
	item.Arena.Reset()

	if stats, ok := p.sizes[item.Key]; ok {
		if stats.count == 50 {
			stats.count = 1
			stats.totalBytes = stats.totalBytes / 50
		}
		stats.count++
		stats.totalBytes += peak
	} else {
		p.sizes[item.Key] = &poolSizeStats{
			count:      1,
			totalBytes: peak,
		}
	}

	item.Key = 0
	p.pool = append(p.pool, weak.Make(item))
}

// sizeHint returns the average recorded peak for the use case, or the
// process default capacity if the key has no history yet.
func (p *Pool) sizeHint(key uint64) int {
	if stats, ok := p.sizes[key]; ok && stats.count > 0 && stats.totalBytes > 0 {
		return stats.totalBytes / stats.count
	}
	return configuredCapacity()
}
