// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Stats is a point-in-time snapshot of an arena's usage.
type Stats struct {
	InUse    int // bytes before the cursor, including padding
	Capacity int // cumulative slab capacity
	Ceiling  int // growth ceiling
	Peak     int // lifetime high-water mark of InUse
	Slabs    int // attached slab count
}

// Stats returns a snapshot of the arena's counters.
func (a *Arena) Stats() Stats {
	return Stats{
		InUse:    a.Len(),
		Capacity: a.Cap(),
		Ceiling:  a.Ceiling(),
		Peak:     a.Peak(),
		Slabs:    a.SlabCount(),
	}
}

// Collector exposes the stats of tracked arenas as Prometheus gauges,
// labeled by arena name. Scrapes read each arena's counters without
// synchronizing with the goroutine driving it, so values from an arena
// under load are approximate; they are exact between scopes.
type Collector struct {
	mu     sync.RWMutex
	arenas map[string]*Arena

	inUse    *prometheus.Desc
	capacity *prometheus.Desc
	peak     *prometheus.Desc
	slabs    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector with no tracked arenas.
func NewCollector() *Collector {
	labels := []string{"arena"}
	return &Collector{
		arenas: make(map[string]*Arena),
		inUse: prometheus.NewDesc(
			"arena_bytes_in_use",
			"Bytes currently allocated in the arena, including padding.",
			labels, nil,
		),
		capacity: prometheus.NewDesc(
			"arena_capacity_bytes",
			"Cumulative capacity of the arena's slabs.",
			labels, nil,
		),
		peak: prometheus.NewDesc(
			"arena_peak_bytes",
			"Lifetime high-water mark of bytes in use.",
			labels, nil,
		),
		slabs: prometheus.NewDesc(
			"arena_slabs",
			"Number of slabs attached to the arena.",
			labels, nil,
		),
	}
}

// Track adds an arena to the collector under the given name, replacing any
// arena previously tracked under it.
func (c *Collector) Track(name string, a *Arena) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arenas[name] = a
}

// Forget stops tracking the named arena.
func (c *Collector) Forget(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.arenas, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.peak
	ch <- c.slabs
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, a := range c.arenas {
		st := a.Stats()
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(st.InUse), name)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Capacity), name)
		ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(st.Peak), name)
		ch <- prometheus.MustNewConstMetric(c.slabs, prometheus.GaugeValue, float64(st.Slabs), name)
	}
}
