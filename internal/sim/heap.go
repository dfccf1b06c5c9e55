package sim

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"boreal/internal/gc"
)

// Heap is a synthetic region-based heap: an occupancy counter shaped like a
// real heap, with no actual objects behind it. The mutator bumps it, a
// collection cycle shrinks it back to the configured live fraction.
type Heap struct {
	mu       sync.Mutex
	used     uint64
	capacity uint64
	regions  uint64
}

// NewHeap builds a heap of regions*regionSizeKB kilobytes.
func NewHeap(regions, regionSizeKB int) (*Heap, error) {
	r, err := safecast.Conv[uint64](regions)
	if err != nil {
		return nil, fmt.Errorf("invalid region count %d: %w", regions, err)
	}
	size, err := safecast.Conv[uint64](regionSizeKB)
	if err != nil {
		return nil, fmt.Errorf("invalid region size %d: %w", regionSizeKB, err)
	}
	return &Heap{capacity: r * size * 1024, regions: r}, nil
}

// Allocate adds n bytes of occupancy. Returns false when the heap is full.
func (h *Heap) Allocate(n uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.used+n > h.capacity {
		return false
	}
	h.used += n
	return true
}

// Reclaim shrinks occupancy to the given live fraction of current use.
func (h *Heap) Reclaim(liveRatio float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.used = uint64(float64(h.used) * liveRatio)
}

// Capacity returns the total heap size in bytes.
func (h *Heap) Capacity() uint64 { return h.capacity }

// Used returns the current occupancy in bytes.
func (h *Heap) Used() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.used
}

// Stats implements gc.StatsSource.
func (h *Heap) Stats() gc.HeapStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return gc.HeapStats{
		Used:      h.used,
		Committed: h.capacity,
		Regions:   h.regions,
	}
}

var _ gc.StatsSource = (*Heap)(nil)
