package gc

import "sync"

// Policy keeps per-cause cycle counters for the lifetime of the collector.
type Policy struct {
	mu     sync.Mutex
	cycles [numCauses]uint64
}

// NewPolicy returns an empty policy record.
func NewPolicy() *Policy { return &Policy{} }

// RecordCycleStart counts one cycle started for the given cause.
func (p *Policy) RecordCycleStart(cause Cause) {
	if cause >= numCauses {
		return
	}
	p.mu.Lock()
	p.cycles[cause]++
	p.mu.Unlock()
}

// CycleCount returns how many cycles started with the given cause.
func (p *Policy) CycleCount(cause Cause) uint64 {
	if cause >= numCauses {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cycles[cause]
}

// TotalCycles returns the number of cycles across all causes.
func (p *Policy) TotalCycles() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total uint64
	for _, n := range p.cycles {
		total += n
	}
	return total
}
