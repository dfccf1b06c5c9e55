package gc

import "fmt"

// HeapStats is a point-in-time snapshot of heap occupancy.
type HeapStats struct {
	Used      uint64 // bytes in live use
	Committed uint64 // bytes committed from the OS
	Regions   uint64 // region count
}

// StatsSource provides heap snapshots for cycle reporting. The collector
// core never mutates the heap; it only samples it at cycle boundaries.
type StatsSource interface {
	Stats() HeapStats
}

func (s HeapStats) String() string {
	return fmt.Sprintf("used=%d committed=%d regions=%d", s.Used, s.Committed, s.Regions)
}
