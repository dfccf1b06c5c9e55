package phase

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Timings accumulates per-phase wall-clock durations and the start/end
// timestamps of each phase's parallel worker portion. One Timings instance
// belongs to one collector and lives for the process lifetime; totals only
// grow until Reset.
//
// Durations are added with atomic adds so that a configuration with more
// than one orchestrator-role goroutine cannot lose updates. Worker
// timestamps are written under a mutex for the same reason.
type Timings struct {
	totals [numPhases]atomic.Int64 // nanoseconds

	mu      sync.Mutex
	workers [numPhases]workerSpan
}

type workerSpan struct {
	start time.Time
	end   time.Time
}

// NewTimings returns an empty registry.
func NewTimings() *Timings {
	return &Timings{}
}

// AddDuration adds elapsed time to the accumulated total for id.
func (t *Timings) AddDuration(id ID, d time.Duration) {
	if !id.Valid() {
		panic(fmt.Sprintf("phase timings: add to invalid phase %d", id))
	}
	t.totals[id].Add(int64(d))
}

// Total returns the accumulated duration for id.
func (t *Timings) Total(id ID) time.Duration {
	if !id.Valid() {
		return 0
	}
	return time.Duration(t.totals[id].Load())
}

// RecordWorkerStart marks the start of the parallel worker portion of id.
func (t *Timings) RecordWorkerStart(id ID, now time.Time) {
	if !id.Valid() {
		panic(fmt.Sprintf("phase timings: worker start for invalid phase %d", id))
	}
	t.mu.Lock()
	t.workers[id].start = now
	t.mu.Unlock()
}

// RecordWorkerEnd marks the end of the parallel worker portion of id.
func (t *Timings) RecordWorkerEnd(id ID, now time.Time) {
	if !id.Valid() {
		panic(fmt.Sprintf("phase timings: worker end for invalid phase %d", id))
	}
	t.mu.Lock()
	t.workers[id].end = now
	t.mu.Unlock()
}

// WorkerSpan returns the recorded worker start/end timestamps for id.
// Either may be zero if the corresponding side was never recorded.
func (t *Timings) WorkerSpan(id ID) (start, end time.Time) {
	if !id.Valid() {
		return time.Time{}, time.Time{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.workers[id].start, t.workers[id].end
}

// Reset clears all accumulated totals and worker timestamps.
func (t *Timings) Reset() {
	t.mu.Lock()
	for i := range t.workers {
		t.workers[i] = workerSpan{}
	}
	t.mu.Unlock()
	for i := range t.totals {
		t.totals[i].Store(0)
	}
}

// PhaseReport is one row of a timings report.
type PhaseReport struct {
	Phase      ID      `json:"-"`
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	RootWork   bool    `json:"root_work,omitempty"`
}

// Report aggregates all phases with nonzero totals.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report builds a snapshot of all phases that accumulated time, in
// declaration order.
func (t *Timings) Report() Report {
	var rep Report
	var total time.Duration
	for _, id := range All() {
		d := t.Total(id)
		if d == 0 {
			continue
		}
		total += d
		rep.Phases = append(rep.Phases, PhaseReport{
			Phase:      id,
			Name:       id.String(),
			DurationMS: durationToMillis(d),
			RootWork:   id.IsRootWork(),
		})
	}
	rep.TotalMS = durationToMillis(total)
	return rep
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
