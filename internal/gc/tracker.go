package gc

import (
	"fmt"
	"time"

	"boreal/internal/gc/phase"
	"boreal/internal/trace"
)

// PhaseTracker marks one phase as active for its lifetime and accumulates
// the elapsed time into the timings registry on End. On construction it
// saves the current-phase slot as its parent and restores it on End, so
// well-nested trackers behave like a stack without one existing.
//
// Only goroutines holding the orchestrator role may open a PhaseTracker.
type PhaseTracker struct {
	c      *Collector
	id     phase.ID
	parent phase.ID
	start  time.Time
	closed bool
}

// BeginPhase opens a phase. The caller must hold the orchestrator role;
// parallel workers read the current phase but never set it.
func (c *Collector) BeginPhase(id phase.ID) *PhaseTracker {
	gid := trace.GoroutineID()
	if !c.isOrchestrator(gid) {
		panic(fmt.Sprintf("gc: phase %s opened from goroutine %d without the orchestrator role", id, gid))
	}
	if !id.Valid() {
		panic(fmt.Sprintf("gc: invalid phase id %d", id))
	}

	parent := c.CurrentPhase()
	c.currentPhase.Store(int32(id))

	c.emit(&trace.Event{
		Kind:   trace.KindBegin,
		Scope:  trace.ScopePhase,
		Cycle:  c.CycleID(),
		Worker: NoWorker,
		Name:   id.String(),
	})

	return &PhaseTracker{c: c, id: id, parent: parent, start: time.Now()}
}

// Phase returns the tracked phase id.
func (t *PhaseTracker) Phase() phase.ID { return t.id }

// End accumulates the elapsed time and restores the parent phase.
func (t *PhaseTracker) End() {
	if t.closed {
		panic(fmt.Sprintf("gc: phase %s ended twice", t.id))
	}
	t.closed = true

	elapsed := time.Since(t.start)
	t.c.timings.AddDuration(t.id, elapsed)
	t.c.currentPhase.Store(int32(t.parent))

	t.c.emit(&trace.Event{
		Kind:   trace.KindEnd,
		Scope:  trace.ScopePhase,
		Cycle:  t.c.CycleID(),
		Worker: NoWorker,
		Name:   t.id.String(),
		Detail: elapsed.String(),
	})
}

// WorkerPhaseTracker bounds the portion of a phase during which the worker
// pool is actively dispatched. It records start/end timestamps in the
// timings registry and is independent of the current-phase slot.
type WorkerPhaseTracker struct {
	c      *Collector
	id     phase.ID
	closed bool
}

// BeginWorkerPhase records the worker-portion start for a phase.
func (c *Collector) BeginWorkerPhase(id phase.ID) *WorkerPhaseTracker {
	if !id.Valid() {
		panic(fmt.Sprintf("gc: invalid phase id %d", id))
	}
	c.timings.RecordWorkerStart(id, time.Now())
	return &WorkerPhaseTracker{c: c, id: id}
}

// End records the worker-portion end.
func (t *WorkerPhaseTracker) End() {
	if t.closed {
		panic(fmt.Sprintf("gc: worker phase %s ended twice", t.id))
	}
	t.closed = true
	t.c.timings.RecordWorkerEnd(t.id, time.Now())
}
