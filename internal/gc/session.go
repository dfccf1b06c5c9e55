package gc

import (
	"fmt"
	"time"

	"boreal/internal/trace"
)

// CycleSession brackets one entire collection cycle. Open it on the
// goroutine driving the cycle and End it on every exit path:
//
//	session := c.BeginCycle(gc.CauseAllocFailure)
//	defer session.End()
//
// A cycle may contain pauses and phases, but must open before any phase
// and close only after every phase has closed.
type CycleSession struct {
	c      *Collector
	id     uint64
	cause  Cause
	before HeapStats
	closed bool
}

// BeginCycle opens a collection cycle: records the cause, registers the
// cycle start with the timer, reports it to the tracer with a pre-cycle
// heap snapshot, and notifies policy and heuristics.
func (c *Collector) BeginCycle(cause Cause) *CycleSession {
	if c.PhaseActive() {
		panic(fmt.Sprintf("gc: cycle opened while phase %s is active", c.CurrentPhase()))
	}

	id := nextCycleID.Add(1)
	c.currentCycle.Store(id)
	c.setCause(cause)
	c.timer.RegisterCycleStart(cause.String(), time.Now())

	before := c.heapStats()
	c.emit(&trace.Event{
		Kind:   trace.KindBegin,
		Scope:  trace.ScopeCycle,
		Cycle:  id,
		Worker: NoWorker,
		Name:   "cycle",
		Detail: cause.String(),
		Extra: map[string]string{
			"heap_before": before.String(),
		},
	})

	c.policy.RecordCycleStart(cause)
	c.heur.OnCycleStart()

	return &CycleSession{c: c, id: id, cause: cause, before: before}
}

// ID returns the running identifier of this cycle.
func (s *CycleSession) ID() uint64 { return s.id }

// End closes the cycle: notifies heuristics, registers the cycle end with
// the timer, reports the end (with the accumulated phase table and a
// post-cycle heap snapshot) to the tracer, and clears the recorded cause.
// Ending while a phase is still active is a caller bug.
func (s *CycleSession) End() {
	if s.closed {
		panic("gc: cycle session ended twice")
	}
	s.closed = true

	c := s.c
	c.heur.OnCycleEnd()
	c.timer.RegisterCycleEnd(time.Now())

	after := c.heapStats()
	rep := c.timings.Report()
	extra := map[string]string{
		"heap_before": s.before.String(),
		"heap_after":  after.String(),
	}
	for _, p := range rep.Phases {
		extra["phase."+p.Name] = fmt.Sprintf("%.3fms", p.DurationMS)
	}
	c.emit(&trace.Event{
		Kind:   trace.KindEnd,
		Scope:  trace.ScopeCycle,
		Cycle:  s.id,
		Worker: NoWorker,
		Name:   "cycle",
		Detail: s.cause.String(),
		Extra:  extra,
	})

	if c.PhaseActive() {
		panic(fmt.Sprintf("gc: cycle ended while phase %s is active", c.CurrentPhase()))
	}
	c.setCause(CauseNone)
	c.currentCycle.Store(0)
}

// PauseBracket brackets one stop-the-world pause inside a cycle. Pauses
// never nest: a second BeginPause before End is a caller bug.
type PauseBracket struct {
	c      *Collector
	label  string
	closed bool
}

// BeginPause opens a stop-the-world pause. The label tags the pause record
// in the timer separately from phase timings, so consumers that drop
// top-level events still keep the pause boundaries.
func (c *Collector) BeginPause(label string) *PauseBracket {
	if !c.pauseActive.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("gc: pause %q opened while another pause is active", label))
	}

	c.timer.RegisterPauseStart(label, time.Now())
	c.emit(&trace.Event{
		Kind:   trace.KindBegin,
		Scope:  trace.ScopePause,
		Cycle:  c.CycleID(),
		Worker: NoWorker,
		Name:   label,
	})
	c.heur.OnPauseStart()

	return &PauseBracket{c: c, label: label}
}

// End closes the pause.
func (b *PauseBracket) End() {
	if b.closed {
		panic(fmt.Sprintf("gc: pause %q ended twice", b.label))
	}
	b.closed = true

	c := b.c
	c.timer.RegisterPauseEnd(time.Now())
	c.emit(&trace.Event{
		Kind:   trace.KindEnd,
		Scope:  trace.ScopePause,
		Cycle:  c.CycleID(),
		Worker: NoWorker,
		Name:   b.label,
	})
	c.heur.OnPauseEnd()
	c.pauseActive.Store(false)
}
