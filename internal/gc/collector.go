package gc

import (
	"sync"
	"sync/atomic"
	"time"

	"boreal/internal/gc/heuristics"
	"boreal/internal/gc/phase"
	"boreal/internal/observ"
	"boreal/internal/trace"
)

// nextCycleID numbers collection cycles process-wide so that trace events
// from different collectors never share an id.
var nextCycleID atomic.Uint64

// Config carries the collaborators wired into a Collector. Zero fields get
// no-op defaults.
type Config struct {
	Tracer     trace.Tracer
	Heuristics heuristics.Heuristics
	Stats      StatsSource
}

// Collector owns the instrumentation state of one collector instance: the
// current-phase slot, the current cause, the phase timings registry, the
// cycle timer, and the goroutine role bookkeeping.
//
// The current-phase slot is written only by orchestrator-role goroutines
// (enforced at PhaseTracker construction); workers and everyone else read
// it through an atomic load. It is a single save/restore cell, not a
// stack: nesting correctness relies on well-nested guard End order.
type Collector struct {
	timings *phase.Timings
	timer   *observ.Timer
	tracer  trace.Tracer
	heur    heuristics.Heuristics
	policy  *Policy
	stats   StatsSource

	currentPhase atomic.Int32  // phase.ID, sentinel phase.None
	cause        atomic.Int32  // Cause, CauseNone outside a cycle
	currentCycle atomic.Uint64 // cycle id, 0 outside a cycle
	pauseActive  atomic.Bool

	mu            sync.Mutex
	orchestrators map[uint64]struct{} // goroutine ids holding the orchestrator role
	workers       map[uint64]int      // goroutine id -> worker index
}

// NewCollector creates a collector with the given collaborators.
func NewCollector(cfg Config) *Collector {
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	if cfg.Heuristics == nil {
		cfg.Heuristics = heuristics.Nop
	}
	return &Collector{
		timings:       phase.NewTimings(),
		timer:         observ.NewTimer(),
		tracer:        cfg.Tracer,
		heur:          cfg.Heuristics,
		policy:        NewPolicy(),
		stats:         cfg.Stats,
		orchestrators: make(map[uint64]struct{}),
		workers:       make(map[uint64]int),
	}
}

// Timings returns the phase timings registry.
func (c *Collector) Timings() *phase.Timings { return c.timings }

// Timer returns the cycle/pause timer.
func (c *Collector) Timer() *observ.Timer { return c.timer }

// Policy returns the per-cause cycle counters.
func (c *Collector) Policy() *Policy { return c.policy }

// CurrentPhase returns the phase currently marked active, or phase.None.
// Safe to call from any goroutine.
func (c *Collector) CurrentPhase() phase.ID {
	return phase.ID(c.currentPhase.Load())
}

// PhaseActive reports whether any phase is currently active.
func (c *Collector) PhaseActive() bool {
	return c.CurrentPhase() != phase.None
}

// Cause returns the cause of the in-progress cycle, or CauseNone.
func (c *Collector) Cause() Cause {
	return Cause(c.cause.Load())
}

// CycleID returns the id of the in-progress cycle, or 0.
func (c *Collector) CycleID() uint64 {
	return c.currentCycle.Load()
}

func (c *Collector) setCause(cause Cause) {
	c.cause.Store(int32(cause))
}

func (c *Collector) isOrchestrator(gid uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.orchestrators[gid]
	return ok
}

func (c *Collector) heapStats() HeapStats {
	if c.stats == nil {
		return HeapStats{}
	}
	return c.stats.Stats()
}

// emit stamps and forwards an event to the tracer. Best-effort: tracing
// never feeds back into collection control flow.
func (c *Collector) emit(ev *trace.Event) {
	if !c.tracer.Enabled() {
		return
	}
	ev.Time = time.Now()
	ev.GID = trace.GoroutineID()
	c.tracer.Emit(ev)
}
