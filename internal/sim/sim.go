package sim

import (
	"context"
	"fmt"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"boreal/internal/gc"
	"boreal/internal/gc/heuristics"
	"boreal/internal/gc/phase"
	"boreal/internal/observ"
	"boreal/internal/trace"
)

// Runner drives a synthetic mutator/collector workload: it allocates into
// the synthetic heap until heuristics trigger, then runs one collection
// cycle through the full set of instrumentation guards (cycle session,
// pauses, nested phases, worker phases, and worker sessions).
type Runner struct {
	cfg      Config
	heap     *Heap
	heur     *heuristics.Adaptive
	col      *gc.Collector
	progress Sink
}

// Result summarizes a completed workload.
type Result struct {
	Cycles     int
	Timings    phase.Report
	LastCycle  observ.Report
	TotalPause time.Duration
	Heap       gc.HeapStats
}

// New builds a runner for the given workload. The tracer may be nil.
func New(cfg Config, tracer trace.Tracer) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	heap, err := NewHeap(cfg.Regions, cfg.RegionSizeKB)
	if err != nil {
		return nil, err
	}
	heur := heuristics.NewAdaptive(cfg.TriggerRatio)
	col := gc.NewCollector(gc.Config{
		Tracer:     tracer,
		Heuristics: heur,
		Stats:      heap,
	})
	return &Runner{cfg: cfg, heap: heap, heur: heur, col: col}, nil
}

// SetProgress attaches a progress sink. Must be called before Run.
func (r *Runner) SetProgress(s Sink) { r.progress = s }

// Collector exposes the instrumented collector, mainly for tests.
func (r *Runner) Collector() *gc.Collector { return r.col }

// Run executes the configured number of cycles. The calling goroutine acts
// as the orchestrator for the whole workload.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	role := r.col.BindOrchestrator()
	defer role.Release()

	for cycle := 1; cycle <= r.cfg.Cycles; cycle++ {
		if err := r.mutate(ctx); err != nil {
			return Result{}, err
		}
		if err := r.runCycle(ctx, cycle); err != nil {
			return Result{}, err
		}
		r.emit(Event{Cycle: cycle, Cycles: r.cfg.Cycles, CycleDone: true,
			HeapUsed: r.heap.Used(), HeapCap: r.heap.Capacity()})
	}

	r.emit(Event{Cycles: r.cfg.Cycles, Done: true,
		HeapUsed: r.heap.Used(), HeapCap: r.heap.Capacity()})

	return Result{
		Cycles:     r.cfg.Cycles,
		Timings:    r.col.Timings().Report(),
		LastCycle:  r.col.Timer().Report(),
		TotalPause: r.heur.TotalPauseTime(),
		Heap:       r.heap.Stats(),
	}, nil
}

// mutate allocates until heuristics ask for a cycle or the heap fills up.
func (r *Runner) mutate(ctx context.Context) error {
	batchKB, err := safecast.Conv[uint64](r.cfg.AllocBatchKB)
	if err != nil {
		return fmt.Errorf("invalid alloc batch %d: %w", r.cfg.AllocBatchKB, err)
	}
	batch := batchKB * 1024
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.heur.ShouldStartCycle(r.heap.Used(), r.heap.Capacity()) {
			return nil
		}
		if !r.heap.Allocate(batch) {
			return nil
		}
	}
}

// runCycle performs one full collection cycle: init-mark pause, concurrent
// mark, final-mark pause, concurrent evac, update-refs pauses around
// concurrent update-refs, concurrent cleanup.
func (r *Runner) runCycle(ctx context.Context, cycle int) error {
	session := r.col.BeginCycle(gc.CauseAllocFailure)
	defer session.End()

	if err := r.stwPhase(ctx, cycle, "init_mark", phase.InitMark, phase.ScanRoots); err != nil {
		return err
	}
	if err := r.concPhase(ctx, cycle, phase.ConcMark); err != nil {
		return err
	}
	if err := r.stwPhase(ctx, cycle, "final_mark", phase.FinalMark, phase.InitEvac); err != nil {
		return err
	}
	if err := r.concPhase(ctx, cycle, phase.ConcEvac); err != nil {
		return err
	}
	r.heap.Reclaim(r.cfg.LiveRatio)

	if err := r.stwPhase(ctx, cycle, "init_update_refs", phase.InitUpdateRefs, phase.None); err != nil {
		return err
	}
	if err := r.concPhase(ctx, cycle, phase.ConcUpdateRefs); err != nil {
		return err
	}
	if err := r.stwPhase(ctx, cycle, "final_update_refs", phase.FinalUpdateRefs, phase.UpdateRoots); err != nil {
		return err
	}
	return r.concPhase(ctx, cycle, phase.ConcCleanup)
}

// stwPhase brackets a stop-the-world pause holding one phase; inner, if
// valid, runs nested inside it with the parallel worker pool.
func (r *Runner) stwPhase(ctx context.Context, cycle int, label string, outer, inner phase.ID) error {
	pause := r.col.BeginPause(label)
	defer pause.End()
	tr := r.col.BeginPhase(outer)
	defer tr.End()

	r.emitPhase(cycle, outer.String(), true)
	if inner == phase.None {
		return r.work(ctx)
	}
	return r.runWorkers(ctx, cycle, inner, true)
}

// concPhase runs one concurrent phase with the worker pool.
func (r *Runner) concPhase(ctx context.Context, cycle int, id phase.ID) error {
	r.emitPhase(cycle, id.String(), false)
	return r.runWorkers(ctx, cycle, id, false)
}

// runWorkers opens the phase, brackets its worker portion, and dispatches
// the pool. Parallel phases emit per-worker events; concurrent ones don't
// carry the index.
func (r *Runner) runWorkers(ctx context.Context, cycle int, id phase.ID, parallel bool) error {
	tr := r.col.BeginPhase(id)
	defer tr.End()
	wp := r.col.BeginWorkerPhase(id)
	defer wp.End()

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Workers; i++ {
		i := i
		g.Go(func() error {
			if parallel {
				ws := r.col.BeginParallelWorker(i)
				defer ws.End()
				return r.work(ctx)
			}
			ws := r.col.BeginConcurrentWorker(i)
			defer ws.End()
			return r.work(ctx)
		})
	}
	return g.Wait()
}

// work simulates one worker step.
func (r *Runner) work(ctx context.Context) error {
	d := time.Duration(r.cfg.WorkUnitMicros) * time.Microsecond
	if d == 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (r *Runner) emitPhase(cycle int, name string, pause bool) {
	r.emit(Event{
		Cycle:    cycle,
		Cycles:   r.cfg.Cycles,
		Phase:    name,
		Pause:    pause,
		HeapUsed: r.heap.Used(),
		HeapCap:  r.heap.Capacity(),
	})
}

func (r *Runner) emit(ev Event) {
	if r.progress == nil {
		return
	}
	r.progress.Send(ev)
}
