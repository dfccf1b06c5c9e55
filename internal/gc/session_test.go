package gc

import (
	"sync"
	"testing"

	"boreal/internal/gc/heuristics"
	"boreal/internal/gc/phase"
	"boreal/internal/trace"
)

func TestBeginCycleWithActivePhasePanics(t *testing.T) {
	c := NewCollector(Config{})
	role := c.BindOrchestrator()
	defer role.Release()

	tr := c.BeginPhase(phase.ConcMark)
	defer tr.End()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic opening a cycle under a live phase")
		}
	}()
	c.BeginCycle(CauseExplicit)
}

func TestEndCycleWithActivePhasePanics(t *testing.T) {
	c := NewCollector(Config{})
	role := c.BindOrchestrator()
	defer role.Release()

	session := c.BeginCycle(CauseExplicit)
	tr := c.BeginPhase(phase.ConcMark)
	defer tr.End()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic ending a cycle under a live phase")
		}
	}()
	session.End()
}

func TestCycleEndTwicePanics(t *testing.T) {
	c := NewCollector(Config{})
	session := c.BeginCycle(CauseExplicit)
	session.End()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second End")
		}
	}()
	session.End()
}

func TestPauseOverlapPanics(t *testing.T) {
	c := NewCollector(Config{})
	pause := c.BeginPause("init_mark")
	defer pause.End()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on overlapping pause")
		}
	}()
	c.BeginPause("final_mark")
}

func TestCycleResetsCause(t *testing.T) {
	c := NewCollector(Config{})

	session := c.BeginCycle(CauseAllocFailure)
	if got := c.Cause(); got != CauseAllocFailure {
		t.Fatalf("cause during cycle = %v, want allocation_failure", got)
	}
	if c.CycleID() == 0 {
		t.Fatalf("cycle id must be nonzero inside a cycle")
	}

	session.End()
	if got := c.Cause(); got != CauseNone {
		t.Fatalf("cause after cycle = %v, want no_gc", got)
	}
	if c.CycleID() != 0 {
		t.Fatalf("cycle id must clear after cycle end")
	}
	if got := c.Policy().CycleCount(CauseAllocFailure); got != 1 {
		t.Fatalf("policy count = %d, want 1", got)
	}
}

type fakeStats struct {
	stats HeapStats
}

func (f *fakeStats) Stats() HeapStats { return f.stats }

// countingHeuristics records how often each notification fired.
type countingHeuristics struct {
	mu                                         sync.Mutex
	cycleStart, cycleEnd, pauseStart, pauseEnd int
}

func (h *countingHeuristics) OnCycleStart() { h.mu.Lock(); h.cycleStart++; h.mu.Unlock() }
func (h *countingHeuristics) OnCycleEnd()   { h.mu.Lock(); h.cycleEnd++; h.mu.Unlock() }
func (h *countingHeuristics) OnPauseStart() { h.mu.Lock(); h.pauseStart++; h.mu.Unlock() }
func (h *countingHeuristics) OnPauseEnd()   { h.mu.Lock(); h.pauseEnd++; h.mu.Unlock() }

var _ heuristics.Heuristics = (*countingHeuristics)(nil)

func TestEndToEndCycle(t *testing.T) {
	ring := trace.NewRingTracer(128, trace.LevelDebug)
	heur := &countingHeuristics{}
	c := NewCollector(Config{
		Tracer:     ring,
		Heuristics: heur,
		Stats:      &fakeStats{stats: HeapStats{Used: 512, Committed: 1024, Regions: 8}},
	})
	role := c.BindOrchestrator()
	defer role.Release()

	session := c.BeginCycle(CauseAllocFailure)
	cycleID := session.ID()

	pause := c.BeginPause("final_mark")
	tr := c.BeginPhase(phase.FinalMark)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ws := c.BeginParallelWorker(2)
		ws.End()
	}()
	wg.Wait()

	tr.End()
	pause.End()
	session.End()

	if got := c.Timings().Total(phase.FinalMark); got <= 0 {
		t.Fatalf("final_mark total = %v, want > 0", got)
	}

	var workerEvent, cycleEnd *trace.Event
	events := ring.Snapshot()
	for i := range events {
		ev := &events[i]
		switch {
		case ev.Kind == trace.KindPoint && ev.Scope == trace.ScopeWorker:
			workerEvent = ev
		case ev.Kind == trace.KindEnd && ev.Scope == trace.ScopeCycle:
			cycleEnd = ev
		}
	}

	if workerEvent == nil {
		t.Fatalf("no worker event emitted; events: %+v", events)
	}
	if workerEvent.Name != "final_mark" {
		t.Errorf("worker event phase = %q, want final_mark", workerEvent.Name)
	}
	if workerEvent.Worker != 2 {
		t.Errorf("worker event index = %d, want 2", workerEvent.Worker)
	}
	if workerEvent.Cycle != cycleID {
		t.Errorf("worker event cycle = %d, want %d", workerEvent.Cycle, cycleID)
	}

	if cycleEnd == nil {
		t.Fatalf("no cycle end event emitted")
	}
	if _, ok := cycleEnd.Extra["phase.final_mark"]; !ok {
		t.Errorf("cycle end report missing final_mark total: %+v", cycleEnd.Extra)
	}
	if _, ok := cycleEnd.Extra["heap_after"]; !ok {
		t.Errorf("cycle end report missing heap snapshot: %+v", cycleEnd.Extra)
	}

	if heur.cycleStart != 1 || heur.cycleEnd != 1 || heur.pauseStart != 1 || heur.pauseEnd != 1 {
		t.Errorf("heuristics notifications = %+v, want one of each", heur)
	}
}
