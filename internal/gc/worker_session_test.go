package gc

import (
	"strings"
	"sync"
	"testing"

	"boreal/internal/gc/phase"
	"boreal/internal/trace"
)

func TestWorkerIdentityLifetime(t *testing.T) {
	c := NewCollector(Config{})

	if got := c.WorkerID(); got != NoWorker {
		t.Fatalf("worker id outside session = %d, want sentinel", got)
	}

	ws := c.BeginParallelWorker(3)
	if got := c.WorkerID(); got != 3 {
		t.Fatalf("worker id inside session = %d, want 3", got)
	}

	ws.End()
	if got := c.WorkerID(); got != NoWorker {
		t.Fatalf("worker id after session = %d, want sentinel", got)
	}
}

func TestWorkerIdentityIsPerGoroutine(t *testing.T) {
	c := NewCollector(Config{})

	ws := c.BeginConcurrentWorker(0)
	defer ws.End()

	got := make(chan int, 1)
	go func() { got <- c.WorkerID() }()
	if id := <-got; id != NoWorker {
		t.Fatalf("other goroutine sees worker id %d, want sentinel", id)
	}
}

func TestDoubleWorkerAssignPanics(t *testing.T) {
	c := NewCollector(Config{})

	ws := c.BeginParallelWorker(1)
	defer ws.End()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic assigning a second worker identity")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "already holds worker identity") {
			t.Fatalf("unexpected panic message: %v", r)
		}
	}()
	c.BeginParallelWorker(2)
}

func TestWorkerSessionEndTwicePanics(t *testing.T) {
	c := NewCollector(Config{})

	ws := c.BeginConcurrentWorker(0)
	ws.End()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on second End")
		}
	}()
	ws.End()
}

func TestNegativeWorkerIndexPanics(t *testing.T) {
	c := NewCollector(Config{})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on negative worker index")
		}
	}()
	c.BeginParallelWorker(-1)
}

func TestConcurrentWorkerEventOmitsIndex(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelDebug)
	c := NewCollector(Config{Tracer: ring})
	role := c.BindOrchestrator()
	defer role.Release()

	tr := c.BeginPhase(phase.ConcMark)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ws := c.BeginConcurrentWorker(5)
		ws.End()
	}()
	wg.Wait()
	tr.End()

	var point *trace.Event
	events := ring.Snapshot()
	for i := range events {
		if events[i].Kind == trace.KindPoint && events[i].Scope == trace.ScopeWorker {
			point = &events[i]
		}
	}
	if point == nil {
		t.Fatalf("no worker event emitted")
	}
	if point.Worker != NoWorker {
		t.Errorf("concurrent worker event carries index %d, want sentinel", point.Worker)
	}
	if point.Name != "conc_mark" {
		t.Errorf("worker event phase = %q, want conc_mark", point.Name)
	}
}

func TestManyParallelWorkers(t *testing.T) {
	c := NewCollector(Config{})
	role := c.BindOrchestrator()
	defer role.Release()

	tr := c.BeginPhase(phase.ConcEvac)

	const workers = 8
	seen := make([]int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws := c.BeginParallelWorker(i)
			seen[i] = c.WorkerID()
			ws.End()
		}()
	}
	wg.Wait()
	tr.End()

	for i, got := range seen {
		if got != i {
			t.Errorf("worker %d observed identity %d", i, got)
		}
	}
}
