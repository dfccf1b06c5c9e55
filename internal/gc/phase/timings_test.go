package phase

import (
	"testing"
	"time"
)

func TestAddDurationAccumulates(t *testing.T) {
	tm := NewTimings()

	durations := []time.Duration{3 * time.Millisecond, 5 * time.Millisecond, 250 * time.Microsecond}
	var sum time.Duration
	for _, d := range durations {
		tm.AddDuration(ConcMark, d)
		sum += d
	}

	if got := tm.Total(ConcMark); got != sum {
		t.Fatalf("Total(ConcMark) = %v, want %v", got, sum)
	}
	if got := tm.Total(FinalMark); got != 0 {
		t.Fatalf("Total(FinalMark) = %v, want 0", got)
	}
}

func TestAddDurationInvalidPhasePanics(t *testing.T) {
	tm := NewTimings()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic adding duration to the sentinel")
		}
	}()
	tm.AddDuration(None, time.Millisecond)
}

func TestWorkerSpan(t *testing.T) {
	tm := NewTimings()

	start := time.Now()
	end := start.Add(7 * time.Millisecond)
	tm.RecordWorkerStart(ConcEvac, start)
	tm.RecordWorkerEnd(ConcEvac, end)

	gotStart, gotEnd := tm.WorkerSpan(ConcEvac)
	if !gotStart.Equal(start) || !gotEnd.Equal(end) {
		t.Fatalf("WorkerSpan = (%v, %v), want (%v, %v)", gotStart, gotEnd, start, end)
	}

	gotStart, gotEnd = tm.WorkerSpan(ConcMark)
	if !gotStart.IsZero() || !gotEnd.IsZero() {
		t.Fatalf("untouched phase must have zero worker span")
	}
}

func TestReportSkipsZeroPhases(t *testing.T) {
	tm := NewTimings()
	tm.AddDuration(InitMark, 2*time.Millisecond)
	tm.AddDuration(UpdateRoots, 4*time.Millisecond)

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("report has %d phases, want 2", len(rep.Phases))
	}
	if rep.Phases[0].Phase != InitMark || rep.Phases[1].Phase != UpdateRoots {
		t.Fatalf("report order mismatch: %+v", rep.Phases)
	}
	if !rep.Phases[1].RootWork {
		t.Fatalf("update_roots must be flagged as root work")
	}
	if want := 6.0; rep.TotalMS != want {
		t.Fatalf("TotalMS = %v, want %v", rep.TotalMS, want)
	}
}

func TestResetClearsEverything(t *testing.T) {
	tm := NewTimings()
	tm.AddDuration(ConcMark, time.Millisecond)
	tm.RecordWorkerStart(ConcMark, time.Now())
	tm.Reset()

	if tm.Total(ConcMark) != 0 {
		t.Fatalf("totals must be zero after reset")
	}
	if s, _ := tm.WorkerSpan(ConcMark); !s.IsZero() {
		t.Fatalf("worker spans must be zero after reset")
	}
}
