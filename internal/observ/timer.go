package observ

import (
	"fmt"
	"sync"
	"time"
)

// PauseRecord holds the boundaries of one stop-the-world pause.
type PauseRecord struct {
	Label string
	Start time.Time
	End   time.Time
}

// Duration returns the pause length, or zero if the pause is still open.
func (p PauseRecord) Duration() time.Duration {
	if p.End.IsZero() {
		return 0
	}
	return p.End.Sub(p.Start)
}

// Timer tracks the wall-clock boundaries of the current collection cycle
// and its stop-the-world pauses. One Timer belongs to one collector; a new
// cycle start discards the previous cycle's records.
type Timer struct {
	mu         sync.Mutex
	cycleCause string
	cycleStart time.Time
	cycleEnd   time.Time
	pauses     []PauseRecord
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{pauses: make([]PauseRecord, 0, 4)} }

// RegisterCycleStart begins a new cycle record, discarding the previous one.
func (t *Timer) RegisterCycleStart(cause string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cycleCause = cause
	t.cycleStart = now
	t.cycleEnd = time.Time{}
	t.pauses = t.pauses[:0]
}

// RegisterCycleEnd closes the current cycle record.
func (t *Timer) RegisterCycleEnd(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cycleEnd = now
}

// RegisterPauseStart opens a new pause record with the given label.
func (t *Timer) RegisterPauseStart(label string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pauses = append(t.pauses, PauseRecord{Label: label, Start: now})
}

// RegisterPauseEnd closes the most recently opened pause record.
// Without an open pause this is a no-op.
func (t *Timer) RegisterPauseEnd(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.pauses) - 1; i >= 0; i-- {
		if t.pauses[i].End.IsZero() {
			t.pauses[i].End = now
			return
		}
	}
}

// CycleStart returns the start timestamp of the current cycle.
func (t *Timer) CycleStart() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cycleStart
}

// CycleEnd returns the end timestamp of the current cycle (zero while open).
func (t *Timer) CycleEnd() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cycleEnd
}

// Cause returns the cause label recorded at cycle start.
func (t *Timer) Cause() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cycleCause
}

// Pauses returns a copy of the pause records for the current cycle.
func (t *Timer) Pauses() []PauseRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PauseRecord, len(t.pauses))
	copy(out, t.pauses)
	return out
}

// PauseReport is one pause row of a timer report.
type PauseReport struct {
	Label      string  `json:"label"`
	DurationMS float64 `json:"duration_ms"`
}

// Report describes the aggregated data of one cycle.
type Report struct {
	Cause        string        `json:"cause,omitempty"`
	CycleMS      float64       `json:"cycle_ms"`
	PauseTotalMS float64       `json:"pause_total_ms"`
	Pauses       []PauseReport `json:"pauses,omitempty"`
}

// Report builds the aggregated view of the current cycle.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	rep := Report{Cause: t.cycleCause}
	if !t.cycleStart.IsZero() && !t.cycleEnd.IsZero() {
		rep.CycleMS = durationToMillis(t.cycleEnd.Sub(t.cycleStart))
	}
	var pauseTotal time.Duration
	for _, p := range t.pauses {
		pauseTotal += p.Duration()
		rep.Pauses = append(rep.Pauses, PauseReport{
			Label:      p.Label,
			DurationMS: durationToMillis(p.Duration()),
		})
	}
	rep.PauseTotalMS = durationToMillis(pauseTotal)
	return rep
}

// Summary returns a human-readable string summarizing the current cycle.
func (t *Timer) Summary() string {
	rep := t.Report()
	out := "cycle timings:\n"
	if rep.Cause != "" {
		out += fmt.Sprintf("  %-20s %s\n", "cause", rep.Cause)
	}
	out += fmt.Sprintf("  %-20s %7.2f ms\n", "cycle", rep.CycleMS)
	for _, p := range rep.Pauses {
		out += fmt.Sprintf("  %-20s %7.2f ms\n", "pause "+p.Label, p.DurationMS)
	}
	out += fmt.Sprintf("  %-20s %7.2f ms\n", "pause total", rep.PauseTotalMS)
	return out
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
