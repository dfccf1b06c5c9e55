// Package heuristics receives cycle and pause notifications from the
// collector and decides when the next cycle should start. The collector
// core only drives the notification side; the trigger decision is consumed
// by whoever schedules collections.
package heuristics

import (
	"sync"
	"time"
)

// Heuristics is notified at cycle and pause boundaries. Notifications are
// fire-and-forget: nothing in the collection path consumes a return value.
type Heuristics interface {
	OnCycleStart()
	OnCycleEnd()
	OnPauseStart()
	OnPauseEnd()
}

// nop discards all notifications.
type nop struct{}

func (nop) OnCycleStart() {}
func (nop) OnCycleEnd()   {}
func (nop) OnPauseStart() {}
func (nop) OnPauseEnd()   {}

// Nop is the package-level singleton no-op heuristics.
var Nop Heuristics = nop{}

// Adaptive tracks cycle and pause history and triggers a new cycle once
// heap occupancy crosses a configurable ratio.
type Adaptive struct {
	mu sync.Mutex

	triggerRatio float64

	cycleStart time.Time
	pauseStart time.Time

	cycles     uint64
	pauses     uint64
	lastCycle  time.Duration
	lastPause  time.Duration
	totalPause time.Duration
}

// DefaultTriggerRatio is the occupancy fraction above which Adaptive
// requests a collection cycle.
const DefaultTriggerRatio = 0.75

// NewAdaptive creates adaptive heuristics with the given trigger ratio.
// Ratios outside (0, 1] fall back to DefaultTriggerRatio.
func NewAdaptive(triggerRatio float64) *Adaptive {
	if triggerRatio <= 0 || triggerRatio > 1 {
		triggerRatio = DefaultTriggerRatio
	}
	return &Adaptive{triggerRatio: triggerRatio}
}

// OnCycleStart records the start of a collection cycle.
func (a *Adaptive) OnCycleStart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cycleStart = time.Now()
}

// OnCycleEnd records the end of a collection cycle.
func (a *Adaptive) OnCycleEnd() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cycles++
	if !a.cycleStart.IsZero() {
		a.lastCycle = time.Since(a.cycleStart)
		a.cycleStart = time.Time{}
	}
}

// OnPauseStart records the start of a stop-the-world pause.
func (a *Adaptive) OnPauseStart() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pauseStart = time.Now()
}

// OnPauseEnd records the end of a stop-the-world pause.
func (a *Adaptive) OnPauseEnd() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pauses++
	if !a.pauseStart.IsZero() {
		a.lastPause = time.Since(a.pauseStart)
		a.totalPause += a.lastPause
		a.pauseStart = time.Time{}
	}
}

// ShouldStartCycle reports whether heap occupancy warrants a new cycle.
func (a *Adaptive) ShouldStartCycle(used, capacity uint64) bool {
	if capacity == 0 {
		return false
	}
	return float64(used) >= a.triggerRatio*float64(capacity)
}

// Cycles returns the number of completed cycles.
func (a *Adaptive) Cycles() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cycles
}

// Pauses returns the number of completed pauses.
func (a *Adaptive) Pauses() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pauses
}

// LastCycleDuration returns the duration of the most recent cycle.
func (a *Adaptive) LastCycleDuration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastCycle
}

// TotalPauseTime returns accumulated stop-the-world time.
func (a *Adaptive) TotalPauseTime() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalPause
}
