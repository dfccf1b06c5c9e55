// Package gc implements the phase and session instrumentation of the
// boreal collector: scope-bound guards that bracket collection cycles,
// stop-the-world pauses, nested timed phases, and per-worker participation,
// feeding elapsed time and identity data into the timings registry, the
// cycle timer, and the trace sink.
//
// All guards follow the same discipline: Begin on entry, End (usually via
// defer) on every exit path. Broken bracketing (a cycle closed under a
// live phase, a worker identity assigned twice, a phase opened from a
// goroutine without the orchestrator role) is a caller bug and panics.
//
// Concurrency: only orchestrator-role goroutines mutate the current-phase
// slot; workers read it to label their events. Worker identities are
// per-goroutine. Phase totals accumulate with atomic adds.
package gc
