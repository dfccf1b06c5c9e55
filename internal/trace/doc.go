// Package trace provides the structured event sink for the boreal collector.
//
// The trace package records cycle, pause, phase, and per-worker events so
// that a collection run can be inspected after the fact or streamed live.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	boreal run --trace=- --trace-level=phase
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - nopTracer: Zero-overhead no-op tracer when disabled
//   - StreamTracer: Immediate write to output (file/stderr)
//   - RingTracer: Circular buffer for crash dumps and tests
//   - MultiTracer: Combines multiple tracers
//
// # Levels
//
// Tracing verbosity is controlled by levels:
//
//   - LevelOff: No tracing
//   - LevelError: Only crash dumps
//   - LevelCycle: Cycle and pause boundaries
//   - LevelPhase: Plus individual phase boundaries
//   - LevelDebug: Everything including per-worker events
//
// # Scopes
//
// Events are categorized by scope:
//
//   - ScopeCycle: Whole collection cycles
//   - ScopePause: Stop-the-world pauses
//   - ScopePhase: Timed phases
//   - ScopeWorker: Per-worker events inside a phase
//
// # Context Propagation
//
// Tracers are propagated through the workload via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
package trace
