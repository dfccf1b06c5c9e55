package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindBegin marks the start of a cycle, pause, or phase.
	KindBegin Kind = iota + 1
	// KindEnd marks the corresponding end.
	KindEnd
	// KindPoint represents an instant event, e.g. a worker session report.
	KindPoint
	KindHeartbeat // periodic liveness signal
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeCycle covers whole collection cycles (coarsest).
	ScopeCycle Scope = iota + 1
	// ScopePause covers stop-the-world pauses inside a cycle.
	ScopePause
	// ScopePhase covers individual timed phases.
	ScopePhase
	// ScopeWorker covers per-worker events inside a phase (finest).
	ScopeWorker
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeCycle:
		return "cycle"
	case ScopePause:
		return "pause"
	case ScopePhase:
		return "phase"
	case ScopeWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time   time.Time         // wall-clock timestamp
	Seq    uint64            // global sequence number (monotonic)
	Kind   Kind              // event kind
	Scope  Scope             // granularity level
	Cycle  uint64            // collection cycle id (0 if none)
	Worker int               // worker index (-1 if not worker-specific)
	GID    uint64            // goroutine ID of the emitter
	Name   string            // e.g. "cycle", "final_mark", pause label
	Detail string            // optional detail message, e.g. GC cause
	Extra  map[string]string // extensible key-value pairs
}
