package trace

import "fmt"

// Level controls tracing verbosity.
type Level uint8

const (
	// LevelOff disables tracing.
	LevelOff   Level = iota // no tracing
	LevelError              // only emit on errors/crashes
	LevelCycle              // cycle and pause boundaries
	LevelPhase              // plus individual phase boundaries
	LevelDebug              // everything including per-worker events
)

// String returns the string representation of Level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelCycle:
		return "cycle"
	case LevelPhase:
		return "phase"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "OFF":
		return LevelOff, nil
	case "error", "ERROR":
		return LevelError, nil
	case "cycle", "CYCLE":
		return LevelCycle, nil
	case "phase", "PHASE":
		return LevelPhase, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|cycle|phase|debug)", s)
	}
}

// ShouldEmit returns true if the given scope should emit at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return false // error events always emitted via crash path
	case LevelCycle:
		return scope <= ScopePause
	case LevelPhase:
		return scope <= ScopePhase
	case LevelDebug:
		return true
	}
	return false
}
