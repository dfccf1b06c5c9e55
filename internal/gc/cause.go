package gc

import "fmt"

// Cause names the trigger of a collection cycle. The zero value CauseNone
// means no collection is in progress.
type Cause uint8

const (
	CauseNone Cause = iota
	CauseAllocFailure
	CauseExplicit
	CausePeriodic
	CauseMetadataThreshold
	CauseDegenerated
	CauseFull

	numCauses
)

// String returns the cause name.
func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "no_gc"
	case CauseAllocFailure:
		return "allocation_failure"
	case CauseExplicit:
		return "explicit"
	case CausePeriodic:
		return "periodic"
	case CauseMetadataThreshold:
		return "metadata_threshold"
	case CauseDegenerated:
		return "degenerated"
	case CauseFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseCause converts a cause name back to its value.
func ParseCause(s string) (Cause, error) {
	for c := CauseNone; c < numCauses; c++ {
		if c.String() == s {
			return c, nil
		}
	}
	return CauseNone, fmt.Errorf("unknown gc cause: %q", s)
}
