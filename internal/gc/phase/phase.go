package phase

import "fmt"

// ID identifies a collector phase. The zero value None is the sentinel
// meaning "no phase is active".
type ID uint8

const (
	// None is the sentinel: no phase is currently active.
	None ID = iota

	InitMark
	ScanRoots
	ConcMark
	FinalMark
	InitEvac
	ConcEvac
	InitUpdateRefs
	ConcUpdateRefs
	FinalUpdateRefs
	UpdateRoots
	ConcCleanup
	DegenUpdateRoots
	FullRoots

	numPhases
)

// NumPhases is the number of valid phase identifiers (None excluded).
const NumPhases = int(numPhases) - 1

// info carries everything keyed by a phase ID: the human-readable name and
// whether the phase walks roots.
type info struct {
	name     string
	rootWork bool
}

var table = [numPhases]info{
	None:             {name: "none"},
	InitMark:         {name: "init_mark"},
	ScanRoots:        {name: "scan_roots", rootWork: true},
	ConcMark:         {name: "conc_mark"},
	FinalMark:        {name: "final_mark"},
	InitEvac:         {name: "init_evac", rootWork: true},
	ConcEvac:         {name: "conc_evac"},
	InitUpdateRefs:   {name: "init_update_refs"},
	ConcUpdateRefs:   {name: "conc_update_refs"},
	FinalUpdateRefs:  {name: "final_update_refs_roots", rootWork: true},
	UpdateRoots:      {name: "update_roots", rootWork: true},
	ConcCleanup:      {name: "conc_cleanup"},
	DegenUpdateRoots: {name: "degen_gc_update_roots", rootWork: true},
	FullRoots:        {name: "full_gc_roots", rootWork: true},
}

// Valid reports whether id names an actual phase (not the sentinel).
func (id ID) Valid() bool {
	return id != None && id < numPhases
}

// String returns the phase name.
func (id ID) String() string {
	if id >= numPhases {
		return "unknown"
	}
	return table[id].name
}

// IsRootWork reports whether the phase scans or updates roots. External
// bookkeeping (e.g. root verification) keys off this classification; it is
// a pure lookup with no side effects.
func (id ID) IsRootWork() bool {
	if id >= numPhases {
		return false
	}
	return table[id].rootWork
}

// All returns every valid phase ID in declaration order.
func All() []ID {
	ids := make([]ID, 0, NumPhases)
	for id := None + 1; id < numPhases; id++ {
		ids = append(ids, id)
	}
	return ids
}

// Parse converts a phase name back to its ID.
func Parse(s string) (ID, error) {
	for id := None + 1; id < numPhases; id++ {
		if table[id].name == s {
			return id, nil
		}
	}
	return None, fmt.Errorf("unknown phase: %q", s)
}
