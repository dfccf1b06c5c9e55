package gc

import (
	"fmt"

	"boreal/internal/trace"
)

// OrchestratorRole marks the calling goroutine as authorized to drive
// phase and cycle transitions for its collector. The control goroutine and
// each concurrent-GC background goroutine bind the role once, for their
// whole lifetime; parallel workers never hold it.
type OrchestratorRole struct {
	c        *Collector
	gid      uint64
	released bool
}

// BindOrchestrator grants the orchestrator role to the calling goroutine.
// Binding twice on the same goroutine is a caller bug.
func (c *Collector) BindOrchestrator() *OrchestratorRole {
	gid := trace.GoroutineID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.orchestrators[gid]; ok {
		panic(fmt.Sprintf("gc: goroutine %d already holds the orchestrator role", gid))
	}
	c.orchestrators[gid] = struct{}{}
	return &OrchestratorRole{c: c, gid: gid}
}

// Release gives the role back. Must be called on every exit path of the
// goroutine that bound it.
func (r *OrchestratorRole) Release() {
	if r.released {
		panic(fmt.Sprintf("gc: orchestrator role for goroutine %d released twice", r.gid))
	}
	r.released = true
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.orchestrators[r.gid]; !ok {
		panic(fmt.Sprintf("gc: orchestrator role for goroutine %d not bound", r.gid))
	}
	delete(r.c.orchestrators, r.gid)
}
