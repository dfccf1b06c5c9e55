package gc

import (
	"fmt"

	"boreal/internal/trace"
)

// NoWorker is the sentinel returned by WorkerID for a goroutine with no
// worker identity assigned.
const NoWorker = -1

// WorkerID returns the worker index assigned to the calling goroutine, or
// NoWorker outside any worker session.
func (c *Collector) WorkerID() int {
	gid := trace.GoroutineID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.workers[gid]; ok {
		return id
	}
	return NoWorker
}

// WorkerSession assigns a worker identity to the calling goroutine for the
// session's lifetime. Open it on the worker goroutine itself, inside the
// phase the worker participates in, and End it before the phase closes.
type WorkerSession struct {
	c        *Collector
	gid      uint64
	worker   int
	detached bool
}

func (c *Collector) attachWorker(worker int) WorkerSession {
	if worker < 0 {
		panic(fmt.Sprintf("gc: negative worker index %d", worker))
	}
	gid := trace.GoroutineID()
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.workers[gid]; ok {
		panic(fmt.Sprintf("gc: goroutine %d already holds worker identity %d", gid, prev))
	}
	c.workers[gid] = worker
	return WorkerSession{c: c, gid: gid, worker: worker}
}

// detach clears the identity, checking that it was actually assigned.
func (s *WorkerSession) detach() {
	if s.detached {
		panic(fmt.Sprintf("gc: worker session for goroutine %d ended twice", s.gid))
	}
	s.detached = true
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	if _, ok := s.c.workers[s.gid]; !ok {
		panic(fmt.Sprintf("gc: worker identity for goroutine %d was never assigned", s.gid))
	}
	delete(s.c.workers, s.gid)
}

// report emits the structured session event. The session closes before its
// enclosing phase does, so the current phase is still the one this worker
// participated in.
func (s *WorkerSession) report(worker int) {
	s.c.emit(&trace.Event{
		Kind:   trace.KindPoint,
		Scope:  trace.ScopeWorker,
		Cycle:  s.c.CycleID(),
		Worker: worker,
		Name:   s.c.CurrentPhase().String(),
	})
}

// ConcurrentWorkerSession is a worker session for concurrent (non-pause)
// phases. On End it emits one event naming the cycle and the active phase.
type ConcurrentWorkerSession struct {
	WorkerSession
}

// BeginConcurrentWorker opens a concurrent worker session on the calling
// goroutine.
func (c *Collector) BeginConcurrentWorker(worker int) *ConcurrentWorkerSession {
	return &ConcurrentWorkerSession{WorkerSession: c.attachWorker(worker)}
}

// End emits the session event and clears the worker identity.
func (s *ConcurrentWorkerSession) End() {
	s.report(NoWorker)
	s.detach()
}

// ParallelWorkerSession is a worker session for stop-the-world phases. Its
// End event additionally carries the worker index, distinguishing workers
// inside the same phase.
type ParallelWorkerSession struct {
	WorkerSession
}

// BeginParallelWorker opens a parallel worker session on the calling
// goroutine.
func (c *Collector) BeginParallelWorker(worker int) *ParallelWorkerSession {
	return &ParallelWorkerSession{WorkerSession: c.attachWorker(worker)}
}

// End emits the session event (with worker index) and clears the identity.
func (s *ParallelWorkerSession) End() {
	s.report(s.worker)
	s.detach()
}
