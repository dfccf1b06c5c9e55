package prof

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session bundles the profiling outputs of one workload run. Start the
// profiles before the workload, Stop them after; heap capture happens at
// Stop time so it sees the post-run heap.
type Session struct {
	cpuFile   *os.File
	traceFile *os.File
	memPath   string
}

// Options selects which profiles to record. Empty paths disable the
// corresponding profile.
type Options struct {
	CPUPath   string // CPU samples (pprof)
	MemPath   string // heap profile captured at Stop
	TracePath string // runtime execution trace
}

// Start opens the configured profiles. On error, everything already
// started is stopped again.
func Start(opts Options) (*Session, error) {
	s := &Session{memPath: opts.MemPath}

	if opts.CPUPath != "" {
		f, err := os.Create(opts.CPUPath)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpuFile = f
	}

	if opts.TracePath != "" {
		f, err := os.Create(opts.TracePath)
		if err != nil {
			s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.Stop()
			return nil, fmt.Errorf("runtime trace: %w", err)
		}
		s.traceFile = f
	}

	return s, nil
}

// Stop ends all active profiles and writes the heap profile if requested.
// Safe to call more than once.
func (s *Session) Stop() {
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		_ = s.cpuFile.Close()
		s.cpuFile = nil
	}
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}
	if s.memPath != "" {
		_ = writeMem(s.memPath)
		s.memPath = ""
	}
}

func writeMem(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
