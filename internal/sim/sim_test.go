package sim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"boreal/internal/gc/phase"
	"boreal/internal/trace"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Cycles = 2
	cfg.Workers = 2
	cfg.Regions = 16
	cfg.RegionSizeKB = 64
	cfg.AllocBatchKB = 64
	cfg.WorkUnitMicros = 0
	return cfg
}

func TestRunnerCompletesWorkload(t *testing.T) {
	ring := trace.NewRingTracer(1024, trace.LevelDebug)
	r, err := New(testConfig(), ring)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cycles != 2 {
		t.Fatalf("cycles = %d, want 2", res.Cycles)
	}

	// Every phase of the cycle shape must have accumulated time.
	for _, id := range []phase.ID{
		phase.InitMark, phase.ScanRoots, phase.ConcMark, phase.FinalMark,
		phase.InitEvac, phase.ConcEvac, phase.InitUpdateRefs,
		phase.ConcUpdateRefs, phase.FinalUpdateRefs, phase.UpdateRoots,
		phase.ConcCleanup,
	} {
		if r.Collector().Timings().Total(id) <= 0 {
			t.Errorf("phase %s accumulated no time", id)
		}
	}

	// Four pauses per cycle.
	if got := r.heur.Pauses(); got != 8 {
		t.Errorf("pauses = %d, want 8", got)
	}
	if got := r.heur.Cycles(); got != 2 {
		t.Errorf("heuristic cycles = %d, want 2", got)
	}

	// The collector must be quiescent afterwards.
	if r.Collector().PhaseActive() {
		t.Errorf("phase still active after workload")
	}
	if r.Collector().CycleID() != 0 {
		t.Errorf("cycle id not cleared after workload")
	}

	// Worker events from parallel phases must carry indices.
	sawIndexed := false
	for _, ev := range ring.Snapshot() {
		if ev.Scope == trace.ScopeWorker && ev.Worker >= 0 {
			sawIndexed = true
			break
		}
	}
	if !sawIndexed {
		t.Errorf("no indexed worker events in trace")
	}
}

func TestRunnerHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(ctx); err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}

func TestRunnerEmitsProgress(t *testing.T) {
	r, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ch := make(chan Event, 1024)
	r.SetProgress(ChannelSink{Ch: ch})
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	close(ch)

	var done, cycleDone int
	for ev := range ch {
		if ev.Done {
			done++
		}
		if ev.CycleDone {
			cycleDone++
		}
	}
	if done != 1 {
		t.Errorf("done events = %d, want 1", done)
	}
	if cycleDone != 2 {
		t.Errorf("cycle-done events = %d, want 2", cycleDone)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cycles", func(c *Config) { c.Cycles = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"zero regions", func(c *Config) { c.Regions = 0 }},
		{"bad trigger", func(c *Config) { c.TriggerRatio = 1.5 }},
		{"bad live ratio", func(c *Config) { c.LiveRatio = 1 }},
		{"negative work", func(c *Config) { c.WorkUnitMicros = -1 }},
		{"zero batch", func(c *Config) { c.AllocBatchKB = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.toml")
	body := "cycles = 5\nworkers = 3\ntrigger_ratio = 0.5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cycles != 5 || cfg.Workers != 3 || cfg.TriggerRatio != 0.5 {
		t.Fatalf("loaded config mismatch: %+v", cfg)
	}
	// Unset fields keep defaults.
	if cfg.Regions != DefaultConfig().Regions {
		t.Fatalf("regions default lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.toml")
	if err := os.WriteFile(path, []byte("cycles = -1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid config")
	}
}

func TestHeapAllocateAndReclaim(t *testing.T) {
	h, err := NewHeap(4, 1) // 4 KiB
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	if h.Capacity() != 4096 {
		t.Fatalf("capacity = %d, want 4096", h.Capacity())
	}

	if !h.Allocate(4096) {
		t.Fatalf("allocation within capacity failed")
	}
	if h.Allocate(1) {
		t.Fatalf("allocation beyond capacity succeeded")
	}

	h.Reclaim(0.5)
	if got := h.Used(); got != 2048 {
		t.Fatalf("used after reclaim = %d, want 2048", got)
	}

	stats := h.Stats()
	if stats.Regions != 4 || stats.Committed != 4096 {
		t.Fatalf("stats mismatch: %+v", stats)
	}
}
