package sim

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config describes one synthetic collection workload.
type Config struct {
	// Cycles is how many collection cycles to run.
	Cycles int `toml:"cycles"`
	// Workers is the size of the parallel worker pool.
	Workers int `toml:"workers"`
	// Regions and RegionSizeKB shape the synthetic heap.
	Regions      int `toml:"regions"`
	RegionSizeKB int `toml:"region_size_kb"`
	// AllocBatchKB is how much the mutator allocates between trigger checks.
	AllocBatchKB int `toml:"alloc_batch_kb"`
	// TriggerRatio is the occupancy fraction that starts a cycle.
	TriggerRatio float64 `toml:"trigger_ratio"`
	// LiveRatio is the fraction of used memory that survives a cycle.
	LiveRatio float64 `toml:"live_ratio"`
	// WorkUnitMicros is the busy time of one worker step, in microseconds.
	WorkUnitMicros int `toml:"work_unit_us"`
}

// DefaultConfig returns a workload small enough for interactive runs.
func DefaultConfig() Config {
	return Config{
		Cycles:         3,
		Workers:        4,
		Regions:        256,
		RegionSizeKB:   256,
		AllocBatchKB:   4096,
		TriggerRatio:   0.75,
		LiveRatio:      0.3,
		WorkUnitMicros: 500,
	}
}

// Load reads a workload config from a TOML file, filling unset fields with
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the simulator cannot run.
func (c Config) Validate() error {
	if c.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", c.Cycles)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Regions <= 0 || c.RegionSizeKB <= 0 {
		return fmt.Errorf("heap shape must be positive: regions=%d region_size_kb=%d", c.Regions, c.RegionSizeKB)
	}
	if c.AllocBatchKB <= 0 {
		return fmt.Errorf("alloc_batch_kb must be positive, got %d", c.AllocBatchKB)
	}
	if c.TriggerRatio <= 0 || c.TriggerRatio > 1 {
		return fmt.Errorf("trigger_ratio must be in (0, 1], got %v", c.TriggerRatio)
	}
	if c.LiveRatio < 0 || c.LiveRatio >= 1 {
		return fmt.Errorf("live_ratio must be in [0, 1), got %v", c.LiveRatio)
	}
	if c.WorkUnitMicros < 0 {
		return fmt.Errorf("work_unit_us must not be negative, got %d", c.WorkUnitMicros)
	}
	return nil
}
