package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boreal/internal/prof"
	"boreal/internal/sim"
)

var runCmd = &cobra.Command{
	Use:   "run [flags]",
	Short: "Run an instrumented synthetic collection workload",
	Long:  `Drive a synthetic mutator/collector workload through the full set of instrumentation guards and report cycle and phase timings`,
	Args:  cobra.NoArgs,
	RunE:  runWorkload,
}

func init() {
	runCmd.Flags().String("config", "", "workload config file (TOML)")
	runCmd.Flags().Int("cycles", 0, "override the number of collection cycles")
	runCmd.Flags().Int("workers", 0, "override the parallel worker pool size")
	runCmd.Flags().String("cpuprofile", "", "write a CPU profile to this path")
	runCmd.Flags().String("memprofile", "", "write a heap profile to this path")
	runCmd.Flags().String("runtime-trace", "", "write a Go runtime trace to this path")
}

func runWorkload(cmd *cobra.Command, args []string) error {
	cfg, err := loadWorkloadConfig(cmd)
	if err != nil {
		return err
	}

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	profSession, err := startProfiling(cmd)
	if err != nil {
		return err
	}
	defer profSession.Stop()

	runner, err := sim.New(cfg, tracer)
	if err != nil {
		return err
	}

	res, err := runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	if !quiet {
		printRunSummary(cmd.OutOrStdout(), res)
	}
	if showTimings {
		printPhaseTimings(cmd.OutOrStdout(), res.Timings)
	}
	return nil
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	cpuPath, err := cmd.Flags().GetString("cpuprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	memPath, err := cmd.Flags().GetString("memprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	tracePath, err := cmd.Flags().GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return prof.Start(prof.Options{
		CPUPath:   cpuPath,
		MemPath:   memPath,
		TracePath: tracePath,
	})
}

// loadWorkloadConfig reads the workload file if given, otherwise falls back
// to defaults, then applies flag overrides.
func loadWorkloadConfig(cmd *cobra.Command) (sim.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return sim.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg := sim.DefaultConfig()
	if path != "" {
		cfg, err = sim.Load(path)
		if err != nil {
			return sim.Config{}, err
		}
	}

	cycles, err := cmd.Flags().GetInt("cycles")
	if err != nil {
		return sim.Config{}, fmt.Errorf("failed to get cycles flag: %w", err)
	}
	if cycles > 0 {
		cfg.Cycles = cycles
	}

	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return sim.Config{}, fmt.Errorf("failed to get workers flag: %w", err)
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}
