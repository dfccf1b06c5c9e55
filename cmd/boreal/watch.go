package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"boreal/internal/sim"
	"boreal/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags]",
	Short: "Run a workload with a live cycle view",
	Long:  `Run a synthetic collection workload and watch cycles, phases, and heap occupancy update live`,
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("config", "", "workload config file (TOML)")
	watchCmd.Flags().Int("cycles", 0, "override the number of collection cycles")
	watchCmd.Flags().Int("workers", 0, "override the parallel worker pool size")
	watchCmd.Flags().String("ui", "auto", "live view mode (auto|on|off)")
}

type workloadOutcome struct {
	result sim.Result
	err    error
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadWorkloadConfig(cmd)
	if err != nil {
		return err
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	runner, err := sim.New(cfg, tracer)
	if err != nil {
		return err
	}

	var res sim.Result
	if shouldUseTUI(mode) {
		res, err = runWorkloadWithUI(cmd.Context(), runner)
	} else {
		res, err = runner.Run(cmd.Context())
	}
	if err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	printRunSummary(cmd.OutOrStdout(), res)
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if showTimings {
		printPhaseTimings(cmd.OutOrStdout(), res.Timings)
	}
	return nil
}

func runWorkloadWithUI(ctx context.Context, runner *sim.Runner) (sim.Result, error) {
	events := make(chan sim.Event, 256)
	outcomeCh := make(chan workloadOutcome, 1)

	runner.SetProgress(sim.ChannelSink{Ch: events})
	go func() {
		res, err := runner.Run(ctx)
		outcomeCh <- workloadOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewCycleModel("boreal workload", events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
