package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boreal/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns the tracer, a cleanup function, and an error if initialization
// fails.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// A trace output path without an explicit level implies phase tracing.
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}

	// If level is off and no output specified, skip tracing.
	if level == trace.LevelOff {
		ctx := trace.WithTracer(cmd.Context(), trace.Nop)
		cmd.SetContext(ctx)
		return trace.Nop, func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}

		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}

	return tracer, cleanup, nil
}
