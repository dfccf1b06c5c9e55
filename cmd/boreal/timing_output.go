package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"boreal/internal/gc/phase"
	"boreal/internal/sim"
)

var (
	summaryHeading = color.New(color.Bold)
	pauseColor     = color.New(color.FgRed)
	rootMark       = color.New(color.FgYellow).Sprint("*")
)

func printRunSummary(out io.Writer, res sim.Result) {
	if out == nil {
		return
	}
	fmt.Fprintln(out, summaryHeading.Sprintf("completed %d cycles", res.Cycles))
	fmt.Fprintf(out, "last cycle: cause=%s duration=%.1f ms\n", res.LastCycle.Cause, res.LastCycle.CycleMS)
	fmt.Fprintf(out, "total pause: %s\n", pauseColor.Sprintf("%.1f ms", toMillis(res.TotalPause)))
	for _, p := range res.LastCycle.Pauses {
		fmt.Fprintf(out, "  pause %-20s %.2f ms\n", p.Label, p.DurationMS)
	}
	fmt.Fprintf(out, "heap: %s\n", res.Heap.String())
}

// printPhaseTimings renders accumulated per-phase totals; root-processing
// phases are marked with an asterisk.
func printPhaseTimings(out io.Writer, rep phase.Report) {
	if out == nil {
		return
	}
	fmt.Fprintln(out, summaryHeading.Sprint("phase timings"))
	for _, p := range rep.Phases {
		mark := " "
		if p.RootWork {
			mark = rootMark
		}
		fmt.Fprintf(out, "  %-24s%s %8.2f ms\n", p.Name, mark, p.DurationMS)
	}
	fmt.Fprintf(out, "  %-24s  %8.2f ms\n", "total", rep.TotalMS)
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
