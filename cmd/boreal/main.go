package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"boreal/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "boreal",
	Short: "Boreal concurrent collector instrumentation toolkit",
	Long:  `Boreal instruments concurrent collection cycles: phases, pauses, worker attribution, and timing reports`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-phase timing information")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|cycle|phase|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for ring trace modes")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat event interval (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
