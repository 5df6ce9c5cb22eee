// Package cli provides the command-line interface for pktscope.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pktscope/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(NewRootCommand())
}

func run(rootCmd *cobra.Command) int {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors keeps cobra from printing this itself.
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 2
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pktscope",
		Short: "Reconstruct request timelines from KSvrComm server logs",
		Long: `pktscope is a batch log analysis tool for KSvrComm packet logs.

It pairs every AfterGet arrival with its Put and ReplyNull replies by packet id
and writes latency reports:
  - Per-request processing and reply spread times
  - Per-function min/max/avg and percentile processing times
  - Request and reply counts per time interval
  - A timeline of requests and their last reply, slowest first, failed last

Logs in GBK, GB18030 or any other WHATWG encoding are decoded before matching.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
