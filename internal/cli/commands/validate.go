package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/pktscope/pkg/charset"
	"github.com/ccollicutt/pktscope/pkg/config"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a pktscope configuration file without running analysis.

Checks:
  - YAML or INI syntax
  - Required keys (paths.log_path, paths.out_dir, time_intervals.interval)
  - Arrival window format and ordering
  - Input and output encoding names
  - Webhook URLs and triggers
  - Log file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	_, inName, err := charset.Lookup(cfg.Encoding.Input)
	if err != nil {
		return fmt.Errorf("validation failed: encoding.input: %w", err)
	}
	_, outName, err := charset.Lookup(cfg.Encoding.Output)
	if err != nil {
		return fmt.Errorf("validation failed: encoding.output: %w", err)
	}

	_, _ = fmt.Fprintf(w, "\nConfiguration valid!\n")
	_, _ = fmt.Fprintf(w, "  Log file:   %s\n", cfg.Paths.LogPath)
	_, _ = fmt.Fprintf(w, "  Output dir: %s\n", cfg.Paths.OutDir)
	_, _ = fmt.Fprintf(w, "  Interval:   %ds\n", cfg.TimeIntervals.Interval)
	if start, end, ok := cfg.TimeIntervals.Window(); ok {
		_, _ = fmt.Fprintf(w, "  Window:     %s\n", timeline.Window{Start: start, End: end})
	} else {
		_, _ = fmt.Fprintf(w, "  Window:     none\n")
	}
	if cfg.Encoding.AutoDetect {
		_, _ = fmt.Fprintf(w, "  Encoding:   auto-detect (fallback %s), output %s\n", inName, outName)
	} else {
		_, _ = fmt.Fprintf(w, "  Encoding:   %s, output %s\n", inName, outName)
	}
	if cfg.MetricsFile != "" {
		_, _ = fmt.Fprintf(w, "  Metrics:    %s\n", cfg.MetricsFile)
	}

	if len(cfg.Webhooks) > 0 {
		_, _ = fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			_, _ = fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, wh.Trigger, name)
		}
	}

	if _, err := os.Stat(cfg.Paths.LogPath); err != nil {
		_, _ = fmt.Fprintf(w, "\nWarning: log file not accessible: %v\n", err)
	}

	return nil
}
