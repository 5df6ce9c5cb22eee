package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/pktscope/pkg/aggregate"
	"github.com/ccollicutt/pktscope/pkg/charset"
	"github.com/ccollicutt/pktscope/pkg/config"
	"github.com/ccollicutt/pktscope/pkg/logging"
	"github.com/ccollicutt/pktscope/pkg/metrics"
	"github.com/ccollicutt/pktscope/pkg/output"
	"github.com/ccollicutt/pktscope/pkg/parser"
	"github.com/ccollicutt/pktscope/pkg/timeline"
	"github.com/ccollicutt/pktscope/pkg/webhook"
)

// ReportJSONFile is the name of the JSON report written with --json.
const ReportJSONFile = "report.json"

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	LogPath    string
	OutDir     string
	Interval   int
	Start      string
	End        string
	AutoDetect bool
	LogLevel   string
	JSON       bool
	Output     string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <config-file>",
		Short: "Reconstruct request timelines and write latency reports",
		Long: `Analyze a KSvrComm server log according to a YAML or INI configuration file.

Every AfterGet arrival starts a request; Put and ReplyNull events are attached
to it by packet id. Reports written to the output directory:
  - requests      one row per request with first/last reply and durations
  - per-function  the requests report split by function code
  - summary       min/max/avg processing time per function
  - intervals     request and reply counts per arrival bucket
  - timeline      requests with their last reply, slowest first, failed last
  - percentiles   p50/p90/p99 processing time per function

Flags override the configuration file, which overrides built-in defaults.

Exit codes:
  0 - Reports written
  2 - Configuration, input or output error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.LogPath, "log-path", "", "Log file to analyze (overrides paths.log_path)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Report directory (overrides paths.out_dir)")
	cmd.Flags().IntVar(&opts.Interval, "interval", 0, "Interval bucket width in seconds (overrides time_intervals.interval)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "Arrival window start, HH:MM[:SS[.ffffff]]")
	cmd.Flags().StringVar(&opts.End, "end", "", "Arrival window end, HH:MM[:SS[.ffffff]]")
	cmd.Flags().BoolVar(&opts.AutoDetect, "auto-detect", false, "Detect the log encoding (overrides encoding.auto_detect)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", logging.DefaultLevel, "Log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Also write "+ReportJSONFile+" to the output directory")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", output.FormatText, "Console output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show counters and run details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "One-line summary only")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnFailures),
		"When to fire webhook (on_failures|always|never)")

	return cmd
}

// flagOverrides turns explicitly set flags into config overrides.
func flagOverrides(cmd *cobra.Command, opts *AnalyzeOptions) []config.Override {
	var overrides []config.Override
	changed := cmd.Flags().Changed

	if changed("log-path") {
		overrides = append(overrides, func(c *config.Config) { c.Paths.LogPath = opts.LogPath })
	}
	if changed("out-dir") {
		overrides = append(overrides, func(c *config.Config) { c.Paths.OutDir = opts.OutDir })
	}
	if changed("interval") {
		overrides = append(overrides, func(c *config.Config) { c.TimeIntervals.Interval = opts.Interval })
	}
	if changed("start") {
		overrides = append(overrides, func(c *config.Config) { c.TimeIntervals.StartTime = opts.Start })
	}
	if changed("end") {
		overrides = append(overrides, func(c *config.Config) { c.TimeIntervals.EndTime = opts.End })
	}
	if changed("auto-detect") {
		overrides = append(overrides, func(c *config.Config) { c.Encoding.AutoDetect = opts.AutoDetect })
	}

	return overrides
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	log, err := logging.New(cmd.ErrOrStderr(), opts.LogLevel)
	if err != nil {
		return err
	}
	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{Verbose: opts.Verbose, Quiet: opts.Quiet})
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx, configPath, flagOverrides(cmd, opts)...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.Sorting.ByTime {
		log.Debug().Msg("sorting.by_time is reserved and has no effect")
	}

	sel, err := charset.Select(cfg.Paths.LogPath, cfg.Encoding.AutoDetect, cfg.Encoding.Input, log)
	if err != nil {
		return fmt.Errorf("selecting input encoding: %w", err)
	}
	outEnc, outName, err := charset.Lookup(cfg.Encoding.Output)
	if err != nil {
		return fmt.Errorf("selecting output encoding: %w", err)
	}

	source, err := parser.OpenFile(cfg.Paths.LogPath, sel.Encoding, parser.WithLogger(log))
	if err != nil {
		return err
	}
	defer source.Close()

	meta := output.Metadata{
		ConfigFile:       configPath,
		LogPath:          cfg.Paths.LogPath,
		Encoding:         sel.Name,
		EncodingDetected: sel.Detected,
		Interval:         cfg.TimeIntervals.Interval,
		OutputDir:        cfg.Paths.OutDir,
		AnalyzedAt:       started,
	}

	builderOpts := []timeline.BuilderOption{timeline.WithLogger(log)}
	if start, end, ok := cfg.TimeIntervals.Window(); ok {
		window := timeline.Window{Start: start, End: end}
		builderOpts = append(builderOpts, timeline.WithWindow(window))
		meta.Window = window.String()
	}

	log.Info().
		Str("file", cfg.Paths.LogPath).
		Str("encoding", sel.Name).
		Bool("detected", sel.Detected).
		Msg("analyzing log")

	builder := timeline.NewBuilder(builderOpts...)
	tl, err := builder.Build(ctx, source)
	if err != nil {
		return fmt.Errorf("building timeline: %w", err)
	}

	res, err := aggregate.Compute(tl, cfg.TimeIntervals.Interval)
	if err != nil {
		return fmt.Errorf("aggregating: %w", err)
	}

	writer, err := output.NewWriter(cfg.Paths.OutDir, outEnc)
	if err != nil {
		return err
	}
	written, err := output.WriteReports(writer, output.FileNames{
		Requests:    cfg.Paths.RequestsFile,
		Summary:     cfg.Paths.SummaryFile,
		Intervals:   cfg.Paths.IntervalsFile,
		Timeline:    cfg.Paths.TimelineFile,
		Percentiles: cfg.Paths.PercentilesFile,
		PerFunction: cfg.Reports.PerFunction,
	}, res)
	if err != nil {
		return fmt.Errorf("writing reports: %w", err)
	}
	log.Debug().Str("dir", writer.Dir()).Str("encoding", outName).Msg("reports written")

	meta.Duration = time.Since(started)
	report := output.NewReport(res, source.Stats(), builder.Stats(), meta)

	if opts.JSON {
		if err := output.WriteJSONFile(ctx, report, writer.Path(ReportJSONFile)); err != nil {
			return err
		}
	}

	if cfg.MetricsFile != "" {
		m := metrics.New()
		m.Observe(res, source.Stats(), builder.Stats())
		if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
	}

	stdout := cmd.OutOrStdout()
	if err := formatter.Format(ctx, report, stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Keep stdout parseable when it carries JSON.
	notices := stdout
	if formatter.Name() == output.FormatJSON {
		notices = cmd.ErrOrStderr()
	}
	_, _ = fmt.Fprintf(notices, "Per-request results saved to %s\n", written.Requests)
	_, _ = fmt.Fprintf(notices, "Summary results saved to %s\n", written.Summary)

	// Webhook errors are logged but don't fail the analysis.
	sendWebhooks(ctx, webhook.NewClient(nil), collectWebhooks(cfg, opts), report, log)

	return nil
}

// sendWebhooks posts the report to every webhook whose trigger matches.
func sendWebhooks(ctx context.Context, client *webhook.Client, hooks []config.WebhookConfig, report *output.Report, log zerolog.Logger) {
	for _, wh := range hooks {
		if !webhook.ShouldFire(wh.Trigger, report.HasFailures()) {
			continue
		}

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		d := client.Send(ctx, report, wh)
		if d.OK() {
			log.Info().Str("webhook", name).Int("status", d.Status).Dur("took", d.Took).Msg("webhook sent")
		} else {
			log.Warn().Str("webhook", name).Err(d.Err).Msg("webhook failed")
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnFailures
		}
		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
