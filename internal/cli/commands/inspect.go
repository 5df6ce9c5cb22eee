package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/pktscope/pkg/charset"
	"github.com/ccollicutt/pktscope/pkg/config"
	"github.com/ccollicutt/pktscope/pkg/logging"
	"github.com/ccollicutt/pktscope/pkg/parser"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Output      string
	Encoding    string
	AutoDetect  bool
	Samples     int
	WriteConfig string
	LogLevel    string
}

// EventSample is one matched event shown by inspect.
type EventSample struct {
	Line     int    `json:"line"`
	Time     string `json:"time"`
	Kind     string `json:"kind"`
	PacketID int64  `json:"pktid"`
	FuncCode string `json:"func"`
	Info     string `json:"info,omitempty"`
}

// InspectResult describes what a log file contains.
type InspectResult struct {
	File             string         `json:"file"`
	Encoding         string         `json:"encoding"`
	EncodingDetected bool           `json:"encoding_detected"`
	Confidence       int            `json:"confidence,omitempty"`
	LinesRead        int            `json:"lines_read"`
	LinesMatched     int            `json:"lines_matched"`
	LinesOversized   int            `json:"lines_oversized,omitempty"`
	Kinds            map[string]int `json:"kinds"`
	Functions        []string       `json:"functions"`
	First            *time.Time     `json:"first,omitempty"`
	Last             *time.Time     `json:"last,omitempty"`
	Samples          []EventSample  `json:"samples"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <log-file>",
		Short: "Inspect a log file before analysis",
		Long: `Scan a log file and report what pktscope would see in it.

Shows the detected or configured encoding, how many lines match the
KSvrComm event grammar, event counts per kind, the function codes present,
the covered time range and a few sample events.

Optionally generates a starter config file with --write-config.

Example:
  pktscope inspect server.log
  pktscope inspect --auto-detect=false --encoding utf-8 server.log
  pktscope inspect -w pktscope.yaml server.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", config.DefaultEncoding, "Log encoding, or fallback when detecting")
	cmd.Flags().BoolVar(&opts.AutoDetect, "auto-detect", true, "Detect the log encoding")
	cmd.Flags().IntVarP(&opts.Samples, "sample", "n", 5, "Number of sample events to show")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	return cmd
}

func runInspect(cmd *cobra.Command, logFile string, opts *InspectOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Output != "text" && opts.Output != "json" {
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	log, err := logging.New(cmd.ErrOrStderr(), opts.LogLevel)
	if err != nil {
		return err
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	sel, err := charset.Select(logFile, opts.AutoDetect, opts.Encoding, log)
	if err != nil {
		return err
	}

	source, err := parser.OpenFile(logFile, sel.Encoding, parser.WithLogger(log))
	if err != nil {
		return err
	}
	defer source.Close()

	result, err := inspectSource(ctx, source, opts.Samples)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", logFile, err)
	}
	result.File = logFile
	result.Encoding = sel.Name
	result.EncodingDetected = sel.Detected
	result.Confidence = sel.Confidence

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, opts.WriteConfig); err != nil {
			return err
		}
	}

	if opts.Output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}
	printInspect(cmd.OutOrStdout(), result)
	return nil
}

// inspectSource drains source, keeping the first samples events.
func inspectSource(ctx context.Context, source parser.EventSource, samples int) (*InspectResult, error) {
	result := &InspectResult{
		Kinds:   make(map[string]int),
		Samples: make([]EventSample, 0, max(samples, 0)),
	}
	funcs := make(map[string]struct{})

	for {
		ev, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		result.Kinds[string(ev.Kind)]++
		funcs[ev.FuncCode] = struct{}{}

		ts := ev.Timestamp
		if result.First == nil || ts.Before(*result.First) {
			result.First = &ts
		}
		if result.Last == nil || ts.After(*result.Last) {
			result.Last = &ts
		}

		if len(result.Samples) < samples {
			result.Samples = append(result.Samples, EventSample{
				Line:     ev.LineNum,
				Time:     ev.Timestamp.Format(parser.TimestampLayout),
				Kind:     string(ev.Kind),
				PacketID: ev.PacketID,
				FuncCode: ev.FuncCode,
				Info:     ev.Info,
			})
		}
	}

	stats := source.Stats()
	result.LinesRead = stats.LinesRead
	result.LinesMatched = stats.LinesMatched
	result.LinesOversized = stats.LinesOversized

	result.Functions = make([]string, 0, len(funcs))
	for code := range funcs {
		result.Functions = append(result.Functions, code)
	}
	sort.Strings(result.Functions)

	return result, nil
}

func printInspect(w io.Writer, r *InspectResult) {
	_, _ = fmt.Fprintln(w, "=== pktscope Log Inspection ===")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "File: %s\n", r.File)
	if r.EncodingDetected {
		_, _ = fmt.Fprintf(w, "Encoding: %s (detected, %d%% confidence)\n", r.Encoding, r.Confidence)
	} else {
		_, _ = fmt.Fprintf(w, "Encoding: %s\n", r.Encoding)
	}
	_, _ = fmt.Fprintf(w, "Lines read: %d\n", r.LinesRead)
	_, _ = fmt.Fprintf(w, "Event lines: %d\n", r.LinesMatched)
	if r.LinesOversized > 0 {
		_, _ = fmt.Fprintf(w, "Oversized lines skipped: %d\n", r.LinesOversized)
	}
	_, _ = fmt.Fprintln(w)

	if r.LinesMatched == 0 {
		_, _ = fmt.Fprintln(w, "No KSvrComm events found.")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Tip: check the encoding and that lines look like:")
		_, _ = fmt.Fprintln(w, "  20240101 10:00:00.000000 [WritePacket]KSvrComm AfterGet[pktid(1)], func: 7,")
		return
	}

	for _, kind := range []parser.EventKind{parser.KindArrival, parser.KindReply, parser.KindReplyNull} {
		_, _ = fmt.Fprintf(w, "  %-9s %d\n", kind, r.Kinds[string(kind)])
	}
	_, _ = fmt.Fprintf(w, "Functions: %d %v\n", len(r.Functions), r.Functions)
	_, _ = fmt.Fprintf(w, "Time range: %s - %s\n",
		r.First.Format(parser.TimestampLayout), r.Last.Format(parser.TimestampLayout))
	_, _ = fmt.Fprintln(w)

	if len(r.Samples) > 0 {
		_, _ = fmt.Fprintln(w, "Sample events:")
		for _, s := range r.Samples {
			_, _ = fmt.Fprintf(w, "  line %d: %s %s pktid=%d func=%s\n", s.Line, s.Time, s.Kind, s.PacketID, s.FuncCode)
		}
	}
}

// writeStarterConfig writes a YAML config for the inspected file. Existing files are kept.
func writeStarterConfig(r *InspectResult, configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	logPath, err := filepath.Abs(r.File)
	if err != nil {
		logPath = r.File
	}

	cfg := config.DefaultConfig()
	cfg.Paths.LogPath = logPath
	cfg.Paths.OutDir = filepath.Join(filepath.Dir(logPath), "pktscope-reports")
	cfg.TimeIntervals.Interval = 60
	cfg.Encoding.Input = r.Encoding

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding starter config: %w", err)
	}

	header := fmt.Sprintf("# pktscope configuration generated from %s\n", r.File)
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
