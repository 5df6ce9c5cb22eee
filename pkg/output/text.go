package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter prints a human-readable run summary.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return FormatText
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "pktscope: %d requests, %d failed, %d functions\n",
			report.Summary.Requests, report.Summary.Failed, report.Summary.Functions)
		return err
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== pktscope Latency Report ===")
	fmt.Fprintln(w)

	meta := report.Metadata
	fmt.Fprintf(w, "Log: %s (%s)\n", meta.LogPath, meta.Encoding)
	if meta.Window != "" {
		fmt.Fprintf(w, "Arrival window: %s\n", meta.Window)
	}
	fmt.Fprintln(w)

	for _, fn := range report.Functions {
		fmt.Fprintf(w, "[FUNC %s] %d request(s), %d reply(ies)\n", fn.FuncCode, fn.RequestCount, fn.ReplyCount)
		fmt.Fprintf(w, "  min %s, avg %s, max %s\n", ms(fn.MinDuration), ms(fn.AvgDuration), ms(fn.MaxDuration))
	}
	if len(report.Functions) == 0 {
		fmt.Fprintln(w, "No requests found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d requests, %d succeeded, %d failed, %d replies\n",
		report.Summary.Requests,
		report.Summary.Succeeded,
		report.Summary.Failed,
		report.Summary.Replies)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Lines read: %d, matched: %d, oversized: %d\n",
			report.Summary.LinesRead, report.Summary.LinesMatched, report.Summary.LinesOversized)
		fmt.Fprintf(w, "Filtered arrivals: %d, duplicate arrivals: %d, unknown replies: %d\n",
			report.Summary.Filtered, report.Summary.DuplicateArrivals, report.Summary.UnknownReplies)
		fmt.Fprintf(w, "Run: %s\n", report.RunID)
		fmt.Fprintf(w, "Duration: %s\n", meta.Duration.Round(1e6))
	}

	return nil
}
