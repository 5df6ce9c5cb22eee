package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// JSONFormatter writes reports as indented JSON. JSON output is always UTF-8,
// whatever encoding the text reports use.
type JSONFormatter struct {
	opts FormatOptions
}

// quietReport is the JSON shape of a quiet run.
type quietReport struct {
	RunID   string  `json:"run_id"`
	Summary Summary `json:"summary"`
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return FormatJSON
}

// Format renders the report as JSON. Quiet mode keeps only the run id and summary.
func (f *JSONFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if f.opts.Quiet {
		return enc.Encode(quietReport{RunID: report.RunID, Summary: report.Summary})
	}
	return enc.Encode(report)
}

// WriteJSONFile writes the full report to path.
func WriteJSONFile(ctx context.Context, report *Report, path string) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := NewJSONFormatter(FormatOptions{}).Format(ctx, report, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
