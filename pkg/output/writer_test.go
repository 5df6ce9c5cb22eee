package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestNewWriter_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewWriter(dir, nil)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if info, err := os.Stat(w.Dir()); err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestNewWriter_Uncreatable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewWriter(filepath.Join(file, "out"), nil); err == nil {
		t.Error("NewWriter() expected error when a parent is a file")
	}
}

func TestWriter_WriteLinesEncoded(t *testing.T) {
	w, err := NewWriter(t.TempDir(), simplifiedchinese.GBK)
	if err != nil {
		t.Fatal(err)
	}

	path, err := w.WriteLines("gbk.txt", []string{"功能: 7", "🙂"})
	if err != nil {
		t.Fatalf("WriteLines() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(decoded), "\n"), "\n")
	if lines[0] != "功能: 7" {
		t.Errorf("line 0 = %q, want %q", lines[0], "功能: 7")
	}
	if lines[1] == "🙂" {
		t.Error("unencodable character should have been replaced")
	}
}

func TestFunctionFileName(t *testing.T) {
	tests := map[string]string{
		"7":    "requests_func_7.txt",
		"0012": "requests_func_0012.txt",
		"a/b":  "requests_func_a_b.txt",
	}
	for code, want := range tests {
		if got := FunctionFileName(code); got != want {
			t.Errorf("FunctionFileName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestWriteReports(t *testing.T) {
	res, _, _ := newTestResults(t)
	w, err := NewWriter(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}

	names := FileNames{
		Requests:    "requests.txt",
		Summary:     "summary.txt",
		Intervals:   "intervals.txt",
		Timeline:    "timeline.txt",
		Percentiles: "percentiles.txt",
		PerFunction: true,
	}
	written, err := WriteReports(w, names, res)
	if err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}

	requests := readLines(t, written.Requests)
	if len(requests) != 3 {
		t.Errorf("requests lines = %d, want 3", len(requests))
	}

	// Per-function files partition the requests report.
	if len(written.PerFunction) != 2 {
		t.Fatalf("per-function files = %d, want 2", len(written.PerFunction))
	}
	total := 0
	for code, path := range written.PerFunction {
		for _, line := range readLines(t, path) {
			if !strings.Contains(line, "func: "+code+",") {
				t.Errorf("%s contains foreign row %q", path, line)
			}
			total++
		}
	}
	if total != len(requests) {
		t.Errorf("per-function rows = %d, want %d", total, len(requests))
	}

	summary := readLines(t, written.Summary)
	wantSummary := []string{
		"func: 12, max_proc_time: 0.000s, min_proc_time: 0.000ms, avg_proc_time: 0.000ms, req_count: 1, reply_count: 0",
		"func: 7, max_proc_time: 0.500s, min_proc_time: 250.000ms, avg_proc_time: 375.000ms, req_count: 2, reply_count: 3",
	}
	for i, want := range wantSummary {
		if summary[i] != want {
			t.Errorf("summary[%d] =\n  %s\nwant\n  %s", i, summary[i], want)
		}
	}

	intervals := readLines(t, written.Intervals)
	wantIntervals := []string{
		"interval: 20240101 10:00:00, req_count: 2, reply_count: 1, avg_proc_time: 250.000ms",
		"interval: 20240101 10:00:10, req_count: 1, reply_count: 2, avg_proc_time: 250.000ms",
	}
	for i, want := range wantIntervals {
		if intervals[i] != want {
			t.Errorf("intervals[%d] =\n  %s\nwant\n  %s", i, intervals[i], want)
		}
	}

	rows := readLines(t, written.Timeline)
	if len(rows) != 3 {
		t.Fatalf("timeline rows = %d, want 3", len(rows))
	}
	if !strings.Contains(rows[0], "pktid: 1,") || !strings.HasSuffix(rows[2], "status: failed") {
		t.Errorf("timeline order wrong: %q", rows)
	}

	if len(readLines(t, written.Percentiles)) != 2 {
		t.Error("percentiles should have one row per function")
	}
}

func TestWriteReports_NoPerFunction(t *testing.T) {
	res, _, _ := newTestResults(t)
	dir := t.TempDir()
	w, err := NewWriter(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	written, err := WriteReports(w, FileNames{
		Requests: "r.txt", Summary: "s.txt", Intervals: "i.txt", Timeline: "t.txt", Percentiles: "p.txt",
	}, res)
	if err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}
	if len(written.PerFunction) != 0 {
		t.Errorf("per-function files written when disabled: %v", written.PerFunction)
	}
	if _, err := os.Stat(filepath.Join(dir, FunctionFileName("7"))); !os.IsNotExist(err) {
		t.Error("requests_func_7.txt should not exist")
	}
}
