// Package output renders analysis results as report files, console text and JSON.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/pktscope/pkg/aggregate"
	"github.com/ccollicutt/pktscope/pkg/parser"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// Report is the complete analysis output.
type Report struct {
	// RunID identifies this analysis run.
	RunID string `json:"run_id"`

	// Summary provides aggregate counters.
	Summary Summary `json:"summary"`

	// Functions holds per-function statistics.
	Functions []aggregate.FunctionStats `json:"functions"`

	// Percentiles holds per-function processing time quantiles.
	Percentiles []aggregate.FunctionPercentiles `json:"percentiles"`

	// Intervals holds per-interval statistics.
	Intervals []aggregate.IntervalBucket `json:"intervals"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate counters.
type Summary struct {
	Requests          int `json:"requests"`
	Succeeded         int `json:"succeeded"`
	Failed            int `json:"failed"`
	Replies           int `json:"replies"`
	Functions         int `json:"functions"`
	LinesRead         int `json:"lines_read"`
	LinesMatched      int `json:"lines_matched"`
	LinesOversized    int `json:"lines_oversized"`
	Filtered          int `json:"filtered_arrivals"`
	DuplicateArrivals int `json:"duplicate_arrivals"`
	UnknownReplies    int `json:"unknown_replies"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	ConfigFile       string        `json:"config_file,omitempty"`
	LogPath          string        `json:"log_path"`
	Encoding         string        `json:"encoding"`
	EncodingDetected bool          `json:"encoding_detected"`
	Window           string        `json:"window,omitempty"`
	Interval         int           `json:"interval"`
	OutputDir        string        `json:"output_dir"`
	AnalyzedAt       time.Time     `json:"analyzed_at"`
	Duration         time.Duration `json:"duration"`
}

// NewReport creates a Report with a fresh run id.
func NewReport(res *aggregate.Results, src parser.SourceStats, build timeline.BuildStats, meta Metadata) *Report {
	failed := res.Failed()
	return &Report{
		RunID: uuid.NewString(),
		Summary: Summary{
			Requests:          res.Timeline.Len(),
			Succeeded:         res.Timeline.Len() - failed,
			Failed:            failed,
			Replies:           res.Replies(),
			Functions:         len(res.Functions),
			LinesRead:         src.LinesRead,
			LinesMatched:      src.LinesMatched,
			LinesOversized:    src.LinesOversized,
			Filtered:          build.Filtered,
			DuplicateArrivals: build.DuplicateArrivals,
			UnknownReplies:    build.UnknownReplies,
		},
		Functions:   res.Functions,
		Percentiles: res.Percentiles,
		Intervals:   res.Intervals,
		Metadata:    meta,
	}
}

// HasFailures returns true if any request got no reply.
func (r *Report) HasFailures() bool {
	return r.Summary.Failed > 0
}
