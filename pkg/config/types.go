// Package config provides configuration loading and validation for pktscope.
package config

import (
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Paths         PathsConfig         `yaml:"paths"`
	Sorting       SortingConfig       `yaml:"sorting"`
	TimeIntervals TimeIntervalsConfig `yaml:"time_intervals"`
	Encoding      EncodingConfig      `yaml:"encoding"`
	Reports       ReportsConfig       `yaml:"reports"`
	MetricsFile   string              `yaml:"metrics_file,omitempty"`
	Webhooks      []WebhookConfig     `yaml:"webhooks,omitempty"`
}

// PathsConfig locates the input log and the report files.
type PathsConfig struct {
	// LogPath is the server log to analyze (required).
	LogPath string `yaml:"log_path"`

	// OutDir receives all report files (required). Created if missing.
	OutDir string `yaml:"out_dir"`

	// Report file names inside OutDir.
	RequestsFile    string `yaml:"requests_file,omitempty"`
	SummaryFile     string `yaml:"summary_file,omitempty"`
	IntervalsFile   string `yaml:"intervals_file,omitempty"`
	TimelineFile    string `yaml:"timeline_file,omitempty"`
	PercentilesFile string `yaml:"percentiles_file,omitempty"`
}

// SortingConfig is kept for compatibility with existing config files.
type SortingConfig struct {
	// ByTime is reserved and currently has no effect.
	ByTime bool `yaml:"by_time"`
}

// TimeIntervalsConfig controls interval bucketing and the arrival window.
type TimeIntervalsConfig struct {
	// Interval is the bucket width in seconds (required, > 0).
	Interval int `yaml:"interval"`

	// StartTime and EndTime bound arrivals by time of day, inclusive.
	// Format HH:MM, HH:MM:SS or HH:MM:SS.ffffff. Both or neither.
	StartTime string `yaml:"start_time,omitempty"`
	EndTime   string `yaml:"end_time,omitempty"`

	// window offsets (populated during validation)
	start     time.Duration
	end       time.Duration
	hasWindow bool
}

// Window returns the parsed arrival window as offsets from midnight.
// ok is false when no window is configured.
func (t *TimeIntervalsConfig) Window() (start, end time.Duration, ok bool) {
	return t.start, t.end, t.hasWindow
}

// EncodingConfig selects input and output text encodings.
type EncodingConfig struct {
	// AutoDetect samples the log to pick its encoding.
	AutoDetect bool `yaml:"auto_detect"`

	// Input is the fixed log encoding, and the fallback when detection fails.
	Input string `yaml:"input,omitempty"`

	// Output is the encoding of every report file.
	Output string `yaml:"output,omitempty"`
}

// ReportsConfig toggles optional reports.
type ReportsConfig struct {
	// PerFunction writes one requests file per function code.
	PerFunction bool `yaml:"per_function"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnFailures fires only when some request got no reply (default).
	WebhookTriggerOnFailures WebhookTrigger = "on_failures"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint that receives the JSON report.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to on_failures.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
