package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultRequestsFile    = "requests.txt"
	DefaultSummaryFile     = "summary.txt"
	DefaultIntervalsFile   = "intervals.txt"
	DefaultTimelineFile    = "timeline.txt"
	DefaultPercentilesFile = "percentiles.txt"
	DefaultEncoding        = "gb2312"
	DefaultWebhookTimeout  = 10 * time.Second
)

// Environment variable names.
const (
	EnvLogPath = "PKTSCOPE_LOG_PATH"
	EnvOutDir  = "PKTSCOPE_OUT_DIR"
)

// DefaultConfig returns a configuration with defaults for every optional field.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			RequestsFile:    DefaultRequestsFile,
			SummaryFile:     DefaultSummaryFile,
			IntervalsFile:   DefaultIntervalsFile,
			TimelineFile:    DefaultTimelineFile,
			PercentilesFile: DefaultPercentilesFile,
		},
		Encoding: EncodingConfig{
			Input:  DefaultEncoding,
			Output: DefaultEncoding,
		},
		Reports: ReportsConfig{
			PerFunction: true,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if v := os.Getenv(EnvLogPath); v != "" {
		c.Paths.LogPath = v
	}
	if v := os.Getenv(EnvOutDir); v != "" {
		c.Paths.OutDir = v
	}
}
