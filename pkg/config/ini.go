package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// parseINI reads the sectioned INI layout into cfg. Absent keys keep their defaults;
// required keys are enforced by Validate.
func parseINI(data []byte, cfg *Config) error {
	f, err := ini.Load(data)
	if err != nil {
		return err
	}

	str := func(section, key string, dst *string) {
		if s, err := f.GetSection(section); err == nil && s.HasKey(key) {
			*dst = s.Key(key).String()
		}
	}
	boolean := func(section, key string, dst *bool) error {
		s, err := f.GetSection(section)
		if err != nil || !s.HasKey(key) {
			return nil
		}
		v, err := s.Key(key).Bool()
		if err != nil {
			return fmt.Errorf("[%s] %s: %w", section, key, err)
		}
		*dst = v
		return nil
	}

	str("Paths", "log_path", &cfg.Paths.LogPath)
	str("Paths", "out_dir", &cfg.Paths.OutDir)
	str("Paths", "requests_file", &cfg.Paths.RequestsFile)
	str("Paths", "summary_file", &cfg.Paths.SummaryFile)
	str("Paths", "intervals_file", &cfg.Paths.IntervalsFile)
	str("Paths", "timeline_file", &cfg.Paths.TimelineFile)
	str("Paths", "percentiles_file", &cfg.Paths.PercentilesFile)
	str("TimeIntervals", "start_time", &cfg.TimeIntervals.StartTime)
	str("TimeIntervals", "end_time", &cfg.TimeIntervals.EndTime)
	str("Encoding", "input", &cfg.Encoding.Input)
	str("Encoding", "output", &cfg.Encoding.Output)
	str("Metrics", "file", &cfg.MetricsFile)

	if s, err := f.GetSection("TimeIntervals"); err == nil && s.HasKey("interval") {
		v, err := s.Key("interval").Int()
		if err != nil {
			return fmt.Errorf("[TimeIntervals] interval: %w", err)
		}
		cfg.TimeIntervals.Interval = v
	}

	if err := boolean("Sorting", "by_time", &cfg.Sorting.ByTime); err != nil {
		return err
	}
	if err := boolean("Encoding", "auto_detect", &cfg.Encoding.AutoDetect); err != nil {
		return err
	}
	return boolean("Reports", "per_function", &cfg.Reports.PerFunction)
}
