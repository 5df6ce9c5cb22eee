package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MissingKeyError reports a required configuration key that is absent.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is required", e.Key)
}

// Override adjusts a configuration after it is read and before it is validated.
type Override func(*Config)

// Load reads and validates a configuration file.
// Files ending in .ini, .cfg or .conf are read as INI, anything else as YAML.
func Load(_ context.Context, path string, overrides ...Override) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if isINI(path) {
		err = parseINI(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	for _, o := range overrides {
		o(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func isINI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg", ".conf":
		return true
	}
	return false
}

// Validate checks a configuration for errors and parses the arrival window.
func Validate(cfg *Config) error {
	if cfg.Paths.LogPath == "" {
		return &MissingKeyError{Key: "paths.log_path"}
	}
	if cfg.Paths.OutDir == "" {
		return &MissingKeyError{Key: "paths.out_dir"}
	}

	names := map[string]string{
		"paths.requests_file":    cfg.Paths.RequestsFile,
		"paths.summary_file":     cfg.Paths.SummaryFile,
		"paths.intervals_file":   cfg.Paths.IntervalsFile,
		"paths.timeline_file":    cfg.Paths.TimelineFile,
		"paths.percentiles_file": cfg.Paths.PercentilesFile,
	}
	for key, name := range names {
		if name == "" {
			return &MissingKeyError{Key: key}
		}
		if filepath.Base(name) != name {
			return fmt.Errorf("%s: %q must be a file name, not a path", key, name)
		}
	}

	if err := validateIntervals(&cfg.TimeIntervals); err != nil {
		return err
	}

	if cfg.Encoding.Input == "" {
		cfg.Encoding.Input = DefaultEncoding
	}
	if cfg.Encoding.Output == "" {
		cfg.Encoding.Output = DefaultEncoding
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateIntervals(ti *TimeIntervalsConfig) error {
	if ti.Interval == 0 {
		return &MissingKeyError{Key: "time_intervals.interval"}
	}
	if ti.Interval < 0 {
		return fmt.Errorf("time_intervals.interval: must be positive, got %d", ti.Interval)
	}

	ti.hasWindow = false
	switch {
	case ti.StartTime == "" && ti.EndTime == "":
		return nil
	case ti.StartTime == "":
		return &MissingKeyError{Key: "time_intervals.start_time"}
	case ti.EndTime == "":
		return &MissingKeyError{Key: "time_intervals.end_time"}
	}

	start, err := ParseTimeOfDay(ti.StartTime)
	if err != nil {
		return fmt.Errorf("time_intervals.start_time: %w", err)
	}
	end, err := ParseTimeOfDay(ti.EndTime)
	if err != nil {
		return fmt.Errorf("time_intervals.end_time: %w", err)
	}
	if end < start {
		return fmt.Errorf("time_intervals: end_time %s is before start_time %s", ti.EndTime, ti.StartTime)
	}

	ti.start, ti.end, ti.hasWindow = start, end, true
	return nil
}

// ParseTimeOfDay parses HH:MM, HH:MM:SS or HH:MM:SS.ffffff into an offset from midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q (want HH:MM[:SS[.ffffff]])", s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	d := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	if len(parts) == 2 {
		return d, nil
	}

	secPart, fracPart, hasFrac := strings.Cut(parts[2], ".")
	sec, err := strconv.Atoi(secPart)
	if err != nil || len(secPart) != 2 || sec > 59 {
		return 0, fmt.Errorf("invalid second in %q", s)
	}
	d += time.Duration(sec) * time.Second

	if hasFrac {
		if fracPart == "" || len(fracPart) > 6 {
			return 0, fmt.Errorf("invalid fraction in %q (at most 6 digits)", s)
		}
		frac, err := strconv.Atoi(fracPart + strings.Repeat("0", 6-len(fracPart)))
		if err != nil || frac < 0 {
			return 0, fmt.Errorf("invalid fraction in %q", s)
		}
		d += time.Duration(frac) * time.Microsecond
	}

	return d, nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url must have a host")
	}

	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnFailures
	case WebhookTriggerOnFailures, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_failures, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a value of the form ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		return os.Getenv(s[1:])
	}
	return s
}
