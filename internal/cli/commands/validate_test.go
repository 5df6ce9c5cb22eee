package commands

import (
	"strings"
	"testing"
)

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Use = %q", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("missing description in Long")
	}
}

func TestRunValidate_Success(t *testing.T) {
	configPath, _ := analyzeFixture(t, roundTripLog,
		"  start_time: \"09:30\"\n  end_time: \"17:00\"\nwebhooks:\n  - name: ops\n    url: https://example.com/hook\n")

	stdout, _, err := runCommand(NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}

	for _, want := range []string{
		"Configuration valid!",
		"Interval:   10s",
		"Window:     09:30:00.000000-17:00:00.000000",
		"Encoding:   gbk, output gbk",
		"1. [on_failures] ops",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Warning") {
		t.Errorf("unexpected warning:\n%s", stdout)
	}
}

func TestRunValidate_MissingLogWarns(t *testing.T) {
	configPath, _ := analyzeFixture(t, roundTripLog, "")

	// The flag-free validate reads the config as is; point it at a missing log via env.
	t.Setenv("PKTSCOPE_LOG_PATH", "/nonexistent/server.log")

	stdout, _, err := runCommand(NewValidateCommand(), configPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(stdout, "Warning: log file not accessible") {
		t.Errorf("output = %q, want warning", stdout)
	}
}

func TestRunValidate_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{"bad encoding", "encoding:\n  output: klingon\n"},
		{"bad window", "  start_time: \"10:00\"\n"},
		{"bad webhook", "webhooks:\n  - url: ftp://example.com\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath, _ := analyzeFixture(t, roundTripLog, tt.extra)
			if _, _, err := runCommand(NewValidateCommand(), configPath); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRunVersion(t *testing.T) {
	stdout, _, err := runCommand(NewVersionCommand())
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if stdout != "pktscope "+Version+"\n" {
		t.Errorf("output = %q", stdout)
	}
}
