package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const roundTripLog = `20240101 10:00:00.000000 [WritePacket]KSvrComm AfterGet[pktid(1)], func: 7,
20240101 10:00:00.500000 [WritePacket]KSvrComm Put[pktid(1)], func: 7,
`

const mixedLog = `server starting
20240101 10:00:00.000000 [WritePacket]KSvrComm AfterGet[pktid(1)], func: 7,
20240101 10:00:00.200000 [WritePacket]KSvrComm AfterGet[pktid(2)], func: 12,
20240101 10:00:00.500000 [WritePacket]KSvrComm Put[pktid(1)], func: 7,
20240101 10:00:00.600000 [WritePacket]KSvrComm Put[pktid(42)], func: 7,
20240101 10:00:11.000000 [WritePacket]KSvrComm AfterGet[pktid(3)], func: 7,
20240101 10:00:11.100000 [WritePacket]KSvrComm ReplyNull[pktid(3)], func: 7,
20240101 10:00:11.250000 [WritePacket]KSvrComm Put[pktid(3)], func: 7,
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// analyzeFixture writes a log and a YAML config into a temp dir.
func analyzeFixture(t *testing.T, log, extra string) (configPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	logPath := writeFile(t, dir, "server.log", log)
	outDir = filepath.Join(dir, "out")

	cfg := "paths:\n" +
		"  log_path: " + logPath + "\n" +
		"  out_dir: " + outDir + "\n" +
		"time_intervals:\n" +
		"  interval: 10\n" +
		extra
	return writeFile(t, dir, "pktscope.yaml", cfg), outDir
}

func runCommand(cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
