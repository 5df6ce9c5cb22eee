package output

import (
	"context"
	"strings"
	"testing"

	"github.com/ccollicutt/pktscope/pkg/aggregate"
	"github.com/ccollicutt/pktscope/pkg/parser"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

const sampleLog = `20240101 10:00:00.000000 [WritePacket]KSvrComm AfterGet[pktid(1)], func: 7,
20240101 10:00:00.200000 [WritePacket]KSvrComm AfterGet[pktid(2)], func: 12,
20240101 10:00:00.500000 [WritePacket]KSvrComm Put[pktid(1)], func: 7,
20240101 10:00:11.000000 [WritePacket]KSvrComm AfterGet[pktid(3)], func: 7,
20240101 10:00:11.100000 [WritePacket]KSvrComm ReplyNull[pktid(3)], func: 7,
20240101 10:00:11.250000 [WritePacket]KSvrComm Put[pktid(3)], func: 7,
`

func newTestResults(t *testing.T) (*aggregate.Results, *parser.FileSource, *timeline.Builder) {
	t.Helper()
	src := parser.NewSource(strings.NewReader(sampleLog), "sample.log", nil)
	b := timeline.NewBuilder()
	tl, err := b.Build(context.Background(), src)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	res, err := aggregate.Compute(tl, 10)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return res, src, b
}

func newTestReport(t *testing.T) *Report {
	t.Helper()
	res, src, b := newTestResults(t)
	return NewReport(res, src.Stats(), b.Stats(), Metadata{
		LogPath:  "sample.log",
		Encoding: "gbk",
		Interval: 10,
	})
}
