package aggregate

import (
	"testing"
	"time"

	"github.com/ccollicutt/pktscope/pkg/parser"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

var base = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// req describes one request: an arrival and optional reply offsets relative to it.
type req struct {
	id      int64
	fn      string
	arrival time.Duration
	replies []time.Duration
}

func newTimeline(t *testing.T, reqs ...req) *timeline.Timeline {
	t.Helper()
	b := timeline.NewBuilder()
	for _, r := range reqs {
		at := base.Add(r.arrival)
		if err := b.Process(&parser.LogEvent{Timestamp: at, Kind: parser.KindArrival, PacketID: r.id, FuncCode: r.fn}); err != nil {
			t.Fatal(err)
		}
		for _, off := range r.replies {
			ev := &parser.LogEvent{Timestamp: at.Add(off), Kind: parser.KindReply, PacketID: r.id, FuncCode: r.fn}
			if err := b.Process(ev); err != nil {
				t.Fatal(err)
			}
		}
	}
	tl := b.Timeline()
	tl.Finalize()
	return tl
}
