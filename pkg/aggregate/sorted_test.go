package aggregate

import (
	"testing"
	"time"
)

func TestSorted(t *testing.T) {
	tl := newTimeline(t,
		req{id: 1, fn: "1"},
		req{id: 2, fn: "1", replies: []time.Duration{100 * time.Millisecond}},
		req{id: 3, fn: "2", replies: []time.Duration{900 * time.Millisecond}},
		req{id: 4, fn: "2"},
		req{id: 5, fn: "1", replies: []time.Duration{100 * time.Millisecond}},
		req{id: 6, fn: "3", replies: []time.Duration{-time.Second}},
	)

	rows := Sorted(tl)
	wantIDs := []int64{3, 2, 5, 6, 1, 4}
	if len(rows) != len(wantIDs) {
		t.Fatalf("len(rows) = %d, want %d", len(rows), len(wantIDs))
	}
	for i, id := range wantIDs {
		if rows[i].PacketID != id {
			t.Errorf("rows[%d].PacketID = %d, want %d", i, rows[i].PacketID, id)
		}
	}
}

func TestSorted_Properties(t *testing.T) {
	var reqs []req
	for i := int64(1); i <= 40; i++ {
		r := req{id: i, fn: "1", arrival: time.Duration(i) * time.Millisecond}
		if i%3 != 0 {
			r.replies = []time.Duration{time.Duration((i*37)%11) * 10 * time.Millisecond}
		}
		reqs = append(reqs, r)
	}
	rows := Sorted(newTimeline(t, reqs...))

	seenFailed := false
	for i, row := range rows {
		if !row.Succeeded {
			seenFailed = true
			if row.LastReply != nil {
				t.Errorf("rows[%d] failed but has LastReply", i)
			}
			continue
		}
		if seenFailed {
			t.Fatalf("rows[%d] succeeded after a failed row", i)
		}
		if i > 0 && rows[i-1].Succeeded && rows[i-1].Duration < row.Duration {
			t.Errorf("rows[%d].Duration %v > previous %v", i, row.Duration, rows[i-1].Duration)
		}
	}
}
