package aggregate

import (
	"testing"
	"time"
)

func TestByFunction_SingleRequest(t *testing.T) {
	tl := newTimeline(t, req{id: 1, fn: "7", replies: []time.Duration{500 * time.Millisecond}})

	stats := ByFunction(tl)
	if len(stats) != 1 {
		t.Fatalf("len(stats) = %d, want 1", len(stats))
	}
	got := stats[0]
	want := FunctionStats{FuncCode: "7", MinDuration: 0.5, MaxDuration: 0.5, AvgDuration: 0.5, RequestCount: 1, ReplyCount: 1}
	if got != want {
		t.Errorf("ByFunction() = %+v, want %+v", got, want)
	}
}

func TestByFunction_FailedRequestCountsArrivalOnly(t *testing.T) {
	tl := newTimeline(t,
		req{id: 1, fn: "7", replies: []time.Duration{time.Second}},
		req{id: 2, fn: "7", arrival: time.Second},
	)

	got := ByFunction(tl)[0]
	if got.RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", got.RequestCount)
	}
	if got.ReplyCount != 1 {
		t.Errorf("ReplyCount = %d, want 1", got.ReplyCount)
	}
	if got.MinDuration != 1 || got.MaxDuration != 1 || got.AvgDuration != 1 {
		t.Errorf("durations = %v/%v/%v, want 1/1/1", got.MinDuration, got.MaxDuration, got.AvgDuration)
	}
}

func TestByFunction_NoSuccessReportsZeros(t *testing.T) {
	tl := newTimeline(t, req{id: 1, fn: "9"}, req{id: 2, fn: "9"})

	got := ByFunction(tl)[0]
	if got.MinDuration != 0 || got.MaxDuration != 0 || got.AvgDuration != 0 {
		t.Errorf("durations = %v/%v/%v, want zeros", got.MinDuration, got.MaxDuration, got.AvgDuration)
	}
	if got.RequestCount != 2 || got.ReplyCount != 0 {
		t.Errorf("counts = %d/%d, want 2/0", got.RequestCount, got.ReplyCount)
	}
}

func TestByFunction_MinMaxAvg(t *testing.T) {
	tl := newTimeline(t,
		req{id: 1, fn: "1", replies: []time.Duration{100 * time.Millisecond}},
		req{id: 2, fn: "1", replies: []time.Duration{100 * time.Millisecond, 400 * time.Millisecond}},
		req{id: 3, fn: "1", replies: []time.Duration{time.Second}},
	)

	got := ByFunction(tl)[0]
	if got.MinDuration != 0.1 {
		t.Errorf("MinDuration = %v, want 0.1", got.MinDuration)
	}
	if got.MaxDuration != 1 {
		t.Errorf("MaxDuration = %v, want 1", got.MaxDuration)
	}
	if got.AvgDuration != 0.5 {
		t.Errorf("AvgDuration = %v, want 0.5", got.AvgDuration)
	}
	if got.ReplyCount != 4 {
		t.Errorf("ReplyCount = %d, want 4", got.ReplyCount)
	}
}

func TestByFunction_NegativeDurations(t *testing.T) {
	tl := newTimeline(t, req{id: 1, fn: "1", replies: []time.Duration{-2 * time.Second}})

	got := ByFunction(tl)[0]
	if got.MinDuration != -2 {
		t.Errorf("MinDuration = %v, want -2", got.MinDuration)
	}
	// The max accumulator starts at zero.
	if got.MaxDuration != 0 {
		t.Errorf("MaxDuration = %v, want 0", got.MaxDuration)
	}
	if got.AvgDuration != -2 {
		t.Errorf("AvgDuration = %v, want -2", got.AvgDuration)
	}
}

func TestByFunction_RequestCountsSumToRecords(t *testing.T) {
	tl := newTimeline(t,
		req{id: 1, fn: "01"},
		req{id: 2, fn: "1", replies: []time.Duration{time.Millisecond}},
		req{id: 3, fn: "2"},
		req{id: 4, fn: "01", replies: []time.Duration{time.Millisecond}},
	)

	stats := ByFunction(tl)
	if len(stats) != 3 {
		t.Fatalf("len(stats) = %d, want 3 (codes are opaque text)", len(stats))
	}

	total := 0
	for _, s := range stats {
		total += s.RequestCount
	}
	if total != tl.Len() {
		t.Errorf("sum of RequestCount = %d, want %d", total, tl.Len())
	}

	wantOrder := []string{"01", "1", "2"}
	for i, code := range wantOrder {
		if stats[i].FuncCode != code {
			t.Errorf("stats[%d].FuncCode = %q, want %q", i, stats[i].FuncCode, code)
		}
	}
}
