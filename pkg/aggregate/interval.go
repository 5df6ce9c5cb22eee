package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// IntervalBucket summarizes requests that arrived in one time slot.
type IntervalBucket struct {
	Start           time.Time `json:"start"`
	RequestCount    int       `json:"request_count"`
	ReplyCount      int       `json:"reply_count"`
	AvgProcDuration float64   `json:"avg_proc_duration"`
}

// BucketStart truncates t to its interval slot: the seconds field is reduced
// modulo interval and the sub-second part dropped. Minutes and hours are left
// alone, so intervals that do not divide 60 restart at each minute.
func BucketStart(t time.Time, interval int) time.Time {
	return t.Add(-time.Duration(t.Second()%interval)*time.Second - time.Duration(t.Nanosecond()))
}

type intervalAcc struct {
	requests int
	replies  int
	total    float64
}

func intervalAccFor(m map[time.Time]*intervalAcc, key time.Time) *intervalAcc {
	acc, ok := m[key]
	if !ok {
		acc = &intervalAcc{}
		m[key] = acc
	}
	return acc
}

// ByInterval buckets records by arrival time. The average covers every record
// in the bucket, failed ones counting as zero. Buckets are ordered by start time.
func ByInterval(tl *timeline.Timeline, interval int) ([]IntervalBucket, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %d", interval)
	}
	tl.Finalize()

	accs := make(map[time.Time]*intervalAcc)
	for _, rec := range tl.Records() {
		acc := intervalAccFor(accs, BucketStart(rec.Arrival, interval))
		acc.requests++
		acc.replies += len(rec.Replies)
		acc.total += rec.ProcDuration
	}

	out := make([]IntervalBucket, 0, len(accs))
	for start, acc := range accs {
		b := IntervalBucket{
			Start:        start,
			RequestCount: acc.requests,
			ReplyCount:   acc.replies,
		}
		if acc.requests > 0 {
			b.AvgProcDuration = acc.total / float64(acc.requests)
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
