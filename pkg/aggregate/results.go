package aggregate

import "github.com/ccollicutt/pktscope/pkg/timeline"

// Results bundles every reduction of one timeline.
type Results struct {
	Timeline    *timeline.Timeline
	Functions   []FunctionStats
	Intervals   []IntervalBucket
	Sorted      []TimelineRow
	Percentiles []FunctionPercentiles
}

// Compute runs all reductions over tl. interval is the bucket width in seconds.
func Compute(tl *timeline.Timeline, interval int) (*Results, error) {
	tl.Finalize()

	intervals, err := ByInterval(tl, interval)
	if err != nil {
		return nil, err
	}

	return &Results{
		Timeline:    tl,
		Functions:   ByFunction(tl),
		Intervals:   intervals,
		Sorted:      Sorted(tl),
		Percentiles: Percentiles(tl),
	}, nil
}

// Failed returns the number of requests without any reply.
func (r *Results) Failed() int {
	n := 0
	for _, rec := range r.Timeline.Records() {
		if !rec.Succeeded {
			n++
		}
	}
	return n
}

// Replies returns the total number of reply events.
func (r *Results) Replies() int {
	n := 0
	for _, f := range r.Functions {
		n += f.ReplyCount
	}
	return n
}
