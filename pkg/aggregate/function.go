// Package aggregate reduces a finalized timeline into latency statistics.
//
// Every reduction is independent and insensitive to record order, except
// Sorted, which uses creation order to break ties.
package aggregate

import (
	"math"
	"sort"

	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// FunctionStats summarizes all requests of one function code.
// Durations are in seconds.
type FunctionStats struct {
	FuncCode     string  `json:"func"`
	MinDuration  float64 `json:"min_duration"`
	MaxDuration  float64 `json:"max_duration"`
	AvgDuration  float64 `json:"avg_duration"`
	RequestCount int     `json:"request_count"`
	ReplyCount   int     `json:"reply_count"`
}

// functionAcc accumulates one function code. The seeds are set by newFunctionAcc.
type functionAcc struct {
	requests  int
	replies   int
	durations int
	total     float64
	min       float64
	max       float64
}

func newFunctionAcc() *functionAcc {
	return &functionAcc{
		min: math.Inf(1),
		max: 0,
	}
}

func functionAccFor(m map[string]*functionAcc, code string) *functionAcc {
	acc, ok := m[code]
	if !ok {
		acc = newFunctionAcc()
		m[code] = acc
	}
	return acc
}

// ByFunction groups records by function code.
// RequestCount counts arrivals and ReplyCount counts reply events. Min, max and
// average cover successful requests only; a function without any reports zeros.
// The result is ordered by function code.
func ByFunction(tl *timeline.Timeline) []FunctionStats {
	tl.Finalize()

	accs := make(map[string]*functionAcc)
	for _, rec := range tl.Records() {
		acc := functionAccFor(accs, rec.FuncCode)
		acc.requests++
		acc.replies += len(rec.Replies)

		if !rec.Succeeded {
			continue
		}
		acc.durations++
		acc.total += rec.ProcDuration
		acc.min = math.Min(acc.min, rec.ProcDuration)
		acc.max = math.Max(acc.max, rec.ProcDuration)
	}

	out := make([]FunctionStats, 0, len(accs))
	for code, acc := range accs {
		stats := FunctionStats{
			FuncCode:     code,
			RequestCount: acc.requests,
			ReplyCount:   acc.replies,
		}
		if acc.durations > 0 {
			stats.MinDuration = acc.min
			stats.MaxDuration = acc.max
			stats.AvgDuration = acc.total / float64(acc.durations)
		}
		out = append(out, stats)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FuncCode < out[j].FuncCode })
	return out
}
