package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/pktscope/pkg/aggregate"
	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// Timestamp layouts used in report files.
const (
	EventLayout    = "20060102 15:04:05.000000"
	IntervalLayout = "20060102 15:04:05"
	TimelineLayout = "2006-01-02 15:04:05.000"
)

const notAvailable = "N/A"

func ms(seconds float64) string {
	return fmt.Sprintf("%.3fms", seconds*1000)
}

// seconds prints the shortest decimal form, keeping ".0" on whole values.
func seconds(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func optionalTime(t *time.Time, layout, missing string) string {
	if t == nil {
		return missing
	}
	return t.Format(layout)
}

// RequestLine renders one request record.
func RequestLine(rec *timeline.RequestRecord) string {
	return fmt.Sprintf("pktid: %d, func: %s, recv_time: %s, first_reply: %s, last_reply: %s, proc_time: %s, output_time: %s, success: %t",
		rec.PacketID,
		rec.FuncCode,
		rec.Arrival.Format(EventLayout),
		optionalTime(rec.FirstReply, EventLayout, notAvailable),
		optionalTime(rec.LastReply, EventLayout, notAvailable),
		ms(rec.ProcDuration),
		ms(rec.SpreadDuration),
		rec.Succeeded)
}

// SummaryLine renders per-function statistics. The maximum is in seconds.
func SummaryLine(s aggregate.FunctionStats) string {
	return fmt.Sprintf("func: %s, max_proc_time: %.3fs, min_proc_time: %s, avg_proc_time: %s, req_count: %d, reply_count: %d",
		s.FuncCode,
		s.MaxDuration,
		ms(s.MinDuration),
		ms(s.AvgDuration),
		s.RequestCount,
		s.ReplyCount)
}

// IntervalLine renders one interval bucket.
func IntervalLine(b aggregate.IntervalBucket) string {
	return fmt.Sprintf("interval: %s, req_count: %d, reply_count: %d, avg_proc_time: %s",
		b.Start.Format(IntervalLayout),
		b.RequestCount,
		b.ReplyCount,
		ms(b.AvgProcDuration))
}

// TimelineLine renders one row of the latency-sorted view.
func TimelineLine(row aggregate.TimelineRow) string {
	if !row.Succeeded {
		return fmt.Sprintf("func: %s, pktid: %d, AfterGet: %s, Last Put: none, Duration: none, status: failed",
			row.FuncCode, row.PacketID, row.Arrival.Format(TimelineLayout))
	}
	return fmt.Sprintf("func: %s, pktid: %d, AfterGet: %s, Last Put: %s, Duration: %s seconds, status: success",
		row.FuncCode,
		row.PacketID,
		row.Arrival.Format(TimelineLayout),
		optionalTime(row.LastReply, TimelineLayout, "none"),
		seconds(row.Duration))
}

// PercentileLine renders per-function quantiles.
func PercentileLine(p aggregate.FunctionPercentiles) string {
	return fmt.Sprintf("func: %s, p50_proc_time: %s, p90_proc_time: %s, p99_proc_time: %s",
		p.FuncCode, ms(p.P50), ms(p.P90), ms(p.P99))
}
