package aggregate

import (
	"sort"
	"time"

	"github.com/ccollicutt/pktscope/pkg/timeline"
)

// TimelineRow is one request in the latency-sorted view.
type TimelineRow struct {
	FuncCode  string
	PacketID  int64
	Arrival   time.Time
	LastReply *time.Time
	Duration  float64
	Succeeded bool
}

// Sorted flattens the timeline to one row per request. Successful requests
// come first, slowest first; failed requests follow. Ties keep creation order.
func Sorted(tl *timeline.Timeline) []TimelineRow {
	tl.Finalize()

	records := tl.Records()
	rows := make([]TimelineRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, TimelineRow{
			FuncCode:  rec.FuncCode,
			PacketID:  rec.PacketID,
			Arrival:   rec.Arrival,
			LastReply: rec.LastReply,
			Duration:  rec.ProcDuration,
			Succeeded: rec.Succeeded,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Succeeded != rows[j].Succeeded {
			return rows[i].Succeeded
		}
		if !rows[i].Succeeded {
			return false
		}
		return rows[i].Duration > rows[j].Duration
	})
	return rows
}
