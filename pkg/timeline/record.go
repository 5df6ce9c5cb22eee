// Package timeline reconstructs per-request records from packet lifecycle events.
package timeline

import (
	"time"

	"github.com/ccollicutt/pktscope/pkg/parser"
)

// Reply is one reply event attached to a request.
type Reply struct {
	Time time.Time
	Kind parser.EventKind
}

// RequestRecord is the reconstructed lifecycle of one packet.
type RequestRecord struct {
	// PacketID is the correlation key.
	PacketID int64

	// FuncCode is the function code from the first arrival.
	FuncCode string

	// Arrival is the first accepted AfterGet time.
	Arrival time.Time

	// Replies holds reply events in file order.
	Replies []Reply

	// FirstReply is the time of the first appended reply, nil without replies.
	FirstReply *time.Time

	// LastReply is the time of the most recently appended reply, not the latest timestamp.
	LastReply *time.Time

	// ProcDuration is LastReply - Arrival in seconds. Set by Finalize.
	ProcDuration float64

	// SpreadDuration is LastReply - FirstReply in seconds. Set by Finalize.
	SpreadDuration float64

	// Succeeded is true when at least one reply was seen. Set by Finalize.
	Succeeded bool
}

func newRecord(ev *parser.LogEvent) *RequestRecord {
	return &RequestRecord{
		PacketID: ev.PacketID,
		FuncCode: ev.FuncCode,
		Arrival:  ev.Timestamp,
	}
}

func (r *RequestRecord) addReply(ev *parser.LogEvent) {
	ts := ev.Timestamp
	r.Replies = append(r.Replies, Reply{Time: ts, Kind: ev.Kind})
	if r.FirstReply == nil {
		r.FirstReply = &ts
	}
	r.LastReply = &ts
}

// finalize derives durations. Negative values from clock skew are kept as they are.
func (r *RequestRecord) finalize() {
	if len(r.Replies) == 0 {
		r.ProcDuration = 0
		r.SpreadDuration = 0
		r.Succeeded = false
		return
	}

	r.Succeeded = true
	r.ProcDuration = r.LastReply.Sub(r.Arrival).Seconds()
	r.SpreadDuration = r.LastReply.Sub(*r.FirstReply).Seconds()
}
