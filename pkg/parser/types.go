// Package parser reads server logs and extracts packet lifecycle events.
package parser

import "time"

// EventKind identifies a packet lifecycle event.
type EventKind string

const (
	// KindArrival marks a request received by the server (AfterGet).
	KindArrival EventKind = "AfterGet"

	// KindReply marks a reply written for a request (Put).
	KindReply EventKind = "Put"

	// KindReplyNull marks an empty reply (ReplyNull). It is still a reply, not a failure.
	KindReplyNull EventKind = "ReplyNull"
)

// IsReply reports whether the kind completes a request.
func (k EventKind) IsReply() bool {
	return k == KindReply || k == KindReplyNull
}

// LogEvent is a single matched log line.
type LogEvent struct {
	// Timestamp is the event time with microsecond precision.
	Timestamp time.Time

	// Kind is the lifecycle event type.
	Kind EventKind

	// PacketID correlates arrival and reply events.
	PacketID int64

	// FuncCode is the server function code. Kept as text so zero padding survives.
	FuncCode string

	// Info is whatever follows the matched prefix on the line.
	Info string

	// LineNum is the 1-based line number in the source file.
	LineNum int
}

// SourceStats counts what a source has read so far.
type SourceStats struct {
	// LinesRead is the number of lines read from the file.
	LinesRead int

	// LinesMatched is the number of lines that matched the event grammar.
	LinesMatched int

	// LinesOversized is the number of lines skipped for exceeding the line size limit.
	LinesOversized int
}
