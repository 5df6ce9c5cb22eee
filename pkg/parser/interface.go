package parser

import "context"

// EventSource provides an iterator over matched log events.
// Implementations are sequential; they are not safe for concurrent use.
type EventSource interface {
	// Next returns the next event in file order.
	// Returns io.EOF when no more events are available.
	// Lines that do not match the grammar are skipped.
	Next(ctx context.Context) (*LogEvent, error)

	// Stats returns line counters for what has been read so far.
	Stats() SourceStats

	// Close releases any resources held by the source.
	Close() error
}
