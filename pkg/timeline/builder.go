package timeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/pktscope/pkg/parser"
)

// ErrFinalized is returned when events are fed to a finalized timeline.
var ErrFinalized = errors.New("timeline already finalized")

// BuildStats counts how events were folded into the timeline.
type BuildStats struct {
	// Arrivals is the number of AfterGet events seen.
	Arrivals int

	// Replies is the number of reply events attached to a record.
	Replies int

	// Filtered is the number of arrivals outside the time window.
	Filtered int

	// DuplicateArrivals is the number of arrivals for a packet id that already had one.
	DuplicateArrivals int

	// UnknownReplies is the number of replies whose packet id had no accepted arrival.
	UnknownReplies int
}

// Builder folds events into a Timeline in file order.
type Builder struct {
	window *Window
	log    zerolog.Logger

	timeline *Timeline
	stats    BuildStats
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWindow drops arrivals whose time of day is outside w.
func WithWindow(w Window) BuilderOption {
	return func(b *Builder) {
		b.window = &w
	}
}

// WithLogger sets the logger used for skipped events.
func WithLogger(log zerolog.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder creates a Builder with an empty timeline.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		log:      zerolog.Nop(),
		timeline: New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Process applies one event.
func (b *Builder) Process(ev *parser.LogEvent) error {
	if b.timeline.finalized {
		return ErrFinalized
	}

	switch {
	case ev.Kind == parser.KindArrival:
		b.arrival(ev)
	case ev.Kind.IsReply():
		b.reply(ev)
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}
	return nil
}

func (b *Builder) arrival(ev *parser.LogEvent) {
	b.stats.Arrivals++

	if b.window != nil && !b.window.Contains(ev.Timestamp) {
		b.stats.Filtered++
		return
	}

	if !b.timeline.insert(newRecord(ev)) {
		// First arrival wins.
		b.stats.DuplicateArrivals++
		b.log.Debug().
			Int64("pktid", ev.PacketID).
			Int("line", ev.LineNum).
			Msg("duplicate arrival ignored")
	}
}

func (b *Builder) reply(ev *parser.LogEvent) {
	rec, ok := b.timeline.Get(ev.PacketID)
	if !ok {
		b.stats.UnknownReplies++
		b.log.Warn().
			Int64("pktid", ev.PacketID).
			Str("func", ev.FuncCode).
			Str("event", string(ev.Kind)).
			Int("line", ev.LineNum).
			Msg("reply for unknown packet id discarded")
		return
	}

	rec.addReply(ev)
	b.stats.Replies++
}

// Build drains source into the timeline and finalizes it.
func (b *Builder) Build(ctx context.Context, source parser.EventSource) (*Timeline, error) {
	for {
		ev, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading events: %w", err)
		}

		if err := b.Process(ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", ev.LineNum, err)
		}
	}

	b.timeline.Finalize()
	return b.timeline, nil
}

// Timeline returns the timeline built so far.
func (b *Builder) Timeline() *Timeline {
	return b.timeline
}

// Stats returns the fold counters.
func (b *Builder) Stats() BuildStats {
	return b.stats
}

// Reset discards all state so the builder can be reused.
func (b *Builder) Reset() {
	b.timeline = New()
	b.stats = BuildStats{}
}
