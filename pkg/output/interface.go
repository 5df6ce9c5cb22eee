package output

import (
	"context"
	"fmt"
	"io"
)

// Console formats accepted by NewFormatter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formatter renders a report for the console or another consumer.
type Formatter interface {
	Format(ctx context.Context, report *Report, w io.Writer) error
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds parse counters and timing.
	Verbose bool

	// Quiet prints a one-line summary only.
	Quiet bool
}

// NewFormatter returns the formatter for a console format name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case FormatText, "":
		return NewTextFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use %s or %s)", name, FormatText, FormatJSON)
	}
}
