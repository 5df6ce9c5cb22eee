package parser

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the Go layout of the server's event timestamps (YYYYMMDD HH:MM:SS.ffffff).
const TimestampLayout = "20060102 15:04:05.000000"

// ErrTimestamp is returned when a line matches the grammar but its timestamp is not a valid
// calendar time. It means the log format differs from what the grammar expects.
var ErrTimestamp = errors.New("invalid event timestamp")

// ParseTimestamp parses a timestamp captured from an event line.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrTimestamp, s, err)
	}
	return ts, nil
}
