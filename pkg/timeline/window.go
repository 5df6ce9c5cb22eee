package timeline

import (
	"fmt"
	"time"
)

// Window is an inclusive time-of-day range applied to arrivals.
// Start and End are offsets from midnight.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// TimeOfDay returns the offset of t from its midnight, sub-second part included.
func TimeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// Contains reports whether t's time of day lies within [Start, End].
func (w Window) Contains(t time.Time) bool {
	tod := TimeOfDay(t)
	return tod >= w.Start && tod <= w.End
}

// String renders the window as HH:MM:SS.ffffff-HH:MM:SS.ffffff.
func (w Window) String() string {
	return fmt.Sprintf("%s-%s", formatOffset(w.Start), formatOffset(w.End))
}

func formatOffset(d time.Duration) string {
	return time.Time{}.Add(d).Format("15:04:05.000000")
}
