package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// eventPattern is the fixed KSvrComm packet grammar. Groups: timestamp, event, packet id, function.
var eventPattern = regexp.MustCompile(
	`(\d{8} \d{2}:\d{2}:\d{2}\.\d{6}) \[WritePacket\]KSvrComm (AfterGet|Put|ReplyNull)\[pktid\((\d+)\)\], func: ?(\d+),`)

// ErrPacketID is returned when a matched packet id does not fit in an int64.
var ErrPacketID = errors.New("invalid packet id")

// ParseLine matches a raw line against the event grammar.
// Returns nil, nil when the line is not an event line; those lines are expected and skipped.
// Returns an error only when a matching line carries an unparseable timestamp or packet id.
func ParseLine(line string) (*LogEvent, error) {
	m := eventPattern.FindStringSubmatchIndex(line)
	if m == nil {
		return nil, nil
	}

	group := func(i int) string { return line[m[2*i]:m[2*i+1]] }

	ts, err := ParseTimestamp(group(1))
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseInt(group(3), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrPacketID, group(3), err)
	}

	return &LogEvent{
		Timestamp: ts,
		Kind:      EventKind(group(2)),
		PacketID:  id,
		FuncCode:  group(4),
		Info:      strings.TrimSpace(line[m[1]:]),
	}, nil
}
