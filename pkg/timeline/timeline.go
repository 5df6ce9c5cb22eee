package timeline

// Timeline maps packet ids to request records and remembers creation order.
type Timeline struct {
	records   map[int64]*RequestRecord
	order     []int64
	finalized bool
}

// New creates an empty timeline.
func New() *Timeline {
	return &Timeline{
		records: make(map[int64]*RequestRecord),
	}
}

// Get returns the record for a packet id.
func (t *Timeline) Get(id int64) (*RequestRecord, bool) {
	rec, ok := t.records[id]
	return rec, ok
}

// Len returns the number of records.
func (t *Timeline) Len() int {
	return len(t.order)
}

// Records returns all records in creation order.
func (t *Timeline) Records() []*RequestRecord {
	out := make([]*RequestRecord, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.records[id])
	}
	return out
}

// Finalized reports whether Finalize has run.
func (t *Timeline) Finalized() bool {
	return t.finalized
}

// Finalize computes durations and success for every record.
// It runs once; later calls do nothing.
func (t *Timeline) Finalize() {
	if t.finalized {
		return
	}
	for _, id := range t.order {
		t.records[id].finalize()
	}
	t.finalized = true
}

// insert adds a record unless the packet id is already known.
func (t *Timeline) insert(rec *RequestRecord) bool {
	if _, exists := t.records[rec.PacketID]; exists {
		return false
	}
	t.records[rec.PacketID] = rec
	t.order = append(t.order, rec.PacketID)
	return true
}
