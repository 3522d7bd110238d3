package domain

import "time"

type ReportType string

const (
	ReportNew    ReportType = "NEW"
	ReportUpdate ReportType = "UPDATE"
)

// ReportEntry is one event selected for the change report.
type ReportEntry struct {
	Event Event
	Type  ReportType
}

// EventIndex is an insertion-ordered index of events by Id. Putting a
// repeated Id replaces the stored event but keeps the first occurrence's
// position, so iteration follows the source snapshot's event order.
type EventIndex struct {
	ids  []int64
	byID map[int64]Event
}

func NewEventIndex() *EventIndex {
	return &EventIndex{byID: make(map[int64]Event)}
}

func (x *EventIndex) Put(e Event) {
	id := e.ID()
	if _, ok := x.byID[id]; !ok {
		x.ids = append(x.ids, id)
	}
	x.byID[id] = e
}

func (x *EventIndex) Get(id int64) (Event, bool) {
	e, ok := x.byID[id]
	return e, ok
}

// IDs returns the indexed event ids in insertion order.
func (x *EventIndex) IDs() []int64 {
	return append([]int64(nil), x.ids...)
}

func (x *EventIndex) Len() int { return len(x.ids) }

// FilterByTag keeps the events carrying tag whose start date is strictly
// after now, indexed by Id.
func FilterByTag(events []Event, tag string, now time.Time) (*EventIndex, error) {
	idx := NewEventIndex()
	for _, e := range events {
		if !e.HasTag(tag) {
			continue
		}
		start, err := e.StartDate()
		if err != nil {
			return nil, err
		}
		if !start.After(now) {
			continue
		}
		idx.Put(e)
	}
	return idx, nil
}

// Diff classifies the events of current against old, iterating current in
// index order. Ids absent from old are NEW; ids present in both whose
// confirmed registration count changed are UPDATE; unchanged events are
// omitted. Events only present in old are never reported.
func Diff(old, current *EventIndex) []ReportEntry {
	entries := make([]ReportEntry, 0)
	for _, id := range current.IDs() {
		event, _ := current.Get(id)
		oldEvent, ok := old.Get(id)
		if !ok {
			entries = append(entries, ReportEntry{Event: event, Type: ReportNew})
			continue
		}
		if event.ConfirmedCount() != oldEvent.ConfirmedCount() {
			entries = append(entries, ReportEntry{Event: event, Type: ReportUpdate})
		}
	}
	return entries
}
