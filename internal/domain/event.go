package domain

import (
	"fmt"
	"time"
)

// Event field names as they appear in WildApricot API payloads.
const (
	fieldID        = "Id"
	fieldName      = "Name"
	fieldStartDate = "StartDate"
	fieldEndDate   = "EndDate"
	fieldTags      = "Tags"
	fieldConfirmed = "ConfirmedRegistrationsCount"
	fieldPending   = "PendingRegistrationsCount"
	fieldLimit     = "RegistrationsLimit"
)

// Date layouts the API has been observed to emit.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Event wraps one dynamic API object with typed accessors for the calendar
// fields the report cares about. The underlying object keeps every field the
// API returned, so snapshots round-trip unknown fields untouched.
type Event struct {
	obj *Object
}

func EventOf(obj *Object) Event { return Event{obj: obj} }

// EventsFromValue extracts the events of a decoded JSON list. Elements that
// are not objects are skipped.
func EventsFromValue(v Value) ([]Event, error) {
	items, ok := v.List()
	if !ok {
		return nil, fmt.Errorf("expected a JSON list of events, got kind %d", v.Kind())
	}
	events := make([]Event, 0, len(items))
	for _, item := range items {
		obj, ok := item.Object()
		if !ok {
			continue
		}
		events = append(events, Event{obj: obj})
	}
	return events, nil
}

// Object exposes the underlying dynamic object, e.g. for serialization.
func (e Event) Object() *Object { return e.obj }

func (e Event) ID() int64 {
	id, _ := e.obj.Int64(fieldID)
	return id
}

func (e Event) Name() string {
	name, _ := e.obj.Str(fieldName)
	return name
}

func (e Event) Tags() []string {
	items, ok := e.obj.ListOf(fieldTags)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.Str(); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

func (e Event) HasTag(tag string) bool {
	for _, t := range e.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

func (e Event) StartDate() (time.Time, error) {
	return e.dateField(fieldStartDate)
}

func (e Event) EndDate() (time.Time, error) {
	return e.dateField(fieldEndDate)
}

func (e Event) dateField(key string) (time.Time, error) {
	s, ok := e.obj.Str(key)
	if !ok {
		return time.Time{}, fmt.Errorf("event %d: missing %s", e.ID(), key)
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("event %d: unrecognized %s %q", e.ID(), key, s)
}

func (e Event) ConfirmedCount() int64 {
	n, _ := e.obj.Int64(fieldConfirmed)
	return n
}

func (e Event) PendingCount() int64 {
	n, _ := e.obj.Int64(fieldPending)
	return n
}

// RegistrationsLimit reports the attendee cap; ok is false when the event has
// no limit (the API sends null).
func (e Event) RegistrationsLimit() (int64, bool) {
	return e.obj.Int64(fieldLimit)
}
