package model

import (
	"fmt"
	"time"
)

// EventKind tags the purpose of an event.
type EventKind string

const (
	KindMeeting  EventKind = "Meeting"
	KindLunch    EventKind = "Lunch"
	KindArriving EventKind = "Arriving"
	KindLeaving  EventKind = "Leaving"
	KindWorking  EventKind = "Normal working"
)

// Day is the canonical date all simulated events are placed on. A run covers
// a single day; only the clock component carries information.
var Day = time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC)

// At returns an instant on the canonical day.
func At(hour, minute int) time.Time {
	return Day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Event is a time span with a kind tag, an optional room reference and an
// ordered attendee roster. Rooms and employees are referenced by identifier,
// never by pointer, so schedules stay free of ownership cycles.
type Event struct {
	Start     time.Time
	End       time.Time
	Kind      EventKind
	RoomID    string
	Attendees []string
}

// NewEvent builds an event and enforces the start < end invariant.
func NewEvent(start, end time.Time, kind EventKind, roomID string, attendees []string) (*Event, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("model: event start %s is not before end %s", start, end)
	}
	return &Event{Start: start, End: end, Kind: kind, RoomID: roomID, Attendees: attendees}, nil
}

// Duration returns the event length.
func (e *Event) Duration() time.Duration { return e.End.Sub(e.Start) }

// Overlaps reports whether the two spans share any open-interval time.
// Touching endpoints do not overlap.
func (e *Event) Overlaps(other *Event) bool {
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

// Contains reports whether e fully covers other's span, endpoints inclusive.
func (e *Event) Contains(other *Event) bool {
	return !e.Start.After(other.Start) && !e.End.Before(other.End)
}

// CoversInstant reports whether the instant t falls within the event. The
// probe width matters at the trailing edge: the event must still cover
// t+probe for t to count as inside.
func (e *Event) CoversInstant(t time.Time, probe time.Duration) bool {
	return !e.Start.After(t) && !e.End.Before(t.Add(probe))
}

// Before reports whether e starts strictly before other.
func (e *Event) Before(other *Event) bool { return e.Start.Before(other.Start) }

// After reports whether e starts strictly after other.
func (e *Event) After(other *Event) bool { return e.Start.After(other.Start) }

// AddAttendee appends an employee to the roster. Duplicates are allowed
// here; the engine repairs them before resolution.
func (e *Event) AddAttendee(id string) { e.Attendees = append(e.Attendees, id) }

// RemoveAttendee deletes the first roster entry matching id.
func (e *Event) RemoveAttendee(id string) {
	for i, a := range e.Attendees {
		if a == id {
			e.Attendees = append(e.Attendees[:i], e.Attendees[i+1:]...)
			return
		}
	}
}

// HasAttendee reports whether id appears on the roster.
func (e *Event) HasAttendee(id string) bool {
	for _, a := range e.Attendees {
		if a == id {
			return true
		}
	}
	return false
}

func (e *Event) String() string {
	return fmt.Sprintf("%s %s - %s", e.Kind, e.Start.Format("15:04"), e.End.Format("15:04"))
}
