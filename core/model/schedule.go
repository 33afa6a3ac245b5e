package model

import "time"

// Schedule is the ordered collection of events committed to one subject, a
// room or an employee. Events keep insertion order until Sort is called.
// During drafting the no-overlap invariant may be transiently violated; a
// committed schedule never holds two overlapping events.
type Schedule struct {
	OwnerID string
	Events  []*Event
}

// NewSchedule returns an empty schedule for the given owner.
func NewSchedule(ownerID string) *Schedule {
	return &Schedule{OwnerID: ownerID}
}

// Len returns the number of events.
func (s *Schedule) Len() int { return len(s.Events) }

// Event returns the event at index i.
func (s *Schedule) Event(i int) *Event { return s.Events[i] }

// Add appends an event.
func (s *Schedule) Add(e *Event) { s.Events = append(s.Events, e) }

// Remove deletes the event, matched by identity.
func (s *Schedule) Remove(e *Event) {
	for i, ev := range s.Events {
		if ev == e {
			s.Events = append(s.Events[:i], s.Events[i+1:]...)
			return
		}
	}
}

// Replace substitutes old with replacement in place, preserving position.
func (s *Schedule) Replace(old, replacement *Event) {
	for i, ev := range s.Events {
		if ev == old {
			s.Events[i] = replacement
			return
		}
	}
}

// IsClash reports whether any event in the schedule overlaps the probe.
func (s *Schedule) IsClash(probe *Event) bool {
	for _, ev := range s.Events {
		if ev.Overlaps(probe) {
			return true
		}
	}
	return false
}

// IsContained reports whether a single event in the schedule fully contains
// the probe. Union-of-blocks containment is deliberately not supported: a
// probe spanning two disjoint working blocks is never contained, since
// drafted durations are capped below one block's length.
func (s *Schedule) IsContained(probe *Event) bool {
	for _, ev := range s.Events {
		if ev.Contains(probe) {
			return true
		}
	}
	return false
}

// CoversInstant reports whether some event in the schedule covers the
// instant t, with the given probe width, and returns that event. This is the
// point-in-time counterpart of IsContained.
func (s *Schedule) CoversInstant(t time.Time, probe time.Duration) (*Event, bool) {
	for _, ev := range s.Events {
		if ev.CoversInstant(t, probe) {
			return ev, true
		}
	}
	return nil, false
}

// Sort orders events chronologically by repeatedly selecting the remaining
// event with the earliest start. Ties keep the first-scanned element, which
// makes repeated sorts yield identical orderings.
func (s *Schedule) Sort() {
	sorted := make([]*Event, 0, len(s.Events))
	for len(s.Events) > 0 {
		earliest := 0
		for j := 1; j < len(s.Events); j++ {
			if s.Events[earliest].After(s.Events[j]) {
				earliest = j
			}
		}
		sorted = append(sorted, s.Events[earliest])
		s.Events = append(s.Events[:earliest], s.Events[earliest+1:]...)
	}
	s.Events = sorted
}
