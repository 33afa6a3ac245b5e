package metrics

import "time"

// RoomTick is one room occupancy observation to be recorded.
type RoomTick struct {
	Room     string
	Kind     string
	Time     time.Time
	Occupied bool
	Count    int
	Max      int
}

// MeetingEvent captures the terminal state of one drafted meeting.
type MeetingEvent struct {
	Room            string
	Day             int
	State           string
	Reason          string
	Attempts        int
	DurationMinutes int
	Attendees       int
}

// RunSummary aggregates one simulated day.
type RunSummary struct {
	Day          int
	Committed    int
	Cancelled    int
	OverallRate  float64
	RatesPerRoom map[string]float64
	Time         time.Time
}

// Sink records simulation output for observability purposes.
type Sink interface {
	RecordOccupancy(points []RoomTick) error
	RecordMeeting(ev MeetingEvent) error
	RecordRunSummary(s RunSummary) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordOccupancy([]RoomTick) error  { return nil }
func (NopSink) RecordMeeting(MeetingEvent) error  { return nil }
func (NopSink) RecordRunSummary(RunSummary) error { return nil }

// MultiSink fans records out to several sinks, returning the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordOccupancy(points []RoomTick) error {
	for _, s := range m.sinks {
		if err := s.RecordOccupancy(points); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordMeeting(ev MeetingEvent) error {
	for _, s := range m.sinks {
		if err := s.RecordMeeting(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordRunSummary(sum RunSummary) error {
	for _, s := range m.sinks {
		if err := s.RecordRunSummary(sum); err != nil {
			return err
		}
	}
	return nil
}
