package logging

import "context"

// Reason tags why an event was cancelled.
type Reason string

const (
	ReasonTimeConflict     Reason = "Time conflict"
	ReasonEmployeeConflict Reason = "Employees conflict"
)

// CancellationRecord captures one cancelled meeting. Start and end use the
// "2006-01-02 15:04" layout of the occupancy exports.
type CancellationRecord struct {
	ID              string   `json:"id"`
	Room            string   `json:"room"`
	Start           string   `json:"start"`
	End             string   `json:"end"`
	DurationMinutes int      `json:"duration_minutes"`
	Attendees       []string `json:"attendees"`
	Reason          Reason   `json:"reason"`
	DayIndex        int      `json:"day_index"`
}

// RateSummary aggregates cancellation rates for one run.
type RateSummary struct {
	RatesPerRoom map[string]float64 `json:"rates_per_room"`
	OverallRate  float64            `json:"overall_rate"`
	DayIndex     int                `json:"day_index"`
}

// DayStats records the realised meeting statistics of one simulated day,
// per meeting room in registration order.
type DayStats struct {
	DayIndex        int     `json:"day_index"`
	MeetingsPerRoom []int   `json:"meetings_per_room"`
	AttendeeCounts  [][]int `json:"attendee_counts"`
	DurationMinutes [][]int `json:"duration_minutes"`
}

// CancellationQuery filters stored cancellation records. Zero values match
// everything.
type CancellationQuery struct {
	Room string
	Day  int
	// HasDay distinguishes "day 0" from "any day".
	HasDay bool
}

// CancellationStore persists cancellation records append-only. Callers must
// treat the backing file as a growing log across repeated runs, never an
// overwritten snapshot.
type CancellationStore interface {
	Append(ctx context.Context, rec CancellationRecord) error
	Query(ctx context.Context, q CancellationQuery) ([]CancellationRecord, error)
	Close() error
}
