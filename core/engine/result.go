package engine

import (
	"github.com/kilianp07/occusim/core/engine/logging"
	"github.com/kilianp07/occusim/core/model"
)

// State is the terminal state of one drafted event.
type State string

const (
	StateCommitted         State = "committed"
	StateDropped           State = "dropped"
	StateCancelledTime     State = "cancelled_time_conflict"
	StateCancelledEmployee State = "cancelled_employee_conflict"
)

// Outcome is the explicit result of resolving one drafted event: the retry
// cap and the terminal state are first-class values rather than implicit
// loop state.
type Outcome struct {
	Event    *model.Event
	RoomID   string
	State    State
	Attempts int
}

// Cancelled reports whether the outcome is one of the cancellation states.
func (o Outcome) Cancelled() bool {
	return o.State == StateCancelledTime || o.State == StateCancelledEmployee
}

// RunResult aggregates everything one simulated day produced.
type RunResult struct {
	Day      int
	Outcomes []Outcome
	// Attempted is the number of meetings sampled per meeting room,
	// before any conflict resolution.
	Attempted map[string]int
	// Cancelled counts cancellations per meeting room.
	Cancelled     map[string]int
	Committed     int
	Cancellations []logging.CancellationRecord
}

// Rates returns the per-room cancellation rate (cancelled/attempted, 0 when
// nothing was attempted) and the overall rate across all rooms.
func (r *RunResult) Rates(meetingRooms []*model.Room) (map[string]float64, float64) {
	perRoom := make(map[string]float64, len(meetingRooms))
	totalAttempted, totalCancelled := 0, 0
	for _, room := range meetingRooms {
		attempted := r.Attempted[room.ID]
		cancelled := r.Cancelled[room.ID]
		totalAttempted += attempted
		totalCancelled += cancelled
		rate := 0.0
		if attempted > 0 {
			rate = float64(cancelled) / float64(attempted)
		}
		perRoom[room.ID] = rate
	}
	overall := 0.0
	if totalAttempted > 0 {
		overall = float64(totalCancelled) / float64(totalAttempted)
	}
	return perRoom, overall
}

// Stats collects the realised meeting statistics per meeting room, walking
// rooms in registration order.
func (r *RunResult) Stats(meetingRooms []*model.Room) logging.DayStats {
	stats := logging.DayStats{DayIndex: r.Day}
	for _, room := range meetingRooms {
		room.Committed.Sort()
		var counts, durations []int
		for _, ev := range room.Committed.Events {
			if ev.Kind != model.KindMeeting {
				continue
			}
			counts = append(counts, len(ev.Attendees))
			durations = append(durations, int(ev.Duration().Minutes()))
		}
		stats.MeetingsPerRoom = append(stats.MeetingsPerRoom, len(counts))
		stats.AttendeeCounts = append(stats.AttendeeCounts, counts)
		stats.DurationMinutes = append(stats.DurationMinutes, durations)
	}
	return stats
}

// ResolutionEvent is published on the event bus for every resolved draft.
type ResolutionEvent struct {
	Day     int
	Outcome Outcome
}
