// Package occupancy derives per-room time series from committed schedules.
// The simulated day is scanned as a fixed grid of 15-minute ticks; each tick
// reports whether a room is occupied and by how many people.
package occupancy

import (
	"time"

	"github.com/kilianp07/occusim/core/model"
)

const (
	// Ticks is the number of observations across the simulated day window.
	Ticks = 73
	// TickInterval separates two observations.
	TickInterval = 15 * time.Minute
)

// Point is one room observation at one tick.
type Point struct {
	RoomID string
	Kind   model.RoomKind
	Label  string
	Time   time.Time
	// Occupied is 1 when anyone is in the room at this tick, else 0.
	Occupied int
	Count    int
	Max      int
}

// Start returns the first observation instant, 05:00 on the canonical day.
func Start() time.Time { return model.At(5, 0) }

// Series scans the building across the full tick grid, offices first, then
// meeting rooms, in registration order within each kind. The probe width
// decides how much of the instant an event must cover; the long-form export
// uses one second, the wide-form snapshot one minute.
func Series(b *model.Building, start time.Time, probe time.Duration) []Point {
	var pts []Point
	now := start
	for i := 0; i < Ticks; i++ {
		for _, office := range b.Offices() {
			pts = append(pts, observeOffice(office, now, probe))
		}
		for _, room := range b.MeetingRooms() {
			pts = append(pts, observeMeetingRoom(room, now, probe))
		}
		now = now.Add(TickInterval)
	}
	return pts
}

// observeOffice counts one person per normal-working event covering the
// probe: office events carry exactly one attendee each.
func observeOffice(office *model.Room, now time.Time, probe time.Duration) Point {
	count := 0
	for _, ev := range office.Committed.Events {
		if ev.CoversInstant(now, probe) {
			count++
		}
	}
	p := Point{
		RoomID: office.ID,
		Kind:   office.Kind,
		Label:  office.Label(),
		Time:   now,
		Count:  count,
		Max:    office.MaxOccupancy(),
	}
	if count > 0 {
		p.Occupied = 1
	}
	return p
}

// observeMeetingRoom reports the roster size of the covering meeting, if
// any. Committed meeting schedules never overlap, so at most one event
// covers the probe.
func observeMeetingRoom(room *model.Room, now time.Time, probe time.Duration) Point {
	p := Point{
		RoomID: room.ID,
		Kind:   room.Kind,
		Label:  room.Label(),
		Time:   now,
		Max:    room.MaxOccupancy(),
	}
	if ev, ok := room.Committed.CoversInstant(now, probe); ok {
		p.Occupied = 1
		p.Count = len(ev.Attendees)
	}
	return p
}
