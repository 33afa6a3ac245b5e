package engine

import (
	"time"

	"github.com/kilianp07/occusim/core/model"
)

// assignOffices walks offices in registration order, filling each to its max
// office occupancy with unassigned employees in registration order. No load
// balancing, no preference weighting.
func (e *Engine) assignOffices() {
	employees := e.building.Employees()
	k := 0
	for _, office := range e.building.Offices() {
		for i := 0; i < office.MaxOfficeOccupancy; i++ {
			if k == len(employees) {
				return
			}
			employees[k].OfficeID = office.ID
			k++
		}
	}
}

// synthesizeOfficeSchedules derives office occupancy from the gaps in every
// employee's committed day. Three synthetic bracketing events, a point-like
// arrival before the first working block, the lunch gap between the blocks
// and a point-like departure after the second block, make the gap scan
// contiguous; they are removed again before any output sees them.
func (e *Engine) synthesizeOfficeSchedules() {
	type brackets struct {
		arriving, lunch, leaving *model.Event
	}
	employees := e.building.Employees()
	inserted := make([]brackets, len(employees))

	for i, emp := range employees {
		first, second := emp.Working.Event(0), emp.Working.Event(1)
		b := brackets{
			arriving: &model.Event{
				Start:     first.Start.Add(-time.Second),
				End:       first.Start,
				Kind:      model.KindArriving,
				Attendees: []string{emp.ID},
			},
			lunch: &model.Event{
				Start:     first.End,
				End:       second.Start,
				Kind:      model.KindLunch,
				Attendees: []string{emp.ID},
			},
			leaving: &model.Event{
				Start:     second.End,
				End:       second.End.Add(time.Second),
				Kind:      model.KindLeaving,
				Attendees: []string{emp.ID},
			},
		}
		emp.Committed.Add(b.lunch)
		emp.Committed.Add(b.arriving)
		emp.Committed.Add(b.leaving)
		inserted[i] = b
	}

	for _, room := range e.building.MeetingRooms() {
		room.Committed.Sort()
	}
	for _, emp := range employees {
		emp.Committed.Sort()
	}

	// Every gap between adjacent events becomes a normal-working event in
	// the assigned office.
	for _, emp := range employees {
		office, ok := e.building.Room(emp.OfficeID)
		if !ok {
			continue
		}
		for i := 1; i < emp.Committed.Len(); i++ {
			start := emp.Committed.Event(i - 1).End
			end := emp.Committed.Event(i).Start
			if start.Equal(end) {
				continue
			}
			office.Committed.Add(&model.Event{
				Start:     start,
				End:       end,
				Kind:      model.KindWorking,
				RoomID:    office.ID,
				Attendees: []string{emp.ID},
			})
		}
	}

	// The brackets were scaffolding only.
	for i, emp := range employees {
		emp.Committed.Remove(inserted[i].lunch)
		emp.Committed.Remove(inserted[i].arriving)
		emp.Committed.Remove(inserted[i].leaving)
	}

	// Push each office event back onto its attendees' schedules.
	for _, emp := range employees {
		office, ok := e.building.Room(emp.OfficeID)
		if !ok {
			continue
		}
		for _, ev := range office.Committed.Events {
			if ev.HasAttendee(emp.ID) {
				emp.Committed.Add(ev)
			}
		}
	}

	for _, emp := range employees {
		emp.Committed.Sort()
	}
	for _, office := range e.building.Offices() {
		office.Committed.Sort()
	}
}
