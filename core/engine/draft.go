package engine

import (
	"errors"

	"github.com/kilianp07/occusim/core/model"
)

// ErrPoolExhausted is returned when a replacement attendee cannot be drawn
// within the substitution cap. It indicates the employee pool is too small
// for the sampled roster sizes.
var ErrPoolExhausted = errors.New("engine: replacement sampling exhausted")

// randomEvent drafts a meeting window: an hour offset uniform over
// [0, workHours] inclusive, a minute offset of 0 or 30, and an end time
// carried over from the duration. If the end hour would pass 23 the start is
// folded back as hour = 22 - hour - carry. The fold is a heuristic: for
// large durations it can still leave the window, or go negative. Such
// drafts are not clamped here; they fail the containment check during
// resolution and consume a retry instead.
func (e *Engine) randomEvent(durationMinutes int, roomID string) *model.Event {
	hour := e.src.IntBetween(0, e.cfg.WorkHoursInDay)
	halfHour := 30 * e.src.IntBetween(0, 1)
	carry := (halfHour + durationMinutes) / 60
	endMins := halfHour + durationMinutes - 60*carry
	if hour+carry+e.cfg.StartOfDayHour > 23 {
		hour = 22 - hour - carry
	}
	return &model.Event{
		Start:  model.At(hour+e.cfg.StartOfDayHour, halfHour),
		End:    model.At(hour+carry+e.cfg.StartOfDayHour, endMins),
		Kind:   model.KindMeeting,
		RoomID: roomID,
	}
}

// findDuplicates returns the attendee ids appearing more than once on the
// roster, each once.
func findDuplicates(roster []string) []string {
	count := make(map[string]int, len(roster))
	for _, id := range roster {
		count[id]++
	}
	var dups []string
	for _, id := range roster {
		if count[id] > 1 {
			dups = append(dups, id)
			count[id] = 0
		}
	}
	return dups
}

// repairDuplicates replaces every repeated attendee on every draft with a
// freshly drawn employee that is neither the duplicate nor already on the
// roster.
func (e *Engine) repairDuplicates(drafts []*draft) error {
	for _, d := range drafts {
		for _, id := range findDuplicates(d.ev.Attendees) {
			replacement, err := e.randomReplacement(id, d.ev.Attendees)
			if err != nil {
				return err
			}
			for i, a := range d.ev.Attendees {
				if a == id {
					d.ev.Attendees[i] = replacement
					break
				}
			}
		}
	}
	return nil
}

// randomReplacement rejection-samples an employee that is not avoid and not
// already on the roster. The loop carries an explicit iteration ceiling; the
// unbounded original can hang when the pool is near the required distinct
// attendee count.
func (e *Engine) randomReplacement(avoid string, roster []string) (string, error) {
	for attempt := 0; attempt < e.cfg.SubstitutionCap; attempt++ {
		idx := e.src.IntBetween(0, e.building.NumEmployees()-1)
		candidate := e.building.EmployeeAt(idx).ID
		if candidate == avoid {
			continue
		}
		taken := false
		for _, a := range roster {
			if a == candidate {
				taken = true
				break
			}
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrPoolExhausted
}
