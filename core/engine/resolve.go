package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kilianp07/occusim/core/engine/logging"
)

const recordTimeLayout = "2006-01-02 15:04"

// resolveAll walks the drafts in the configured order and resolves each one
// to an explicit terminal state.
func (e *Engine) resolveAll(ctx context.Context, day int, drafts []*draft, res *RunResult) error {
	for i := 0; i < len(drafts); i++ {
		d := drafts[i]
		if e.cfg.Order == OrderReverse {
			d = drafts[len(drafts)-1-i]
		}
		outcome, err := e.resolveEvent(ctx, day, d, res)
		if err != nil {
			return err
		}
		res.Outcomes = append(res.Outcomes, outcome)
		if outcome.State == StateCommitted {
			res.Committed++
		}
		if e.bus != nil {
			e.bus.Publish(ResolutionEvent{Day: day, Outcome: outcome})
		}
	}
	return nil
}

// resolveEvent runs the two bounded retry loops for one draft: room
// resolution first, then attendee resolution, committing only on full
// success. Cancellation states are reachable only from the resolving loops.
func (e *Engine) resolveEvent(ctx context.Context, day int, d *draft, res *RunResult) (Outcome, error) {
	room, ok := e.building.Room(d.ev.RoomID)
	if !ok {
		return Outcome{}, fmt.Errorf("engine: draft references unknown room %s", d.ev.RoomID)
	}

	total := 0
	attempts := 0
	for room.Committed.IsClash(d.ev) || !room.Working.IsContained(d.ev) {
		attempts++
		if attempts > e.cfg.MaxAttempts {
			return e.escalate(ctx, day, d, res, logging.ReasonTimeConflict, StateCancelledTime, total+attempts)
		}
		// Redraft the window, keeping the roster.
		redraft := e.randomEvent(d.durationMinutes, d.ev.RoomID)
		redraft.Attendees = d.ev.Attendees
		d.ev = redraft
	}
	total += attempts

	for i := 0; i < len(d.ev.Attendees); i++ {
		attempts = 0
		for {
			emp, ok := e.building.Employee(d.ev.Attendees[i])
			if !ok {
				return Outcome{}, fmt.Errorf("engine: draft references unknown employee %s", d.ev.Attendees[i])
			}
			if !emp.Committed.IsClash(d.ev) && emp.Working.IsContained(d.ev) {
				break
			}
			attempts++
			if attempts > e.cfg.MaxAttempts {
				if e.cfg.Policy == PolicyCancel {
					return e.escalate(ctx, day, d, res, logging.ReasonEmployeeConflict, StateCancelledEmployee, total+attempts)
				}
				// Non-cancelling policy: abandon this seat only.
				d.ev.Attendees = append(d.ev.Attendees[:i], d.ev.Attendees[i+1:]...)
				i--
				break
			}
			replacement, err := e.randomReplacement(d.ev.Attendees[i], d.ev.Attendees)
			if err != nil {
				return Outcome{}, err
			}
			d.ev.Attendees[i] = replacement
		}
		total += attempts
	}

	room.Committed.Add(d.ev)
	for _, id := range d.ev.Attendees {
		emp, _ := e.building.Employee(id)
		emp.Committed.Add(d.ev)
	}
	return Outcome{Event: d.ev, RoomID: room.ID, State: StateCommitted, Attempts: total}, nil
}

// escalate turns an exhausted retry loop into a terminal outcome. Under the
// cancel policy the event is recorded and counted; under the drop policy it
// silently leaves further processing.
func (e *Engine) escalate(ctx context.Context, day int, d *draft, res *RunResult, reason logging.Reason, state State, attempts int) (Outcome, error) {
	if e.cfg.Policy != PolicyCancel {
		e.log.Warnf("day %d: meeting in %s dropped after %d attempts", day, d.ev.RoomID, attempts)
		return Outcome{Event: d.ev, RoomID: d.ev.RoomID, State: StateDropped, Attempts: attempts}, nil
	}

	rec := logging.CancellationRecord{
		ID:              uuid.NewString(),
		Room:            d.ev.RoomID,
		Start:           d.ev.Start.Format(recordTimeLayout),
		End:             d.ev.End.Format(recordTimeLayout),
		DurationMinutes: d.durationMinutes,
		Attendees:       append([]string(nil), d.ev.Attendees...),
		Reason:          reason,
		DayIndex:        day,
	}
	res.Cancellations = append(res.Cancellations, rec)
	res.Cancelled[d.ev.RoomID]++
	if e.store != nil {
		if err := e.store.Append(ctx, rec); err != nil {
			return Outcome{}, fmt.Errorf("engine: append cancellation: %w", err)
		}
	}
	e.log.Warnf("day %d: meeting in %s cancelled (%s) after %d attempts", day, d.ev.RoomID, reason, attempts)
	return Outcome{Event: d.ev, RoomID: d.ev.RoomID, State: state, Attempts: attempts}, nil
}
