package engine

import (
	"context"
	"fmt"

	"github.com/kilianp07/occusim/core/engine/logging"
	"github.com/kilianp07/occusim/core/logger"
	"github.com/kilianp07/occusim/core/model"
	"github.com/kilianp07/occusim/core/sampling"
	"github.com/kilianp07/occusim/internal/eventbus"
)

// Engine synthesizes a one-day occupancy schedule: it samples meetings from
// each room's probability models, drafts them, resolves room and attendee
// conflicts under a bounded retry cap, commits the survivors and derives
// office occupancy from the gaps left in every employee's day.
//
// The engine is single-threaded. All randomness comes from one shared
// stream, so a fixed seed reproduces a run exactly as long as traversal
// order and the number of draws on every branch, including failed attempts,
// stay identical.
type Engine struct {
	cfg      Config
	building *model.Building
	src      *sampling.Source
	log      logger.Logger
	bus      eventbus.EventBus
	store    logging.CancellationStore
}

// draft is a candidate meeting not yet verified against availability.
type draft struct {
	ev              *model.Event
	durationMinutes int
}

// New validates the configuration and returns an engine over the building.
func New(cfg Config, b *model.Building, log logger.Logger) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("engine: nil building")
	}
	if b.NumEmployees() == 0 {
		return nil, fmt.Errorf("engine: building has no employees")
	}
	return &Engine{
		cfg:      cfg,
		building: b,
		src:      sampling.NewSource(cfg.Seed),
		log:      log,
	}, nil
}

// SetEventBus configures the bus resolution outcomes are published on.
func (e *Engine) SetEventBus(bus eventbus.EventBus) { e.bus = bus }

// SetCancellationStore configures the append-only store cancellation records
// are written to under the cancel policy.
func (e *Engine) SetCancellationStore(store logging.CancellationStore) { e.store = store }

// Config returns the effective configuration after defaulting.
func (e *Engine) Config() Config { return e.cfg }

// RunDay synthesizes one simulated day. Committed schedules and office
// assignments are reset first: days are independent, only the external logs
// accumulate.
func (e *Engine) RunDay(ctx context.Context, day int) (*RunResult, error) {
	e.resetDay()

	res := &RunResult{
		Day:       day,
		Attempted: make(map[string]int),
		Cancelled: make(map[string]int),
	}

	meetingsPerRoom, durations := e.sampleMeetings(res)
	pool, attendeeCounts := e.sampleAttendance(meetingsPerRoom)
	drafts := e.buildDrafts(meetingsPerRoom, durations, attendeeCounts, pool)
	if err := e.repairDuplicates(drafts); err != nil {
		return nil, err
	}
	if err := e.resolveAll(ctx, day, drafts, res); err != nil {
		return nil, err
	}
	e.assignOffices()
	e.synthesizeOfficeSchedules()

	e.log.Infof("day %d: %d meetings attempted, %d committed, %d cancelled",
		day, len(drafts), res.Committed, len(res.Cancellations))
	return res, nil
}

func (e *Engine) resetDay() {
	for _, r := range e.building.Rooms() {
		r.Committed = model.NewSchedule(r.ID)
	}
	for _, emp := range e.building.Employees() {
		emp.Committed = model.NewSchedule(emp.ID)
		emp.OfficeID = ""
	}
}

// sampleMeetings draws, for each meeting room, how many meetings it hosts
// and then one duration per meeting. Durations are accumulated in a flat
// list consumed in draft order.
func (e *Engine) sampleMeetings(res *RunResult) ([]int, []int) {
	rooms := e.building.MeetingRooms()
	meetingsPerRoom := make([]int, len(rooms))
	var durations []int
	for i, room := range rooms {
		n := room.MeetingCount.Sample(e.src)
		meetingsPerRoom[i] = n
		res.Attempted[room.ID] = n
		for j := 0; j < n; j++ {
			durations = append(durations, room.MeetingDuration.Sample(e.src))
		}
	}
	return meetingsPerRoom, durations
}

// sampleAttendance draws an attendee count per meeting and then that many
// employees uniformly with replacement, appended to one flat roster.
// Duplicates are possible here and repaired later.
func (e *Engine) sampleAttendance(meetingsPerRoom []int) ([]string, []int) {
	rooms := e.building.MeetingRooms()
	var pool []string
	var counts []int
	for i, room := range rooms {
		for j := 0; j < meetingsPerRoom[i]; j++ {
			k := room.AttendeeCount.Sample(e.src)
			counts = append(counts, k)
			for p := 0; p < k; p++ {
				idx := e.src.IntBetween(0, e.building.NumEmployees()-1)
				pool = append(pool, e.building.EmployeeAt(idx).ID)
			}
		}
	}
	return pool, counts
}

// buildDrafts creates the draft events and attaches their rosters, consuming
// the flat attendee pool sequentially per meeting.
func (e *Engine) buildDrafts(meetingsPerRoom, durations, attendeeCounts []int, pool []string) []*draft {
	rooms := e.building.MeetingRooms()
	var drafts []*draft
	meetingTotal := 0
	poolIndex := 0
	for i, room := range rooms {
		for j := 0; j < meetingsPerRoom[i]; j++ {
			d := &draft{
				ev:              e.randomEvent(durations[meetingTotal], room.ID),
				durationMinutes: durations[meetingTotal],
			}
			for p := 0; p < attendeeCounts[meetingTotal]; p++ {
				d.ev.AddAttendee(pool[poolIndex])
				poolIndex++
			}
			drafts = append(drafts, d)
			meetingTotal++
		}
	}
	return drafts
}
