package engine

import (
	"context"
	"testing"

	"github.com/kilianp07/occusim/core/model"
	"github.com/kilianp07/occusim/core/sampling"
	"github.com/kilianp07/occusim/infra/logger"
)

func pmf(t *testing.T, values []int, probs []float64) *sampling.ProbabilityModel {
	t.Helper()
	m, err := sampling.NewProbabilityModel(values, probs)
	if err != nil {
		t.Fatalf("pmf: %v", err)
	}
	return m
}

func addBlock(t *testing.T, s *model.Schedule, startH, startM, endH, endM int) {
	t.Helper()
	ev, err := model.NewEvent(model.At(startH, startM), model.At(endH, endM), model.KindWorking, "", nil)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	s.Add(ev)
}

// testBuilding builds one office and one meeting room with nEmployees on the
// standard 08:00-12:00 / 13:00-18:00 day. The meeting room draws counts,
// durations and attendee counts from the given models.
func testBuilding(t *testing.T, nEmployees int, count, duration, attendees *sampling.ProbabilityModel) *model.Building {
	t.Helper()
	b := model.NewBuilding()

	office := model.NewRoom("1", model.RoomOffice, 40, 0, nEmployees)
	if err := b.AddRoom(office); err != nil {
		t.Fatalf("office: %v", err)
	}

	room := model.NewRoom("A", model.RoomMeeting, 25, 8, 0)
	room.MeetingCount = count
	room.MeetingDuration = duration
	room.AttendeeCount = attendees
	addBlock(t, room.Working, 8, 0, 12, 0)
	addBlock(t, room.Working, 13, 0, 18, 0)
	if err := b.AddRoom(room); err != nil {
		t.Fatalf("room: %v", err)
	}

	for i := 0; i < nEmployees; i++ {
		emp := model.NewEmployee(string(rune('a'+i)), "staff")
		addBlock(t, emp.Working, 8, 0, 12, 0)
		addBlock(t, emp.Working, 13, 0, 18, 0)
		if err := b.AddEmployee(emp); err != nil {
			t.Fatalf("employee: %v", err)
		}
	}
	return b
}

func newTestEngine(t *testing.T, cfg Config, b *model.Building) *Engine {
	t.Helper()
	e, err := New(cfg, b, logger.NopLogger{})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func TestRunDayCommitsConflictFree(t *testing.T) {
	b := testBuilding(t, 10,
		pmf(t, []int{2, 3}, []float64{0.5, 0.5}),
		pmf(t, []int{30, 60}, []float64{0.5, 0.5}),
		pmf(t, []int{2, 3}, []float64{0.5, 0.5}))
	e := newTestEngine(t, Config{Seed: 7}, b)

	res, err := e.RunDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Committed == 0 {
		t.Fatal("expected committed meetings with a wide-open day")
	}

	for _, room := range b.MeetingRooms() {
		assertNoOverlap(t, room.Committed)
	}
	for _, emp := range b.Employees() {
		assertNoOverlap(t, emp.Committed)
	}
}

// assertNoOverlap fails if any two events in the schedule overlap.
func assertNoOverlap(t *testing.T, s *model.Schedule) {
	t.Helper()
	for i := 0; i < s.Len(); i++ {
		for j := i + 1; j < s.Len(); j++ {
			if s.Event(i).Overlaps(s.Event(j)) {
				t.Fatalf("%s: %v overlaps %v", s.OwnerID, s.Event(i), s.Event(j))
			}
		}
	}
}

func TestRunDayMeetingsRespectWorkingBlocks(t *testing.T) {
	b := testBuilding(t, 8,
		pmf(t, []int{3}, []float64{1}),
		pmf(t, []int{60}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Seed: 11}, b)

	if _, err := e.RunDay(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, room := range b.MeetingRooms() {
		for _, ev := range room.Committed.Events {
			if ev.Kind != model.KindMeeting {
				continue
			}
			if !room.Working.IsContained(ev) {
				t.Fatalf("meeting %v outside room working schedule", ev)
			}
			for _, id := range ev.Attendees {
				emp, ok := b.Employee(id)
				if !ok {
					t.Fatalf("unknown attendee %s", id)
				}
				if !emp.Working.IsContained(ev) {
					t.Fatalf("meeting %v outside %s's working schedule", ev, id)
				}
			}
			seen := map[string]bool{}
			for _, id := range ev.Attendees {
				if seen[id] {
					t.Fatalf("duplicate attendee %s on %v", id, ev)
				}
				seen[id] = true
			}
		}
	}
}

func TestRunDayOfficeSynthesis(t *testing.T) {
	// No meetings at all: every employee's day reduces to two
	// normal-working events in the assigned office, and no synthetic
	// bracketing events survive.
	b := testBuilding(t, 4,
		pmf(t, []int{0}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Seed: 3}, b)

	if _, err := e.RunDay(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	office, _ := b.Room("1")
	if got := office.Committed.Len(); got != 8 {
		t.Fatalf("office has %d events, want 8 (two per employee)", got)
	}
	for _, emp := range b.Employees() {
		if emp.OfficeID != "1" {
			t.Fatalf("employee %s not assigned to the office", emp.ID)
		}
		if emp.Committed.Len() != 2 {
			t.Fatalf("employee %s has %d events, want 2", emp.ID, emp.Committed.Len())
		}
		for _, ev := range emp.Committed.Events {
			if ev.Kind != model.KindWorking {
				t.Fatalf("unexpected %s event in %s's day", ev.Kind, emp.ID)
			}
			if ev.RoomID != "1" {
				t.Fatalf("working event placed in %q, want office", ev.RoomID)
			}
		}
		morning, afternoon := emp.Committed.Event(0), emp.Committed.Event(1)
		if !morning.Start.Equal(model.At(8, 0)) || !morning.End.Equal(model.At(12, 0)) {
			t.Fatalf("morning block %v", morning)
		}
		if !afternoon.Start.Equal(model.At(13, 0)) || !afternoon.End.Equal(model.At(18, 0)) {
			t.Fatalf("afternoon block %v", afternoon)
		}
	}
}

func TestRunDayOfficeCapacitySpillover(t *testing.T) {
	b := testBuilding(t, 4,
		pmf(t, []int{0}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	// Second office with room for the spillover.
	office2 := model.NewRoom("2", model.RoomOffice, 30, 0, 10)
	if err := b.AddRoom(office2); err != nil {
		t.Fatalf("office: %v", err)
	}
	office1, _ := b.Room("1")
	office1.MaxOfficeOccupancy = 3

	e := newTestEngine(t, Config{Seed: 3}, b)
	if _, err := e.RunDay(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	emps := b.Employees()
	for i := 0; i < 3; i++ {
		if emps[i].OfficeID != "1" {
			t.Fatalf("employee %s in %q, want office 1", emps[i].ID, emps[i].OfficeID)
		}
	}
	if emps[3].OfficeID != "2" {
		t.Fatalf("employee %s in %q, want office 2", emps[3].ID, emps[3].OfficeID)
	}
}

func TestRunDayDropPolicy(t *testing.T) {
	b := testBuilding(t, 6,
		pmf(t, []int{2}, []float64{1}),
		// 400-minute meetings never fit a working block: the longest block is
		// 300 minutes, so containment fails on every redraft.
		pmf(t, []int{400}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Policy: PolicyDrop, Seed: 5}, b)

	res, err := e.RunDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Committed != 0 {
		t.Fatalf("committed %d impossible meetings", res.Committed)
	}
	if len(res.Cancellations) != 0 {
		t.Fatal("drop policy must not record cancellations")
	}
	for _, o := range res.Outcomes {
		if o.State != StateDropped {
			t.Fatalf("state %s, want dropped", o.State)
		}
		if o.Attempts <= e.Config().MaxAttempts {
			t.Fatalf("dropped after %d attempts, cap is %d", o.Attempts, e.Config().MaxAttempts)
		}
	}
}

func TestRunDayCancelPolicyTimeConflict(t *testing.T) {
	b := testBuilding(t, 6,
		pmf(t, []int{2}, []float64{1}),
		pmf(t, []int{400}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Policy: PolicyCancel, Seed: 5}, b)

	res, err := e.RunDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Cancellations) != 2 {
		t.Fatalf("%d cancellations, want 2", len(res.Cancellations))
	}
	for _, rec := range res.Cancellations {
		if rec.Reason != "Time conflict" {
			t.Fatalf("reason %q, want time conflict", rec.Reason)
		}
		if rec.Room != "A" || rec.DurationMinutes != 400 {
			t.Fatalf("unexpected record %+v", rec)
		}
		if rec.ID == "" {
			t.Fatal("record without id")
		}
	}
	perRoom, overall := res.Rates(b.MeetingRooms())
	if perRoom["A"] != 1 || overall != 1 {
		t.Fatalf("rates = %v / %g, want 1 / 1", perRoom, overall)
	}
}

func TestRunDayCancelPolicyEmployeeConflict(t *testing.T) {
	b := model.NewBuilding()
	office := model.NewRoom("1", model.RoomOffice, 40, 0, 4)
	if err := b.AddRoom(office); err != nil {
		t.Fatalf("office: %v", err)
	}
	room := model.NewRoom("A", model.RoomMeeting, 25, 8, 0)
	room.MeetingCount = pmf(t, []int{2}, []float64{1})
	room.MeetingDuration = pmf(t, []int{120}, []float64{1})
	room.AttendeeCount = pmf(t, []int{1}, []float64{1})
	addBlock(t, room.Working, 5, 0, 23, 0)
	if err := b.AddRoom(room); err != nil {
		t.Fatalf("room: %v", err)
	}
	// Working blocks too short for any 120-minute meeting: room resolution
	// succeeds, attendee resolution can only cycle between the two
	// employees and must give up.
	for _, id := range []string{"a", "b"} {
		emp := model.NewEmployee(id, "staff")
		addBlock(t, emp.Working, 9, 0, 9, 30)
		addBlock(t, emp.Working, 13, 0, 13, 30)
		if err := b.AddEmployee(emp); err != nil {
			t.Fatalf("employee: %v", err)
		}
	}

	e := newTestEngine(t, Config{Policy: PolicyCancel, Seed: 9}, b)
	res, err := e.RunDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Cancellations) != 2 {
		t.Fatalf("%d cancellations, want 2", len(res.Cancellations))
	}
	for _, rec := range res.Cancellations {
		if rec.Reason != "Employees conflict" {
			t.Fatalf("reason %q, want employees conflict", rec.Reason)
		}
	}
	for _, o := range res.Outcomes {
		if o.State != StateCancelledEmployee {
			t.Fatalf("state %s, want cancelled_employee_conflict", o.State)
		}
	}
	// Nothing was committed, so no meeting may linger on any schedule.
	if room.Committed.Len() != 0 {
		t.Fatal("cancelled meetings must not stay on the room schedule")
	}
}

func TestRunDayZeroAttemptRates(t *testing.T) {
	b := testBuilding(t, 4,
		pmf(t, []int{0}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Policy: PolicyCancel, Seed: 1}, b)

	res, err := e.RunDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	perRoom, overall := res.Rates(b.MeetingRooms())
	if perRoom["A"] != 0 || overall != 0 {
		t.Fatalf("rates with no attempts = %v / %g, want zeros", perRoom, overall)
	}
}

func TestRunDayIsReproducible(t *testing.T) {
	build := func() (*model.Building, *Engine) {
		b := testBuilding(t, 10,
			pmf(t, []int{2, 3}, []float64{0.5, 0.5}),
			pmf(t, []int{30, 60}, []float64{0.5, 0.5}),
			pmf(t, []int{2, 3}, []float64{0.5, 0.5}))
		return b, newTestEngine(t, Config{Seed: 123}, b)
	}
	b1, e1 := build()
	b2, e2 := build()
	if _, err := e1.RunDay(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := e2.RunDay(context.Background(), 0); err != nil {
		t.Fatalf("run: %v", err)
	}
	r1, _ := b1.Room("A")
	r2, _ := b2.Room("A")
	if r1.Committed.Len() != r2.Committed.Len() {
		t.Fatalf("runs diverged: %d vs %d meetings", r1.Committed.Len(), r2.Committed.Len())
	}
	for i := range r1.Committed.Events {
		a, b := r1.Committed.Event(i), r2.Committed.Event(i)
		if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) || len(a.Attendees) != len(b.Attendees) {
			t.Fatalf("runs diverged at event %d: %v vs %v", i, a, b)
		}
	}
}

func TestRunDayReverseOrder(t *testing.T) {
	b := testBuilding(t, 10,
		pmf(t, []int{3}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Order: OrderReverse, Seed: 17}, b)

	res, err := e.RunDay(context.Background(), 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Outcomes) != 3 {
		t.Fatalf("%d outcomes, want 3", len(res.Outcomes))
	}
	for _, room := range b.MeetingRooms() {
		assertNoOverlap(t, room.Committed)
	}
}

func TestDaysAreIndependent(t *testing.T) {
	b := testBuilding(t, 6,
		pmf(t, []int{1}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Seed: 21}, b)

	if _, err := e.RunDay(context.Background(), 0); err != nil {
		t.Fatalf("day 0: %v", err)
	}
	if _, err := e.RunDay(context.Background(), 1); err != nil {
		t.Fatalf("day 1: %v", err)
	}
	// With six employees a single day can produce at most three office
	// events per person; anything above that means day 0 leaked through.
	office, _ := b.Room("1")
	if office.Committed.Len() > 6*3 {
		t.Fatal("committed schedules must reset between days")
	}
	for _, emp := range b.Employees() {
		assertNoOverlap(t, emp.Committed)
	}
}

func TestFindDuplicates(t *testing.T) {
	dups := findDuplicates([]string{"a", "b", "a", "c", "b", "a"})
	if len(dups) != 2 {
		t.Fatalf("dups = %v, want a and b once each", dups)
	}
	if dups[0] != "a" || dups[1] != "b" {
		t.Fatalf("dups = %v, want [a b]", dups)
	}
	if got := findDuplicates([]string{"a", "b"}); len(got) != 0 {
		t.Fatalf("dups = %v, want none", got)
	}
}

func TestRandomEventShape(t *testing.T) {
	b := testBuilding(t, 4,
		pmf(t, []int{1}, []float64{1}),
		pmf(t, []int{60}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Seed: 2}, b)

	for i := 0; i < 500; i++ {
		ev := e.randomEvent(90, "A")
		if m := ev.Start.Minute(); m != 0 && m != 30 {
			t.Fatalf("start minute %d, want 0 or 30", m)
		}
		if ev.End.Sub(ev.Start).Minutes() != 90 {
			t.Fatalf("duration %v, want 90m", ev.End.Sub(ev.Start))
		}
		if ev.Kind != model.KindMeeting || ev.RoomID != "A" {
			t.Fatalf("unexpected draft %+v", ev)
		}
	}
}

func TestRandomReplacementAvoidsRoster(t *testing.T) {
	b := testBuilding(t, 5,
		pmf(t, []int{1}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{2}, []float64{1}))
	e := newTestEngine(t, Config{Seed: 8}, b)

	roster := []string{"a", "b", "c"}
	for i := 0; i < 200; i++ {
		got, err := e.randomReplacement("d", roster)
		if err != nil {
			t.Fatalf("replacement: %v", err)
		}
		if got == "d" || got == "a" || got == "b" || got == "c" {
			t.Fatalf("replacement %q violates constraints", got)
		}
	}
}

func TestRandomReplacementExhaustion(t *testing.T) {
	b := testBuilding(t, 2,
		pmf(t, []int{1}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{1}, []float64{1}))
	e := newTestEngine(t, Config{SubstitutionCap: 50, Seed: 8}, b)

	// Both employees are unavailable: one avoided, one on the roster.
	if _, err := e.randomReplacement("a", []string{"b"}); err != ErrPoolExhausted {
		t.Fatalf("err = %v, want ErrPoolExhausted", err)
	}
}

func TestNewValidation(t *testing.T) {
	b := testBuilding(t, 2,
		pmf(t, []int{1}, []float64{1}),
		pmf(t, []int{30}, []float64{1}),
		pmf(t, []int{1}, []float64{1}))
	if _, err := New(Config{}, nil, logger.NopLogger{}); err == nil {
		t.Fatal("expected error for nil building")
	}
	if _, err := New(Config{Order: "sideways"}, b, logger.NopLogger{}); err == nil {
		t.Fatal("expected error for invalid order")
	}
	if _, err := New(Config{}, model.NewBuilding(), logger.NopLogger{}); err == nil {
		t.Fatal("expected error for empty building")
	}
}
