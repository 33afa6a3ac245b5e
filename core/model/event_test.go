package model

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, startH, startM, endH, endM int, kind EventKind) *Event {
	t.Helper()
	ev, err := NewEvent(At(startH, startM), At(endH, endM), kind, "", nil)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	return ev
}

func TestNewEventRejectsInvertedSpan(t *testing.T) {
	if _, err := NewEvent(At(10, 0), At(9, 0), KindMeeting, "", nil); err == nil {
		t.Fatal("expected error for start after end")
	}
	if _, err := NewEvent(At(10, 0), At(10, 0), KindMeeting, "", nil); err == nil {
		t.Fatal("expected error for zero-length span")
	}
}

func TestOverlaps(t *testing.T) {
	a := mustEvent(t, 9, 0, 10, 0, KindMeeting)
	cases := []struct {
		name string
		b    *Event
		want bool
	}{
		{"disjoint", mustEvent(t, 11, 0, 12, 0, KindMeeting), false},
		{"touching end", mustEvent(t, 10, 0, 11, 0, KindMeeting), false},
		{"touching start", mustEvent(t, 8, 0, 9, 0, KindMeeting), false},
		{"partial", mustEvent(t, 9, 30, 10, 30, KindMeeting), true},
		{"inside", mustEvent(t, 9, 15, 9, 45, KindMeeting), true},
		{"covering", mustEvent(t, 8, 0, 11, 0, KindMeeting), true},
	}
	for _, tc := range cases {
		if got := a.Overlaps(tc.b); got != tc.want {
			t.Errorf("%s: overlaps = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.b.Overlaps(a); got != tc.want {
			t.Errorf("%s: overlaps not symmetric", tc.name)
		}
	}
}

func TestContains(t *testing.T) {
	outer := mustEvent(t, 8, 0, 12, 0, KindWorking)
	if !outer.Contains(mustEvent(t, 8, 0, 12, 0, KindMeeting)) {
		t.Fatal("identical span must be contained")
	}
	if !outer.Contains(mustEvent(t, 9, 0, 10, 0, KindMeeting)) {
		t.Fatal("inner span must be contained")
	}
	if outer.Contains(mustEvent(t, 7, 59, 9, 0, KindMeeting)) {
		t.Fatal("span starting earlier must not be contained")
	}
	if outer.Contains(mustEvent(t, 11, 0, 12, 1, KindMeeting)) {
		t.Fatal("span ending later must not be contained")
	}
}

func TestCoversInstant(t *testing.T) {
	ev := mustEvent(t, 9, 0, 10, 0, KindMeeting)
	if !ev.CoversInstant(At(9, 0), time.Second) {
		t.Fatal("start instant must be covered")
	}
	if !ev.CoversInstant(At(9, 59), time.Minute) {
		t.Fatal("instant one probe before end must be covered")
	}
	if ev.CoversInstant(At(10, 0), time.Second) {
		t.Fatal("end instant must not be covered")
	}
	if ev.CoversInstant(At(9, 59), 2*time.Minute) {
		t.Fatal("probe extending past end must not be covered")
	}
	if ev.CoversInstant(At(8, 59), time.Second) {
		t.Fatal("instant before start must not be covered")
	}
}

func TestAttendeeRoster(t *testing.T) {
	ev := mustEvent(t, 9, 0, 10, 0, KindMeeting)
	ev.AddAttendee("e1")
	ev.AddAttendee("e2")
	ev.AddAttendee("e1")
	if !ev.HasAttendee("e1") || !ev.HasAttendee("e2") {
		t.Fatal("roster lookup failed")
	}
	ev.RemoveAttendee("e1")
	if !ev.HasAttendee("e1") {
		t.Fatal("remove must delete only the first matching entry")
	}
	ev.RemoveAttendee("e1")
	if ev.HasAttendee("e1") {
		t.Fatal("e1 should be fully removed")
	}
	if len(ev.Attendees) != 1 || ev.Attendees[0] != "e2" {
		t.Fatalf("unexpected roster %v", ev.Attendees)
	}
}
