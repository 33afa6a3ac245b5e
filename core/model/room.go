package model

import (
	"fmt"

	"github.com/kilianp07/occusim/core/sampling"
)

// RoomKind distinguishes offices from meeting rooms.
type RoomKind string

const (
	RoomOffice  RoomKind = "office"
	RoomMeeting RoomKind = "meeting"
)

// Room is a bookable space. Meeting rooms carry three probability models
// driving how many meetings they host, how long those run and how many
// people attend. The working schedule declares opening hours; the committed
// schedule accumulates the events placed in the room.
type Room struct {
	ID                  string
	Kind                RoomKind
	Area                float64
	MaxMeetingOccupancy int
	MaxOfficeOccupancy  int

	MeetingCount    *sampling.ProbabilityModel
	MeetingDuration *sampling.ProbabilityModel
	AttendeeCount   *sampling.ProbabilityModel

	Working   *Schedule
	Committed *Schedule
}

// NewRoom returns a room with empty schedules.
func NewRoom(id string, kind RoomKind, area float64, maxMeeting, maxOffice int) *Room {
	return &Room{
		ID:                  id,
		Kind:                kind,
		Area:                area,
		MaxMeetingOccupancy: maxMeeting,
		MaxOfficeOccupancy:  maxOffice,
		Working:             NewSchedule(id),
		Committed:           NewSchedule(id),
	}
}

// Validate checks that the room is usable by the engine. Meeting rooms need
// all three probability models and at least one declared working block.
func (r *Room) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("model: room without id")
	}
	if r.Kind != RoomOffice && r.Kind != RoomMeeting {
		return fmt.Errorf("model: room %s has unknown kind %q", r.ID, r.Kind)
	}
	if r.Kind != RoomMeeting {
		return nil
	}
	if r.Working.Len() == 0 {
		return fmt.Errorf("model: meeting room %s has no working schedule", r.ID)
	}
	for name, pmf := range map[string]*sampling.ProbabilityModel{
		"meeting count":    r.MeetingCount,
		"meeting duration": r.MeetingDuration,
		"attendee count":   r.AttendeeCount,
	} {
		if pmf == nil {
			return fmt.Errorf("model: meeting room %s is missing the %s model", r.ID, name)
		}
		if err := pmf.Validate(); err != nil {
			return fmt.Errorf("model: meeting room %s %s model: %w", r.ID, name, err)
		}
	}
	return nil
}

// Label returns the human-readable room label used in exports.
func (r *Room) Label() string {
	if r.Kind == RoomOffice {
		return "Office " + r.ID
	}
	return "Meeting room " + r.ID
}

// MaxOccupancy returns the capacity relevant to the room's kind.
func (r *Room) MaxOccupancy() int {
	if r.Kind == RoomOffice {
		return r.MaxOfficeOccupancy
	}
	return r.MaxMeetingOccupancy
}
