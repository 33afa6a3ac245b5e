// Package roster builds the simulated building from declarative
// configuration: rooms with their probability models, named employees and
// optionally a generated batch of identical employees.
package roster

import (
	"fmt"
	"time"

	"github.com/kilianp07/occusim/core/model"
	"github.com/kilianp07/occusim/core/sampling"
)

// BlockConfig declares one working block as wall-clock bounds on the
// simulated day, "HH:MM" in 24-hour form.
type BlockConfig struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PMFConfig declares a probability mass function over integer values.
type PMFConfig struct {
	Values        []int     `json:"values"`
	Probabilities []float64 `json:"probabilities"`
}

// RoomConfig declares one room. Meeting rooms require the three probability
// models and a working schedule; offices ignore them.
type RoomConfig struct {
	ID                  string         `json:"id"`
	Kind                model.RoomKind `json:"kind"`
	Area                float64        `json:"area"`
	MaxMeetingOccupancy int            `json:"max_meeting_occupancy"`
	MaxOfficeOccupancy  int            `json:"max_office_occupancy"`

	MeetingCount    *PMFConfig `json:"meeting_count"`
	MeetingDuration *PMFConfig `json:"meeting_duration"`
	AttendeeCount   *PMFConfig `json:"attendee_count"`

	Working []BlockConfig `json:"working"`
}

// EmployeeConfig declares one named employee.
type EmployeeConfig struct {
	ID      string        `json:"id"`
	Role    string        `json:"role"`
	Working []BlockConfig `json:"working"`
}

// GeneratedConfig declares a batch of employees sharing one working
// schedule, with IDs prefix0001..prefixNNNN.
type GeneratedConfig struct {
	Count   int           `json:"count"`
	Prefix  string        `json:"prefix"`
	Role    string        `json:"role"`
	Working []BlockConfig `json:"working"`
}

// Config is the full building declaration.
type Config struct {
	Rooms     []RoomConfig     `json:"rooms"`
	Employees []EmployeeConfig `json:"employees"`
	Generated GeneratedConfig  `json:"generated"`
}

// SetDefaults applies the generated-batch defaults.
func (c *Config) SetDefaults() {
	if c.Generated.Prefix == "" {
		c.Generated.Prefix = "emp"
	}
	if c.Generated.Role == "" {
		c.Generated.Role = "staff"
	}
}

// Build constructs and validates the building. Room and employee validation
// errors surface with the offending identifier.
func Build(cfg Config) (*model.Building, error) {
	cfg.SetDefaults()
	b := model.NewBuilding()
	for _, rc := range cfg.Rooms {
		room, err := buildRoom(rc)
		if err != nil {
			return nil, err
		}
		if err := b.AddRoom(room); err != nil {
			return nil, err
		}
	}
	for _, ec := range cfg.Employees {
		emp, err := buildEmployee(ec.ID, ec.Role, ec.Working)
		if err != nil {
			return nil, err
		}
		if err := b.AddEmployee(emp); err != nil {
			return nil, err
		}
	}
	g := cfg.Generated
	for i := 0; i < g.Count; i++ {
		id := fmt.Sprintf("%s%04d", g.Prefix, i+1)
		emp, err := buildEmployee(id, g.Role, g.Working)
		if err != nil {
			return nil, err
		}
		if err := b.AddEmployee(emp); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func buildRoom(rc RoomConfig) (*model.Room, error) {
	room := model.NewRoom(rc.ID, rc.Kind, rc.Area, rc.MaxMeetingOccupancy, rc.MaxOfficeOccupancy)
	if rc.Kind == model.RoomMeeting {
		var err error
		if room.MeetingCount, err = buildPMF(rc.ID, "meeting_count", rc.MeetingCount); err != nil {
			return nil, err
		}
		if room.MeetingDuration, err = buildPMF(rc.ID, "meeting_duration", rc.MeetingDuration); err != nil {
			return nil, err
		}
		if room.AttendeeCount, err = buildPMF(rc.ID, "attendee_count", rc.AttendeeCount); err != nil {
			return nil, err
		}
	}
	for _, bc := range rc.Working {
		ev, err := buildBlock(bc, rc.ID)
		if err != nil {
			return nil, fmt.Errorf("roster: room %s: %w", rc.ID, err)
		}
		room.Working.Add(ev)
	}
	return room, nil
}

func buildEmployee(id, role string, blocks []BlockConfig) (*model.Employee, error) {
	emp := model.NewEmployee(id, role)
	for _, bc := range blocks {
		ev, err := buildBlock(bc, "")
		if err != nil {
			return nil, fmt.Errorf("roster: employee %s: %w", id, err)
		}
		emp.Working.Add(ev)
	}
	emp.Working.Sort()
	return emp, nil
}

func buildPMF(roomID, name string, pc *PMFConfig) (*sampling.ProbabilityModel, error) {
	if pc == nil {
		return nil, fmt.Errorf("roster: meeting room %s is missing %s", roomID, name)
	}
	m, err := sampling.NewProbabilityModel(pc.Values, pc.Probabilities)
	if err != nil {
		return nil, fmt.Errorf("roster: meeting room %s %s: %w", roomID, name, err)
	}
	return m, nil
}

func buildBlock(bc BlockConfig, roomID string) (*model.Event, error) {
	start, err := parseClock(bc.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(bc.End)
	if err != nil {
		return nil, err
	}
	return model.NewEvent(start, end, model.KindWorking, roomID, nil)
}

func parseClock(s string) (t time.Time, err error) {
	var hour, minute int
	if _, err = fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return t, fmt.Errorf("bad clock value %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return t, fmt.Errorf("bad clock value %q", s)
	}
	return model.At(hour, minute), nil
}
