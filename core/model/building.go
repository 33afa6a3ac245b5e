package model

import "fmt"

// Building is the arena holding every room and employee for a run, addressed
// by stable identifiers. Insertion order is preserved: office assignment and
// the exports walk rooms and employees in the order they were registered.
type Building struct {
	rooms     map[string]*Room
	employees map[string]*Employee

	officeIDs   []string
	meetingIDs  []string
	employeeIDs []string
}

// NewBuilding returns an empty arena.
func NewBuilding() *Building {
	return &Building{
		rooms:     make(map[string]*Room),
		employees: make(map[string]*Employee),
	}
}

// AddRoom registers a room. Identifiers must be unique across rooms.
func (b *Building) AddRoom(r *Room) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, ok := b.rooms[r.ID]; ok {
		return fmt.Errorf("model: duplicate room id %s", r.ID)
	}
	b.rooms[r.ID] = r
	switch r.Kind {
	case RoomOffice:
		b.officeIDs = append(b.officeIDs, r.ID)
	case RoomMeeting:
		b.meetingIDs = append(b.meetingIDs, r.ID)
	}
	return nil
}

// AddEmployee registers an employee.
func (b *Building) AddEmployee(e *Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, ok := b.employees[e.ID]; ok {
		return fmt.Errorf("model: duplicate employee id %s", e.ID)
	}
	b.employees[e.ID] = e
	b.employeeIDs = append(b.employeeIDs, e.ID)
	return nil
}

// Room resolves a room identifier. The second value is false for unknown ids.
func (b *Building) Room(id string) (*Room, bool) {
	r, ok := b.rooms[id]
	return r, ok
}

// Employee resolves an employee identifier.
func (b *Building) Employee(id string) (*Employee, bool) {
	e, ok := b.employees[id]
	return e, ok
}

// Offices returns the offices in registration order.
func (b *Building) Offices() []*Room { return b.roomsByID(b.officeIDs) }

// MeetingRooms returns the meeting rooms in registration order.
func (b *Building) MeetingRooms() []*Room { return b.roomsByID(b.meetingIDs) }

// Rooms returns offices first, then meeting rooms, each in registration
// order. This is the column order of the wide-form export.
func (b *Building) Rooms() []*Room {
	return append(b.Offices(), b.MeetingRooms()...)
}

// Employees returns all employees in registration order.
func (b *Building) Employees() []*Employee {
	out := make([]*Employee, 0, len(b.employeeIDs))
	for _, id := range b.employeeIDs {
		out = append(out, b.employees[id])
	}
	return out
}

// NumEmployees returns the size of the employee pool.
func (b *Building) NumEmployees() int { return len(b.employeeIDs) }

// EmployeeAt returns the i-th registered employee. Used by uniform draws
// over the pool.
func (b *Building) EmployeeAt(i int) *Employee {
	return b.employees[b.employeeIDs[i]]
}

func (b *Building) roomsByID(ids []string) []*Room {
	out := make([]*Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.rooms[id])
	}
	return out
}
