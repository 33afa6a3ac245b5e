package model

import "fmt"

// Employee owns a declared working schedule (two blocks separated by lunch)
// and a committed schedule of events it actually attends. OfficeID is the
// assigned office, empty until office assignment runs.
type Employee struct {
	ID       string
	Role     string
	OfficeID string

	Working   *Schedule
	Committed *Schedule
}

// NewEmployee returns an employee with empty schedules.
func NewEmployee(id, role string) *Employee {
	return &Employee{
		ID:        id,
		Role:      role,
		Working:   NewSchedule(id),
		Committed: NewSchedule(id),
	}
}

// Validate checks the shape the engine's office synthesis relies on: exactly
// two declared working blocks, morning before afternoon, non-overlapping.
func (e *Employee) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("model: employee without id")
	}
	if e.Working.Len() != 2 {
		return fmt.Errorf("model: employee %s has %d working blocks, want 2", e.ID, e.Working.Len())
	}
	first, second := e.Working.Event(0), e.Working.Event(1)
	if !first.End.Before(second.Start) && !first.End.Equal(second.Start) {
		return fmt.Errorf("model: employee %s working blocks out of order", e.ID)
	}
	return nil
}
