package engine

import "fmt"

// Order selects the direction events are resolved in.
type Order string

const (
	OrderForward Order = "forward"
	OrderReverse Order = "reverse"
)

// Policy decides what happens when the retry cap is exhausted.
type Policy string

const (
	// PolicyDrop abandons the event without recording a cancellation.
	PolicyDrop Policy = "drop"
	// PolicyCancel records a cancellation and removes the event.
	PolicyCancel Policy = "cancel"
)

// Config defines engine parameters loaded from configuration.
type Config struct {
	Order  Order  `json:"order"`
	Policy Policy `json:"policy"`
	// MaxAttempts caps each conflict-resolution retry loop.
	MaxAttempts int `json:"max_attempts"`
	// SubstitutionCap bounds the rejection-sampling loops that pick
	// replacement attendees. Without it a pool near the required distinct
	// attendee count can spin forever.
	SubstitutionCap int `json:"substitution_cap"`
	// StartOfDayHour is the earliest hour a meeting may start at.
	StartOfDayHour int `json:"start_of_day_hour"`
	// WorkHoursInDay is the width of the drafting window in hours.
	WorkHoursInDay int   `json:"work_hours_in_day"`
	Days           int   `json:"days"`
	Seed           int64 `json:"seed"`
}

// SetDefaults applies the canonical 05:00-23:00 drafting window and the
// fixed retry cap of 100.
func (c *Config) SetDefaults() {
	if c.Order == "" {
		c.Order = OrderForward
	}
	if c.Policy == "" {
		c.Policy = PolicyDrop
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 100
	}
	if c.SubstitutionCap == 0 {
		c.SubstitutionCap = 1000
	}
	if c.StartOfDayHour == 0 {
		c.StartOfDayHour = 5
	}
	if c.WorkHoursInDay == 0 {
		c.WorkHoursInDay = 18
	}
	if c.Days == 0 {
		c.Days = 1
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Order != OrderForward && c.Order != OrderReverse {
		return fmt.Errorf("engine: unknown order %q", c.Order)
	}
	if c.Policy != PolicyDrop && c.Policy != PolicyCancel {
		return fmt.Errorf("engine: unknown policy %q", c.Policy)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("engine: max_attempts must be positive")
	}
	if c.SubstitutionCap < 1 {
		return fmt.Errorf("engine: substitution_cap must be positive")
	}
	if c.StartOfDayHour < 0 || c.StartOfDayHour > 23 {
		return fmt.Errorf("engine: start_of_day_hour out of range")
	}
	if c.WorkHoursInDay < 1 || c.StartOfDayHour+c.WorkHoursInDay > 24 {
		return fmt.Errorf("engine: drafting window exceeds the day")
	}
	if c.Days < 1 {
		return fmt.Errorf("engine: days must be positive")
	}
	return nil
}
