package config

import "fmt"

// LogsConfig defines where the append-only run logs are stored. The files
// grow across repeated runs; they are never truncated.
type LogsConfig struct {
	// Cancellations is the JSONL store of cancellation records.
	Cancellations string `json:"cancellations"`
	// Summary is the JSONL file of per-day cancellation-rate summaries.
	Summary string `json:"summary"`
	// Stats is the JSONL file of per-day committed-meeting statistics.
	Stats string `json:"stats"`
}

// SetDefaults applies sane defaults.
func (c *LogsConfig) SetDefaults() {
	if c.Cancellations == "" {
		c.Cancellations = "cancellations.log"
	}
	if c.Summary == "" {
		c.Summary = "summary.log"
	}
	if c.Stats == "" {
		c.Stats = "stats.log"
	}
}

// Validate checks mandatory fields.
func (c LogsConfig) Validate() error {
	if c.Cancellations == "" {
		return fmt.Errorf("cancellations path is required")
	}
	if c.Summary == "" {
		return fmt.Errorf("summary path is required")
	}
	return nil
}
