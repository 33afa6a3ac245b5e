package config

// OutputConfig defines where the occupancy CSV exports are written. Files
// are overwritten on each run; empty paths disable the export.
type OutputConfig struct {
	// LongForm is the one-row-per-room-per-tick inference export.
	LongForm string `json:"long_form"`
	// WideForm is the one-column-per-room snapshot export.
	WideForm string `json:"wide_form"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.LongForm == "" {
		c.LongForm = "occupancy_long.csv"
	}
	if c.WideForm == "" {
		c.WideForm = "occupancy_wide.csv"
	}
}
