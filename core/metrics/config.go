package metrics

import "github.com/kilianp07/occusim/core/factory"

// Config defines settings for metrics sinks. Each entry in Sinks names a
// registered sink type ("nop", "prometheus", "influx", "mqtt") with its raw
// settings.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusPort string                 `json:"prometheus_port"`
}

// SetDefaults applies the default Prometheus scrape address. The value is a
// listen address, so the port carries its leading colon.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
