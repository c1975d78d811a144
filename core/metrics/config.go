package metrics

import "github.com/kilianp07/peakshave/core/factory"

// Config defines settings for experiment sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is the listen address of the scrape endpoint, used only
	// when a prometheus sink is configured.
	PrometheusPort string `json:"prometheus_port"`
}
