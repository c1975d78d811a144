package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/peakshave/core/metrics"
	"github.com/kilianp07/peakshave/simulator"
)

type Config struct {
	Curve      simulator.Config `json:"curve"`
	Strategies StrategiesConfig `json:"strategies"`
	Sweep      SweepConfig      `json:"sweep"`
	Fit        FitConfig        `json:"fit"`
	Export     ExportConfig     `json:"export"`
	Metrics    metrics.Config   `json:"metrics"`
	Logging    LoggingConfig    `json:"logging"`
}

// Default returns a Config carrying only the documented defaults.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ps_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	c.Curve.SetDefaults()
	c.Strategies.SetDefaults()
	c.Sweep.SetDefaults()
	c.Export.SetDefaults()
	c.Logging.SetDefaults()
	if c.Metrics.PrometheusPort == "" {
		c.Metrics.PrometheusPort = ":2112"
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Curve.Validate(); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if err := c.Strategies.Validate(); err != nil {
		return fmt.Errorf("strategies: %w", err)
	}
	if err := c.Sweep.Validate(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
