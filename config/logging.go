package config

import "fmt"

// LoggingConfig defines the verbosity of the run.
type LoggingConfig struct {
	// Level is the minimum severity emitted: "debug", "info", "warn" or
	// "error".
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown level %s", c.Level)
}
