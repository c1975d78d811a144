package config

import "fmt"

// ExportConfig defines where and how run artifacts are written.
type ExportConfig struct {
	// Dir is the output directory, created when missing.
	Dir string `json:"dir"`
	// Formats lists the serializations to write: "csv", "json".
	Formats []string `json:"formats"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"csv"}
	}
}

// Validate checks the requested formats.
func (c ExportConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	for _, f := range c.Formats {
		if f != "csv" && f != "json" {
			return fmt.Errorf("unknown format %s", f)
		}
	}
	return nil
}

// Wants reports whether the given format was requested.
func (c ExportConfig) Wants(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}
