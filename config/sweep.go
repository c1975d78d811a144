package config

import "fmt"

// SweepConfig parameterizes the capacity grid.
type SweepConfig struct {
	// MinCapacityMWh and MaxCapacityMWh bound the logarithmic grid.
	MinCapacityMWh float64 `json:"min_capacity_mwh"`
	MaxCapacityMWh float64 `json:"max_capacity_mwh"`
	// Points is the grid size.
	Points int `json:"points"`
	// Workers caps concurrent grid evaluations; 1 runs serially.
	Workers int `json:"workers"`
	// IllustrativeCapacityMWh selects the capacity whose shaved curve is
	// exported for visualization.
	IllustrativeCapacityMWh float64 `json:"illustrative_capacity_mwh"`
}

// SetDefaults applies the reference sweep range.
func (c *SweepConfig) SetDefaults() {
	if c.MinCapacityMWh == 0 {
		c.MinCapacityMWh = 100
	}
	if c.MaxCapacityMWh == 0 {
		c.MaxCapacityMWh = 50000
	}
	if c.Points == 0 {
		c.Points = 50
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.IllustrativeCapacityMWh == 0 {
		c.IllustrativeCapacityMWh = 25000
	}
}

// Validate checks the grid ranges.
func (c SweepConfig) Validate() error {
	if c.MinCapacityMWh <= 0 {
		return fmt.Errorf("min_capacity_mwh must be > 0, got %g", c.MinCapacityMWh)
	}
	if c.MaxCapacityMWh <= c.MinCapacityMWh {
		return fmt.Errorf("max_capacity_mwh must exceed min_capacity_mwh")
	}
	if c.Points < 2 {
		return fmt.Errorf("points must be >= 2, got %d", c.Points)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.IllustrativeCapacityMWh < 0 {
		return fmt.Errorf("illustrative_capacity_mwh must be >= 0")
	}
	return nil
}

// FitConfig parameterizes the scaling-law fit.
type FitConfig struct {
	// WithOffset adds the constant floor term to the decay model.
	WithOffset bool `json:"with_offset"`
}
