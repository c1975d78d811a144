package simulator

import "fmt"

// Config holds parameters for synthetic load curve generation. The
// defaults reproduce a classic duck curve: a morning-to-evening ramp
// with a midday solar dip, peaking at hour 18.
type Config struct {
	Points          int     `json:"points"`
	BaseMW          float64 `json:"base_mw"`
	EveningSwingMW  float64 `json:"evening_swing_mw"`
	SolarDipMW      float64 `json:"solar_dip_mw"`
	PhaseShiftHours float64 `json:"phase_shift_hours"`
	JitterPct       float64 `json:"jitter_pct"`
	Seed            int64   `json:"seed"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.Points <= 0 {
		c.Points = 1000
	}
	if c.BaseMW == 0 {
		c.BaseMW = 12000
	}
	if c.EveningSwingMW == 0 {
		c.EveningSwingMW = 6000
	}
	if c.SolarDipMW == 0 {
		c.SolarDipMW = 4000
	}
	if c.PhaseShiftHours == 0 {
		c.PhaseShiftHours = -12
	}
}

// Validate checks the configuration ranges.
func (c Config) Validate() error {
	if c.Points < 2 {
		return fmt.Errorf("points must be >= 2")
	}
	if c.BaseMW < 0 {
		return fmt.Errorf("base_mw must be >= 0")
	}
	if c.EveningSwingMW < 0 {
		return fmt.Errorf("evening_swing_mw must be >= 0")
	}
	if c.SolarDipMW < 0 {
		return fmt.Errorf("solar_dip_mw must be >= 0")
	}
	if c.JitterPct < 0 || c.JitterPct > 1 {
		return fmt.Errorf("jitter_pct must be within [0,1]")
	}
	return nil
}
