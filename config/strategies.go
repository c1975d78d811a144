package config

import (
	"fmt"

	"github.com/kilianp07/peakshave/core/strategy"
)

// StrategiesConfig parameterizes the dispatch policy triple.
type StrategiesConfig struct {
	// WindowStartHour is the hour of day the pessimistic discharge block
	// starts at.
	WindowStartHour float64 `json:"window_start_hour"`
	// WindowHours is the block duration in hours.
	WindowHours float64 `json:"window_hours"`
	// ExpectedVariant selects the middle-case policy: "mean" or "discounted".
	ExpectedVariant string `json:"expected_variant"`
	// DiscountFactor is the effective-capacity fraction of the discounted
	// variant.
	DiscountFactor float64 `json:"discount_factor"`
}

// SetDefaults applies the reference evening block and the mean variant.
func (c *StrategiesConfig) SetDefaults() {
	if c.WindowStartHour == 0 {
		c.WindowStartHour = 17
	}
	if c.WindowHours == 0 {
		c.WindowHours = 4
	}
	if c.ExpectedVariant == "" {
		c.ExpectedVariant = string(strategy.VariantMean)
	}
	if c.DiscountFactor == 0 {
		c.DiscountFactor = strategy.DefaultDiscountFactor
	}
}

// Validate checks the window and variant settings.
func (c StrategiesConfig) Validate() error {
	if c.WindowHours <= 0 || c.WindowHours > 24 {
		return fmt.Errorf("window_hours must be within (0, 24], got %g", c.WindowHours)
	}
	switch strategy.Variant(c.ExpectedVariant) {
	case strategy.VariantMean, strategy.VariantDiscounted:
	default:
		return fmt.Errorf("unknown expected_variant %q", c.ExpectedVariant)
	}
	if c.DiscountFactor <= 0 || c.DiscountFactor > 1 {
		return fmt.Errorf("discount_factor must be within (0, 1], got %g", c.DiscountFactor)
	}
	return nil
}

// Bounds assembles the policy triple described by the section.
func (c StrategiesConfig) Bounds() (strategy.Bounds, error) {
	pess, err := strategy.NewPessimistic(c.WindowStartHour, c.WindowHours)
	if err != nil {
		return strategy.Bounds{}, err
	}
	exp, err := strategy.NewExpected(strategy.Variant(c.ExpectedVariant), c.DiscountFactor, pess)
	if err != nil {
		return strategy.Bounds{}, err
	}
	return strategy.NewBounds(exp, pess), nil
}
