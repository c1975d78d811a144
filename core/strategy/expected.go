package strategy

import (
	"fmt"

	"github.com/kilianp07/peakshave/core/loadcurve"
)

// Variant selects how the expected case is computed.
type Variant string

const (
	// VariantMean averages the optimistic and pessimistic peaks.
	VariantMean Variant = "mean"
	// VariantDiscounted reruns the optimistic dispatch at a discounted
	// capacity, modeling systematic underutilization from forecast error.
	VariantDiscounted Variant = "discounted"
)

// DefaultDiscountFactor is the effective-capacity fraction used by
// VariantDiscounted when none is configured.
const DefaultDiscountFactor = 0.75

// Expected is a deterministic proxy for real-world performance between the
// optimistic and pessimistic bounds.
type Expected struct {
	Variant        Variant
	DiscountFactor float64
	Window         Pessimistic
}

// NewExpected validates the variant and applies defaults. The window is the
// pessimistic policy the mean variant averages against.
func NewExpected(variant Variant, discount float64, window Pessimistic) (Expected, error) {
	switch variant {
	case "", VariantMean:
		variant = VariantMean
	case VariantDiscounted:
	default:
		return Expected{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	if discount == 0 {
		discount = DefaultDiscountFactor
	}
	if discount <= 0 || discount > 1 {
		return Expected{}, fmt.Errorf("%w: got %g", ErrBadDiscount, discount)
	}
	return Expected{Variant: variant, DiscountFactor: discount, Window: window}, nil
}

func (Expected) Name() string { return "expected" }

func (e Expected) Dispatch(c *loadcurve.Curve, capacityMWh float64) (Result, error) {
	switch e.Variant {
	case "", VariantMean:
		opt, err := Optimistic{}.Dispatch(c, capacityMWh)
		if err != nil {
			return Result{}, err
		}
		pess, err := e.Window.Dispatch(c, capacityMWh)
		if err != nil {
			return Result{}, err
		}
		// The mean of two peaks has no post-dispatch series.
		return Result{PeakMW: 0.5 * (opt.PeakMW + pess.PeakMW), Saturated: opt.Saturated}, nil
	case VariantDiscounted:
		discount := e.DiscountFactor
		if discount == 0 {
			discount = DefaultDiscountFactor
		}
		if discount < 0 || discount > 1 {
			return Result{}, fmt.Errorf("%w: got %g", ErrBadDiscount, discount)
		}
		return Optimistic{}.Dispatch(c, discount*capacityMWh)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownVariant, e.Variant)
	}
}
