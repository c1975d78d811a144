package strategy

import (
	"fmt"

	"github.com/kilianp07/peakshave/core/loadcurve"
)

// orderingSlack absorbs float rounding when comparing the three peaks.
const orderingSlack = 1e-8

// OrderingViolationError reports a capacity at which the bound ordering
// optimistic <= expected <= pessimistic broke. It indicates a defect in one
// of the policies, so sweeps abort on it instead of tolerating it.
type OrderingViolationError struct {
	CapacityMWh float64
	PeakOptMW   float64
	PeakExpMW   float64
	PeakPessMW  float64
}

func (e *OrderingViolationError) Error() string {
	return fmt.Sprintf("bound ordering violated at %g MWh: optimistic=%g expected=%g pessimistic=%g",
		e.CapacityMWh, e.PeakOptMW, e.PeakExpMW, e.PeakPessMW)
}

// BoundsResult carries the three dispatch outcomes at one capacity.
type BoundsResult struct {
	CapacityMWh float64
	Optimistic  Result
	Expected    Result
	Pessimistic Result
}

// Bounds evaluates the three policies at a capacity and enforces the
// envelope ordering between them.
type Bounds struct {
	Optimistic  Strategy
	Expected    Strategy
	Pessimistic Strategy
}

// NewBounds assembles the default policy triple from a window and an
// expected-case configuration.
func NewBounds(exp Expected, pess Pessimistic) Bounds {
	return Bounds{Optimistic: Optimistic{}, Expected: exp, Pessimistic: pess}
}

// Evaluate runs the three policies and verifies the ordering invariant.
func (b Bounds) Evaluate(c *loadcurve.Curve, capacityMWh float64) (BoundsResult, error) {
	opt, err := b.Optimistic.Dispatch(c, capacityMWh)
	if err != nil {
		return BoundsResult{}, fmt.Errorf("optimistic dispatch: %w", err)
	}
	exp, err := b.Expected.Dispatch(c, capacityMWh)
	if err != nil {
		return BoundsResult{}, fmt.Errorf("expected dispatch: %w", err)
	}
	pess, err := b.Pessimistic.Dispatch(c, capacityMWh)
	if err != nil {
		return BoundsResult{}, fmt.Errorf("pessimistic dispatch: %w", err)
	}
	if opt.PeakMW > exp.PeakMW+orderingSlack || exp.PeakMW > pess.PeakMW+orderingSlack {
		return BoundsResult{}, &OrderingViolationError{
			CapacityMWh: capacityMWh,
			PeakOptMW:   opt.PeakMW,
			PeakExpMW:   exp.PeakMW,
			PeakPessMW:  pess.PeakMW,
		}
	}
	return BoundsResult{
		CapacityMWh: capacityMWh,
		Optimistic:  opt,
		Expected:    exp,
		Pessimistic: pess,
	}, nil
}
