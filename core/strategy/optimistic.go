package strategy

import (
	"github.com/kilianp07/peakshave/core/loadcurve"
	"github.com/kilianp07/peakshave/core/solver"
)

// Optimistic dispatches with perfect foresight: the storage sheds the top of
// the curve down to the flat ceiling that exhausts its capacity. No policy
// can reach a lower peak with the same energy budget.
type Optimistic struct{}

func (Optimistic) Name() string { return "optimistic" }

func (Optimistic) Dispatch(c *loadcurve.Curve, capacityMWh float64) (Result, error) {
	lvl, err := solver.SolveCeiling(c, capacityMWh)
	if err != nil {
		return Result{}, err
	}
	shaved := c.Samples()
	for i, v := range shaved {
		if v > lvl.ValueMW {
			shaved[i] = lvl.ValueMW
		}
	}
	return Result{PeakMW: lvl.ValueMW, Shaved: shaved, Saturated: lvl.Saturated}, nil
}
