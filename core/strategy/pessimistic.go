package strategy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/peakshave/core/loadcurve"
	"github.com/kilianp07/peakshave/core/solver"
)

// Pessimistic models an operator without foresight who commits to discharging
// the full capacity at constant power across a fixed daily window. Discharge
// landing outside the true peak is wasted; residual values are not clipped,
// so over-discharge inside the window can push them below zero.
type Pessimistic struct {
	// WindowStartHour is the hour of day the discharge block starts at.
	WindowStartHour float64
	// WindowHours is the block duration. The window may wrap past midnight.
	WindowHours float64
}

// NewPessimistic validates the window parameters.
func NewPessimistic(startHour, hours float64) (Pessimistic, error) {
	if hours <= 0 || hours > 24 || math.IsNaN(hours) {
		return Pessimistic{}, fmt.Errorf("%w: got %g h", ErrBadWindow, hours)
	}
	if math.IsNaN(startHour) || math.IsInf(startHour, 0) {
		return Pessimistic{}, fmt.Errorf("%w: start hour is %g", ErrBadWindow, startHour)
	}
	return Pessimistic{WindowStartHour: startHour, WindowHours: hours}, nil
}

func (Pessimistic) Name() string { return "pessimistic" }

func (p Pessimistic) Dispatch(c *loadcurve.Curve, capacityMWh float64) (Result, error) {
	if capacityMWh < 0 {
		return Result{}, fmt.Errorf("%w: got %g MWh", solver.ErrNegativeCapacity, capacityMWh)
	}
	if p.WindowHours <= 0 || p.WindowHours > 24 {
		return Result{}, fmt.Errorf("%w: got %g h", ErrBadWindow, p.WindowHours)
	}
	shaved := c.Samples()
	if capacityMWh == 0 {
		return Result{PeakMW: c.PeakMW(), Shaved: shaved}, nil
	}
	rate := capacityMWh / p.WindowHours
	for i := range shaved {
		if p.inWindow(c.HourAt(i)) {
			shaved[i] -= rate
		}
	}
	return Result{PeakMW: floats.Max(shaved), Shaved: shaved}, nil
}

// inWindow reports whether the given hour of day falls inside the discharge
// block, handling windows that wrap past midnight.
func (p Pessimistic) inWindow(hour float64) bool {
	start := math.Mod(p.WindowStartHour, 24)
	if start < 0 {
		start += 24
	}
	end := start + p.WindowHours
	if end <= 24 {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end-24
}
