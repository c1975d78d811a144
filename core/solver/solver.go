// Package solver finds the flat power level at which a storage device of a
// given energy capacity exactly absorbs the top (or fills the bottom) of a
// load curve.
package solver

import (
	"errors"
	"fmt"
	"math"

	"github.com/kilianp07/peakshave/core/loadcurve"
)

// ErrNegativeCapacity rejects a negative energy budget before any solving begins.
var ErrNegativeCapacity = errors.New("storage capacity must be non-negative")

const (
	// relTol bounds |energyAt(level) - capacity| relative to capacity.
	relTol = 1e-9
	// maxIter caps the bisection; the bracket collapses to adjacent floats
	// long before this.
	maxIter = 200
)

// Level is the outcome of a ceiling or floor solve.
type Level struct {
	// ValueMW is the solved flat power level.
	ValueMW float64
	// Saturated reports that the budget meets or exceeds everything the curve
	// can give, so the level rests on the curve extreme instead of a root.
	Saturated bool
}

// EnergyAbove returns the energy in MWh between the curve and a flat ceiling,
// counting only samples above it. It is continuous, piecewise linear and
// non-increasing in the ceiling.
func EnergyAbove(c *loadcurve.Curve, ceilingMW float64) float64 {
	var sum float64
	for i := 0; i < c.Len(); i++ {
		if v := c.At(i); v > ceilingMW {
			sum += v - ceilingMW
		}
	}
	return sum * c.DTHours()
}

// EnergyBelow returns the energy in MWh between a flat floor and the curve,
// counting only samples below it. It is continuous, piecewise linear and
// non-decreasing in the floor.
func EnergyBelow(c *loadcurve.Curve, floorMW float64) float64 {
	var sum float64
	for i := 0; i < c.Len(); i++ {
		if v := c.At(i); v < floorMW {
			sum += floorMW - v
		}
	}
	return sum * c.DTHours()
}

// SolveCeiling finds the ceiling that sheds exactly capacityMWh when the
// curve is clipped to it. A zero capacity leaves the peak untouched; a
// capacity at or beyond the energy above the trough flattens the curve
// completely and reports saturation.
func SolveCeiling(c *loadcurve.Curve, capacityMWh float64) (Level, error) {
	if capacityMWh < 0 {
		return Level{}, fmt.Errorf("%w: got %g MWh", ErrNegativeCapacity, capacityMWh)
	}
	peak := c.PeakMW()
	if capacityMWh == 0 {
		return Level{ValueMW: peak}, nil
	}
	trough := c.TroughMW()
	if EnergyAbove(c, trough) <= capacityMWh {
		return Level{ValueMW: trough, Saturated: true}, nil
	}
	value := bisect(capacityMWh, trough, peak, func(level float64) float64 {
		return EnergyAbove(c, level)
	}, true)
	return Level{ValueMW: value}, nil
}

// SolveFloor finds the floor that absorbs exactly energyMWh when the curve is
// raised to it, the recharge counterpart of SolveCeiling. A zero energy
// leaves the trough untouched; an energy at or beyond the gap below the peak
// flattens the curve completely and reports saturation.
func SolveFloor(c *loadcurve.Curve, energyMWh float64) (Level, error) {
	if energyMWh < 0 {
		return Level{}, fmt.Errorf("%w: got %g MWh", ErrNegativeCapacity, energyMWh)
	}
	trough := c.TroughMW()
	if energyMWh == 0 {
		return Level{ValueMW: trough}, nil
	}
	peak := c.PeakMW()
	if EnergyBelow(c, peak) <= energyMWh {
		return Level{ValueMW: peak, Saturated: true}, nil
	}
	value := bisect(energyMWh, trough, peak, func(level float64) float64 {
		return EnergyBelow(c, level)
	}, false)
	return Level{ValueMW: value}, nil
}

// bisect narrows [lo, hi] until energyAt(mid) matches target within relTol.
// decreasing states whether energyAt falls as the level rises.
func bisect(target, lo, hi float64, energyAt func(float64) float64, decreasing bool) float64 {
	mid := 0.5 * (lo + hi)
	for i := 0; i < maxIter; i++ {
		mid = 0.5 * (lo + hi)
		if mid == lo || mid == hi {
			break
		}
		got := energyAt(mid)
		if math.Abs(got-target) <= relTol*target {
			return mid
		}
		if (got > target) == decreasing {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid
}
