// Package strategy implements the dispatch policies whose residual peaks
// bound what a storage device of a given capacity achieves on a load curve.
package strategy

import (
	"errors"

	"github.com/kilianp07/peakshave/core/loadcurve"
)

var (
	// ErrBadWindow is returned when a discharge window is not within (0, 24] hours.
	ErrBadWindow = errors.New("discharge window must be positive and at most 24 hours")
	// ErrBadDiscount is returned when a capacity discount factor is outside (0, 1].
	ErrBadDiscount = errors.New("capacity discount factor must be in (0, 1]")
	// ErrUnknownVariant is returned for an unrecognized expected-case variant.
	ErrUnknownVariant = errors.New("unknown expected-case variant")
)

// Strategy dispatches a storage device of the given energy capacity against a
// load curve and reports the residual peak.
type Strategy interface {
	Name() string
	Dispatch(c *loadcurve.Curve, capacityMWh float64) (Result, error)
}

// Result is the outcome of one dispatch.
type Result struct {
	// PeakMW is the highest residual load after dispatch.
	PeakMW float64
	// Shaved is the post-dispatch series in MW at the input spacing. Policies
	// that do not clip over-discharge may leave negative values; policies
	// without a physical series leave it nil.
	Shaved []float64
	// Saturated reports that the capacity exceeded what the policy could use.
	Saturated bool
}
