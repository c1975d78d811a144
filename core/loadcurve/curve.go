package loadcurve

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoSamples is returned when a curve is built without samples.
	ErrNoSamples = errors.New("load curve has no samples")
	// ErrBadStep is returned when the sampling interval is not a positive finite number.
	ErrBadStep = errors.New("load curve step must be a positive number of hours")
	// ErrBadSample is returned when a sample is negative, NaN or infinite.
	ErrBadSample = errors.New("load curve samples must be finite and non-negative")
)

// Curve is a load profile: power samples in MW taken at a fixed interval,
// starting at hour zero. A Curve is immutable once constructed.
type Curve struct {
	samples []float64
	dtHours float64
}

// New validates the samples and copies them into a Curve.
func New(samples []float64, dtHours float64) (*Curve, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if dtHours <= 0 || math.IsNaN(dtHours) || math.IsInf(dtHours, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrBadStep, dtHours)
	}
	for i, v := range samples {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: sample %d is %v", ErrBadSample, i, v)
		}
	}
	c := &Curve{samples: make([]float64, len(samples)), dtHours: dtHours}
	copy(c.samples, samples)
	return c, nil
}

// Daily builds a Curve whose samples span exactly 24 hours.
func Daily(samples []float64) (*Curve, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return New(samples, 24/float64(len(samples)))
}

// Len returns the number of samples.
func (c *Curve) Len() int { return len(c.samples) }

// DTHours returns the sampling interval in hours.
func (c *Curve) DTHours() float64 { return c.dtHours }

// At returns the sample at index i.
func (c *Curve) At(i int) float64 { return c.samples[i] }

// HourAt returns the hour-of-day at which sample i was taken.
func (c *Curve) HourAt(i int) float64 { return float64(i) * c.dtHours }

// Samples returns a copy of the sample values.
func (c *Curve) Samples() []float64 {
	out := make([]float64, len(c.samples))
	copy(out, c.samples)
	return out
}

// PeakMW returns the highest sample.
func (c *Curve) PeakMW() float64 { return floats.Max(c.samples) }

// TroughMW returns the lowest sample.
func (c *Curve) TroughMW() float64 { return floats.Min(c.samples) }

// TotalEnergyMWh integrates the curve over its full span.
func (c *Curve) TotalEnergyMWh() float64 { return floats.Sum(c.samples) * c.dtHours }

// SpanHours returns the duration covered by the samples.
func (c *Curve) SpanHours() float64 { return float64(len(c.samples)) * c.dtHours }
