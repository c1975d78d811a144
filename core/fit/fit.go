// Package fit estimates the power-law scaling of residual peaks against
// storage capacity.
package fit

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/peakshave/core/sweep"
)

var (
	// ErrDegenerate is returned when the records cannot support a fit: fewer
	// than 3 distinct capacities, non-positive values, or flat peaks.
	ErrDegenerate = errors.New("power-law fit needs at least 3 distinct positive capacities with varying positive peaks")
	// ErrNonConvergence is returned when the least-squares refinement fails.
	ErrNonConvergence = errors.New("power-law fit did not converge")
)

// Fit is a fitted scaling law peak = Scale * capacity^(-Exponent) + Offset.
type Fit struct {
	Scale    float64 `json:"scale"`
	Exponent float64 `json:"exponent"`
	Offset   float64 `json:"offset"`
	RSquared float64 `json:"r_squared"`
}

// Eval returns the model value at the given capacity.
func (f Fit) Eval(capacityMWh float64) float64 {
	return f.Scale*math.Pow(capacityMWh, -f.Exponent) + f.Offset
}

// Options tunes PowerLaw.
type Options struct {
	// WithOffset adds the constant floor term to the model.
	WithOffset bool
}

// PowerLaw fits the decay model to the records by nonlinear least squares.
// The model parameters are optimized in log space, which keeps them strictly
// positive. The initial guess comes from a log-log linear regression, or from
// the first/last-peak heuristic when the offset term is enabled.
func PowerLaw(records []sweep.Record, opts Options) (Fit, error) {
	caps, peaks, err := clean(records)
	if err != nil {
		return Fit{}, err
	}

	x0 := initialGuess(caps, peaks, opts.WithOffset)
	problem := optimize.Problem{Func: objective(caps, peaks, opts.WithOffset)}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: 1e-12, Relative: 1e-12, Iterations: 100},
	}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil {
		return Fit{}, fmt.Errorf("%w: %v", ErrNonConvergence, err)
	}
	switch result.Status {
	case optimize.Success, optimize.FunctionThreshold, optimize.FunctionConvergence,
		optimize.GradientThreshold, optimize.StepConvergence, optimize.MethodConverge:
	default:
		return Fit{}, fmt.Errorf("%w: status %v", ErrNonConvergence, result.Status)
	}

	f := Fit{Scale: math.Exp(result.X[0]), Exponent: math.Exp(result.X[1])}
	if opts.WithOffset {
		f.Offset = math.Exp(result.X[2])
	}
	if !isFinite(f.Scale) || !isFinite(f.Exponent) || !isFinite(f.Offset) {
		return Fit{}, fmt.Errorf("%w: non-finite parameters", ErrNonConvergence)
	}

	estimates := make([]float64, len(caps))
	for i, c := range caps {
		estimates[i] = f.Eval(c)
	}
	f.RSquared = stat.RSquaredFrom(estimates, peaks, nil)
	if math.IsNaN(f.RSquared) {
		return Fit{}, fmt.Errorf("%w: undefined r-squared", ErrNonConvergence)
	}
	return f, nil
}

// clean validates the records and returns them sorted by ascending capacity.
func clean(records []sweep.Record) (caps, peaks []float64, err error) {
	if len(records) < 3 {
		return nil, nil, fmt.Errorf("%w: got %d records", ErrDegenerate, len(records))
	}
	sorted := make([]sweep.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CapacityMWh < sorted[j].CapacityMWh })

	caps = make([]float64, len(sorted))
	peaks = make([]float64, len(sorted))
	distinct := 1
	for i, r := range sorted {
		if r.CapacityMWh <= 0 || !isFinite(r.CapacityMWh) {
			return nil, nil, fmt.Errorf("%w: capacity %v at record %d", ErrDegenerate, r.CapacityMWh, i)
		}
		if r.PeakMW <= 0 || !isFinite(r.PeakMW) {
			return nil, nil, fmt.Errorf("%w: peak %v at record %d", ErrDegenerate, r.PeakMW, i)
		}
		if i > 0 && r.CapacityMWh != sorted[i-1].CapacityMWh {
			distinct++
		}
		caps[i] = r.CapacityMWh
		peaks[i] = r.PeakMW
	}
	if distinct < 3 {
		return nil, nil, fmt.Errorf("%w: only %d distinct capacities", ErrDegenerate, distinct)
	}
	minPeak, maxPeak := peaks[0], peaks[0]
	for _, p := range peaks[1:] {
		minPeak = math.Min(minPeak, p)
		maxPeak = math.Max(maxPeak, p)
	}
	if minPeak == maxPeak {
		return nil, nil, fmt.Errorf("%w: peaks are flat at %v", ErrDegenerate, minPeak)
	}
	return caps, peaks, nil
}

// initialGuess seeds the optimizer. Without offset it linearizes the model in
// log-log space; with offset it uses the first-minus-last heuristic with the
// last peak as the floor.
func initialGuess(caps, peaks []float64, withOffset bool) []float64 {
	n := len(caps)
	if withOffset {
		a0 := peaks[0] - peaks[n-1]
		if a0 <= 0 {
			a0 = math.Max(peaks[0], 1)
		}
		return []float64{math.Log(a0), math.Log(0.6), math.Log(peaks[n-1])}
	}
	logC := make([]float64, n)
	logP := make([]float64, n)
	for i := range caps {
		logC[i] = math.Log(caps[i])
		logP[i] = math.Log(peaks[i])
	}
	intercept, slope := stat.LinearRegression(logC, logP, nil, false)
	alpha0 := -slope
	if alpha0 <= 0 || !isFinite(alpha0) {
		alpha0 = 1e-3
	}
	a0 := math.Exp(intercept)
	if a0 <= 0 || !isFinite(a0) {
		a0 = peaks[0]
	}
	return []float64{math.Log(a0), math.Log(alpha0)}
}

func objective(caps, peaks []float64, withOffset bool) func([]float64) float64 {
	return func(x []float64) float64 {
		a := math.Exp(x[0])
		alpha := math.Exp(x[1])
		var b float64
		if withOffset {
			b = math.Exp(x[2])
		}
		var sse float64
		for i := range caps {
			d := a*math.Pow(caps[i], -alpha) + b - peaks[i]
			sse += d * d
		}
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return math.MaxFloat64
		}
		return sse
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
