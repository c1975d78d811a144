// Package sweep runs the three dispatch policies across a capacity grid and
// collects one scaling record sequence per policy.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/peakshave/core/events"
	"github.com/kilianp07/peakshave/core/loadcurve"
	"github.com/kilianp07/peakshave/core/logger"
	"github.com/kilianp07/peakshave/core/strategy"
	"github.com/kilianp07/peakshave/internal/eventbus"
)

var (
	// ErrBadGrid is returned for an unusable capacity range.
	ErrBadGrid = errors.New("capacity grid needs at least 2 points and 0 < min < max")
	// ErrNoCurve is returned when an experiment is run without a load curve.
	ErrNoCurve = errors.New("sweep needs a load curve")
	// ErrNoCapacities is returned when an experiment is run with an empty grid.
	ErrNoCapacities = errors.New("sweep needs at least one capacity")
)

// Record is one scaling sample: the residual peak reached at a capacity.
type Record struct {
	CapacityMWh float64 `json:"capacity_mwh"`
	PeakMW      float64 `json:"peak_mw"`
}

// Grid returns n logarithmically spaced capacities from minMWh to maxMWh,
// both included, in increasing order.
func Grid(minMWh, maxMWh float64, n int) ([]float64, error) {
	if n < 2 || minMWh <= 0 || maxMWh <= minMWh {
		return nil, fmt.Errorf("%w: min=%g max=%g n=%d", ErrBadGrid, minMWh, maxMWh, n)
	}
	return floats.LogSpan(make([]float64, n), minMWh, maxMWh), nil
}

// StrategySeries pairs a policy name with its scaling records.
type StrategySeries struct {
	Name    string
	Records []Record
}

// Results holds the per-policy records of one run, index-aligned with
// Capacities.
type Results struct {
	RunID       string
	Capacities  []float64
	Optimistic  []Record
	Expected    []Record
	Pessimistic []Record
}

// Series returns the three record sequences in envelope order.
func (r *Results) Series() []StrategySeries {
	return []StrategySeries{
		{Name: "optimistic", Records: r.Optimistic},
		{Name: "expected", Records: r.Expected},
		{Name: "pessimistic", Records: r.Pessimistic},
	}
}

// Experiment sweeps the bounds triple across a capacity grid. Every grid
// point is independent and stateless, so points may be evaluated in any
// order or concurrently without changing the outcome.
type Experiment struct {
	Curve      *loadcurve.Curve
	Bounds     strategy.Bounds
	Capacities []float64
	// Workers caps the number of concurrent evaluations. Zero or one runs
	// the sweep serially; the output is identical either way.
	Workers int
	// Bus, when set, receives SweepStarted, Progress and SweepCompleted
	// events for the run.
	Bus eventbus.EventBus
	Log logger.Logger
}

// Run evaluates every capacity and returns the per-policy records. Results
// are written by grid index. The first evaluation error, including an
// ordering violation, cancels the remaining points and is returned.
func (e *Experiment) Run(ctx context.Context) (*Results, error) {
	if e.Curve == nil {
		return nil, ErrNoCurve
	}
	if len(e.Capacities) == 0 {
		return nil, ErrNoCapacities
	}
	n := len(e.Capacities)
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	res := &Results{
		RunID:       uuid.NewString(),
		Capacities:  append([]float64(nil), e.Capacities...),
		Optimistic:  make([]Record, n),
		Expected:    make([]Record, n),
		Pessimistic: make([]Record, n),
	}
	e.publish(events.SweepStartedEvent{RunID: res.RunID, Points: n, Workers: workers})
	e.infof("sweep %s: %d capacities in [%g, %g] MWh on %d workers",
		res.RunID, n, res.Capacities[0], res.Capacities[n-1], workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := 0; i < n; i++ {
			select {
			case indexes <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				if err := e.evaluate(ctx, res, i); err != nil {
					fail(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	e.publish(events.SweepCompletedEvent{RunID: res.RunID, Err: firstErr})
	if firstErr != nil {
		e.infof("sweep %s aborted: %v", res.RunID, firstErr)
		return nil, firstErr
	}
	e.infof("sweep %s completed", res.RunID)
	return res, nil
}

func (e *Experiment) evaluate(ctx context.Context, res *Results, i int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	capacity := res.Capacities[i]
	br, err := e.Bounds.Evaluate(e.Curve, capacity)
	if err != nil {
		return fmt.Errorf("sweep point %d: %w", i, err)
	}
	res.Optimistic[i] = Record{CapacityMWh: capacity, PeakMW: br.Optimistic.PeakMW}
	res.Expected[i] = Record{CapacityMWh: capacity, PeakMW: br.Expected.PeakMW}
	res.Pessimistic[i] = Record{CapacityMWh: capacity, PeakMW: br.Pessimistic.PeakMW}
	e.publish(events.ProgressEvent{
		RunID:       res.RunID,
		Index:       i,
		CapacityMWh: capacity,
		PeakOptMW:   br.Optimistic.PeakMW,
		PeakExpMW:   br.Expected.PeakMW,
		PeakPessMW:  br.Pessimistic.PeakMW,
	})
	e.debugf("capacity %.2f MWh: opt=%.2f exp=%.2f pess=%.2f MW",
		capacity, br.Optimistic.PeakMW, br.Expected.PeakMW, br.Pessimistic.PeakMW)
	return nil
}

func (e *Experiment) publish(ev eventbus.Event) {
	if e.Bus != nil {
		e.Bus.Publish(ev)
	}
}

func (e *Experiment) infof(format string, args ...any) {
	if e.Log != nil {
		e.Log.Infof(format, args...)
	}
}

func (e *Experiment) debugf(format string, args ...any) {
	if e.Log != nil {
		e.Log.Debugf(format, args...)
	}
}
