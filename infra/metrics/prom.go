package metrics

import (
	coremetrics "github.com/kilianp07/peakshave/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records experiment events in Prometheus metrics.
type PromSink struct {
	points     *prometheus.CounterVec
	violations prometheus.Counter
	exponent   *prometheus.GaugeVec
	rsquared   *prometheus.GaugeVec
}

// NewPromSink registers experiment metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using StartPromServer.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	points := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "peakshave_sweep_points_total",
		Help: "Total number of sweep points recorded",
	}, []string{"strategy"})
	violations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "peakshave_ordering_violations_total",
		Help: "Number of bound ordering violations that aborted a sweep",
	})
	exponent := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "peakshave_fit_exponent",
		Help: "Decay exponent of the last fitted scaling law",
	}, []string{"strategy"})
	rsquared := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "peakshave_fit_r_squared",
		Help: "Coefficient of determination of the last fitted scaling law",
	}, []string{"strategy"})

	if err := reg.Register(points); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			points = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(violations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			violations = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(exponent); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			exponent = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rsquared); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rsquared = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{points: points, violations: violations, exponent: exponent, rsquared: rsquared}, nil
}

// RecordSweep increments the point counter for each recorded point.
func (s *PromSink) RecordSweep(points []coremetrics.SweepPoint) error {
	for _, p := range points {
		s.points.WithLabelValues(p.Strategy).Inc()
	}
	return nil
}

// RecordFit exposes the last fitted parameters per strategy.
func (s *PromSink) RecordFit(ev coremetrics.FitEvent) error {
	s.exponent.WithLabelValues(ev.Strategy).Set(ev.Exponent)
	s.rsquared.WithLabelValues(ev.Strategy).Set(ev.RSquared)
	return nil
}

// RecordViolation counts ordering violations.
func (s *PromSink) RecordViolation(coremetrics.ViolationEvent) error {
	s.violations.Inc()
	return nil
}
