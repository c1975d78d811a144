package metrics

import "time"

// SweepPoint represents one scaling sample reached by one policy, ready to be
// recorded.
type SweepPoint struct {
	RunID       string
	Strategy    string
	CapacityMWh float64
	PeakMW      float64
	Time        time.Time
}

// Sink records sweep points for observability purposes.
type Sink interface {
	RecordSweep(points []SweepPoint) error
}

// FitEvent captures one fitted scaling law.
type FitEvent struct {
	RunID    string
	Strategy string
	Scale    float64
	Exponent float64
	Offset   float64
	RSquared float64
	Points   int
	Time     time.Time
}

// FitRecorder records fitted scaling laws.
type FitRecorder interface {
	RecordFit(ev FitEvent) error
}

// ViolationEvent captures a bound-ordering violation that aborted a run.
type ViolationEvent struct {
	RunID       string
	CapacityMWh float64
	Time        time.Time
}

// ViolationRecorder records ordering violations.
type ViolationRecorder interface {
	RecordViolation(ev ViolationEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSweep([]SweepPoint) error { return nil }

func (NopSink) RecordFit(FitEvent) error             { return nil }
func (NopSink) RecordViolation(ViolationEvent) error { return nil }
