package metrics

// MultiSink fanouts sweep points to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSweep forwards the points to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSweep(points []SweepPoint) error {
	for _, s := range m.Sinks {
		if err := s.RecordSweep(points); err != nil {
			return err
		}
	}
	return nil
}

// RecordFit forwards fit events when supported by the sink.
func (m *MultiSink) RecordFit(ev FitEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FitRecorder); ok {
			if err := rec.RecordFit(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordViolation forwards violation events when supported by the sink.
func (m *MultiSink) RecordViolation(ev ViolationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ViolationRecorder); ok {
			if err := rec.RecordViolation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
