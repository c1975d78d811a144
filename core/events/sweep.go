package events

// SweepStartedEvent is published when a capacity sweep begins.
type SweepStartedEvent struct {
	RunID   string
	Points  int
	Workers int
}

// ProgressEvent is published after each evaluated grid point. Points may
// finish out of order when the sweep runs on several workers; Index ties the
// event back to its capacity.
type ProgressEvent struct {
	RunID       string
	Index       int
	CapacityMWh float64
	PeakOptMW   float64
	PeakExpMW   float64
	PeakPessMW  float64
}

// SweepCompletedEvent is published when the sweep ends. Err is nil on
// success.
type SweepCompletedEvent struct {
	RunID string
	Err   error
}
