package metrics

// Package metrics defines interfaces and implementations for recording
// experiment results. Sinks like PromSink and InfluxSink record sweep points
// and fitted scaling laws and can be combined with NewMultiSink. The factory
// helpers return a MultiSink automatically when multiple sinks are
// configured.
