// Package events defines the experiment related events emitted on the event bus.
//
// Available event types:
//   - SweepStartedEvent: a capacity sweep began
//   - ProgressEvent: one grid point finished
//   - SweepCompletedEvent: the sweep ended, successfully or not
package events
