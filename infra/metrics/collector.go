package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/peakshave/core/events"
	coremetrics "github.com/kilianp07/peakshave/core/metrics"
	"github.com/kilianp07/peakshave/core/strategy"
	"github.com/kilianp07/peakshave/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// sweep events. It stops when the context is canceled. The subscription is
// sized to the sweep so progress points are not dropped under load.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink, points int) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.SubscribeBuffered(points + 2)
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.ProgressEvent:
					now := time.Now()
					_ = sink.RecordSweep([]coremetrics.SweepPoint{
						{RunID: e.RunID, Strategy: "optimistic", CapacityMWh: e.CapacityMWh, PeakMW: e.PeakOptMW, Time: now},
						{RunID: e.RunID, Strategy: "expected", CapacityMWh: e.CapacityMWh, PeakMW: e.PeakExpMW, Time: now},
						{RunID: e.RunID, Strategy: "pessimistic", CapacityMWh: e.CapacityMWh, PeakMW: e.PeakPessMW, Time: now},
					})
				case events.SweepCompletedEvent:
					var ov *strategy.OrderingViolationError
					if errors.As(e.Err, &ov) {
						if r, ok := sink.(coremetrics.ViolationRecorder); ok {
							_ = r.RecordViolation(coremetrics.ViolationEvent{
								RunID:       e.RunID,
								CapacityMWh: ov.CapacityMWh,
								Time:        time.Now(),
							})
						}
					}
					return
				}
			}
		}
	}()
}
