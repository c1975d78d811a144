package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/peakshave/core/metrics"
	"github.com/kilianp07/peakshave/infra/logger"
)

// InfluxSink writes experiment results to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSweep writes the sweep points as line protocol events.
func (s *InfluxSink) RecordSweep(points []coremetrics.SweepPoint) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range points {
		p := write.NewPointWithMeasurement("sweep_point").
			AddTag("run_id", r.RunID).
			AddTag("strategy", r.Strategy).
			AddField("capacity_mwh", round3(r.CapacityMWh)).
			AddField("peak_mw", round3(r.PeakMW)).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordFit writes a fitted scaling law.
func (s *InfluxSink) RecordFit(ev coremetrics.FitEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("scaling_fit").
		AddTag("run_id", ev.RunID).
		AddTag("strategy", ev.Strategy).
		AddField("scale", round3(ev.Scale)).
		AddField("exponent", ev.Exponent).
		AddField("offset", round3(ev.Offset)).
		AddField("r_squared", ev.RSquared).
		AddField("points", ev.Points).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordViolation writes an ordering violation marker.
func (s *InfluxSink) RecordViolation(ev coremetrics.ViolationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("ordering_violation").
		AddTag("run_id", ev.RunID).
		AddField("capacity_mwh", round3(ev.CapacityMWh)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying HTTP client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
