package loadcurve

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name    string
		samples []float64
		dt      float64
		want    error
	}{
		{"empty", nil, 1, ErrNoSamples},
		{"zero step", []float64{1, 2}, 0, ErrBadStep},
		{"negative step", []float64{1, 2}, -0.5, ErrBadStep},
		{"nan step", []float64{1, 2}, math.NaN(), ErrBadStep},
		{"negative sample", []float64{1, -2}, 1, ErrBadSample},
		{"nan sample", []float64{math.NaN()}, 1, ErrBadSample},
		{"inf sample", []float64{math.Inf(1)}, 1, ErrBadSample},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.samples, tc.dt); !errors.Is(err, tc.want) {
				t.Fatalf("New() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCurveAccessors(t *testing.T) {
	c, err := New([]float64{2, 8, 4, 6}, 0.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Len(); got != 4 {
		t.Errorf("Len = %d, want 4", got)
	}
	if got := c.PeakMW(); got != 8 {
		t.Errorf("PeakMW = %v, want 8", got)
	}
	if got := c.TroughMW(); got != 2 {
		t.Errorf("TroughMW = %v, want 2", got)
	}
	if got := c.TotalEnergyMWh(); got != 10 {
		t.Errorf("TotalEnergyMWh = %v, want 10", got)
	}
	if got := c.SpanHours(); got != 2 {
		t.Errorf("SpanHours = %v, want 2", got)
	}
	if got := c.HourAt(3); got != 1.5 {
		t.Errorf("HourAt(3) = %v, want 1.5", got)
	}
}

func TestCurveImmutable(t *testing.T) {
	in := []float64{1, 2, 3}
	c, err := New(in, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in[0] = 99
	if got := c.At(0); got != 1 {
		t.Errorf("curve tracked caller slice: At(0) = %v, want 1", got)
	}
	out := c.Samples()
	out[1] = 99
	if got := c.At(1); got != 2 {
		t.Errorf("curve tracked returned slice: At(1) = %v, want 2", got)
	}
}

func TestDailySpansDay(t *testing.T) {
	c, err := Daily(make([]float64, 96))
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if got := c.SpanHours(); math.Abs(got-24) > 1e-12 {
		t.Errorf("SpanHours = %v, want 24", got)
	}
	if got := c.DTHours(); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("DTHours = %v, want 0.25", got)
	}
}
