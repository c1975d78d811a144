package strategy

import (
	"errors"
	"testing"

	"github.com/kilianp07/peakshave/core/loadcurve"
)

type fixedPeak struct {
	name string
	peak float64
}

func (f fixedPeak) Name() string { return f.name }

func (f fixedPeak) Dispatch(*loadcurve.Curve, float64) (Result, error) {
	return Result{PeakMW: f.peak}, nil
}

func TestBoundsOrderingHolds(t *testing.T) {
	c := duckCurve(t)
	window, err := NewPessimistic(17, 4)
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	for _, variant := range []Variant{VariantMean, VariantDiscounted} {
		exp, err := NewExpected(variant, 0, window)
		if err != nil {
			t.Fatalf("NewExpected(%s): %v", variant, err)
		}
		b := NewBounds(exp, window)
		for _, capacity := range []float64{0, 100, 1000, 5000, 20000, 50000} {
			res, err := b.Evaluate(c, capacity)
			if err != nil {
				t.Fatalf("variant %s, capacity %v: %v", variant, capacity, err)
			}
			if res.Optimistic.PeakMW > res.Expected.PeakMW+orderingSlack ||
				res.Expected.PeakMW > res.Pessimistic.PeakMW+orderingSlack {
				t.Errorf("variant %s, capacity %v: peaks out of order: %v %v %v",
					variant, capacity, res.Optimistic.PeakMW, res.Expected.PeakMW, res.Pessimistic.PeakMW)
			}
		}
	}
}

func TestBoundsOrderingViolation(t *testing.T) {
	c := duckCurve(t)
	b := Bounds{
		Optimistic:  fixedPeak{"optimistic", 3},
		Expected:    fixedPeak{"expected", 2},
		Pessimistic: fixedPeak{"pessimistic", 1},
	}
	_, err := b.Evaluate(c, 1234)
	var ov *OrderingViolationError
	if !errors.As(err, &ov) {
		t.Fatalf("error = %v, want *OrderingViolationError", err)
	}
	if ov.CapacityMWh != 1234 {
		t.Errorf("CapacityMWh = %v, want 1234", ov.CapacityMWh)
	}
	if ov.PeakOptMW != 3 || ov.PeakExpMW != 2 || ov.PeakPessMW != 1 {
		t.Errorf("peaks = %v %v %v, want 3 2 1", ov.PeakOptMW, ov.PeakExpMW, ov.PeakPessMW)
	}
}

func TestBoundsPropagatesDispatchError(t *testing.T) {
	c := duckCurve(t)
	window, err := NewPessimistic(17, 4)
	if err != nil {
		t.Fatalf("NewPessimistic: %v", err)
	}
	exp, err := NewExpected(VariantMean, 0, window)
	if err != nil {
		t.Fatalf("NewExpected: %v", err)
	}
	b := NewBounds(exp, window)
	if _, err := b.Evaluate(c, -1); err == nil {
		t.Fatal("Evaluate(-1) returned nil error")
	}
}
