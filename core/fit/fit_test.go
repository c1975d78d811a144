package fit

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/peakshave/core/sweep"
)

func synth(t *testing.T, a, alpha, b float64, n int) []sweep.Record {
	t.Helper()
	caps := floats.LogSpan(make([]float64, n), 100, 50000)
	records := make([]sweep.Record, n)
	for i, c := range caps {
		records[i] = sweep.Record{CapacityMWh: c, PeakMW: a*math.Pow(c, -alpha) + b}
	}
	return records
}

func relErr(got, want float64) float64 {
	return math.Abs(got-want) / math.Abs(want)
}

func TestPowerLawRoundTrip(t *testing.T) {
	records := synth(t, 21000, 0.35, 0, 30)
	f, err := PowerLaw(records, Options{})
	if err != nil {
		t.Fatalf("PowerLaw: %v", err)
	}
	if relErr(f.Scale, 21000) > 1e-4 {
		t.Errorf("Scale = %v, want 21000", f.Scale)
	}
	if relErr(f.Exponent, 0.35) > 1e-4 {
		t.Errorf("Exponent = %v, want 0.35", f.Exponent)
	}
	if f.Offset != 0 {
		t.Errorf("Offset = %v, want 0", f.Offset)
	}
	if f.RSquared < 0.9999 {
		t.Errorf("RSquared = %v, want about 1", f.RSquared)
	}
}

func TestPowerLawRoundTripWithOffset(t *testing.T) {
	records := synth(t, 15000, 0.5, 5000, 30)
	f, err := PowerLaw(records, Options{WithOffset: true})
	if err != nil {
		t.Fatalf("PowerLaw: %v", err)
	}
	if relErr(f.Scale, 15000) > 2e-2 {
		t.Errorf("Scale = %v, want 15000", f.Scale)
	}
	if relErr(f.Exponent, 0.5) > 2e-2 {
		t.Errorf("Exponent = %v, want 0.5", f.Exponent)
	}
	if relErr(f.Offset, 5000) > 2e-2 {
		t.Errorf("Offset = %v, want 5000", f.Offset)
	}
	if f.RSquared < 0.9999 {
		t.Errorf("RSquared = %v, want about 1", f.RSquared)
	}
}

func TestPowerLawNoisyData(t *testing.T) {
	records := synth(t, 21000, 0.35, 0, 40)
	for i := range records {
		records[i].PeakMW *= 1 + 0.01*math.Sin(float64(i))
	}
	f, err := PowerLaw(records, Options{})
	if err != nil {
		t.Fatalf("PowerLaw: %v", err)
	}
	if relErr(f.Exponent, 0.35) > 5e-2 {
		t.Errorf("Exponent = %v, want near 0.35", f.Exponent)
	}
	if f.RSquared < 0.98 {
		t.Errorf("RSquared = %v, want > 0.98", f.RSquared)
	}
}

func TestPowerLawDegenerate(t *testing.T) {
	cases := []struct {
		name    string
		records []sweep.Record
	}{
		{"too few", []sweep.Record{{CapacityMWh: 100, PeakMW: 10}, {CapacityMWh: 200, PeakMW: 9}}},
		{"repeated capacity", []sweep.Record{
			{CapacityMWh: 100, PeakMW: 10}, {CapacityMWh: 100, PeakMW: 9},
			{CapacityMWh: 200, PeakMW: 8}, {CapacityMWh: 200, PeakMW: 7},
		}},
		{"flat peaks", []sweep.Record{
			{CapacityMWh: 100, PeakMW: 10}, {CapacityMWh: 200, PeakMW: 10}, {CapacityMWh: 400, PeakMW: 10},
		}},
		{"non-positive capacity", []sweep.Record{
			{CapacityMWh: 0, PeakMW: 10}, {CapacityMWh: 200, PeakMW: 9}, {CapacityMWh: 400, PeakMW: 8},
		}},
		{"non-positive peak", []sweep.Record{
			{CapacityMWh: 100, PeakMW: -1}, {CapacityMWh: 200, PeakMW: 9}, {CapacityMWh: 400, PeakMW: 8},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := PowerLaw(tc.records, Options{}); !errors.Is(err, ErrDegenerate) {
				t.Fatalf("error = %v, want ErrDegenerate", err)
			}
		})
	}
}

func TestPowerLawUnsortedInput(t *testing.T) {
	records := synth(t, 21000, 0.35, 0, 10)
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	f, err := PowerLaw(records, Options{})
	if err != nil {
		t.Fatalf("PowerLaw: %v", err)
	}
	if relErr(f.Exponent, 0.35) > 1e-4 {
		t.Errorf("Exponent = %v, want 0.35", f.Exponent)
	}
}

func TestFitEval(t *testing.T) {
	f := Fit{Scale: 1000, Exponent: 0.5, Offset: 20}
	if got := f.Eval(100); math.Abs(got-120) > 1e-12 {
		t.Errorf("Eval(100) = %v, want 120", got)
	}
}
